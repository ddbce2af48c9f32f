package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mundokids/backend/models"
)

func TestCreateWorldRequiresTeacher(t *testing.T) {
	_, parentToken := registerUser(t, models.RoleParent)
	resp := doRequest(t, "POST", "/api/content/worlds", parentToken, map[string]interface{}{
		"name":         "Nope",
		"cover_url":    "https://example.com/x.png",
		"classroom_id": 1,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAddActivityDefaults(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)
	classroom := createClassroom(t, teacherToken, "Kinder E")
	world := createWorld(t, teacherToken, "Shapes", classroom.ID)

	activity := addActivity(t, teacherToken, world.ID, map[string]interface{}{
		"title":     "Circles",
		"video_url": "https://youtu.be/circles",
	})
	assert.Equal(t, models.DefaultXPReward, activity.XPReward)
	assert.Equal(t, models.DifficultyEasy, activity.Difficulty)
	assert.Equal(t, 0, activity.SequenceOrder)

	second := addActivity(t, teacherToken, world.ID, map[string]interface{}{
		"title":      "Squares",
		"video_url":  "https://youtu.be/squares",
		"xp_reward":  25,
		"difficulty": models.DifficultyHard,
	})
	assert.Equal(t, 25, second.XPReward)
	assert.Equal(t, models.DifficultyHard, second.Difficulty)
	assert.Equal(t, 1, second.SequenceOrder)

	resp := doRequest(t, "POST", "/api/content/worlds/999999/activity", teacherToken,
		map[string]interface{}{"title": "Ghost", "video_url": "https://youtu.be/x"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetWorldWithActivities(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)
	classroom := createClassroom(t, teacherToken, "Kinder F")
	world := createWorld(t, teacherToken, "Ocean", classroom.ID)
	addActivity(t, teacherToken, world.ID, map[string]interface{}{
		"title":     "Fish",
		"video_url": "https://youtu.be/fish",
	})

	resp := doRequest(t, "GET", "/api/content/worlds/"+itoa(world.ID), teacherToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := dataOf(t, resp)
	activities := data["activities"].([]interface{})
	require.Len(t, activities, 1)
	assert.Equal(t, "Fish", activities[0].(map[string]interface{})["title"])

	resp = doRequest(t, "GET", "/api/content/worlds/999999", teacherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/content/worlds/classroom/"+itoa(classroom.ID), teacherToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, listOf(t, resp), 1)
}

func TestUpdateActivityLeavesSiblingsAlone(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)
	classroom := createClassroom(t, teacherToken, "Kinder G")
	world := createWorld(t, teacherToken, "Space", classroom.ID)

	first := addActivity(t, teacherToken, world.ID, map[string]interface{}{
		"title":     "Sun",
		"video_url": "https://youtu.be/sun",
	})
	second := addActivity(t, teacherToken, world.ID, map[string]interface{}{
		"title":     "Moon",
		"video_url": "https://youtu.be/moon",
	})

	path := "/api/content/worlds/" + itoa(world.ID) + "/activity/" + itoa(first.ID)
	resp := doRequest(t, "PUT", path, teacherToken, map[string]string{
		"difficulty": models.DifficultyMedium,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.DifficultyMedium, dataOf(t, resp)["difficulty"])

	var updated, sibling models.Activity
	require.NoError(t, db.First(&updated, first.ID).Error)
	require.NoError(t, db.First(&sibling, second.ID).Error)
	assert.Equal(t, models.DifficultyMedium, updated.Difficulty)
	assert.Equal(t, "Sun", updated.Title)
	assert.Equal(t, models.DifficultyEasy, sibling.Difficulty)
	assert.Equal(t, "Moon", sibling.Title)

	// Wrong world id does not resolve the activity.
	otherWorld := createWorld(t, teacherToken, "Other", classroom.ID)
	wrongPath := "/api/content/worlds/" + itoa(otherWorld.ID) + "/activity/" + itoa(first.ID)
	resp = doRequest(t, "PUT", wrongPath, teacherToken, map[string]string{"title": "X"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteActivityIsIdempotent(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)
	classroom := createClassroom(t, teacherToken, "Kinder H")
	world := createWorld(t, teacherToken, "Jungle", classroom.ID)
	activity := addActivity(t, teacherToken, world.ID, map[string]interface{}{
		"title":     "Tiger",
		"video_url": "https://youtu.be/tiger",
	})

	path := "/api/content/worlds/" + itoa(world.ID) + "/activity/" + itoa(activity.ID)
	resp := doRequest(t, "DELETE", path, teacherToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Second delete of the same activity is still fine.
	resp = doRequest(t, "DELETE", path, teacherToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Activity{}).Where("world_id = ?", world.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPostsFeed(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)
	_, parentToken := registerUser(t, models.RoleParent)
	classroom := createClassroom(t, teacherToken, "Kinder I")

	// Parents cannot publish.
	resp := doRequest(t, "POST", "/api/content/posts", parentToken, map[string]interface{}{
		"title":        "Hi",
		"content":      "text",
		"classroom_id": classroom.ID,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "POST", "/api/content/posts", teacherToken, map[string]interface{}{
		"title":        "First",
		"content":      "older",
		"classroom_id": classroom.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, "POST", "/api/content/posts", teacherToken, map[string]interface{}{
		"title":        "Second",
		"content":      "newer",
		"type":         models.PostTypeTip,
		"classroom_id": classroom.ID,
		"attachments": []map[string]string{
			{"url": "https://example.com/pic.png", "kind": "image", "name": "picture"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/content/posts/classroom/"+itoa(classroom.ID), parentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	feed := listOf(t, resp)
	require.Len(t, feed, 2)

	newest := feed[0].(map[string]interface{})
	assert.Equal(t, "Second", newest["title"])
	assert.Equal(t, models.PostTypeTip, newest["type"])
	assert.Equal(t, "Kinder I", newest["classroom_name"])
	assert.NotEmpty(t, newest["author_name"])
	assert.NotEmpty(t, newest["author_email"])
	require.Len(t, newest["attachments"].([]interface{}), 1)

	assert.Equal(t, "First", feed[1].(map[string]interface{})["title"])
}

func TestPostAuthorOnlyEdits(t *testing.T) {
	_, authorToken := registerUser(t, models.RoleTeacher)
	_, otherToken := registerUser(t, models.RoleTeacher)
	classroom := createClassroom(t, authorToken, "Kinder J")

	resp := doRequest(t, "POST", "/api/content/posts", authorToken, map[string]interface{}{
		"title":        "Mine",
		"content":      "hands off",
		"classroom_id": classroom.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	postID := itoa(uint(dataOf(t, resp)["id"].(float64)))

	resp = doRequest(t, "PUT", "/api/content/posts/"+postID, otherToken,
		map[string]string{"title": "Stolen"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "DELETE", "/api/content/posts/"+postID, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "PUT", "/api/content/posts/"+postID, authorToken,
		map[string]string{"title": "Edited"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Edited", dataOf(t, resp)["title"])

	resp = doRequest(t, "DELETE", "/api/content/posts/"+postID, authorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteWorldRemovesActivities(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)
	classroom := createClassroom(t, teacherToken, "Kinder K")
	world := createWorld(t, teacherToken, "Farm", classroom.ID)
	addActivity(t, teacherToken, world.ID, map[string]interface{}{
		"title":     "Cow",
		"video_url": "https://youtu.be/cow",
	})

	resp := doRequest(t, "DELETE", "/api/content/worlds/"+itoa(world.ID), teacherToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Activity{}).Where("world_id = ?", world.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.World{}).Where("id = ?", world.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
