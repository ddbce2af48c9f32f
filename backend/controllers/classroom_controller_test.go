package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mundokids/backend/models"
)

func TestParentCannotCreateClassroom(t *testing.T) {
	_, parentToken := registerUser(t, models.RoleParent)

	var before int64
	db.Model(&models.Classroom{}).Count(&before)

	resp := doRequest(t, "POST", "/api/classrooms", parentToken, map[string]string{"name": "Nope"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var after int64
	db.Model(&models.Classroom{}).Count(&after)
	assert.Equal(t, before, after)
}

func TestAccessCodesAreUnique(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)

	codes := map[string]bool{}
	for i := 0; i < 5; i++ {
		classroom := createClassroom(t, teacherToken, "Room")
		assert.Len(t, classroom.AccessCode, 6)
		assert.False(t, codes[classroom.AccessCode], "duplicate access code %s", classroom.AccessCode)
		codes[classroom.AccessCode] = true
	}
}

func TestFindByCode(t *testing.T) {
	teacherID, teacherToken := registerUser(t, models.RoleTeacher)
	_, parentToken := registerUser(t, models.RoleParent)
	classroom := createClassroom(t, teacherToken, "Kinder C")

	resp := doRequest(t, "POST", "/api/classrooms/join", parentToken,
		map[string]string{"code": classroom.AccessCode})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := dataOf(t, resp)
	assert.Equal(t, float64(classroom.ID), data["id"])
	assert.Equal(t, "Kinder C", data["name"])
	assert.Equal(t, float64(teacherID), data["teacher_id"])
	// Minimal payload only: no access code or roster leaks to the parent.
	assert.NotContains(t, data, "access_code")
	assert.NotContains(t, data, "students")
}

func TestFindByUnknownCodeCreatesNothing(t *testing.T) {
	_, parentToken := registerUser(t, models.RoleParent)

	var before int64
	db.Model(&models.Student{}).Count(&before)

	resp := doRequest(t, "POST", "/api/classrooms/join", parentToken,
		map[string]string{"code": "ZZZZZZ"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var after int64
	db.Model(&models.Student{}).Count(&after)
	assert.Equal(t, before, after)
}

func TestGetMyClassroomsRequiresTeacher(t *testing.T) {
	_, parentToken := registerUser(t, models.RoleParent)
	resp := doRequest(t, "GET", "/api/classrooms/my-classrooms", parentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGetMyClassroomsWithStudents(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)
	_, parentToken := registerUser(t, models.RoleParent)

	classroom := createClassroom(t, teacherToken, "Kinder D")
	createStudent(t, parentToken, "Sofia", classroom.ID)

	resp := doRequest(t, "GET", "/api/classrooms/my-classrooms", teacherToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := listOf(t, resp)
	require.Len(t, list, 1)

	room := list[0].(map[string]interface{})
	students := room["students"].([]interface{})
	require.Len(t, students, 1)
	assert.Equal(t, "Sofia", students[0].(map[string]interface{})["name"])
}

func TestUpdateClassroomOwnership(t *testing.T) {
	_, ownerToken := registerUser(t, models.RoleTeacher)
	_, otherToken := registerUser(t, models.RoleTeacher)
	classroom := createClassroom(t, ownerToken, "Original")

	resp := doRequest(t, "PUT", "/api/classrooms/"+itoa(classroom.ID), otherToken,
		map[string]string{"name": "Hijacked"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "PUT", "/api/classrooms/"+itoa(classroom.ID), ownerToken,
		map[string]string{"name": "Renamed"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", dataOf(t, resp)["name"])

	resp = doRequest(t, "PUT", "/api/classrooms/999999", ownerToken,
		map[string]string{"name": "Ghost"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteClassroomCascades(t *testing.T) {
	_, teacherToken := registerUser(t, models.RoleTeacher)
	_, parentToken := registerUser(t, models.RoleParent)

	classroom := createClassroom(t, teacherToken, "Doomed")
	createStudent(t, parentToken, "Kid One", classroom.ID)
	createStudent(t, parentToken, "Kid Two", classroom.ID)
	world := createWorld(t, teacherToken, "Colors", classroom.ID)
	addActivity(t, teacherToken, world.ID, map[string]interface{}{
		"title":     "Red",
		"video_url": "https://youtu.be/red",
	})
	resp := doRequest(t, "POST", "/api/content/posts", teacherToken, map[string]interface{}{
		"title":        "Bye",
		"content":      "Closing down",
		"classroom_id": classroom.ID,
		"attachments": []map[string]string{
			{"url": "https://example.com/a.pdf", "kind": "file", "name": "schedule"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// A stranger cannot delete it.
	_, otherToken := registerUser(t, models.RoleTeacher)
	resp = doRequest(t, "DELETE", "/api/classrooms/"+itoa(classroom.ID), otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "DELETE", "/api/classrooms/"+itoa(classroom.ID), teacherToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Student{}).Where("classroom_id = ?", classroom.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.World{}).Where("classroom_id = ?", classroom.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.Post{}).Where("classroom_id = ?", classroom.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.Activity{}).Where("world_id = ?", world.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
