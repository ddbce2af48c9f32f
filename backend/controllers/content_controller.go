package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mundokids/backend/config"
	"mundokids/backend/models"
	"mundokids/backend/utils"
)

type ContentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewContentController(db *gorm.DB, cfg *config.Config) *ContentController {
	return &ContentController{DB: db, Cfg: cfg}
}

func orderedActivities(db *gorm.DB) *gorm.DB {
	return db.Order("sequence_order, id")
}

// ================= WORLDS =================

// CreateWorld opens a new topic container inside a classroom.
func (cc *ContentController) CreateWorld(c *fiber.Ctx) error {
	_, role, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if role != models.RoleTeacher {
		return utils.Forbidden(c, "Access denied")
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CoverURL    string `json:"cover_url"`
		ClassroomID uint   `json:"classroom_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" || input.CoverURL == "" || input.ClassroomID == 0 {
		return utils.BadRequest(c, "Name, cover_url and classroom_id are required")
	}

	world := models.World{
		Name:        input.Name,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		ClassroomID: input.ClassroomID,
	}
	if err := cc.DB.Create(&world).Error; err != nil {
		return utils.InternalServerError(c, "Could not create world")
	}

	return utils.Created(c, world)
}

// GetWorldsByClassroom lists a classroom's worlds with their activities.
func (cc *ContentController) GetWorldsByClassroom(c *fiber.Ctx) error {
	classroomID, err := strconv.Atoi(c.Params("aula_id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid classroom ID")
	}

	var worlds []models.World
	if err := cc.DB.Preload("Activities", orderedActivities).
		Where("classroom_id = ?", classroomID).Find(&worlds).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch worlds")
	}
	return utils.Success(c, fiber.StatusOK, worlds)
}

// GetWorldByID returns one world with its full activity list. This feeds the
// child-facing map and activity screens.
func (cc *ContentController) GetWorldByID(c *fiber.Ctx) error {
	worldID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid world ID")
	}

	var world models.World
	if err := cc.DB.Preload("Activities", orderedActivities).
		First(&world, worldID).Error; err != nil {
		return utils.NotFound(c, "World not found")
	}
	return utils.Success(c, fiber.StatusOK, world)
}

// UpdateWorld changes name, description or cover image.
func (cc *ContentController) UpdateWorld(c *fiber.Ctx) error {
	worldID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid world ID")
	}

	var world models.World
	if err := cc.DB.First(&world, worldID).Error; err != nil {
		return utils.NotFound(c, "World not found")
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CoverURL    string `json:"cover_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != "" {
		world.Name = input.Name
	}
	if input.Description != "" {
		world.Description = input.Description
	}
	if input.CoverURL != "" {
		world.CoverURL = input.CoverURL
	}

	if err := cc.DB.Save(&world).Error; err != nil {
		return utils.InternalServerError(c, "Could not update world")
	}

	return utils.Success(c, fiber.StatusOK, world)
}

// DeleteWorld removes a world together with its embedded activities.
// Completion records pointing at those activities stay behind; a missing
// activity id simply resolves to nothing later.
func (cc *ContentController) DeleteWorld(c *fiber.Ctx) error {
	worldID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid world ID")
	}

	var world models.World
	if err := cc.DB.First(&world, worldID).Error; err != nil {
		return utils.NotFound(c, "World not found")
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("world_id = ?", world.ID).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&world).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete world")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "World deleted successfully",
	})
}

// ================= ACTIVITIES =================

// AddActivity appends a video lesson to a world. XP reward defaults to 10 and
// difficulty to easy; the sequence order is the insertion order.
func (cc *ContentController) AddActivity(c *fiber.Ctx) error {
	worldID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid world ID")
	}

	var world models.World
	if err := cc.DB.First(&world, worldID).Error; err != nil {
		return utils.NotFound(c, "World not found")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"video_url"`
		PreviewURL  string `json:"preview_url"`
		XPReward    int    `json:"xp_reward"`
		Difficulty  string `json:"difficulty"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" || input.VideoURL == "" {
		return utils.BadRequest(c, "Title and video_url are required")
	}

	if input.XPReward <= 0 {
		input.XPReward = models.DefaultXPReward
	}
	if input.Difficulty == "" {
		input.Difficulty = models.DifficultyEasy
	}
	if !models.ValidDifficulty(input.Difficulty) {
		return utils.BadRequest(c, "Difficulty must be easy, medium or hard")
	}

	var count int64
	cc.DB.Model(&models.Activity{}).Where("world_id = ?", world.ID).Count(&count)

	activity := models.Activity{
		WorldID:       world.ID,
		Title:         input.Title,
		Description:   input.Description,
		VideoURL:      input.VideoURL,
		PreviewURL:    input.PreviewURL,
		XPReward:      input.XPReward,
		Difficulty:    input.Difficulty,
		SequenceOrder: int(count),
	}
	if err := cc.DB.Create(&activity).Error; err != nil {
		return utils.InternalServerError(c, "Could not add activity")
	}

	if err := cc.DB.Preload("Activities", orderedActivities).First(&world, world.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not reload world")
	}
	return utils.Created(c, world)
}

// UpdateActivity replaces the supplied fields on one activity of a world.
// Sibling activities are untouched.
func (cc *ContentController) UpdateActivity(c *fiber.Ctx) error {
	worldID, err := strconv.Atoi(c.Params("worldId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid world ID")
	}
	activityID, err := strconv.Atoi(c.Params("activityId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid activity ID")
	}

	var activity models.Activity
	if err := cc.DB.Where("id = ? AND world_id = ?", activityID, worldID).
		First(&activity).Error; err != nil {
		return utils.NotFound(c, "Activity not found in this world")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"video_url"`
		PreviewURL  string `json:"preview_url"`
		XPReward    *int   `json:"xp_reward"`
		Difficulty  string `json:"difficulty"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		activity.Title = input.Title
	}
	if input.Description != "" {
		activity.Description = input.Description
	}
	if input.VideoURL != "" {
		activity.VideoURL = input.VideoURL
	}
	if input.PreviewURL != "" {
		activity.PreviewURL = input.PreviewURL
	}
	if input.XPReward != nil && *input.XPReward > 0 {
		activity.XPReward = *input.XPReward
	}
	if input.Difficulty != "" {
		if !models.ValidDifficulty(input.Difficulty) {
			return utils.BadRequest(c, "Difficulty must be easy, medium or hard")
		}
		activity.Difficulty = input.Difficulty
	}

	if err := cc.DB.Save(&activity).Error; err != nil {
		return utils.InternalServerError(c, "Could not update activity")
	}

	return utils.Success(c, fiber.StatusOK, activity)
}

// DeleteActivity removes one activity from a world. Deleting an activity that
// is already gone is not an error.
func (cc *ContentController) DeleteActivity(c *fiber.Ctx) error {
	worldID, err := strconv.Atoi(c.Params("worldId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid world ID")
	}
	activityID, err := strconv.Atoi(c.Params("activityId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid activity ID")
	}

	var world models.World
	if err := cc.DB.First(&world, worldID).Error; err != nil {
		return utils.NotFound(c, "World not found")
	}

	if err := cc.DB.Where("id = ? AND world_id = ?", activityID, world.ID).
		Delete(&models.Activity{}).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete activity")
	}

	if err := cc.DB.Preload("Activities", orderedActivities).First(&world, world.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not reload world")
	}
	return utils.Success(c, fiber.StatusOK, world)
}

// ================= POSTS =================

// CreatePost publishes a classroom announcement with optional attachments.
func (cc *ContentController) CreatePost(c *fiber.Ctx) error {
	userID, role, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if role != models.RoleTeacher {
		return utils.Forbidden(c, "Access denied")
	}

	var input struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		Type        string `json:"type"`
		ClassroomID uint   `json:"classroom_id"`
		Attachments []struct {
			URL  string `json:"url"`
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"attachments"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" || input.Content == "" || input.ClassroomID == 0 {
		return utils.BadRequest(c, "Title, content and classroom_id are required")
	}

	if input.Type == "" {
		input.Type = models.PostTypeNotice
	}
	if !models.ValidPostType(input.Type) {
		return utils.BadRequest(c, "Invalid post type")
	}

	post := models.Post{
		Title:       input.Title,
		Content:     input.Content,
		Type:        input.Type,
		ClassroomID: input.ClassroomID,
		AuthorID:    userID,
	}
	for _, a := range input.Attachments {
		kind := a.Kind
		if kind == "" {
			kind = models.AttachmentImage
		}
		post.Attachments = append(post.Attachments, models.Attachment{
			URL:  a.URL,
			Kind: kind,
			Name: a.Name,
		})
	}

	if err := cc.DB.Create(&post).Error; err != nil {
		return utils.InternalServerError(c, "Could not create post")
	}

	return utils.Created(c, post)
}

// GetPostsByClassroom returns a classroom's feed, newest first, with the
// author's name and email and the classroom name expanded.
func (cc *ContentController) GetPostsByClassroom(c *fiber.Ctx) error {
	classroomID, err := strconv.Atoi(c.Params("aula_id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid classroom ID")
	}

	var classroom models.Classroom
	if err := cc.DB.First(&classroom, classroomID).Error; err != nil {
		return utils.NotFound(c, "Classroom not found")
	}

	var posts []models.Post
	if err := cc.DB.Preload("Attachments").
		Where("classroom_id = ?", classroom.ID).
		Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch posts")
	}

	authors := map[uint]models.User{}
	feed := make([]fiber.Map, 0, len(posts))
	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			cc.DB.First(&author, post.AuthorID)
			authors[post.AuthorID] = author
		}
		feed = append(feed, fiber.Map{
			"id":             post.ID,
			"title":          post.Title,
			"content":        post.Content,
			"type":           post.Type,
			"attachments":    post.Attachments,
			"classroom_id":   post.ClassroomID,
			"classroom_name": classroom.Name,
			"author_id":      post.AuthorID,
			"author_name":    author.Name,
			"author_email":   author.Email,
			"published_at":   post.CreatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, feed)
}

// UpdatePost edits an announcement. Only the authoring teacher may do so.
func (cc *ContentController) UpdatePost(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	postID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid post ID")
	}

	var post models.Post
	if err := cc.DB.First(&post, postID).Error; err != nil {
		return utils.NotFound(c, "Post not found")
	}
	if post.AuthorID != userID {
		return utils.Forbidden(c, "Not the author of this post")
	}

	var input struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.Type != "" {
		if !models.ValidPostType(input.Type) {
			return utils.BadRequest(c, "Invalid post type")
		}
		post.Type = input.Type
	}

	if err := cc.DB.Save(&post).Error; err != nil {
		return utils.InternalServerError(c, "Could not update post")
	}

	return utils.Success(c, fiber.StatusOK, post)
}

// DeletePost removes an announcement and its attachments.
func (cc *ContentController) DeletePost(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	postID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid post ID")
	}

	var post models.Post
	if err := cc.DB.First(&post, postID).Error; err != nil {
		return utils.NotFound(c, "Post not found")
	}
	if post.AuthorID != userID {
		return utils.Forbidden(c, "Not the author of this post")
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete post")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Post deleted successfully",
	})
}
