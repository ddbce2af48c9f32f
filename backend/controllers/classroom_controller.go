package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mundokids/backend/config"
	"mundokids/backend/models"
	"mundokids/backend/utils"
)

type ClassroomController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewClassroomController(db *gorm.DB, cfg *config.Config) *ClassroomController {
	return &ClassroomController{DB: db, Cfg: cfg}
}

// uniqueAccessCode draws codes until one is free. With 36^6 possible codes a
// collision is already rare; two in a row practically never happens.
func (cc *ClassroomController) uniqueAccessCode() (string, error) {
	for {
		code := utils.GenerateAccessCode()
		var count int64
		if err := cc.DB.Model(&models.Classroom{}).
			Where("access_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}

// CreateClassroom lets a teacher open a classroom with a fresh access code.
func (cc *ClassroomController) CreateClassroom(c *fiber.Ctx) error {
	userID, role, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if role != models.RoleTeacher {
		return utils.Forbidden(c, "Only teachers can create classrooms")
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}

	code, err := cc.uniqueAccessCode()
	if err != nil {
		return utils.InternalServerError(c, "Could not generate access code")
	}

	classroom := models.Classroom{
		Name:       input.Name,
		AccessCode: code,
		TeacherID:  userID,
	}
	if err := cc.DB.Create(&classroom).Error; err != nil {
		return utils.InternalServerError(c, "Could not create classroom")
	}

	return utils.Created(c, classroom)
}

// FindByCode resolves an access code for a joining parent. The payload is
// deliberately minimal: the parent confirms the classroom before a student
// record is created.
func (cc *ClassroomController) FindByCode(c *fiber.Ctx) error {
	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var classroom models.Classroom
	err := cc.DB.Where("access_code = ?", strings.ToUpper(input.Code)).First(&classroom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Invalid classroom code")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         classroom.ID,
		"name":       classroom.Name,
		"teacher_id": classroom.TeacherID,
	})
}

// GetMyClassrooms lists the caller's classrooms with enrolled student
// summaries for the teacher dashboard.
func (cc *ClassroomController) GetMyClassrooms(c *fiber.Ctx) error {
	userID, role, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if role != models.RoleTeacher {
		return utils.Forbidden(c, "Access denied")
	}

	var classrooms []models.Classroom
	if err := cc.DB.Preload("Students.CompletedActivities").
		Where("teacher_id = ?", userID).Find(&classrooms).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch classrooms")
	}

	return utils.Success(c, fiber.StatusOK, classrooms)
}

// UpdateClassroom renames a classroom. Only its owner may touch it.
func (cc *ClassroomController) UpdateClassroom(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	classroomID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid classroom ID")
	}

	var classroom models.Classroom
	if err := cc.DB.First(&classroom, classroomID).Error; err != nil {
		return utils.NotFound(c, "Classroom not found")
	}
	if classroom.TeacherID != userID {
		return utils.Forbidden(c, "Not the owner of this classroom")
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name != "" {
		classroom.Name = input.Name
	}

	if err := cc.DB.Save(&classroom).Error; err != nil {
		return utils.InternalServerError(c, "Could not update classroom")
	}

	return utils.Success(c, fiber.StatusOK, classroom)
}

// DeleteClassroom removes a classroom and everything scoped to it: students
// with their completion records, worlds with their activities, and posts with
// their attachments. The whole cascade runs in one transaction.
func (cc *ClassroomController) DeleteClassroom(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	classroomID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid classroom ID")
	}

	var classroom models.Classroom
	if err := cc.DB.First(&classroom, classroomID).Error; err != nil {
		return utils.NotFound(c, "Classroom not found")
	}
	if classroom.TeacherID != userID {
		return utils.Forbidden(c, "Not the owner of this classroom")
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		var studentIDs []uint
		if err := tx.Model(&models.Student{}).Where("classroom_id = ?", classroom.ID).
			Pluck("id", &studentIDs).Error; err != nil {
			return err
		}
		if len(studentIDs) > 0 {
			if err := tx.Where("student_id IN ?", studentIDs).Delete(&models.CompletedActivity{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", studentIDs).Delete(&models.Student{}).Error; err != nil {
				return err
			}
		}

		var worldIDs []uint
		if err := tx.Model(&models.World{}).Where("classroom_id = ?", classroom.ID).
			Pluck("id", &worldIDs).Error; err != nil {
			return err
		}
		if len(worldIDs) > 0 {
			if err := tx.Where("world_id IN ?", worldIDs).Delete(&models.Activity{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", worldIDs).Delete(&models.World{}).Error; err != nil {
				return err
			}
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("classroom_id = ?", classroom.ID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Attachment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&classroom).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete classroom")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Classroom and all its data deleted successfully",
	})
}
