package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mundokids/backend/config"
	"mundokids/backend/models"
	"mundokids/backend/utils"
)

type StudentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewStudentController(db *gorm.DB, cfg *config.Config) *StudentController {
	return &StudentController{DB: db, Cfg: cfg}
}

// CreateStudent registers a child under the calling parent, enrolled in the
// classroom the parent just resolved by access code. Enrollment is a single
// row insert: the classroom link is a foreign key, so there is no second
// write that could be lost.
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name        string `json:"name"`
		Age         int    `json:"age"`
		Gender      string `json:"gender"`
		ClassroomID uint   `json:"classroom_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" || input.ClassroomID == 0 {
		return utils.BadRequest(c, "Name and classroom_id are required")
	}

	var classroom models.Classroom
	if err := sc.DB.First(&classroom, input.ClassroomID).Error; err != nil {
		return utils.NotFound(c, "Classroom not found")
	}

	student := models.Student{
		Name:        input.Name,
		Age:         input.Age,
		Gender:      input.Gender,
		ParentID:    userID,
		ClassroomID: &classroom.ID,
	}
	if err := sc.DB.Create(&student).Error; err != nil {
		return utils.InternalServerError(c, "Could not create student")
	}

	return utils.Created(c, student)
}

// GetMyChildren lists the caller's students with the classroom name expanded.
func (sc *StudentController) GetMyChildren(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var students []models.Student
	if err := sc.DB.Preload("CompletedActivities").
		Where("parent_id = ?", userID).Find(&students).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch students")
	}

	classrooms := map[uint]string{}
	children := make([]fiber.Map, 0, len(students))
	for _, student := range students {
		classroomName := ""
		if student.ClassroomID != nil {
			name, ok := classrooms[*student.ClassroomID]
			if !ok {
				var classroom models.Classroom
				if err := sc.DB.First(&classroom, *student.ClassroomID).Error; err == nil {
					name = classroom.Name
				}
				classrooms[*student.ClassroomID] = name
			}
			classroomName = name
		}
		children = append(children, fiber.Map{
			"id":                   student.ID,
			"name":                 student.Name,
			"age":                  student.Age,
			"gender":               student.Gender,
			"classroom_id":         student.ClassroomID,
			"classroom_name":       classroomName,
			"xp":                   student.XP,
			"completed_activities": student.CompletedActivities,
		})
	}

	return utils.Success(c, fiber.StatusOK, children)
}

// MarkActivityComplete records a finished activity and awards its XP exactly
// once. A repeated submission for the same (student, activity) pair is a
// no-op that reports already_completed with the XP unchanged — this is what
// keeps repeated video replays from farming XP.
func (sc *StudentController) MarkActivityComplete(c *fiber.Ctx) error {
	var input struct {
		ActivityID uint `json:"activity_id"`
		WorldID    uint `json:"world_id"`
		XPReward   int  `json:"xp_reward"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.ActivityID == 0 {
		return utils.BadRequest(c, "activity_id is required")
	}

	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid student ID")
	}

	var student models.Student
	if err := sc.DB.First(&student, studentID).Error; err != nil {
		return utils.NotFound(c, "Student not found")
	}

	reward := input.XPReward
	if reward <= 0 {
		reward = models.DefaultXPReward
	}

	alreadyCompleted := false
	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CompletedActivity{}).
			Where("student_id = ? AND activity_id = ?", student.ID, input.ActivityID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			alreadyCompleted = true
			return nil
		}

		completion := models.CompletedActivity{
			StudentID:   student.ID,
			ActivityID:  input.ActivityID,
			WorldID:     input.WorldID,
			CompletedAt: time.Now(),
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}

		student.XP += reward
		return tx.Model(&student).Update("xp", student.XP).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not record completion")
	}

	if alreadyCompleted {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"message":           "Activity already completed",
			"already_completed": true,
			"xp":                student.XP,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":           "Activity completed",
		"already_completed": false,
		"xp":                student.XP,
	})
}

// UpdateStudent edits a child's basic data. Only the owning parent may.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	studentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid student ID")
	}

	var student models.Student
	if err := sc.DB.First(&student, studentID).Error; err != nil {
		return utils.NotFound(c, "Student not found")
	}
	if student.ParentID != userID {
		return utils.Forbidden(c, "Not the parent of this student")
	}

	var input struct {
		Name   string `json:"name"`
		Age    int    `json:"age"`
		Gender string `json:"gender"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != "" {
		student.Name = input.Name
	}
	if input.Age > 0 {
		student.Age = input.Age
	}
	if input.Gender != "" {
		student.Gender = input.Gender
	}

	if err := sc.DB.Save(&student).Error; err != nil {
		return utils.InternalServerError(c, "Could not update student")
	}

	return utils.Success(c, fiber.StatusOK, student)
}

// DeleteStudent removes a child profile and its completion records. The
// classroom link is a foreign key on the student row, so deletion removes the
// enrollment too.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	studentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid student ID")
	}

	var student models.Student
	if err := sc.DB.First(&student, studentID).Error; err != nil {
		return utils.NotFound(c, "Student not found")
	}
	if student.ParentID != userID {
		return utils.Forbidden(c, "Not the parent of this student")
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.CompletedActivity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete student")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Student deleted successfully",
	})
}

// GetStudentsByClassroom is the teacher's roster view, sorted by XP so it
// doubles as the ranking.
func (sc *StudentController) GetStudentsByClassroom(c *fiber.Ctx) error {
	classroomID, err := strconv.Atoi(c.Params("aulaId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid classroom ID")
	}

	var classroom models.Classroom
	if err := sc.DB.First(&classroom, classroomID).Error; err != nil {
		return utils.NotFound(c, "Classroom not found")
	}

	var students []models.Student
	if err := sc.DB.Preload("CompletedActivities").
		Where("classroom_id = ?", classroom.ID).
		Order("xp DESC").Find(&students).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch students")
	}

	return utils.Success(c, fiber.StatusOK, students)
}
