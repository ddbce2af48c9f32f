package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mundokids/backend/config"
	"mundokids/backend/models"
	"mundokids/backend/utils"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

// userResponse is the shape returned by register, login and profile update:
// the public profile fields plus a freshly signed token.
func (ac *AuthController) userResponse(user *models.User) (fiber.Map, error) {
	token, err := utils.GenerateToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"photo_url": user.PhotoURL,
		"token":     token,
	}, nil
}

// Register creates a teacher or parent account. Duplicate emails are a
// business-rule violation (400), not a server error.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Name, email and password are required")
	}

	if input.Role == "" {
		input.Role = models.RoleParent
	}
	if !models.ValidRole(input.Role) {
		return utils.BadRequest(c, "Role must be teacher or parent")
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "User already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		PhotoURL:     models.DefaultPhotoURL,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	resp, err := ac.userResponse(&user)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.Created(c, resp)
}

// Login authenticates by email and password.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid email or password")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	resp, err := ac.userResponse(&user)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.Success(c, fiber.StatusOK, resp)
}

// GetProfile returns the authenticated user's profile.
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"photo_url":  user.PhotoURL,
		"created_at": user.CreatedAt,
	})
}

// UpdateProfile changes name, email or photo when provided, and re-hashes the
// password only when a new one is supplied. A fresh token is returned so the
// client can replace the stored one.
func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		PhotoURL string `json:"photo_url"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Email != "" && input.Email != user.Email {
		var existing models.User
		if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil && existing.ID != user.ID {
			return utils.BadRequest(c, "Email already taken")
		}
		user.Email = input.Email
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.PhotoURL != "" {
		user.PhotoURL = input.PhotoURL
	}
	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	resp, err := ac.userResponse(&user)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.Success(c, fiber.StatusOK, resp)
}

// DeleteAccount removes the user and everything that depends on it, in one
// transaction. A teacher takes their classrooms, worlds and posts along but
// only unlinks the enrolled students; a parent takes their students and the
// students' completion records.
func (ac *AuthController) DeleteAccount(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		switch user.Role {
		case models.RoleTeacher:
			if err := deleteTeacherData(tx, user.ID); err != nil {
				return err
			}
		case models.RoleParent:
			if err := deleteParentData(tx, user.ID); err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete account")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Account deleted successfully",
	})
}

func deleteTeacherData(tx *gorm.DB, teacherID uint) error {
	var classroomIDs []uint
	if err := tx.Model(&models.Classroom{}).Where("teacher_id = ?", teacherID).
		Pluck("id", &classroomIDs).Error; err != nil {
		return err
	}
	if len(classroomIDs) == 0 {
		return nil
	}

	var worldIDs []uint
	if err := tx.Model(&models.World{}).Where("classroom_id IN ?", classroomIDs).
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
	if err := tx.Model(&models.Post{}).Where("classroom_id IN ?", classroomIDs).
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

	// Students belong to their parents: unlink them from the vanished
	// classrooms instead of deleting them.
	if err := tx.Model(&models.Student{}).Where("classroom_id IN ?", classroomIDs).
		Update("classroom_id", nil).Error; err != nil {
		return err
	}

	return tx.Where("id IN ?", classroomIDs).Delete(&models.Classroom{}).Error
}

func deleteParentData(tx *gorm.DB, parentID uint) error {
	var studentIDs []uint
	if err := tx.Model(&models.Student{}).Where("parent_id = ?", parentID).
		Pluck("id", &studentIDs).Error; err != nil {
		return err
	}
	if len(studentIDs) == 0 {
		return nil
	}

	if err := tx.Where("student_id IN ?", studentIDs).Delete(&models.CompletedActivity{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", studentIDs).Delete(&models.Student{}).Error
}
