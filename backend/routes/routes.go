package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mundokids/backend/config"
	"mundokids/backend/controllers"
	"mundokids/backend/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Get("/api/auth/profile", authMiddleware, authController.GetProfile)
	app.Put("/api/auth/profile", authMiddleware, authController.UpdateProfile)
	app.Delete("/api/auth/profile", authMiddleware, authController.DeleteAccount)

	// Classroom routes
	classroomController := controllers.NewClassroomController(db, cfg)
	classrooms := app.Group("/api/classrooms", authMiddleware)
	classrooms.Post("/", classroomController.CreateClassroom)
	classrooms.Post("/join", classroomController.FindByCode)
	classrooms.Get("/my-classrooms", classroomController.GetMyClassrooms)
	classrooms.Put("/:id", classroomController.UpdateClassroom)
	classrooms.Delete("/:id", classroomController.DeleteClassroom)

	// Content routes (worlds, activities, posts)
	contentController := controllers.NewContentController(db, cfg)
	content := app.Group("/api/content", authMiddleware)
	content.Post("/worlds", contentController.CreateWorld)
	content.Get("/worlds/classroom/:aula_id", contentController.GetWorldsByClassroom)
	content.Get("/worlds/:id", contentController.GetWorldByID)
	content.Put("/worlds/:id", contentController.UpdateWorld)
	content.Delete("/worlds/:id", contentController.DeleteWorld)
	content.Post("/worlds/:id/activity", contentController.AddActivity)
	content.Put("/worlds/:worldId/activity/:activityId", contentController.UpdateActivity)
	content.Delete("/worlds/:worldId/activity/:activityId", contentController.DeleteActivity)
	content.Post("/posts", contentController.CreatePost)
	content.Get("/posts/classroom/:aula_id", contentController.GetPostsByClassroom)
	content.Put("/posts/:id", contentController.UpdatePost)
	content.Delete("/posts/:id", contentController.DeletePost)

	// Student routes
	studentController := controllers.NewStudentController(db, cfg)
	students := app.Group("/api/students", authMiddleware)
	students.Post("/", studentController.CreateStudent)
	students.Get("/my-children", studentController.GetMyChildren)
	students.Post("/:studentId/complete", studentController.MarkActivityComplete)
	students.Get("/classroom/:aulaId", studentController.GetStudentsByClassroom)
	students.Put("/:id", studentController.UpdateStudent)
	students.Delete("/:id", studentController.DeleteStudent)
}
