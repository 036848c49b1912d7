package http

import (
	"github.com/gin-gonic/gin"
)

func InitRouter(handler *Handler) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	// Public routes
	courses := api.Group("/courses")
	{
		courses.GET("/published", handler.GetPublishedCourses)
		courses.GET("/:id", handler.GetCourse)
		courses.GET("/:id/curriculum", handler.GetCurriculum) // sanitized: no auth, no authoring rights
		courses.GET("/:id/rating", handler.GetCourseRating)
	}

	// Student routes
	student := api.Group("/courses")
	student.Use(AuthMiddleware())
	{
		student.POST("/:id/enroll", handler.Enroll)
		student.GET("/student/enrolled", handler.GetStudentEnrollments)
		student.GET("/:id/progress", handler.GetProgress)
		student.POST("/:id/chapters/:chapterId/complete", handler.CompleteChapter)
		student.POST("/:id/chapters/:chapterId/quiz/submit", handler.SubmitQuiz)
		student.GET("/:id/chapters/:chapterId/quiz/attempt", handler.GetQuizAttempt)
		student.POST("/:id/rating", handler.RateCourse)
	}

	// Authoring routes
	instructor := api.Group("/instructor")
	instructor.Use(AuthMiddleware("instructor", "tenant_admin", "super_admin"))
	{
		instructor.GET("/courses", handler.GetInstructorCourses)
		instructor.POST("/courses", handler.CreateCourse)
		instructor.PUT("/courses/:id", handler.UpdateCourse)
		instructor.PUT("/courses/:id/publish", handler.TogglePublish)
		instructor.GET("/courses/:id/curriculum", handler.GetCurriculum) // unsanitized for authoring
		instructor.POST("/courses/:id/sections", handler.CreateSection)
		instructor.POST("/courses/:id/sections/:sectionId/chapters", handler.AddChapter)
		instructor.PUT("/courses/:id/sections/:sectionId/chapters/:chapterId", handler.UpdateChapter)
		instructor.DELETE("/courses/:id/sections/:sectionId/chapters/:chapterId", handler.DeleteChapter)
	}

	// Asset routes
	files := api.Group("/files")
	{
		files.GET("/:id", handler.Files.StreamFile)

		protected := files.Group("/")
		protected.Use(AuthMiddleware("instructor", "tenant_admin", "super_admin"))
		{
			protected.POST("/upload", handler.Files.UploadFile)
			protected.DELETE("/:id", handler.Files.DeleteFile)
		}
	}

	return r
}
