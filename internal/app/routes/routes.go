package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/oguzk/schoolatlas/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	schoolController *controllers.SchoolController,
	studentController *controllers.StudentController,
	achievementController *controllers.AchievementController,
	searchController *controllers.SearchController,
) {
	// School routes
	schools := router.Group("/schools")
	{
		schools.GET("", schoolController.GetAllSchools)
		schools.POST("", schoolController.CreateSchool)
		schools.GET("/:id", schoolController.GetSchoolDetail)
		schools.POST("/:id/detect-website", schoolController.DetectWebsite)
	}

	// Student routes
	students := router.Group("/students")
	{
		students.GET("/:id", studentController.GetStudentDetail)
		students.POST("", studentController.CreateStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.GET("/:id/achievements", achievementController.ListStudentAchievements)
		students.POST("/:id/achievements", achievementController.CreateStudentAchievement)
	}

	// Achievement routes
	router.DELETE("/achievements/:id", achievementController.DeleteAchievement)

	// Search
	router.GET("/search", searchController.Search)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
