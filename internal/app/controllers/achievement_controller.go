package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oguzk/schoolatlas/internal/app/models/dto"
	"github.com/oguzk/schoolatlas/internal/app/services"
	"github.com/oguzk/schoolatlas/internal/middleware"
)

// AchievementController handles achievement-related operations
type AchievementController struct {
	achievementService services.AchievementService
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService services.AchievementService) *AchievementController {
	return &AchievementController{
		achievementService: achievementService,
	}
}

// ListStudentAchievements retrieves a student's achievements
// @Summary List a student's achievements
// @Tags achievements
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {array} dto.AchievementResponse "Achievements retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/achievements [get]
func (c *AchievementController) ListStudentAchievements(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id", "Student ID")
	if !ok {
		return
	}

	achievements, err := c.achievementService.ListByStudent(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, achievements)
}

// CreateStudentAchievement records a new achievement for a student
// @Summary Create an achievement
// @Tags achievements
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.CreateAchievementRequest true "Achievement"
// @Success 201 {object} dto.AchievementResponse "Achievement created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid achievement data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/achievements [post]
func (c *AchievementController) CreateStudentAchievement(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id", "Student ID")
	if !ok {
		return
	}

	var req dto.CreateAchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid achievement data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	achievement, err := c.achievementService.CreateForStudent(ctx, studentID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, achievement)
}

// DeleteAchievement removes one achievement
// @Summary Delete an achievement
// @Tags achievements
// @Produce json
// @Param id path int true "Achievement ID"
// @Success 200 {object} dto.MessageResponse "Achievement deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /achievements/{id} [delete]
func (c *AchievementController) DeleteAchievement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Achievement ID")
	if !ok {
		return
	}

	if err := c.achievementService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Achievement deleted successfully"})
}
