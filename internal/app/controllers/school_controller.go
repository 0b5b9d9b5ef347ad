package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oguzk/schoolatlas/internal/app/models/dto"
	"github.com/oguzk/schoolatlas/internal/app/services"
	"github.com/oguzk/schoolatlas/internal/middleware"
)

// SchoolController handles school-related operations
type SchoolController struct {
	schoolService services.SchoolService
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(schoolService services.SchoolService) *SchoolController {
	return &SchoolController{
		schoolService: schoolService,
	}
}

// CreateSchool handles school creation
// @Summary Create a school
// @Description Creates a school, or returns the existing id when a school with the same name already exists
// @Tags schools
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "School name"
// @Param type formData string true "School type (highschool or university)"
// @Param latitude formData number false "Latitude"
// @Param longitude formData number false "Longitude"
// @Param state formData string false "State label"
// @Success 201 {object} dto.IDResponse "School created or already present"
// @Failure 400 {object} dto.ErrorResponse "Invalid school data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /schools [post]
func (c *SchoolController) CreateSchool(ctx *gin.Context) {
	var req dto.CreateSchoolRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid school data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	id, err := c.schoolService.CreateSchool(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.IDResponse{ID: id})
}

// GetAllSchools retrieves all schools with enrollment rollups
// @Summary List schools
// @Description Retrieves every school with total and current student counts computed from enrollment rows
// @Tags schools
// @Produce json
// @Success 200 {array} dto.SchoolSummary "Schools retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /schools [get]
func (c *SchoolController) GetAllSchools(ctx *gin.Context) {
	schools, err := c.schoolService.GetAllSchools(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, schools)
}

// GetSchoolDetail retrieves one school and its enrolled students
// @Summary Get school details
// @Description Retrieves the school's fields plus one entry per enrollment at the school
// @Tags schools
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} dto.SchoolDetailResponse "School retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid school ID"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /schools/{id} [get]
func (c *SchoolController) GetSchoolDetail(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "School ID")
	if !ok {
		return
	}

	detail, err := c.schoolService.GetSchoolDetail(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

// DetectWebsite looks up the school's official website
// @Summary Detect a school's website
// @Description Returns the stored website, or runs a best-effort web lookup and persists the first plausible result
// @Tags schools
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} dto.WebsiteResponse "Website found or null"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /schools/{id}/detect-website [post]
func (c *SchoolController) DetectWebsite(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "School ID")
	if !ok {
		return
	}

	website, err := c.schoolService.DetectWebsite(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.WebsiteResponse{Website: website})
}

// parseIDParam reads a positive integer path parameter, answering a 400
// response itself when the value is not a valid id.
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	idStr := ctx.Param(name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label)
		errorDetail = errorDetail.WithDetails(label + " must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
