package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oguzk/schoolatlas/internal/app/models/dto"
	"github.com/oguzk/schoolatlas/internal/app/services"
	"github.com/oguzk/schoolatlas/internal/middleware"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// GetStudentDetail retrieves one student with schools and achievements
// @Summary Get student details
// @Description Retrieves the student's fields, enrollment history and achievements
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StudentDetailResponse "Student retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentDetail(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student ID")
	if !ok {
		return
	}

	detail, err := c.studentService.GetStudentDetail(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

// CreateStudent handles student creation from a multipart form
// @Summary Create a student
// @Description Creates a student with enrollments, optional achievements and an optional photo in one unit
// @Tags students
// @Accept mpfd
// @Produce json
// @Param name formData string true "Student name"
// @Param age formData int true "Student age"
// @Param grade formData string true "Grade label"
// @Param enrollments formData string true "JSON array of enrollment entries"
// @Param achievements formData string false "JSON array of achievement entries"
// @Param photo formData file false "Student photo"
// @Success 201 {object} dto.IDResponse "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	name, age, grade, ok := parseStudentFields(ctx)
	if !ok {
		return
	}

	enrollmentsRaw, hasEnrollments := ctx.GetPostForm("enrollments")
	if !hasEnrollments || enrollmentsRaw == "" {
		respondValidationError(ctx, "At least one enrollment is required", "enrollments")
		return
	}

	enrollments, ok := parseEnrollments(ctx, enrollmentsRaw)
	if !ok {
		return
	}

	achievements, ok := parseAchievements(ctx)
	if !ok {
		return
	}

	input := dto.CreateStudentInput{
		Name:         name,
		Age:          age,
		Grade:        grade,
		Enrollments:  enrollments,
		Achievements: achievements,
	}

	id, err := c.studentService.CreateStudent(ctx, input, photoFile(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.IDResponse{ID: id})
}

// UpdateStudent handles student update from a multipart form
// @Summary Update a student
// @Description Updates the student's fields; a supplied enrollments payload replaces the enrollment set wholesale, an absent achievements payload leaves achievements unchanged
// @Tags students
// @Accept mpfd
// @Produce json
// @Param id path int true "Student ID"
// @Param name formData string true "Student name"
// @Param age formData int true "Student age"
// @Param grade formData string true "Grade label"
// @Param enrollments formData string false "JSON array of enrollment entries"
// @Param achievements formData string false "JSON array of achievement entries"
// @Param photo formData file false "Replacement photo"
// @Success 200 {object} dto.IDResponse "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student payload"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student ID")
	if !ok {
		return
	}

	name, age, grade, ok := parseStudentFields(ctx)
	if !ok {
		return
	}

	input := dto.UpdateStudentInput{
		Name:  name,
		Age:   age,
		Grade: grade,
	}

	if raw, has := ctx.GetPostForm("enrollments"); has && raw != "" {
		enrollments, ok := parseEnrollments(ctx, raw)
		if !ok {
			return
		}
		input.Enrollments = enrollments
	}

	if raw, has := ctx.GetPostForm("achievements"); has && raw != "" {
		achievements, ok := parseAchievementsRaw(ctx, raw)
		if !ok {
			return
		}
		input.Achievements = achievements
	}

	updatedID, err := c.studentService.UpdateStudent(ctx, id, input, photoFile(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.IDResponse{ID: updatedID})
}

// parseStudentFields reads the scalar multipart fields shared by create and
// update, answering the 400 itself on failure.
func parseStudentFields(ctx *gin.Context) (name string, age int, grade string, ok bool) {
	name = ctx.PostForm("name")
	if name == "" {
		respondValidationError(ctx, "Name is required", "name")
		return "", 0, "", false
	}

	ageStr := ctx.PostForm("age")
	age, err := strconv.Atoi(ageStr)
	if err != nil {
		respondValidationError(ctx, "Age must be a valid integer", "age")
		return "", 0, "", false
	}

	grade = ctx.PostForm("grade")
	if grade == "" {
		respondValidationError(ctx, "Grade is required", "grade")
		return "", 0, "", false
	}

	return name, age, grade, true
}

// parseEnrollments decodes the enrollments form field, answering the 400
// itself when the JSON is malformed.
func parseEnrollments(ctx *gin.Context, raw string) ([]dto.EnrollmentPayload, bool) {
	var enrollments []dto.EnrollmentPayload
	if err := json.Unmarshal([]byte(raw), &enrollments); err != nil {
		respondValidationError(ctx, "Invalid enrollments format", "enrollments")
		return nil, false
	}
	return enrollments, true
}

// parseAchievements decodes the optional achievements form field for create.
func parseAchievements(ctx *gin.Context) ([]dto.AchievementPayload, bool) {
	raw, has := ctx.GetPostForm("achievements")
	if !has || raw == "" {
		return nil, true
	}
	return parseAchievementsRaw(ctx, raw)
}

// parseAchievementsRaw decodes an achievements JSON array, answering the
// 400 itself when the JSON is malformed.
func parseAchievementsRaw(ctx *gin.Context, raw string) ([]dto.AchievementPayload, bool) {
	var achievements []dto.AchievementPayload
	if err := json.Unmarshal([]byte(raw), &achievements); err != nil {
		respondValidationError(ctx, "Invalid achievements format", "achievements")
		return nil, false
	}
	if achievements == nil {
		achievements = []dto.AchievementPayload{}
	}
	return achievements, true
}

// photoFile returns the uploaded photo header, or nil when the request
// carries none.
func photoFile(ctx *gin.Context) *multipart.FileHeader {
	file, err := ctx.FormFile("photo")
	if err != nil {
		return nil
	}
	return file
}

// respondValidationError writes a standard 400 response.
func respondValidationError(ctx *gin.Context, message, field string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithField(field)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
