package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oguzk/schoolatlas/internal/app/models/dto"
	"github.com/oguzk/schoolatlas/internal/pkg/apperrors"
)

// fakeStudentService records calls and answers with canned results.
type fakeStudentService struct {
	detail    *dto.StudentDetailResponse
	detailErr error

	createID  int64
	createErr error
	gotCreate dto.CreateStudentInput

	updateID   int64
	updateErr  error
	gotUpdate  dto.UpdateStudentInput
	gotPhoto   *multipart.FileHeader
	gotTarget  int64
	wasCalled  bool
}

func (f *fakeStudentService) GetStudentDetail(_ context.Context, _ int64) (*dto.StudentDetailResponse, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeStudentService) CreateStudent(_ context.Context, input dto.CreateStudentInput, photo *multipart.FileHeader) (int64, error) {
	f.wasCalled = true
	f.gotCreate = input
	f.gotPhoto = photo
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.createID, nil
}

func (f *fakeStudentService) UpdateStudent(_ context.Context, id int64, input dto.UpdateStudentInput, photo *multipart.FileHeader) (int64, error) {
	f.wasCalled = true
	f.gotTarget = id
	f.gotUpdate = input
	f.gotPhoto = photo
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	return f.updateID, nil
}

func studentRouter(service *fakeStudentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewStudentController(service)
	router.GET("/students/:id", controller.GetStudentDetail)
	router.POST("/students", controller.CreateStudent)
	router.PUT("/students/:id", controller.UpdateStudent)
	return router
}

// multipartBody builds a multipart form from string fields, optionally
// attaching a photo file.
func multipartBody(t *testing.T, fields map[string]string, photoName string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if photoName != "" {
		part, err := writer.CreateFormFile("photo", photoName)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func doMultipart(t *testing.T, router *gin.Engine, method, target string, fields map[string]string, photoName string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, photoName)
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func validStudentFields() map[string]string {
	return map[string]string{
		"name":        "Alice",
		"age":         "20",
		"grade":       "Sophomore",
		"enrollments": `[{"schoolId":1,"status":"current","startYear":2022}]`,
	}
}

func TestCreateStudent_Returns201WithID(t *testing.T) {
	service := &fakeStudentService{createID: 7}
	router := studentRouter(service)

	recorder := doMultipart(t, router, http.MethodPost, "/students", validStudentFields(), "alice.jpg")

	require.Equal(t, http.StatusCreated, recorder.Code)

	var body dto.IDResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)

	assert.Equal(t, "Alice", service.gotCreate.Name)
	assert.Equal(t, 20, service.gotCreate.Age)
	require.Len(t, service.gotCreate.Enrollments, 1)
	assert.Equal(t, int64(1), service.gotCreate.Enrollments[0].SchoolID)
	require.NotNil(t, service.gotPhoto)
	assert.Equal(t, "alice.jpg", service.gotPhoto.Filename)
}

func TestCreateStudent_MissingEnrollmentsField(t *testing.T) {
	service := &fakeStudentService{}
	router := studentRouter(service)

	fields := validStudentFields()
	delete(fields, "enrollments")

	recorder := doMultipart(t, router, http.MethodPost, "/students", fields, "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, service.wasCalled)
}

func TestCreateStudent_MalformedEnrollmentsJSON(t *testing.T) {
	service := &fakeStudentService{}
	router := studentRouter(service)

	fields := validStudentFields()
	fields["enrollments"] = `{"not":"an array"`

	recorder := doMultipart(t, router, http.MethodPost, "/students", fields, "")

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "Invalid enrollments format", body.Error.Message)
	assert.False(t, service.wasCalled)
}

func TestCreateStudent_NonIntegerAge(t *testing.T) {
	service := &fakeStudentService{}
	router := studentRouter(service)

	fields := validStudentFields()
	fields["age"] = "twenty"

	recorder := doMultipart(t, router, http.MethodPost, "/students", fields, "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, service.wasCalled)
}

func TestCreateStudent_ServiceValidationBubblesAs400(t *testing.T) {
	service := &fakeStudentService{createErr: apperrors.ErrEnrollmentsRequired}
	router := studentRouter(service)

	recorder := doMultipart(t, router, http.MethodPost, "/students", validStudentFields(), "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateStudent_AbsentAchievementsStayNil(t *testing.T) {
	service := &fakeStudentService{updateID: 3}
	router := studentRouter(service)

	recorder := doMultipart(t, router, http.MethodPut, "/students/3", validStudentFields(), "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, int64(3), service.gotTarget)
	assert.NotNil(t, service.gotUpdate.Enrollments)
	assert.Nil(t, service.gotUpdate.Achievements, "absent achievements field must stay nil")
}

func TestUpdateStudent_EmptyAchievementsArrayStaysNonNil(t *testing.T) {
	service := &fakeStudentService{updateID: 3}
	router := studentRouter(service)

	fields := validStudentFields()
	fields["achievements"] = `[]`

	recorder := doMultipart(t, router, http.MethodPut, "/students/3", fields, "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotNil(t, service.gotUpdate.Achievements)
	assert.Empty(t, service.gotUpdate.Achievements)
}

func TestUpdateStudent_InvalidID(t *testing.T) {
	service := &fakeStudentService{}
	router := studentRouter(service)

	recorder := doMultipart(t, router, http.MethodPut, "/students/abc", validStudentFields(), "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, service.wasCalled)
}

func TestUpdateStudent_NotFound(t *testing.T) {
	service := &fakeStudentService{updateErr: apperrors.ErrStudentNotFound}
	router := studentRouter(service)

	recorder := doMultipart(t, router, http.MethodPut, "/students/42", validStudentFields(), "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetStudentDetail_ReturnsDetail(t *testing.T) {
	service := &fakeStudentService{
		detail: &dto.StudentDetailResponse{
			Student:      dto.StudentInfo{ID: 7, Name: "Alice", Age: 20, Grade: "Sophomore", PhotoPath: "/static/avatar/default_avatar.png"},
			Schools:      []dto.StudentSchool{},
			Achievements: []dto.AchievementResponse{},
		},
	}
	router := studentRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/students/7", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body dto.StudentDetailResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Alice", body.Student.Name)
	assert.Equal(t, "/static/avatar/default_avatar.png", body.Student.PhotoPath)
}

func TestGetStudentDetail_NotFound(t *testing.T) {
	service := &fakeStudentService{detailErr: apperrors.ErrStudentNotFound}
	router := studentRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/students/42", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
