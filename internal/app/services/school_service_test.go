package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/app/models/dto"
	"github.com/oguzk/schoolatlas/internal/pkg/apperrors"
)

func newSchoolServiceForTest() (SchoolService, *memSchoolStore, *memEnrollmentStore, *stubFinder) {
	schoolStore := newMemSchoolStore()
	enrollmentStore := newMemEnrollmentStore()
	finder := &stubFinder{}
	return NewSchoolService(schoolStore, enrollmentStore, finder), schoolStore, enrollmentStore, finder
}

func TestCreateSchool_SameNameYieldsSameID(t *testing.T) {
	service, _, _, _ := newSchoolServiceForTest()

	req := dto.CreateSchoolRequest{Name: "MIT", Type: "university"}

	first, err := service.CreateSchool(context.Background(), req)
	require.NoError(t, err)

	second, err := service.CreateSchool(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCreateSchool_InvalidType(t *testing.T) {
	service, _, _, _ := newSchoolServiceForTest()

	_, err := service.CreateSchool(context.Background(), dto.CreateSchoolRequest{Name: "MIT", Type: "kindergarten"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSchoolType)
}

func TestCreateSchool_EmptyName(t *testing.T) {
	service, _, _, _ := newSchoolServiceForTest()

	_, err := service.CreateSchool(context.Background(), dto.CreateSchoolRequest{Name: "   ", Type: "university"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetAllSchools_IncludesRollups(t *testing.T) {
	service, schoolStore, _, _ := newSchoolServiceForTest()

	schoolStore.counts = []*models.SchoolWithCounts{
		{
			School:          models.School{ID: 1, Name: "MIT", Type: models.SchoolTypeUniversity},
			TotalStudents:   5,
			CurrentStudents: 3,
		},
		{
			School: models.School{ID: 2, Name: "Boston High", Type: models.SchoolTypeHighschool},
		},
	}

	summaries, err := service.GetAllSchools(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, 5, summaries[0].TotalStudents)
	assert.Equal(t, 3, summaries[0].CurrentStudents)
	assert.Equal(t, 0, summaries[1].TotalStudents)
	assert.Equal(t, 0, summaries[1].CurrentStudents)
}

func TestGetSchoolDetail_NotFound(t *testing.T) {
	service, _, _, _ := newSchoolServiceForTest()

	_, err := service.GetSchoolDetail(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrSchoolNotFound)
}

func TestGetSchoolDetail_OneEntryPerEnrollment(t *testing.T) {
	service, schoolStore, enrollmentStore, _ := newSchoolServiceForTest()

	school := schoolStore.add(&models.School{Name: "MIT", Type: models.SchoolTypeUniversity})
	endYear := 2020
	enrollmentStore.bySchool[school.ID] = []*models.EnrollmentWithStudent{
		{
			Enrollment:  models.Enrollment{ID: 1, StudentID: 7, SchoolID: school.ID, Status: models.EnrollmentPast, StartYear: 2016, EndYear: &endYear},
			StudentName: "Bob", StudentAge: 24, StudentGrade: "Senior",
		},
		{
			Enrollment:  models.Enrollment{ID: 2, StudentID: 7, SchoolID: school.ID, Status: models.EnrollmentCurrent, StartYear: 2023},
			StudentName: "Bob", StudentAge: 24, StudentGrade: "Senior",
		},
	}

	detail, err := service.GetSchoolDetail(context.Background(), school.ID)
	require.NoError(t, err)

	// The same student appears once per enrollment row.
	require.Len(t, detail.Students, 2)
	assert.Equal(t, models.EnrollmentPast, detail.Students[0].Status)
	assert.Equal(t, models.EnrollmentCurrent, detail.Students[1].Status)
	assert.Nil(t, detail.Students[1].EndYear)
}

func TestDetectWebsite_ReturnsStoredWebsite(t *testing.T) {
	service, schoolStore, _, finder := newSchoolServiceForTest()

	website := "https://mit.edu"
	school := schoolStore.add(&models.School{Name: "MIT", Type: models.SchoolTypeUniversity, Website: &website})

	result, err := service.DetectWebsite(context.Background(), school.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, website, *result)
	assert.Empty(t, finder.queries, "stored website should short-circuit the lookup")
}

func TestDetectWebsite_LookupMissYieldsNil(t *testing.T) {
	service, schoolStore, _, _ := newSchoolServiceForTest()

	school := schoolStore.add(&models.School{Name: "Obscure Academy", Type: models.SchoolTypeHighschool})

	result, err := service.DetectWebsite(context.Background(), school.ID)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestDetectWebsite_PersistsHit(t *testing.T) {
	service, schoolStore, _, finder := newSchoolServiceForTest()

	finder.website = "https://mit.edu"
	finder.found = true
	school := schoolStore.add(&models.School{Name: "MIT", Type: models.SchoolTypeUniversity})

	result, err := service.DetectWebsite(context.Background(), school.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "https://mit.edu", *result)
	require.NotNil(t, schoolStore.schools[school.ID].Website)
	assert.Equal(t, "https://mit.edu", *schoolStore.schools[school.ID].Website)
}

func TestDetectWebsite_PersistFailureIsAnError(t *testing.T) {
	service, schoolStore, _, finder := newSchoolServiceForTest()

	finder.website = "https://mit.edu"
	finder.found = true
	schoolStore.updateWebsiteErr = errors.New("connection reset")
	school := schoolStore.add(&models.School{Name: "MIT", Type: models.SchoolTypeUniversity})

	_, err := service.DetectWebsite(context.Background(), school.ID)
	assert.Error(t, err)
}

func TestDetectWebsite_UnknownSchool(t *testing.T) {
	service, _, _, _ := newSchoolServiceForTest()

	_, err := service.DetectWebsite(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrSchoolNotFound)
}
