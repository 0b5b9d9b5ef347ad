package services

import (
	"context"
	"mime/multipart"

	"github.com/oguzk/schoolatlas/internal/app/models"
	"github.com/oguzk/schoolatlas/internal/app/repositories"
	"github.com/oguzk/schoolatlas/internal/pkg/apperrors"
	"github.com/oguzk/schoolatlas/internal/pkg/filestorage"
)

// memSchoolStore is an in-memory SchoolStore for service tests.
type memSchoolStore struct {
	schools          map[int64]*models.School
	nextID           int64
	counts           []*models.SchoolWithCounts
	searchHits       []*models.School
	lastQuery        string
	updateWebsiteErr error
}

func newMemSchoolStore() *memSchoolStore {
	return &memSchoolStore{schools: map[int64]*models.School{}, nextID: 1}
}

func (m *memSchoolStore) add(school *models.School) *models.School {
	if school.ID == 0 {
		school.ID = m.nextID
		m.nextID++
	} else if school.ID >= m.nextID {
		m.nextID = school.ID + 1
	}
	m.schools[school.ID] = school
	return school
}

func (m *memSchoolStore) CreateIfAbsent(_ context.Context, school *models.School) (int64, error) {
	for _, existing := range m.schools {
		if existing.Name == school.Name {
			return existing.ID, nil
		}
	}
	return m.add(school).ID, nil
}

func (m *memSchoolStore) GetByID(_ context.Context, id int64) (*models.School, error) {
	school, ok := m.schools[id]
	if !ok {
		return nil, apperrors.ErrSchoolNotFound
	}
	return school, nil
}

func (m *memSchoolStore) GetAllWithCounts(_ context.Context) ([]*models.SchoolWithCounts, error) {
	return m.counts, nil
}

func (m *memSchoolStore) UpdateWebsite(_ context.Context, id int64, website string) error {
	if m.updateWebsiteErr != nil {
		return m.updateWebsiteErr
	}
	school, ok := m.schools[id]
	if !ok {
		return apperrors.ErrSchoolNotFound
	}
	school.Website = &website
	return nil
}

func (m *memSchoolStore) SearchByName(_ context.Context, query string) ([]*models.School, error) {
	m.lastQuery = query
	return m.searchHits, nil
}

// createCall records one CreateWithRelations invocation.
type createCall struct {
	student      *models.Student
	enrollments  []*models.Enrollment
	achievements []*models.Achievement
}

// memStudentStore is an in-memory StudentStore for service tests.
type memStudentStore struct {
	students   map[int64]*models.Student
	nextID     int64
	lastCreate *createCall
	lastUpdate *repositories.StudentUpdate
	searchHits []*models.Student
	lastQuery  string
}

func newMemStudentStore() *memStudentStore {
	return &memStudentStore{students: map[int64]*models.Student{}, nextID: 1}
}

func (m *memStudentStore) add(student *models.Student) *models.Student {
	if student.ID == 0 {
		student.ID = m.nextID
		m.nextID++
	} else if student.ID >= m.nextID {
		m.nextID = student.ID + 1
	}
	m.students[student.ID] = student
	return student
}

func (m *memStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	// Return a copy so callers see a snapshot, as a real row scan would.
	s := *student
	return &s, nil
}

func (m *memStudentStore) CreateWithRelations(_ context.Context, student *models.Student, enrollments []*models.Enrollment, achievements []*models.Achievement, attachPhoto repositories.PhotoAttachFn) (int64, error) {
	m.add(student)
	if attachPhoto != nil {
		photoPath, err := attachPhoto(student.ID)
		if err != nil {
			// the real repository rolls the whole transaction back
			delete(m.students, student.ID)
			return 0, err
		}
		student.PhotoPath = photoPath
	}
	m.lastCreate = &createCall{student: student, enrollments: enrollments, achievements: achievements}
	return student.ID, nil
}

func (m *memStudentStore) UpdateWithRelations(_ context.Context, id int64, update repositories.StudentUpdate) error {
	student, ok := m.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.Name = update.Name
	student.Age = update.Age
	student.Grade = update.Grade
	if update.PhotoPath != nil {
		student.PhotoPath = *update.PhotoPath
	}
	m.lastUpdate = &update
	return nil
}

func (m *memStudentStore) SearchByName(_ context.Context, query string) ([]*models.Student, error) {
	m.lastQuery = query
	return m.searchHits, nil
}

// memEnrollmentStore is an in-memory EnrollmentStore for service tests.
type memEnrollmentStore struct {
	bySchool  map[int64][]*models.EnrollmentWithStudent
	byStudent map[int64][]*models.EnrollmentWithSchool
}

func newMemEnrollmentStore() *memEnrollmentStore {
	return &memEnrollmentStore{
		bySchool:  map[int64][]*models.EnrollmentWithStudent{},
		byStudent: map[int64][]*models.EnrollmentWithSchool{},
	}
}

func (m *memEnrollmentStore) ListBySchoolWithStudents(_ context.Context, schoolID int64) ([]*models.EnrollmentWithStudent, error) {
	return m.bySchool[schoolID], nil
}

func (m *memEnrollmentStore) ListByStudentWithSchools(_ context.Context, studentID int64) ([]*models.EnrollmentWithSchool, error) {
	return m.byStudent[studentID], nil
}

// memAchievementStore is an in-memory AchievementStore for service tests.
type memAchievementStore struct {
	byStudent map[int64][]*models.Achievement
	nextID    int64
	deleted   []int64
}

func newMemAchievementStore() *memAchievementStore {
	return &memAchievementStore{byStudent: map[int64][]*models.Achievement{}, nextID: 1}
}

func (m *memAchievementStore) ListByStudent(_ context.Context, studentID int64) ([]*models.Achievement, error) {
	return m.byStudent[studentID], nil
}

func (m *memAchievementStore) Create(_ context.Context, achievement *models.Achievement) (int64, error) {
	achievement.ID = m.nextID
	m.nextID++
	m.byStudent[achievement.StudentID] = append(m.byStudent[achievement.StudentID], achievement)
	return achievement.ID, nil
}

func (m *memAchievementStore) Delete(_ context.Context, id int64) error {
	for studentID, list := range m.byStudent {
		for i, a := range list {
			if a.ID == id {
				m.byStudent[studentID] = append(list[:i], list[i+1:]...)
				m.deleted = append(m.deleted, id)
				return nil
			}
		}
	}
	return apperrors.ErrAchievementNotFound
}

// memPhotoStore records photo operations without touching the filesystem.
type memPhotoStore struct {
	saveErr   error
	saved     map[int64]string
	deleted   []string
	saveCalls int
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{saved: map[int64]string{}}
}

func (m *memPhotoStore) SavePhoto(ownerID int64, fileHeader *multipart.FileHeader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saveCalls++
	path := "/static/photos/" + fileHeader.Filename
	m.saved[ownerID] = path
	return path, nil
}

func (m *memPhotoStore) DeletePhoto(storedPath string) error {
	m.deleted = append(m.deleted, storedPath)
	return nil
}

func (m *memPhotoStore) ResolveDisplayPath(storedPath string) string {
	if storedPath == "" {
		return filestorage.DefaultPhotoPath
	}
	return storedPath
}

// stubFinder returns a canned lookup result and records queries.
type stubFinder struct {
	website string
	found   bool
	queries []string
}

func (f *stubFinder) Lookup(_ context.Context, name string) (string, bool) {
	f.queries = append(f.queries, name)
	return f.website, f.found
}
