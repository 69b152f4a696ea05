package certificate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.CourseContent{},
		&courseModels.Enrollment{},
		&courseModels.CourseProgress{},
		&courseModels.ModuleProgress{},
		&courseModels.ContentCompletion{},
		&courseModels.Certificate{},
	))
	return db
}

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeRenderer) Render(_ context.Context, req RenderRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("renderer unavailable")
	}
	return []byte("%PDF " + req.CertificateID), nil
}

func (f *fakeRenderer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("disk full")
	}
	m.objects[key] = data
	return nil
}

func (m *memStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return data, nil
}

func (m *memStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// seedCompletedCourse creates a published course with one completed enrollment
// and no compulsory modules, so the gate defers to enrollment completion.
func seedCompletedCourse(t *testing.T, db *gorm.DB) (userID, courseID uint) {
	t.Helper()

	instructor := models.User{Name: "Meera Iyer", Email: fmt.Sprintf("instructor-%s@test.local", strings.ReplaceAll(t.Name(), "/", "_")), Password: "secret123"}
	require.NoError(t, db.Create(&instructor).Error)

	student := models.User{Name: "Asha Verma", Email: fmt.Sprintf("student-%s@test.local", strings.ReplaceAll(t.Name(), "/", "_")), Password: "secret123"}
	require.NoError(t, db.Create(&student).Error)

	course := courseModels.Course{Title: "Distributed Systems", Description: "Advanced course", InstructorID: instructor.ID, Duration: 20, IsPublished: true, Status: "ACTIVE"}
	require.NoError(t, db.Create(&course).Error)

	completedAt := time.Date(2026, 5, 17, 12, 0, 0, 0, time.UTC)
	enrollment := courseModels.Enrollment{
		UserID:      student.ID,
		CourseID:    course.ID,
		Status:      courseModels.EnrollmentCompleted,
		Progress:    100,
		EnrolledAt:  completedAt.AddDate(0, -2, 0),
		CompletedAt: &completedAt,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return student.ID, course.ID
}

func newTestService(db *gorm.DB) (*Service, *fakeRenderer, *memStore) {
	renderer := &fakeRenderer{}
	store := newMemStore()
	return NewService(db, renderer, store, "https://lms.example.com"), renderer, store
}

func TestIssueHappyPath(t *testing.T) {
	db := newTestDB(t)
	s, renderer, store := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	cert, err := s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)

	_, err = uuid.Parse(cert.CertificateID)
	require.NoError(t, err)

	metadata := cert.Metadata.Data()
	assert.Equal(t, "Asha Verma", metadata.StudentName)
	assert.Equal(t, "Distributed Systems", metadata.CourseName)
	assert.Equal(t, "Meera Iyer", metadata.InstructorName)
	assert.Equal(t, 2026, metadata.CompletionDate.Year())

	assert.Equal(t, "https://lms.example.com/certificate/"+cert.CertificateID+"/view", cert.ViewURL)
	assert.Equal(t, "https://lms.example.com/certificate/"+cert.CertificateID+"/verify", cert.VerifyURL)

	artifact, err := store.Get(cert.CertificateID)
	require.NoError(t, err)
	assert.Contains(t, string(artifact), cert.CertificateID)
	assert.Equal(t, 1, renderer.callCount())
}

func TestIssueIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	s, renderer, store := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	first, err := s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)

	second, err := s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)

	assert.Equal(t, first.CertificateID, second.CertificateID)
	assert.Equal(t, 1, renderer.callCount())
	assert.Equal(t, 1, store.size())

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestIssueRejectsIncompleteCourse(t *testing.T) {
	db := newTestDB(t)
	s, renderer, _ := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(map[string]interface{}{"status": courseModels.EnrollmentInProgress, "progress": 80, "completed_at": nil}).Error)

	_, err := s.Issue(context.Background(), userID, courseID)

	var notEligible *NotEligibleError
	require.ErrorAs(t, err, &notEligible)
	assert.Equal(t, progress.ReasonCourseNotCompleted, notEligible.Reason)
	assert.Equal(t, 0, renderer.callCount())
}

func TestIssueMissingInstructorSnapshotsEmptyName(t *testing.T) {
	db := newTestDB(t)
	s, _, _ := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	// The instructor left the platform before issuance
	require.NoError(t, db.Model(&courseModels.Course{}).Where("id = ?", courseID).
		Update("instructor_id", 999999).Error)

	cert, err := s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)
	assert.Empty(t, cert.Metadata.Data().InstructorName)
	assert.Equal(t, "Asha Verma", cert.Metadata.Data().StudentName)
}

func TestIssueSurfacesSnapshotReadFailure(t *testing.T) {
	db := newTestDB(t)
	s, renderer, store := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	// A failing profile read must abort issuance, not freeze bad names
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	_, err := s.Issue(context.Background(), userID, courseID)
	require.Error(t, err)

	var notEligible *NotEligibleError
	assert.False(t, errors.As(err, &notEligible))
	assert.Equal(t, 0, renderer.callCount())
	assert.Equal(t, 0, store.size())

	var count int64
	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestIssueRendererFailureLeavesNoRecord(t *testing.T) {
	db := newTestDB(t)
	s, renderer, store := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	renderer.fail = true
	_, err := s.Issue(context.Background(), userID, courseID)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "renderer", upstream.Op)

	var count int64
	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, 0, store.size())

	// The failed attempt left no state, so a retry succeeds cleanly
	renderer.fail = false
	cert, err := s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)

	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 1, store.size())
	assert.NotEmpty(t, cert.CertificateID)
}

func TestIssueStoreFailureLeavesNoRecord(t *testing.T) {
	db := newTestDB(t)
	s, _, store := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	store.failPut = true
	_, err := s.Issue(context.Background(), userID, courseID)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "artifact store", upstream.Op)

	var count int64
	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.EqualValues(t, 0, count)

	store.failPut = false
	_, err = s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)

	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestConcurrentIssueMintsOneCertificate(t *testing.T) {
	db := newTestDB(t)
	s, _, store := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	const workers = 4
	ids := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cert, err := s.Issue(context.Background(), userID, courseID)
			if err != nil {
				t.Errorf("concurrent issue failed: %v", err)
				return
			}
			ids <- cert.CertificateID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 1)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count)
	assert.EqualValues(t, 1, count)

	// Losing racers must have cleaned up their orphaned artifacts
	assert.Equal(t, 1, store.size())
}

func TestVerify(t *testing.T) {
	db := newTestDB(t)
	s, _, _ := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	cert, err := s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)

	result, err := s.Verify(cert.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateID, result.CertificateID)
	assert.Equal(t, "Asha Verma", result.StudentName)
	assert.Equal(t, "Distributed Systems", result.CourseName)
	assert.Equal(t, "Meera Iyer", result.InstructorName)

	t.Run("malformed id", func(t *testing.T) {
		_, err := s.Verify("not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidCertificateID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Verify(uuid.NewString())
		assert.ErrorIs(t, err, ErrCertificateNotFound)
	})
}

func TestVerifySnapshotSurvivesProfileEdits(t *testing.T) {
	db := newTestDB(t)
	s, _, _ := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	cert, err := s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)

	// Later edits must not rewrite an issued certificate
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).Update("name", "A. Verma-Rao").Error)
	require.NoError(t, db.Model(&courseModels.Course{}).Where("id = ?", courseID).Update("title", "Distributed Systems v2").Error)

	result, err := s.Verify(cert.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", result.StudentName)
	assert.Equal(t, "Distributed Systems", result.CourseName)
}

func TestViewArtifact(t *testing.T) {
	db := newTestDB(t)
	s, _, store := newTestService(db)
	userID, courseID := seedCompletedCourse(t, db)

	cert, err := s.Issue(context.Background(), userID, courseID)
	require.NoError(t, err)

	got, artifact, err := s.ViewArtifact(cert.CertificateID)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateID, got.CertificateID)
	assert.NotEmpty(t, artifact)

	// Record without a document surfaces a distinct error
	require.NoError(t, store.Delete(cert.CertificateID))
	_, _, err = s.ViewArtifact(cert.CertificateID)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}
