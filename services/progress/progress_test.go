package progress

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lms/models"
	courseModels "lms/models/course"

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

type fixture struct {
	userID   uint
	courseID uint
	modules  []courseModels.Module
	// contents[i] holds the content rows of modules[i]
	contents [][]courseModels.CourseContent
}

// seedCourse creates a published course with the given number of published
// content items per module, plus an enrollment for a fresh student.
func seedCourse(t *testing.T, db *gorm.DB, contentCounts []int, compulsory []bool) fixture {
	t.Helper()

	user := models.User{Name: "Asha Verma", Email: fmt.Sprintf("%s@test.local", strings.ReplaceAll(t.Name(), "/", "_")), Password: "secret123"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Go Fundamentals", Description: "Intro course", InstructorID: user.ID, Duration: 10, IsPublished: true, Status: "ACTIVE"}
	require.NoError(t, db.Create(&course).Error)

	fx := fixture{userID: user.ID, courseID: course.ID}
	for i, count := range contentCounts {
		module := courseModels.Module{
			CourseID:     course.ID,
			Title:        fmt.Sprintf("Module %d", i+1),
			OrderIndex:   i + 1,
			IsCompulsory: compulsory[i],
		}
		require.NoError(t, db.Create(&module).Error)

		var rows []courseModels.CourseContent
		for j := 0; j < count; j++ {
			content := courseModels.CourseContent{
				CourseID:    course.ID,
				ModuleID:    module.ID,
				Title:       fmt.Sprintf("Lesson %d.%d", i+1, j+1),
				ContentType: "TEXT",
				TextContent: "lorem",
				OrderIndex:  j + 1,
				IsPublished: true,
			}
			require.NoError(t, db.Create(&content).Error)
			rows = append(rows, content)
		}
		fx.modules = append(fx.modules, module)
		fx.contents = append(fx.contents, rows)
	}

	enrollment := courseModels.Enrollment{
		UserID:     user.ID,
		CourseID:   course.ID,
		Status:     courseModels.EnrollmentEnrolled,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return fx
}

func complete(t *testing.T, s *Service, fx fixture, moduleIdx, contentIdx int) *Result {
	t.Helper()
	result, err := s.RecordContent(fx.userID, fx.courseID, ContentUpdate{
		ModuleID:  fx.modules[moduleIdx].ID,
		ContentID: fx.contents[moduleIdx][contentIdx].ID,
		Completed: true,
	})
	require.NoError(t, err)
	return result
}

func TestPercentageRounding(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{9}, []bool{true})

	// An unpublished item must not count toward the denominator
	hidden := courseModels.CourseContent{CourseID: fx.courseID, ModuleID: fx.modules[0].ID, Title: "Draft lesson", ContentType: "TEXT", OrderIndex: 10, IsPublished: false}
	require.NoError(t, db.Create(&hidden).Error)

	var last *Result
	for i := 0; i < 7; i++ {
		last = complete(t, s, fx, 0, i)
	}

	// 7 of 9 rounds to 78, not 77
	assert.Equal(t, 78, last.Percentage)
	assert.Equal(t, 78, last.StoredPercentage)
}

func TestContentCompletionDrivesEnrollment(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{3, 2}, []bool{true, false})

	var result *Result
	for i := 0; i < 3; i++ {
		result = complete(t, s, fx, 0, i)
	}
	assert.Equal(t, 60, result.Percentage)
	assert.True(t, result.Record.Modules[0].IsCompleted)
	assert.False(t, result.Record.Modules[1].IsCompleted)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", fx.userID, fx.courseID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentInProgress, enrollment.Status)
	assert.Equal(t, 60, enrollment.Progress)
	assert.Nil(t, enrollment.CompletedAt)

	result = complete(t, s, fx, 1, 0)
	result = complete(t, s, fx, 1, 1)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.Record.Modules[1].IsCompleted)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", fx.userID, fx.courseID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.Equal(t, 100, enrollment.Progress)
	require.NotNil(t, enrollment.CompletedAt)
	firstCompletion := *enrollment.CompletedAt

	// Re-marking a completed item must not move completed_at
	result = complete(t, s, fx, 0, 0)
	assert.Equal(t, 100, result.Percentage)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", fx.userID, fx.courseID).First(&enrollment).Error)
	require.NotNil(t, enrollment.CompletedAt)
	assert.True(t, enrollment.CompletedAt.Equal(firstCompletion))
}

func TestStoredProgressNeverRegresses(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{2, 2}, []bool{true, true})

	for i := 0; i < 2; i++ {
		complete(t, s, fx, 0, i)
		complete(t, s, fx, 1, i)
	}

	// A stale offline sync with only one completed item arrives late
	result, err := s.RecordBulk(fx.userID, fx.courseID, BulkUpdate{
		CompletedModules: nil,
		CompletedContentByModule: map[uint][]uint{
			fx.modules[0].ID: {fx.contents[0][0].ID},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 25, result.Percentage)
	assert.Equal(t, 100, result.StoredPercentage)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", fx.userID, fx.courseID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
}

func TestUnmarkingLowersPercentageButNotEnrollment(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{2}, []bool{true})

	complete(t, s, fx, 0, 0)
	result := complete(t, s, fx, 0, 1)
	assert.Equal(t, 100, result.Percentage)

	result, err := s.RecordContent(fx.userID, fx.courseID, ContentUpdate{
		ModuleID:  fx.modules[0].ID,
		ContentID: fx.contents[0][0].ID,
		Completed: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Percentage)
	assert.Equal(t, 100, result.StoredPercentage)
	assert.False(t, result.Record.Modules[0].IsCompleted)

	// Re-marking after an unmark must work
	result = complete(t, s, fx, 0, 0)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.Record.Modules[0].IsCompleted)
}

func TestGetProgressCreatesRecordLazily(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{1, 1, 1}, []bool{true, true, false})

	record, err := s.GetProgress(fx.userID, fx.courseID)
	require.NoError(t, err)
	require.Len(t, record.Modules, 3)
	for i, row := range record.Modules {
		assert.Equal(t, fx.modules[i].ID, row.ModuleID)
		assert.Equal(t, i+1, row.OrderIndex)
		assert.False(t, row.IsCompleted)
		assert.Empty(t, row.CompletedContent)
	}

	// A second read returns the same record, not a duplicate
	again, err := s.GetProgress(fx.userID, fx.courseID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, again.ID)

	var count int64
	db.Model(&courseModels.CourseProgress{}).Where("user_id = ?", fx.userID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecordContentErrors(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{1}, []bool{true})

	t.Run("unknown course", func(t *testing.T) {
		_, err := s.RecordContent(fx.userID, 9999, ContentUpdate{ModuleID: 1, ContentID: 1, Completed: true})
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})

	t.Run("not enrolled", func(t *testing.T) {
		stranger := models.User{Name: "Ravi", Email: "ravi@test.local", Password: "secret123"}
		require.NoError(t, db.Create(&stranger).Error)
		_, err := s.RecordContent(stranger.ID, fx.courseID, ContentUpdate{ModuleID: fx.modules[0].ID, ContentID: fx.contents[0][0].ID, Completed: true})
		assert.ErrorIs(t, err, ErrNotEnrolled)
	})

	t.Run("unknown module", func(t *testing.T) {
		_, err := s.RecordContent(fx.userID, fx.courseID, ContentUpdate{ModuleID: 9999, ContentID: fx.contents[0][0].ID, Completed: true})
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})

	t.Run("unknown content", func(t *testing.T) {
		_, err := s.RecordContent(fx.userID, fx.courseID, ContentUpdate{ModuleID: fx.modules[0].ID, ContentID: 9999, Completed: true})
		assert.ErrorIs(t, err, ErrContentNotFound)
	})
}

func TestBulkSyncIgnoresUnknownContent(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{2}, []bool{true})

	result, err := s.RecordBulk(fx.userID, fx.courseID, BulkUpdate{
		CompletedModules: []uint{fx.modules[0].ID},
		CompletedContentByModule: map[uint][]uint{
			fx.modules[0].ID: {fx.contents[0][0].ID, 424242},
		},
	})
	require.NoError(t, err)

	// The bogus id is filtered out, the module flag is taken from the payload
	assert.Equal(t, 50, result.Percentage)
	require.Len(t, result.Record.Modules, 1)
	assert.True(t, result.Record.Modules[0].IsCompleted)
	assert.Equal(t, []uint{fx.contents[0][0].ID}, result.Record.Modules[0].CompletedContent)
}

func TestReconcileRepairsMissedFold(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{2}, []bool{true})

	complete(t, s, fx, 0, 0)
	complete(t, s, fx, 0, 1)

	// Simulate a fold that never landed
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", fx.userID, fx.courseID).
		Updates(map[string]interface{}{"progress": 50, "status": courseModels.EnrollmentInProgress}).Error)

	result, err := s.Reconcile(fx.userID, fx.courseID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Percentage)
	assert.Equal(t, 100, result.StoredPercentage)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", fx.userID, fx.courseID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
}

func TestReconcileSurfacesCatalogReadFailure(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{2}, []bool{true})

	complete(t, s, fx, 0, 0)
	complete(t, s, fx, 0, 1)

	// A broken catalog read must fail the call, never report success at 0%
	require.NoError(t, db.Migrator().DropTable(&courseModels.CourseContent{}))

	_, err := s.Reconcile(fx.userID, fx.courseID)
	require.Error(t, err)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", fx.userID, fx.courseID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
}
