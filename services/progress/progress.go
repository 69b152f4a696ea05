package progress

import (
	"errors"
	"math"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Errors returned by the progress service
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrModuleNotFound  = errors.New("module not found")
	ErrContentNotFound = errors.New("content not found")
	ErrNotEnrolled     = errors.New("user not enrolled in course")
)

// Service aggregates per-learner progress and folds it into enrollment records
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ContentUpdate marks a single content item complete or incomplete
type ContentUpdate struct {
	ModuleID  uint
	ContentID uint
	Completed bool
}

// BulkUpdate replaces module completion flags and completed-content sets wholesale
type BulkUpdate struct {
	CompletedModules         []uint
	CompletedContentByModule map[uint][]uint
}

// Result carries the updated progress record, the freshly computed percentage
// and the enrollment's stored percentage. The stored value can be higher when
// a stale update arrives after a more advanced concurrent one.
type Result struct {
	Record           *courseModels.CourseProgress `json:"record"`
	Percentage       int                          `json:"percentage"`
	StoredPercentage int                          `json:"stored_percentage"`
}

// RecordContent applies a single (module, content) completion delta.
// The completed-content set is mutated through inserts/deletes on
// content_completions so concurrent single-item updates never clobber each other.
func (s *Service) RecordContent(userID, courseID uint, upd ContentUpdate) (*Result, error) {
	if err := s.checkCourse(courseID); err != nil {
		return nil, err
	}
	enrollment, err := s.loadEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}
	record, err := s.loadOrCreateRecord(userID, courseID)
	if err != nil {
		return nil, err
	}

	moduleRow, err := s.findModuleRow(record, upd.ModuleID)
	if err != nil {
		return nil, err
	}

	var content courseModels.CourseContent
	if err := s.db.Where("id = ? AND module_id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?",
		upd.ContentID, upd.ModuleID, courseID, false, true).First(&content).Error; err != nil {
		return nil, ErrContentNotFound
	}

	if upd.Completed {
		completion := courseModels.ContentCompletion{
			UserID:          userID,
			CourseContentID: upd.ContentID,
			CourseID:        courseID,
			ModuleID:        upd.ModuleID,
		}
		if err := s.db.Create(&completion).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	} else {
		if err := s.db.Where("user_id = ? AND course_content_id = ?", userID, upd.ContentID).
			Delete(&courseModels.ContentCompletion{}).Error; err != nil {
			return nil, err
		}
	}

	now := time.Now()
	if err := s.touchModule(record, moduleRow, userID, now); err != nil {
		return nil, err
	}

	pct, err := s.computePercentage(userID, courseID)
	if err != nil {
		return nil, err
	}
	stored, err := s.foldEnrollment(enrollment, pct, now)
	if err != nil {
		return nil, err
	}

	assembled, err := s.assembleRecord(record.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Record: assembled, Percentage: pct, StoredPercentage: stored}, nil
}

// RecordBulk overwrites the learner's module completion flags and completed
// content sets for the course in one shot (e.g. an offline-client sync).
func (s *Service) RecordBulk(userID, courseID uint, upd BulkUpdate) (*Result, error) {
	if err := s.checkCourse(courseID); err != nil {
		return nil, err
	}
	enrollment, err := s.loadEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}
	record, err := s.loadOrCreateRecord(userID, courseID)
	if err != nil {
		return nil, err
	}

	completedModules := make(map[uint]bool, len(upd.CompletedModules))
	for _, id := range upd.CompletedModules {
		completedModules[id] = true
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Replace the completed-content set wholesale
		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			Delete(&courseModels.ContentCompletion{}).Error; err != nil {
			return err
		}
		for moduleID, contentIDs := range upd.CompletedContentByModule {
			if _, err := s.findModuleRow(record, moduleID); err != nil {
				return err
			}
			// Only ids that exist in the module's live content list count
			var valid []uint
			if err := tx.Model(&courseModels.CourseContent{}).
				Where("id IN ? AND module_id = ? AND is_deleted = ? AND is_published = ?", contentIDs, moduleID, false, true).
				Pluck("id", &valid).Error; err != nil {
				return err
			}
			for _, contentID := range valid {
				completion := courseModels.ContentCompletion{
					UserID:          userID,
					CourseContentID: contentID,
					CourseID:        courseID,
					ModuleID:        moduleID,
				}
				if err := tx.Create(&completion).Error; err != nil {
					return err
				}
			}
		}

		// Overwrite module completion flags
		for i := range record.Modules {
			row := &record.Modules[i]
			updates := map[string]interface{}{
				"is_completed":     completedModules[row.ModuleID],
				"last_accessed_at": now,
			}
			if err := tx.Model(&courseModels.ModuleProgress{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pct, err := s.computePercentage(userID, courseID)
	if err != nil {
		return nil, err
	}
	stored, err := s.foldEnrollment(enrollment, pct, now)
	if err != nil {
		return nil, err
	}

	assembled, err := s.assembleRecord(record.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Record: assembled, Percentage: pct, StoredPercentage: stored}, nil
}

// GetProgress returns the learner's assembled progress record for a course,
// creating it lazily from the catalog if this is the first read.
func (s *Service) GetProgress(userID, courseID uint) (*courseModels.CourseProgress, error) {
	if err := s.checkCourse(courseID); err != nil {
		return nil, err
	}
	if _, err := s.loadEnrollment(userID, courseID); err != nil {
		return nil, err
	}
	record, err := s.loadOrCreateRecord(userID, courseID)
	if err != nil {
		return nil, err
	}
	return s.assembleRecord(record.ID)
}

// Reconcile recomputes the percentage from stored completions and re-folds it
// into the enrollment. Used by the nightly repair job; applies no deltas.
func (s *Service) Reconcile(userID, courseID uint) (*Result, error) {
	enrollment, err := s.loadEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}
	pct, err := s.computePercentage(userID, courseID)
	if err != nil {
		return nil, err
	}
	stored, err := s.foldEnrollment(enrollment, pct, time.Now())
	if err != nil {
		return nil, err
	}
	return &Result{Percentage: pct, StoredPercentage: stored}, nil
}

func (s *Service) checkCourse(courseID uint) error {
	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		First(&course).Error; err != nil {
		return ErrCourseNotFound
	}
	return nil
}

func (s *Service) loadEnrollment(userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		return nil, ErrNotEnrolled
	}
	return &enrollment, nil
}

// loadOrCreateRecord fetches the progress record, creating it from the
// catalog's current ordered module list on first touch. A concurrent lazy
// create loses the insert race and falls back to re-reading.
func (s *Service) loadOrCreateRecord(userID, courseID uint) (*courseModels.CourseProgress, error) {
	var record courseModels.CourseProgress
	err := s.db.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Where("user_id = ? AND course_id = ?", userID, courseID).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var modules []courseModels.Module
	if err := s.db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return nil, err
	}

	record = courseModels.CourseProgress{UserID: userID, CourseID: courseID}
	for _, m := range modules {
		record.Modules = append(record.Modules, courseModels.ModuleProgress{
			ModuleID:   m.ID,
			OrderIndex: m.OrderIndex,
		})
	}
	if err := s.db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.loadOrCreateRecord(userID, courseID)
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) findModuleRow(record *courseModels.CourseProgress, moduleID uint) (*courseModels.ModuleProgress, error) {
	for i := range record.Modules {
		if record.Modules[i].ModuleID == moduleID {
			return &record.Modules[i], nil
		}
	}
	return nil, ErrModuleNotFound
}

// touchModule stamps last-accessed on the module row, re-derives its completion
// flag from the completed set, and moves the record's last-accessed pointer.
func (s *Service) touchModule(record *courseModels.CourseProgress, row *courseModels.ModuleProgress, userID uint, now time.Time) error {
	var total, done int64
	if err := s.db.Model(&courseModels.CourseContent{}).
		Where("module_id = ? AND is_deleted = ? AND is_published = ?", row.ModuleID, false, true).
		Count(&total).Error; err != nil {
		return err
	}
	if err := s.db.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND module_id = ?", userID, row.ModuleID).
		Count(&done).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"is_completed":     total > 0 && done >= total,
		"last_accessed_at": now,
	}
	if err := s.db.Model(&courseModels.ModuleProgress{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
		return err
	}
	return s.db.Model(&courseModels.CourseProgress{}).Where("id = ?", record.ID).
		Update("last_module_id", row.ModuleID).Error
}

// computePercentage recomputes the 0-100 completion percentage against the
// catalog's true published content count. Courses with no content are 0.
// A failed catalog read fails the call; it must never be mistaken for 0%.
func (s *Service) computePercentage(userID, courseID uint) (int, error) {
	var total, done int64
	if err := s.db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	if err := s.db.Model(&courseModels.ContentCompletion{}).
		Joins("JOIN course_contents ON course_contents.id = content_completions.course_content_id").
		Where("content_completions.user_id = ? AND content_completions.course_id = ?", userID, courseID).
		Where("course_contents.is_deleted = ? AND course_contents.is_published = ?", false, true).
		Count(&done).Error; err != nil {
		return 0, err
	}
	return int(math.Round(100 * float64(done) / float64(total))), nil
}

// foldEnrollment writes the recomputed percentage into the enrollment under the
// monotonic contract: the stored progress only moves upward, enforced with a
// conditional update so a recompute from stale data cannot regress it.
// Status flips to COMPLETED exactly at 100 and completed_at is set only once.
func (s *Service) foldEnrollment(enrollment *courseModels.Enrollment, pct int, now time.Time) (int, error) {
	updates := map[string]interface{}{
		"progress":         pct,
		"last_accessed_at": now,
	}
	if pct >= 100 {
		updates["status"] = courseModels.EnrollmentCompleted
	} else if pct > 0 {
		updates["status"] = courseModels.EnrollmentInProgress
	}
	if err := s.db.Model(&courseModels.Enrollment{}).
		Where("id = ? AND progress < ?", enrollment.ID, pct).
		Updates(updates).Error; err != nil {
		return 0, err
	}
	if pct >= 100 {
		if err := s.db.Model(&courseModels.Enrollment{}).
			Where("id = ? AND completed_at IS NULL", enrollment.ID).
			Updates(map[string]interface{}{
				"status":       courseModels.EnrollmentCompleted,
				"completed_at": now,
			}).Error; err != nil {
			return 0, err
		}
	}

	var stored courseModels.Enrollment
	if err := s.db.First(&stored, enrollment.ID).Error; err != nil {
		return 0, err
	}
	return stored.Progress, nil
}

// assembleRecord loads the full progress aggregate: module rows in catalog
// order with their completed-content sets filled in from completion rows.
func (s *Service) assembleRecord(recordID uint) (*courseModels.CourseProgress, error) {
	var record courseModels.CourseProgress
	if err := s.db.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).First(&record, recordID).Error; err != nil {
		return nil, err
	}

	var completions []courseModels.ContentCompletion
	if err := s.db.Where("user_id = ? AND course_id = ?", record.UserID, record.CourseID).
		Find(&completions).Error; err != nil {
		return nil, err
	}
	byModule := make(map[uint][]uint)
	for _, completion := range completions {
		byModule[completion.ModuleID] = append(byModule[completion.ModuleID], completion.CourseContentID)
	}
	for i := range record.Modules {
		record.Modules[i].CompletedContent = byModule[record.Modules[i].ModuleID]
	}
	return &record, nil
}
