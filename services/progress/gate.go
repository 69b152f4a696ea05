package progress

import (
	"errors"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Gate decision reasons
const (
	ReasonCourseNotCompleted   = "course not completed"
	ReasonCompulsoryIncomplete = "compulsory modules incomplete"
)

// Decision is the outcome of the certificate eligibility check
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Evaluate decides certificate eligibility from already-loaded state.
// With no compulsory modules the decision defers entirely to enrollment
// completion; otherwise every compulsory module must be completed AND the
// enrollment must be completed. Compulsory-module completion is a stricter,
// independent constraint on top of the raw content percentage.
func Evaluate(compulsoryModuleIDs []uint, completedModules map[uint]bool, enrollmentCompleted bool) Decision {
	if len(compulsoryModuleIDs) == 0 {
		if enrollmentCompleted {
			return Decision{Allowed: true}
		}
		return Decision{Allowed: false, Reason: ReasonCourseNotCompleted}
	}
	for _, moduleID := range compulsoryModuleIDs {
		if !completedModules[moduleID] {
			return Decision{Allowed: false, Reason: ReasonCompulsoryIncomplete}
		}
	}
	if !enrollmentCompleted {
		return Decision{Allowed: false, Reason: ReasonCourseNotCompleted}
	}
	return Decision{Allowed: true}
}

// CanIssueCertificate loads the compulsory-module subset and the learner's
// progress record, then evaluates the gate. No state is mutated.
func (s *Service) CanIssueCertificate(courseID, userID uint) (Decision, error) {
	if err := s.checkCourse(courseID); err != nil {
		return Decision{}, err
	}
	enrollment, err := s.loadEnrollment(userID, courseID)
	if err != nil {
		return Decision{}, err
	}

	var compulsoryIDs []uint
	if err := s.db.Model(&courseModels.Module{}).
		Where("course_id = ? AND is_compulsory = ? AND is_deleted = ?", courseID, true, false).
		Pluck("id", &compulsoryIDs).Error; err != nil {
		return Decision{}, err
	}

	completed := make(map[uint]bool)
	if len(compulsoryIDs) > 0 {
		// A compulsory module with no published content has nothing left to
		// finish, so it counts as complete rather than holding the gate shut.
		var withContent []uint
		if err := s.db.Model(&courseModels.CourseContent{}).
			Distinct("module_id").
			Where("module_id IN ? AND is_deleted = ? AND is_published = ?", compulsoryIDs, false, true).
			Pluck("module_id", &withContent).Error; err != nil {
			return Decision{}, err
		}
		hasContent := make(map[uint]bool, len(withContent))
		for _, moduleID := range withContent {
			hasContent[moduleID] = true
		}
		for _, moduleID := range compulsoryIDs {
			if !hasContent[moduleID] {
				completed[moduleID] = true
			}
		}
	}

	var record courseModels.CourseProgress
	err = s.db.Preload("Modules").Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Decision{}, err
	}
	for _, row := range record.Modules {
		if row.IsCompleted {
			completed[row.ModuleID] = true
		}
	}

	return Evaluate(compulsoryIDs, completed, enrollment.Status == courseModels.EnrollmentCompleted), nil
}
