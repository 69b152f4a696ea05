package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentEnrolled   = "ENROLLED"
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"
)

// Enrollment tracks a learner's enrollment in a course with progress.
// Progress only ever moves upward; writers must use a conditional update
// (progress < new value) so a stale recompute can never regress it.
type Enrollment struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course_enrollment;not null"`
	CourseID       uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course_enrollment;not null"`
	Status         string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress       int        `json:"progress" gorm:"default:0"`        // Completion percentage (0-100)
	EnrolledAt     time.Time  `json:"enrolled_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	IsDeleted      bool       `gorm:"default:false"`
}
