package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseProgress is the per-learner progress record for one course.
// At most one exists per (user, course); it is created lazily from the
// catalog's module list on first progress read or write.
type CourseProgress struct {
	gorm.Model
	UserID       uint  `json:"user_id" gorm:"uniqueIndex:idx_user_course_progress;not null"`
	CourseID     uint  `json:"course_id" gorm:"uniqueIndex:idx_user_course_progress;not null"`
	LastModuleID *uint `json:"last_module_id"` // Last module the learner touched

	Modules []ModuleProgress `json:"modules" gorm:"foreignKey:CourseProgressID"`
}

// ModuleProgress holds one module's progress entry inside a CourseProgress record
type ModuleProgress struct {
	gorm.Model
	CourseProgressID uint       `json:"-" gorm:"uniqueIndex:idx_progress_module;not null"`
	ModuleID         uint       `json:"module_id" gorm:"uniqueIndex:idx_progress_module;not null"`
	OrderIndex       int        `json:"order_index" gorm:"default:0"` // Mirrors catalog module order
	IsCompleted      bool       `json:"is_completed" gorm:"default:false"`
	LastAccessedAt   *time.Time `json:"last_accessed_at"`

	// Filled from ContentCompletion rows when the record is assembled
	CompletedContent []uint `json:"completed_content" gorm:"-"`
}
