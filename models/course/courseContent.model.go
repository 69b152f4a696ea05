package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseContent represents a content item within a module
type CourseContent struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, IMAGE
	TextContent string `json:"text_content" gorm:"type:text"`      // For TEXT type
	VideoURL    string `json:"video_url"`                          // For VIDEO type
	ImageURL    string `json:"image_url"`                          // For IMAGE type
	OrderIndex  int    `json:"order_index" gorm:"default:0"`       // Order within module
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// ContentCompletion tracks a learner's completion of a single content item.
// The (user, content) unique index makes concurrent completions of different
// items independent inserts rather than overwrites of one shared record.
// No DeletedAt here: unmarking hard-deletes the row, otherwise a later
// re-completion would collide with the unique index.
type ContentCompletion struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	CreatedAt       time.Time `json:"created_at"`
	UserID          uint      `json:"user_id" gorm:"uniqueIndex:idx_user_content;not null"`
	CourseContentID uint      `json:"course_content_id" gorm:"uniqueIndex:idx_user_content;not null"`
	CourseID        uint      `json:"course_id" gorm:"index;not null"`
	ModuleID        uint      `json:"module_id" gorm:"index;not null"`
}
