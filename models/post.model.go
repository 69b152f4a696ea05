package models

import "gorm.io/gorm"

// Post is a blog/announcement entry managed by staff
type Post struct {
	gorm.Model
	AuthorID    uint   `gorm:"index;not null"`
	Title       string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Body        string `gorm:"type:text;default:''"`
	CoverImage  string `gorm:"default:''"`
	IsPublished bool   `gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
