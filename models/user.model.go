package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage        string     `gorm:"default:''"`
	Name                string     `gorm:"default:''"`
	Email               string     `gorm:"unique;not null"`
	Mobile              string     `gorm:"default:''"`
	Role                string     `gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR, ADMIN
	Password            string     `gorm:"not null"`
	Bio                 string     `gorm:"type:text;default:''"`
	IsMobileVerified    bool       `gorm:"default:false"`
	IsEmailVerified     bool       `gorm:"default:false"`
	LastLogin           time.Time  `gorm:"default:NULL"`
	FailedLoginAttempts int        `gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"last_failed_login"`
	IsBlocked           bool       `gorm:"default:false"`
	BlockedUntil        *time.Time `json:"blocked_until"`
	IsDeleted           bool       `gorm:"default:false"`
}
