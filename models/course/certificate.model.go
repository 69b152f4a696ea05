package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CertificateMetadata is the snapshot frozen into a certificate at issuance.
// It is never re-derived, even if the underlying profiles change later.
type CertificateMetadata struct {
	StudentName    string    `json:"student_name"`
	CourseName     string    `json:"course_name"`
	InstructorName string    `json:"instructor_name"`
	CompletionDate time.Time `json:"completion_date"`
}

// Certificate represents an issued certificate for course completion.
// The (user, course) unique index is the arbiter that keeps issuance
// at-most-once under concurrent requests.
type Certificate struct {
	gorm.Model
	CertificateID string                                  `json:"certificate_id" gorm:"uniqueIndex;size:36;not null"`
	UserID        uint                                    `json:"user_id" gorm:"uniqueIndex:idx_user_course_certificate;not null"`
	CourseID      uint                                    `json:"course_id" gorm:"uniqueIndex:idx_user_course_certificate;not null"`
	IssuedAt      time.Time                               `json:"issued_at"`
	Metadata      datatypes.JSONType[CertificateMetadata] `json:"metadata"`
	ViewURL       string                                  `json:"view_url"`
	VerifyURL     string                                  `json:"verify_url"`
}
