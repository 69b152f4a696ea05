package certificate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Errors returned by the certificate service
var (
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrInvalidCertificateID = errors.New("invalid certificate id")
	ErrArtifactNotFound     = errors.New("certificate artifact not found")
)

// NotEligibleError is returned when the completion gate rejects issuance
type NotEligibleError struct {
	Reason string
}

func (e *NotEligibleError) Error() string {
	return "not eligible for certificate: " + e.Reason
}

// UpstreamError wraps a renderer or artifact-store failure. The operation left
// no certificate record behind, so the caller may safely retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// VerificationResult is the public view of a certificate. It exposes the
// issuance-time snapshot only, never the learner's internal id.
type VerificationResult struct {
	CertificateID  string    `json:"certificate_id"`
	StudentName    string    `json:"student_name"`
	CourseName     string    `json:"course_name"`
	InstructorName string    `json:"instructor_name"`
	CompletionDate time.Time `json:"completion_date"`
	IssuedAt       time.Time `json:"issued_at"`
}

// Service runs the idempotent certificate issuance pipeline
type Service struct {
	db       *gorm.DB
	gate     *progress.Service
	renderer Renderer
	store    ArtifactStore
	baseURL  string
}

// NewService wires the pipeline with its collaborators. Renderer and artifact
// store are injected so tests can substitute them.
func NewService(db *gorm.DB, renderer Renderer, store ArtifactStore, baseURL string) *Service {
	return &Service{
		db:       db,
		gate:     progress.NewService(db),
		renderer: renderer,
		store:    store,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Issue mints a certificate for (user, course), or returns the existing one.
// Ordering matters: the artifact is stored before the record is written, so a
// failure anywhere leaves "no certificate" rather than a record without a
// document. The (user, course) unique index arbitrates concurrent calls; the
// loser of the insert race re-reads and returns the winner's certificate.
func (s *Service) Issue(ctx context.Context, userID, courseID uint) (*courseModels.Certificate, error) {
	// Step 1: idempotency check
	if existing, err := s.find(userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Step 2: eligibility
	decision, err := s.gate.CanIssueCertificate(courseID, userID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &NotEligibleError{Reason: decision.Reason}
	}

	// Step 3: snapshot learner, course and instructor at this instant
	metadata, err := s.snapshot(userID, courseID)
	if err != nil {
		return nil, err
	}

	// Step 4: fresh globally-unique identity
	certificateID := uuid.NewString()

	// Step 5: render the artifact
	artifact, err := s.renderer.Render(ctx, RenderRequest{
		StudentName:    metadata.StudentName,
		CourseName:     metadata.CourseName,
		InstructorName: metadata.InstructorName,
		CompletionDate: metadata.CompletionDate.Format("2006-01-02"),
		CertificateID:  certificateID,
	})
	if err != nil {
		return nil, &UpstreamError{Op: "renderer", Err: err}
	}

	// Step 6: artifact first, record second
	if err := s.store.Put(certificateID, artifact); err != nil {
		return nil, &UpstreamError{Op: "artifact store", Err: err}
	}

	cert := courseModels.Certificate{
		CertificateID: certificateID,
		UserID:        userID,
		CourseID:      courseID,
		IssuedAt:      time.Now(),
		Metadata:      datatypes.NewJSONType(*metadata),
		ViewURL:       fmt.Sprintf("%s/certificate/%s/view", s.baseURL, certificateID),
		VerifyURL:     fmt.Sprintf("%s/certificate/%s/verify", s.baseURL, certificateID),
	}
	if err := s.db.Create(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; drop the orphaned artifact and return the winner
			_ = s.store.Delete(certificateID)
			return s.find(userID, courseID)
		}
		return nil, err
	}

	return &cert, nil
}

// ViewArtifact returns the certificate record and its stored document
func (s *Service) ViewArtifact(certificateID string) (*courseModels.Certificate, []byte, error) {
	cert, err := s.lookup(certificateID)
	if err != nil {
		return nil, nil, err
	}
	artifact, err := s.store.Get(cert.CertificateID)
	if err != nil {
		return nil, nil, ErrArtifactNotFound
	}
	return cert, artifact, nil
}

// Verify returns the certificate's public metadata for a verification lookup
func (s *Service) Verify(certificateID string) (*VerificationResult, error) {
	cert, err := s.lookup(certificateID)
	if err != nil {
		return nil, err
	}
	metadata := cert.Metadata.Data()
	return &VerificationResult{
		CertificateID:  cert.CertificateID,
		StudentName:    metadata.StudentName,
		CourseName:     metadata.CourseName,
		InstructorName: metadata.InstructorName,
		CompletionDate: metadata.CompletionDate,
		IssuedAt:       cert.IssuedAt,
	}, nil
}

func (s *Service) find(userID, courseID uint) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	if err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (s *Service) lookup(certificateID string) (*courseModels.Certificate, error) {
	if _, err := uuid.Parse(certificateID); err != nil {
		return nil, ErrInvalidCertificateID
	}
	var cert courseModels.Certificate
	if err := s.db.Where("certificate_id = ?", certificateID).First(&cert).Error; err != nil {
		return nil, ErrCertificateNotFound
	}
	return &cert, nil
}

// snapshot resolves the display names and completion date frozen into the
// certificate. Later profile edits never change an issued certificate.
func (s *Service) snapshot(userID, courseID uint) (*courseModels.CertificateMetadata, error) {
	var user models.User
	if err := s.db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, err
	}
	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, progress.ErrCourseNotFound
	}

	// A course without a live instructor snapshots an empty name; a failed
	// read must not, or the bad name would be frozen into the certificate.
	instructorName := ""
	var instructor models.User
	err := s.db.Where("id = ? AND is_deleted = ?", course.InstructorID, false).First(&instructor).Error
	switch {
	case err == nil:
		instructorName = instructor.Name
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	completionDate := time.Now()
	var enrollment courseModels.Enrollment
	err = s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && enrollment.CompletedAt != nil {
		completionDate = *enrollment.CompletedAt
	}

	return &courseModels.CertificateMetadata{
		StudentName:    user.Name,
		CourseName:     course.Title,
		InstructorName: instructorName,
		CompletionDate: completionDate,
	}, nil
}
