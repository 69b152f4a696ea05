package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/certificate"
	"lms/services/progress"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// CertService is wired once at startup with the renderer and artifact store
var CertService *certificate.Service

// InitCertificateService injects the issuance pipeline used by the handlers
func InitCertificateService(service *certificate.Service) {
	CertService = service
}

// IssueCertificate requests a certificate for the user on a completed course.
// Repeat calls return the already-issued certificate.
func IssueCertificate(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	cert, err := CertService.Issue(c.UserContext(), userId, uint(courseID))
	if err != nil {
		var notEligible *certificate.NotEligibleError
		var upstream *certificate.UpstreamError
		switch {
		case errors.As(err, &notEligible):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Not eligible: "+notEligible.Reason, nil)
		case errors.As(err, &upstream):
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Certificate generation failed, please retry!", nil)
		case errors.Is(err, progress.ErrNotEnrolled):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
		case errors.Is(err, progress.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
		}
	}

	// Notify the learner in the background
	metadata := cert.Metadata.Data()
	go utils.SendCertificateIssuedEmail(user.Email, user.Name, metadata.CourseName, cert.ViewURL)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", cert)
}

// GetUserCertificates lists the requesting user's certificates
func GetUserCertificates(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ?", userId).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
	})
}

// ViewCertificate serves the certificate document inline. Public by design so
// the view URL printed on the certificate works without a login.
func ViewCertificate(c *fiber.Ctx) error {
	certificateID := c.Params("certificate_id")

	_, artifact, err := CertService.ViewArtifact(certificateID)
	if err != nil {
		return certificateLookupError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(artifact)
}

// DownloadCertificate serves the certificate document as an attachment
func DownloadCertificate(c *fiber.Ctx) error {
	certificateID := c.Params("certificate_id")

	cert, artifact, err := CertService.ViewArtifact(certificateID)
	if err != nil {
		return certificateLookupError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="certificate-`+cert.CertificateID+`.pdf"`)
	return c.Send(artifact)
}

// VerifyCertificate returns the public snapshot for a certificate id
func VerifyCertificate(c *fiber.Ctx) error {
	certificateID := c.Params("certificate_id")

	result, err := CertService.Verify(certificateID)
	if err != nil {
		return certificateLookupError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", result)
}

func certificateLookupError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, certificate.ErrInvalidCertificateID):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate id!", nil)
	case errors.Is(err, certificate.ErrCertificateNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	case errors.Is(err, certificate.ErrArtifactNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate document not found!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}
}
