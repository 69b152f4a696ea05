package courseValidator

import (
	"github.com/gofiber/fiber/v2"
)

// RequestCertificateValidator validates a certificate issuance request
func RequestCertificateValidator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if courseID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
