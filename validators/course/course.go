package courseValidator

import (
	"github.com/gofiber/fiber/v2"
)

// GetCourseDetail validates a course detail request
func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "id", "Course ID")
		if courseID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
