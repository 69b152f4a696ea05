package courseValidator

import (
	"github.com/gofiber/fiber/v2"
)

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "id", "Course ID")
		if courseID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
