package courseValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ProgressSyncRequest is a bulk progress payload from an offline client.
// Module and content ids must all be positive.
type ProgressSyncRequest struct {
	CompletedModules         []uint          `json:"completed_modules" validate:"dive,gt=0"`
	CompletedContentByModule map[uint][]uint `json:"completed_content" validate:"dive,dive,gt=0"`
}

// MarkContentComplete validates a single content completion request
func MarkContentComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if courseID == 0 {
			return err
		}
		moduleID, err := parseID(c, "module_id", "Module ID")
		if moduleID == 0 {
			return err
		}
		contentID, err := parseID(c, "content_id", "Content ID")
		if contentID == 0 {
			return err
		}

		reqData := new(struct {
			Completed *bool `json:"completed"`
		})

		// An empty body means "mark complete"
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("contentID", contentID)
		c.Locals("validatedContentProgress", reqData)
		return c.Next()
	}
}

// SyncProgress validates a bulk progress sync request
func SyncProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if courseID == 0 {
			return err
		}

		reqData := new(ProgressSyncRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "All ids must be positive!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedProgressSync", reqData)
		return c.Next()
	}
}

// GetCourseProgress validates a progress read request
func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if courseID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
