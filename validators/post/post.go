package postValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreatePost validates post creation request
func CreatePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title      string `json:"title"`
			Body       string `json:"body"`
			CoverImage string `json:"cover_image"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if strings.TrimSpace(reqData.Body) == "" {
			errors["body"] = "Body is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPost", reqData)
		return c.Next()
	}
}

// UpdatePost validates post update request
func UpdatePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		postIDStr := strings.TrimSpace(c.Params("id"))
		if postIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Post ID is required!", nil)
		}

		postID, err := strconv.Atoi(postIDStr)
		if err != nil || postID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Post ID!", nil)
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Body        string `json:"body"`
			CoverImage  string `json:"cover_image"`
			IsPublished *bool  `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("postID", postID)
		c.Locals("validatedPostUpdate", reqData)
		return c.Next()
	}
}

// DeletePost validates post deletion request
func DeletePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		postIDStr := strings.TrimSpace(c.Params("id"))
		if postIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Post ID is required!", nil)
		}

		postID, err := strconv.Atoi(postIDStr)
		if err != nil || postID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Post ID!", nil)
		}

		c.Locals("postID", postID)
		return c.Next()
	}
}
