package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive integer path parameter. On failure the error
// response is already written and the returned id is 0.
func parseID(c *fiber.Ctx, param, label string) (int, error) {
	idStr := strings.TrimSpace(c.Params(param))
	if idStr == "" {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
	}
	return id, nil
}

// ============ Course Validators ============

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			InstructorID uint   `json:"instructor_id"`
			Duration     int64  `json:"duration"`
			ThumbnailURL string `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		} else if len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if reqData.InstructorID == 0 {
			errors["instructor_id"] = "Instructor is required!"
		}

		if reqData.Duration <= 0 {
			errors["duration"] = "Duration must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseAdmin validates admin course update request
func UpdateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "id", "Course ID")
		if courseID == 0 {
			return err
		}

		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			InstructorID uint   `json:"instructor_id"`
			Duration     int64  `json:"duration"`
			ThumbnailURL string `json:"thumbnail_url"`
			Status       string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Status = strings.TrimSpace(reqData.Status)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description != "" && len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if reqData.Status != "" {
			validStatuses := map[string]bool{"DRAFT": true, "ACTIVE": true, "INACTIVE": true}
			if !validStatuses[reqData.Status] {
				errors["status"] = "Status must be DRAFT, ACTIVE, or INACTIVE!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// DeleteCourse validates course deletion request
func DeleteCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "id", "Course ID")
		if courseID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// PublishCourse validates course publish/unpublish request
func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "id", "Course ID")
		if courseID == 0 {
			return err
		}

		reqData := new(struct {
			IsPublished bool `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("publishStatus", reqData.IsPublished)
		return c.Next()
	}
}

// AdminList validates admin list request with pagination
func AdminList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedAdminList", reqData)
		return c.Next()
	}
}

// ============ Module Validators ============

// CreateModule validates module creation request
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "id", "Course ID")
		if courseID == 0 {
			return err
		}

		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			OrderIndex   int    `json:"order_index"`
			IsCompulsory bool   `json:"is_compulsory"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.Title == "" {
			errors["title"] = "Module title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Module title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// UpdateModule validates module update request
func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if courseID == 0 {
			return err
		}
		moduleID, err := parseID(c, "module_id", "Module ID")
		if moduleID == 0 {
			return err
		}

		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			OrderIndex   int    `json:"order_index"`
			IsCompulsory *bool  `json:"is_compulsory"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Module title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedModuleUpdate", reqData)
		return c.Next()
	}
}

// DeleteModule validates module deletion request
func DeleteModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if courseID == 0 {
			return err
		}
		moduleID, err := parseID(c, "module_id", "Module ID")
		if moduleID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// ListModules validates module listing request
func ListModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "id", "Course ID")
		if courseID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// ============ Content Validators ============

// CreateContentAdmin validates content creation request
func CreateContentAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if courseID == 0 {
			return err
		}
		moduleID, err := parseID(c, "module_id", "Module ID")
		if moduleID == 0 {
			return err
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ContentType string `json:"content_type"`
			TextContent string `json:"text_content"`
			VideoURL    string `json:"video_url"`
			ImageURL    string `json:"image_url"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.ContentType = strings.ToUpper(strings.TrimSpace(reqData.ContentType))

		if reqData.Title == "" {
			errors["title"] = "Content title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Content title must be at least 3 characters long!"
		}

		validContentTypes := map[string]bool{"TEXT": true, "VIDEO": true, "IMAGE": true}
		if reqData.ContentType == "" {
			errors["content_type"] = "Content type is required!"
		} else if !validContentTypes[reqData.ContentType] {
			errors["content_type"] = "Content type must be TEXT, VIDEO, or IMAGE!"
		}

		// Validate based on content type
		switch reqData.ContentType {
		case "TEXT":
			if strings.TrimSpace(reqData.TextContent) == "" {
				errors["text_content"] = "Text content is required for TEXT type!"
			}
		case "VIDEO":
			if strings.TrimSpace(reqData.VideoURL) == "" {
				errors["video_url"] = "Video URL is required for VIDEO type!"
			}
		case "IMAGE":
			if strings.TrimSpace(reqData.ImageURL) == "" {
				errors["image_url"] = "Image URL is required for IMAGE type!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// UpdateContentAdmin validates content update request
func UpdateContentAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentID, err := parseID(c, "content_id", "Content ID")
		if contentID == 0 {
			return err
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ContentType string `json:"content_type"`
			TextContent string `json:"text_content"`
			VideoURL    string `json:"video_url"`
			ImageURL    string `json:"image_url"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.ContentType = strings.ToUpper(strings.TrimSpace(reqData.ContentType))

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Content title must be at least 3 characters long!"
		}

		if reqData.ContentType != "" {
			validContentTypes := map[string]bool{"TEXT": true, "VIDEO": true, "IMAGE": true}
			if !validContentTypes[reqData.ContentType] {
				errors["content_type"] = "Content type must be TEXT, VIDEO, or IMAGE!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("contentID", contentID)
		c.Locals("validatedContentUpdate", reqData)
		return c.Next()
	}
}

// DeleteContentAdmin validates content deletion request
func DeleteContentAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentID, err := parseID(c, "content_id", "Content ID")
		if contentID == 0 {
			return err
		}

		c.Locals("contentID", contentID)
		return c.Next()
	}
}

// PublishContentAdmin validates content publish/unpublish request
func PublishContentAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentID, err := parseID(c, "content_id", "Content ID")
		if contentID == 0 {
			return err
		}

		reqData := new(struct {
			IsPublished bool `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("contentID", contentID)
		c.Locals("publishStatus", reqData.IsPublished)
		return c.Next()
	}
}

// ============ Enrollment & Progress Validators ============

// GetCourseEnrollments validates course enrollments list request
func GetCourseEnrollments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "id", "Course ID")
		if courseID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// GetStudentProgress validates admin student progress request
func GetStudentProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if courseID == 0 {
			return err
		}
		studentID, err := parseID(c, "student_id", "Student ID")
		if studentID == 0 {
			return err
		}

		c.Locals("courseID", courseID)
		c.Locals("studentID", studentID)
		return c.Next()
	}
}
