package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func progressErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, progress.ErrModuleNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	case errors.Is(err, progress.ErrContentNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	case errors.Is(err, progress.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}
}

// MarkContentComplete marks a single content item complete or incomplete
func MarkContentComplete(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)
	contentID := c.Locals("contentID").(int)

	reqData, ok := c.Locals("validatedContentProgress").(*struct {
		Completed *bool `json:"completed"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	completed := true
	if reqData.Completed != nil {
		completed = *reqData.Completed
	}

	service := progress.NewService(database.Database.Db)
	result, err := service.RecordContent(userId, uint(courseID), progress.ContentUpdate{
		ModuleID:  uint(moduleID),
		ContentID: uint(contentID),
		Completed: completed,
	})
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", result)
}

// SyncProgress overwrites the user's progress for a course from a bulk payload
func SyncProgress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedProgressSync").(*courseValidator.ProgressSyncRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := progress.NewService(database.Database.Db)
	result, err := service.RecordBulk(userId, uint(courseID), progress.BulkUpdate{
		CompletedModules:         reqData.CompletedModules,
		CompletedContentByModule: reqData.CompletedContentByModule,
	})
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress synced successfully!", result)
}

// GetUserProgress returns the user's progress record for a course
func GetUserProgress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	service := progress.NewService(database.Database.Db)
	record, err := service.GetProgress(userId, uint(courseID))
	if err != nil {
		return progressErrorResponse(c, err)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	completedModules := 0
	for _, row := range record.Modules {
		if row.IsCompleted {
			completedModules++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"record":            record,
		"enrollment":        enrollment,
		"completed_modules": completedModules,
		"total_modules":     len(record.Modules),
	})
}
