package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateContent creates a content item in a module
func AdminCreateContent(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	// Check module belongs to the course
	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedContent").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ContentType string `json:"content_type"`
		TextContent string `json:"text_content"`
		VideoURL    string `json:"video_url"`
		ImageURL    string `json:"image_url"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	contentType := reqData.ContentType
	if contentType == "" {
		contentType = "TEXT"
	}

	content := courseModels.CourseContent{
		CourseID:    uint(courseID),
		ModuleID:    uint(moduleID),
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: contentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		ImageURL:    reqData.ImageURL,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", content)
}

// AdminGetModuleContent lists a module's content items
func AdminGetModuleContent(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var contents []courseModels.CourseContent
	if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", moduleID, false).Order("order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully!", fiber.Map{
		"module":   module,
		"contents": contents,
	})
}

// AdminUpdateContent updates a content item
func AdminUpdateContent(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	reqData, ok := c.Locals("validatedContentUpdate").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ContentType string `json:"content_type"`
		TextContent string `json:"text_content"`
		VideoURL    string `json:"video_url"`
		ImageURL    string `json:"image_url"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		content.Title = reqData.Title
	}
	if reqData.Description != "" {
		content.Description = reqData.Description
	}
	if reqData.ContentType != "" {
		content.ContentType = reqData.ContentType
	}
	if reqData.TextContent != "" {
		content.TextContent = reqData.TextContent
	}
	if reqData.VideoURL != "" {
		content.VideoURL = reqData.VideoURL
	}
	if reqData.ImageURL != "" {
		content.ImageURL = reqData.ImageURL
	}
	if reqData.OrderIndex > 0 {
		content.OrderIndex = reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully!", content)
}

// AdminDeleteContent soft deletes a content item
func AdminDeleteContent(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	content.IsDeleted = true
	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully!", nil)
}

// AdminPublishContent publishes or unpublishes a content item
func AdminPublishContent(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	contentID := c.Locals("contentID").(int)
	publishStatus := c.Locals("publishStatus").(bool)

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	content.IsPublished = publishStatus
	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	message := "Content unpublished successfully!"
	if publishStatus {
		message = "Content published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, content)
}
