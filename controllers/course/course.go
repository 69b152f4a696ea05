package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published courses for learners
func GetAllCourses(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var courses []courseModels.Course
	var total int64

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)
	db.Count(&total)

	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	// Attach enrollment flags for the requesting user
	type CourseWithEnrollment struct {
		courseModels.Course
		IsEnrolled bool `json:"is_enrolled"`
	}

	coursesWithEnrollment := make([]CourseWithEnrollment, len(courses))
	for i, course := range courses {
		var count int64
		database.Database.Db.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND is_deleted = ?", userId, course.ID, false).
			Count(&count)
		coursesWithEnrollment[i] = CourseWithEnrollment{
			Course:     course,
			IsEnrolled: count > 0,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": coursesWithEnrollment,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails gets a published course with its module list
func GetCourseDetails(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	// Check enrollment
	var enrollment courseModels.Enrollment
	isEnrolled := false
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).First(&enrollment).Error; err == nil {
		isEnrolled = true
	}

	response := fiber.Map{
		"course":      course,
		"modules":     modules,
		"is_enrolled": isEnrolled,
	}
	if isEnrolled {
		response["enrollment"] = enrollment

		// Enrolled learners also get the content lists
		var contents []courseModels.CourseContent
		database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
			Order("order_index asc").Find(&contents)
		response["contents"] = contents
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", response)
}
