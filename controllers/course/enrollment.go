package controllers

import (
	"errors"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollInCourse enrolls the requesting user in a published course
func EnrollInCourse(c *fiber.Ctx) error {
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

	// Already enrolled?
	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", existing)
	}

	enrollment := courseModels.Enrollment{
		UserID:     userId,
		CourseID:   uint(courseID),
		Status:     courseModels.EnrollmentEnrolled,
		Progress:   0,
		EnrolledAt: time.Now(),
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		// The (user, course) unique index arbitrates a concurrent double-enroll
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			database.Database.Db.Where("user_id = ? AND course_id = ?", userId, courseID).First(&enrollment)
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", enrollment)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// GetUserEnrollmentsList lists the requesting user's enrollments
func GetUserEnrollmentsList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userId, false).Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		Course courseModels.Course `json:"course"`
	}

	enrollmentsWithCourse := make([]EnrollmentWithCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", enrollment.CourseID, false).First(&course).Error; err != nil {
			continue
		}
		enrollmentsWithCourse = append(enrollmentsWithCourse, EnrollmentWithCourse{
			Enrollment: enrollment,
			Course:     course,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollmentsWithCourse,
	})
}
