package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminGetCourseEnrollments lists enrollments for a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
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

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var enrollments []courseModels.Enrollment
	var total int64

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", courseID, false)
	db.Count(&total)

	if err := db.Offset(offset).Limit(limit).Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithStudent struct {
		courseModels.Enrollment
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
	}

	enrollmentsWithStudent := make([]EnrollmentWithStudent, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var student models.User
		if err := database.Database.Db.Where("id = ?", enrollment.UserID).First(&student).Error; err != nil {
			continue
		}
		enrollmentsWithStudent = append(enrollmentsWithStudent, EnrollmentWithStudent{
			Enrollment:   enrollment,
			StudentName:  student.Name,
			StudentEmail: student.Email,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"course":      course,
		"enrollments": enrollmentsWithStudent,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminGetCompletedStudents lists students who completed a course
func AdminGetCompletedStudents(c *fiber.Ctx) error {
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

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ? AND status = ? AND is_deleted = ?",
		courseID, courseModels.EnrollmentCompleted, false).Order("completed_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	type CompletedStudent struct {
		courseModels.Enrollment
		StudentName    string `json:"student_name"`
		StudentEmail   string `json:"student_email"`
		HasCertificate bool   `json:"has_certificate"`
	}

	students := make([]CompletedStudent, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var student models.User
		if err := database.Database.Db.Where("id = ?", enrollment.UserID).First(&student).Error; err != nil {
			continue
		}
		var certCount int64
		database.Database.Db.Model(&courseModels.Certificate{}).
			Where("user_id = ? AND course_id = ?", enrollment.UserID, courseID).Count(&certCount)
		students = append(students, CompletedStudent{
			Enrollment:     enrollment,
			StudentName:    student.Name,
			StudentEmail:   student.Email,
			HasCertificate: certCount > 0,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completed students fetched successfully!", fiber.Map{
		"students": students,
	})
}

// AdminGetStudentProgress returns one student's progress in a course
func AdminGetStudentProgress(c *fiber.Ctx) error {
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
	studentID := c.Locals("studentID").(int)

	var student models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", studentID, false).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student is not enrolled in this course!", nil)
	}

	var record courseModels.CourseProgress
	database.Database.Db.Preload("Modules").Where("user_id = ? AND course_id = ?", studentID, courseID).First(&record)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"student": fiber.Map{
			"id":    student.ID,
			"name":  student.Name,
			"email": student.Email,
		},
		"enrollment": enrollment,
		"record":     record,
	})
}

// AdminGetIssuedCertificates lists issued certificates, optionally per course
func AdminGetIssuedCertificates(c *fiber.Ctx) error {
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

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Certificate{})
	if courseID := c.QueryInt("course_id", 0); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}

	var total int64
	db.Count(&total)

	var certificates []courseModels.Certificate
	if err := db.Offset(offset).Limit(limit).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminDashboardStats returns platform-wide counters
func AdminDashboardStats(c *fiber.Ctx) error {
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

	var totalStudents, totalCourses, publishedCourses int64
	var totalEnrollments, completedEnrollments, totalCertificates int64

	database.Database.Db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", "STUDENT", false).Count(&totalStudents)
	database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, courseModels.EnrollmentCompleted).Count(&completedEnrollments)
	database.Database.Db.Model(&courseModels.Certificate{}).Count(&totalCertificates)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"total_students":        totalStudents,
		"total_courses":         totalCourses,
		"published_courses":     publishedCourses,
		"total_enrollments":     totalEnrollments,
		"completed_enrollments": completedEnrollments,
		"total_certificates":    totalCertificates,
	})
}
