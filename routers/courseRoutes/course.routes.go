package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("view-course"), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("view-course"), validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("enroll-course"), validators.EnrollCourse(), controllers.EnrollInCourse)

	// Content completion and progress
	userGroup.Post("/:course_id/module/:module_id/content/:content_id/complete", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("track-progress"), validators.MarkContentComplete(), controllers.MarkContentComplete)
	userGroup.Put("/:course_id/progress/sync", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("track-progress"), validators.SyncProgress(), controllers.SyncProgress)
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("track-progress"), validators.GetCourseProgress(), controllers.GetUserProgress)

	// Certificate issuance
	userGroup.Post("/:course_id/certificate", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("request-certificate"), validators.RequestCertificateValidator(), controllers.IssueCertificate)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
