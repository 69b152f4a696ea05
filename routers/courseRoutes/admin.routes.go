package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, validators.DeleteCourse(), controllers.AdminDeleteCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, validators.AdminList(), controllers.AdminGetAllCourses)
	adminGroup.Get("/:id", middleware.JWTMiddleware, validators.DeleteCourse(), controllers.AdminGetCourseDetails)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, validators.PublishCourse(), controllers.AdminPublishCourse)
	adminGroup.Post("/:id/thumbnail", middleware.JWTMiddleware, validators.DeleteCourse(), controllers.AdminUploadCourseThumbnail)

	// Module Management
	adminGroup.Post("/:id/module", middleware.JWTMiddleware, validators.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Put("/:course_id/module/:module_id", middleware.JWTMiddleware, validators.UpdateModule(), controllers.AdminUpdateModule)
	adminGroup.Delete("/:course_id/module/:module_id", middleware.JWTMiddleware, validators.DeleteModule(), controllers.AdminDeleteModule)
	adminGroup.Get("/:id/modules", middleware.JWTMiddleware, validators.ListModules(), controllers.AdminListModules)

	// Content Management
	adminGroup.Post("/:course_id/module/:module_id/content", middleware.JWTMiddleware, validators.CreateContentAdmin(), controllers.AdminCreateContent)
	adminGroup.Get("/:course_id/module/:module_id/content", middleware.JWTMiddleware, validators.DeleteModule(), controllers.AdminGetModuleContent)

	// Content endpoints (separate from course group for easier access)
	contentGroup := app.Group("/admin/content")
	contentGroup.Put("/:content_id", middleware.JWTMiddleware, validators.UpdateContentAdmin(), controllers.AdminUpdateContent)
	contentGroup.Delete("/:content_id", middleware.JWTMiddleware, validators.DeleteContentAdmin(), controllers.AdminDeleteContent)
	contentGroup.Post("/:content_id/publish", middleware.JWTMiddleware, validators.PublishContentAdmin(), controllers.AdminPublishContent)

	// Enrollment & Progress Tracking
	adminGroup.Get("/:id/enrollments", middleware.JWTMiddleware, validators.GetCourseEnrollments(), controllers.AdminGetCourseEnrollments)
	adminGroup.Get("/:id/completed", middleware.JWTMiddleware, validators.GetCourseEnrollments(), controllers.AdminGetCompletedStudents)
	adminGroup.Get("/:course_id/student/:student_id/progress", middleware.JWTMiddleware, validators.GetStudentProgress(), controllers.AdminGetStudentProgress)

	// Certificates
	certGroup := app.Group("/admin/certificates")
	certGroup.Get("/issued", middleware.JWTMiddleware, controllers.AdminGetIssuedCertificates)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard")
	dashGroup.Get("/stats", middleware.JWTMiddleware, controllers.AdminDashboardStats)
}
