package postRoutes

import (
	controllers "lms/controllers/post"
	"lms/middleware"
	validators "lms/validators/post"

	"github.com/gofiber/fiber/v2"
)

// SetupPostRoutes sets up blog post routes
func SetupPostRoutes(app *fiber.App) {
	postGroup := app.Group("/post")

	// Public reads
	postGroup.Get("/list", controllers.GetAllPosts)
	postGroup.Get("/:slug", controllers.GetPostBySlug)

	// Admin management
	adminGroup := app.Group("/admin/post")
	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreatePost(), controllers.CreatePost)
	adminGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdatePost(), controllers.UpdatePost)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, validators.DeletePost(), controllers.DeletePost)
}
