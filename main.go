package main

import (
	"log"
	"time"

	"lms/config"
	courseControllers "lms/controllers/course"
	"lms/database"
	authRoutes "lms/routers/authRoutes"
	certificateRoutes "lms/routers/certificateRoutes"
	courseRoutes "lms/routers/courseRoutes"
	postRoutes "lms/routers/postRoutes"
	"lms/services/certificate"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	// Wire the certificate issuance pipeline
	renderer := certificate.NewHTTPRenderer(
		config.AppConfig.RendererURL,
		time.Duration(config.AppConfig.RendererTimeout)*time.Second,
	)
	store := certificate.NewDiskStore(config.AppConfig.CertificateDir)
	courseControllers.InitCertificateService(
		certificate.NewService(database.Database.Db, renderer, store, config.AppConfig.PublicBaseURL),
	)

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	postRoutes.SetupPostRoutes(app)

	// Nightly job repairing enrollments that missed a progress fold
	utils.InitializeProgressReconciler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
