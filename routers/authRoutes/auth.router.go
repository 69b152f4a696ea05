package authRoutes

import (
	authControllers "lms/controllers/auth"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/send/otp", authValidators.SendOTP(), authControllers.SendOTP)
	authGroup.Patch("/verify/otp", authValidators.VerifyOTP(), authControllers.VerifyOTP)
	authGroup.Patch("/reset/password", authValidators.ResetPassword(), authControllers.ResetPassword)
}
