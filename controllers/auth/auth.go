package authController

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Signup(c *fiber.Ctx) error {
	var reqData models.User

	// Parse Request Body
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	// Prepare User Struct for DB Entry
	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Mobile:   reqData.Mobile,
		Password: string(hashedPassword),
	}

	// Create User
	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	if err := SeedPermissions(db, newUser.Role, newUser.ID); err != nil {
		log.Printf("Error seeding permissions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign permissions!", nil)
	}

	go utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	// Clean Response
	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// SeedPermissions seeds default permissions for a given role and user ID
func SeedPermissions(db *gorm.DB, role string, userID uint) error {
	permissions := getDefaultPermissions()

	var permissionRecords []models.Permission
	for _, p := range permissions {
		permissionRecords = append(permissionRecords, models.Permission{
			UserID:     userID,
			Role:       role,
			Permission: p,
		})
	}

	if err := db.Create(&permissionRecords).Error; err != nil {
		return err
	}

	return nil
}

// getDefaultPermissions returns a list of default permission strings
func getDefaultPermissions() []string {
	return []string{
		"login",
		"view-profile",
		"enroll-course",
		"view-course",
		"track-progress",
		"request-certificate",
	}
}

func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !user.IsEmailVerified {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Email not verified!", nil)
	}

	// Check if the user is blocked
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && time.Since(*user.LastFailedLogin) > 15*time.Minute {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
		database.Database.Db.Save(&user)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		now := time.Now()
		user.LastFailedLogin = &now

		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= 3 {
			user.IsBlocked = true

			unblockTime := now.Add(15 * time.Minute)
			user.BlockedUntil = &unblockTime
		}

		// Save the updated user details
		database.Database.Db.Save(&user)

		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong Password", nil)
	}

	// Update last login time
	user.LastLogin = time.Now()
	user.FailedLoginAttempts = 0 // Reset failed login attempts after successful login
	user.IsBlocked = false
	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	// Capture login tracking details
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: time.Now(),
	}

	if err := database.Database.Db.Create(&loginTracking).Error; err != nil {
		log.Printf("Error saving login tracking details: %v", err)
	}

	// Sanitize user data (remove sensitive fields)
	user.Password = ""

	// Generate JWT token
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.Mobile)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func SendOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email!", nil)
	}
	if user.IsEmailVerified {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Email already verified!", nil)
	}

	// Generate OTP
	otp := utils.GenerateOTP()

	// Set OTP expiration time (e.g., 5 minutes from now)
	expiresAt := time.Now().Add(5 * time.Minute)

	// Create OTP record
	otpRecord := models.OTP{
		UserID:      user.ID,
		Email:       reqData.Email,
		Code:        otp,
		ExpiresAt:   expiresAt,
		Description: "Email Verification OTP",
	}

	if err := utils.SendOTPEmail(otp, reqData.Email); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP to email!", nil)
	}

	// Save OTP record to the database
	if err := database.Database.Db.Create(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Create OTP!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

func VerifyOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})

	// Parse the request body
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var otpRecord models.OTP
	if err := database.Database.Db.Where("email = ? AND code = ? AND is_used = ? AND is_deleted = ?",
		reqData.Email, reqData.Code, false, false).First(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP or OTP expired!", nil)
	}

	// Check if OTP has expired
	if otpRecord.ExpiresAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired!", nil)
	}

	// Mark OTP as used
	otpRecord.IsUsed = true
	if err := database.Database.Db.Save(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update OTP status!", nil)
	}

	user.IsEmailVerified = true
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user verification status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified successfully!", nil)
}

func ResetPassword(c *fiber.Ctx) error {
	reqData := new(struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var otpRecord models.OTP
	if err := database.Database.Db.Where("email = ? AND code = ? AND is_used = ? AND is_deleted = ?",
		reqData.Email, reqData.Code, false, false).First(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP or OTP expired!", nil)
	}
	if otpRecord.ExpiresAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	otpRecord.IsUsed = true
	database.Database.Db.Save(&otpRecord)

	user.Password = string(hashedPassword)
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully!", nil)
}
