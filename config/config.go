package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	EmailSender string
	Password    string // SMTP Password

	RendererURL     string // Certificate renderer service URL
	RendererTimeout int    // Renderer call timeout in seconds
	CertificateDir  string // Directory for stored certificate artifacts
	PublicBaseURL   string // Base URL used to build view/verify links
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "lms"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),

		RendererURL:     getEnv("RENDERER_URL", "http://localhost:4001/render"),
		RendererTimeout: getEnvInt("RENDERER_TIMEOUT_SECONDS", 30),
		CertificateDir:  getEnv("CERTIFICATE_DIR", "public/certificates"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.RendererURL == "http://localhost:4001/render" {
		log.Println("Warning: Using default RENDERER_URL. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
