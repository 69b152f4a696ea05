package controllers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.CourseContent{},
		&courseModels.Enrollment{},
		&courseModels.CourseProgress{},
		&courseModels.ModuleProgress{},
		&courseModels.ContentCompletion{},
		&courseModels.Certificate{},
	))
	database.Database = database.DbInstance{Db: db}
	return db
}

// newProgressApp mounts GetUserProgress behind a stub that injects the locals
// the JWT middleware and route validators normally set.
func newProgressApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Get("/course/:course_id/progress", func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		courseID, _ := strconv.Atoi(c.Params("course_id"))
		c.Locals("courseID", courseID)
		return c.Next()
	}, GetUserProgress)
	return app
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestGetUserProgressReturnsEnrollment(t *testing.T) {
	db := newControllerTestDB(t)

	student := models.User{Name: "Asha Verma", Email: "asha@test.local", Password: "secret123"}
	require.NoError(t, db.Create(&student).Error)

	course := courseModels.Course{Title: "Go Fundamentals", InstructorID: student.ID, IsPublished: true, Status: "ACTIVE"}
	require.NoError(t, db.Create(&course).Error)
	module := courseModels.Module{CourseID: course.ID, Title: "Module 1", OrderIndex: 1, IsCompulsory: true}
	require.NoError(t, db.Create(&module).Error)

	enrollment := courseModels.Enrollment{UserID: student.ID, CourseID: course.ID, Status: courseModels.EnrollmentEnrolled, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(&enrollment).Error)

	app := newProgressApp(student.ID)
	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/course/%d/progress", course.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Status)

	var data struct {
		Enrollment   courseModels.Enrollment `json:"enrollment"`
		TotalModules int                     `json:"total_modules"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))

	// The enrollment in the response comes from the store, never a zero value
	assert.NotZero(t, data.Enrollment.ID)
	assert.Equal(t, student.ID, data.Enrollment.UserID)
	assert.Equal(t, course.ID, data.Enrollment.CourseID)
	assert.Equal(t, 1, data.TotalModules)
}

func TestGetUserProgressNotEnrolled(t *testing.T) {
	db := newControllerTestDB(t)

	student := models.User{Name: "Ravi Kumar", Email: "ravi@test.local", Password: "secret123"}
	require.NoError(t, db.Create(&student).Error)
	course := courseModels.Course{Title: "Go Fundamentals", InstructorID: student.ID, IsPublished: true, Status: "ACTIVE"}
	require.NoError(t, db.Create(&course).Error)

	app := newProgressApp(student.ID)
	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/course/%d/progress", course.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Status)
}
