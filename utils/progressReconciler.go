package utils

import (
	"lms/database"
	courseModels "lms/models/course"
	"lms/services/progress"
	"log"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// logReconciler logs reconciler events with timestamp
func logReconciler(message string) {
	log.Printf("[PROGRESS-RECONCILER %s] %s", time.Now().Format(time.RFC3339), message)
}

// reconcileEnrollments recomputes every active enrollment's percentage from the
// stored completion rows and re-folds it. The fold is the same monotonic
// conditional write the aggregator uses, so a recompute can only repair a
// missed update, never regress a more advanced one.
func reconcileEnrollments() {
	db := database.Database.Db
	service := progress.NewService(db)

	var enrollments []courseModels.Enrollment
	if err := db.Where("is_deleted = ? AND status <> ?", false, courseModels.EnrollmentCompleted).
		Find(&enrollments).Error; err != nil {
		logReconciler("Error fetching enrollments: " + err.Error())
		return
	}

	repaired := 0
	failed := 0
	for _, enrollment := range enrollments {
		result, err := service.Reconcile(enrollment.UserID, enrollment.CourseID)
		if err != nil {
			logReconciler("Error reconciling enrollment " + strconv.Itoa(int(enrollment.ID)) + ": " + err.Error())
			failed++
			continue
		}
		if result.StoredPercentage > enrollment.Progress {
			repaired++
		}
	}

	logReconciler("Reconciliation pass finished, repaired " + strconv.Itoa(repaired) + " enrollments, " + strconv.Itoa(failed) + " failed")
}

// InitializeProgressReconciler schedules the nightly reconciliation job
func InitializeProgressReconciler() *cron.Cron {
	c := cron.New()

	// Run every night at 02:30
	if _, err := c.AddFunc("30 2 * * *", reconcileEnrollments); err != nil {
		logReconciler("Failed to schedule reconciliation job: " + err.Error())
		return c
	}

	c.Start()
	logReconciler("Progress reconciler scheduled")
	return c
}
