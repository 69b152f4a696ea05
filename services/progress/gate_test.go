package progress

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name                string
		compulsory          []uint
		completed           map[uint]bool
		enrollmentCompleted bool
		wantAllowed         bool
		wantReason          string
	}{
		{
			name:                "no compulsory modules, course completed",
			compulsory:          nil,
			enrollmentCompleted: true,
			wantAllowed:         true,
		},
		{
			name:                "no compulsory modules, course incomplete",
			compulsory:          nil,
			enrollmentCompleted: false,
			wantAllowed:         false,
			wantReason:          ReasonCourseNotCompleted,
		},
		{
			name:                "compulsory module missing",
			compulsory:          []uint{1, 2},
			completed:           map[uint]bool{1: true},
			enrollmentCompleted: true,
			wantAllowed:         false,
			wantReason:          ReasonCompulsoryIncomplete,
		},
		{
			name:                "compulsory done but course incomplete",
			compulsory:          []uint{1, 2},
			completed:           map[uint]bool{1: true, 2: true},
			enrollmentCompleted: false,
			wantAllowed:         false,
			wantReason:          ReasonCourseNotCompleted,
		},
		{
			name:                "all compulsory done and course completed",
			compulsory:          []uint{1, 2},
			completed:           map[uint]bool{1: true, 2: true, 3: true},
			enrollmentCompleted: true,
			wantAllowed:         true,
		},
		{
			name:                "nothing completed",
			compulsory:          []uint{1},
			completed:           map[uint]bool{},
			enrollmentCompleted: false,
			wantAllowed:         false,
			wantReason:          ReasonCompulsoryIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(tt.compulsory, tt.completed, tt.enrollmentCompleted)
			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}

func TestCanIssueCertificate(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)

	// Modules A and B are compulsory, C is optional
	fx := seedCourse(t, db, []int{2, 2, 1}, []bool{true, true, false})

	decision, err := s.CanIssueCertificate(fx.courseID, fx.userID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonCompulsoryIncomplete, decision.Reason)

	// Finish A and B; C remains, so the course sits at 80 percent
	for i := 0; i < 2; i++ {
		complete(t, s, fx, 0, i)
		complete(t, s, fx, 1, i)
	}

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", fx.userID, fx.courseID).First(&enrollment).Error)
	assert.Equal(t, 80, enrollment.Progress)

	decision, err = s.CanIssueCertificate(fx.courseID, fx.userID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonCourseNotCompleted, decision.Reason)

	// Finishing the optional module completes the course and opens the gate
	complete(t, s, fx, 2, 0)

	decision, err = s.CanIssueCertificate(fx.courseID, fx.userID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Reason)
}

func TestCanIssueCertificateEmptyCompulsoryModule(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)

	// The second compulsory module carries no published content; it has
	// nothing to finish and must not keep the gate shut forever.
	fx := seedCourse(t, db, []int{2, 0}, []bool{true, true})

	complete(t, s, fx, 0, 0)
	result := complete(t, s, fx, 0, 1)
	require.Equal(t, 100, result.Percentage)

	decision, err := s.CanIssueCertificate(fx.courseID, fx.userID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Reason)
}

func TestCanIssueCertificateNotEnrolled(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db)
	fx := seedCourse(t, db, []int{1}, []bool{true})

	_, err := s.CanIssueCertificate(fx.courseID, fx.userID+1000)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}
