package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tesina/core"
)

// clockLayout is the wall-clock form used by the submission time window.
const clockLayout = "15:04:05"

// Task is a thesis-related assignment students submit work and comments
// against. Submissions and comments are only accepted while the current
// moment falls inside both the date window [StartDate, EndDate] and the
// time-of-day window [StartTime, EndTime].
type Task struct {
	ID          int       `json:"id"`
	CourseID    int       `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	StartTime   string    `json:"start_time"` // HH:MM:SS
	EndTime     string    `json:"end_time"`   // HH:MM:SS
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// DateWindowContains reports whether now falls within [StartDate, EndDate],
// inclusive on both ends, compared as full date-times.
func (t Task) DateWindowContains(now time.Time) bool {
	return !now.Before(t.StartDate) && !now.After(t.EndDate)
}

// TimeWindowContains reports whether the wall-clock component of now falls
// within [StartTime, EndTime], inclusive on both ends, in the server's
// local time zone. HH:MM:SS strings compare lexicographically in temporal
// order. A window with StartTime > EndTime (crossing midnight) is never
// satisfiable.
func (t Task) TimeWindowContains(now time.Time) bool {
	clock := now.Format(clockLayout)
	return t.StartTime <= clock && clock <= t.EndTime
}

// Submission records that a user handed in work for a task. The file
// payload itself is stored elsewhere; Reference identifies it.
type Submission struct {
	ID          int       `json:"id"`
	TaskID      int       `json:"task_id"`
	UserID      int       `json:"user_id"`
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	CourseID    int       `json:"course_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required,clock"`
	EndTime     string    `json:"end_time" validate:"required,clock"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	return validate.Struct(nt)
}

// UpdateTask defines what information may be provided to modify an existing Task.
type UpdateTask struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	StartTime   string    `json:"start_time" validate:"omitempty,clock"`
	EndTime     string    `json:"end_time" validate:"omitempty,clock"`
}

func (ut *UpdateTask) Validate(origTask Task, validate *validator.Validate) error {
	if title := core.CleanString(ut.Title); title != "" {
		ut.Title = title
	} else {
		ut.Title = origTask.Title
	}
	if desc := core.CleanString(ut.Description); desc != "" {
		ut.Description = desc
	}
	if ut.StartDate.IsZero() {
		ut.StartDate = origTask.StartDate
	}
	if ut.EndDate.IsZero() {
		ut.EndDate = origTask.EndDate
	}
	if ut.StartTime == "" {
		ut.StartTime = origTask.StartTime
	}
	if ut.EndTime == "" {
		ut.EndTime = origTask.EndTime
	}
	return validate.Struct(ut)
}

type QueryFilter struct {
	CourseID int    `query:"course_id"`
	Search   string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// GetFilter selects a single Task.
type GetFilter struct {
	ID int
}
