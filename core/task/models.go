package task

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/streamlineer/streamlineer/core"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusCompleted  = "completed"
)

var (
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
	Statuses   = []string{StatusTodo, StatusInProgress, StatusReview, StatusCompleted}
)

type (
	// Task is a board work item. Tasks created by the inspection workflow
	// carry the originating inspection's id so status changes can follow the
	// inspection through review and approval.
	Task struct {
		ID          string `db:"id" json:"id"`
		Title       string `db:"title" json:"title"`
		Description string `db:"description" json:"description"`
		Priority    string `db:"priority" json:"priority"`
		Status      string `db:"status" json:"status"`
		IsCompleted bool   `db:"is_completed" json:"is_completed"`

		InspectionID  string `db:"inspection_id" json:"inspection_id,omitempty"`
		TemplateID    string `db:"template_id" json:"template_id,omitempty"`
		TemplateTitle string `db:"template_title" json:"template_title,omitempty"`

		AssignedToID   string `db:"assigned_to_id" json:"assigned_to_id"`
		AssignedByID   string `db:"assigned_by_id" json:"assigned_by_id"`
		AssignedToName string `db:"assigned_to_name" json:"assigned_to_name"`
		AssignedByName string `db:"assigned_by_name" json:"assigned_by_name"`

		DueDate     null.Time `db:"due_date" json:"due_date"`
		CompletedAt null.Time `db:"completed_at" json:"completed_at"`
		CreatedAt   time.Time `db:"created_at" json:"created_at"` // UTC
		UpdatedAt   time.Time `db:"updated_at" json:"updated_at"` // UTC
	}

	NewTask struct {
		Title          string    `json:"title" validate:"required,max=255"`
		Description    string    `json:"description"`
		Priority       string    `json:"priority" validate:"omitempty,taskpriority"`
		AssignedToID   string    `json:"assigned_to_id" validate:"required"`
		AssignedToName string    `json:"assigned_to_name"`
		DueDate        null.Time `json:"due_date"`
	}

	UpdateTaskStatus struct {
		Status string `json:"status" validate:"required,taskstatus"`
	}

	QueryFilter struct {
		AssignedToID string `query:"assigned_to_id"`
		AssignedByID string `query:"assigned_by_id"`
		InspectionID string `query:"inspection_id"`
		Status       string `query:"status"`
	}

	// Stats is a per-column count summary for the board header.
	Stats struct {
		Todo           int     `json:"todo"`
		InProgress     int     `json:"in_progress"`
		Review         int     `json:"review"`
		Completed      int     `json:"completed"`
		Total          int     `json:"total"`
		CompletionRate float64 `json:"completion_rate"` // completed / total, 0 on an empty board
	}
)

// advance moves the task to the given status, maintaining the completion
// fields as a unit.
func (t *Task) advance(status string, now time.Time) {
	t.Status = status
	if status == StatusCompleted {
		t.IsCompleted = true
		t.CompletedAt = null.TimeFrom(now)
	} else {
		t.IsCompleted = false
		t.CompletedAt = null.Time{}
	}
	t.UpdatedAt = now
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}
	return validate.Struct(nt)
}

func (ut *UpdateTaskStatus) Validate(validate *validator.Validate) error {
	ut.Status = core.CleanString(ut.Status, true)
	return validate.Struct(ut)
}

func newID() string {
	return uuid.New().String()
}
