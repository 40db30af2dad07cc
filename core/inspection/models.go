package inspection

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/streamlineer/streamlineer/core"
)

// Inspection lifecycle statuses. An inspection is finalized by manager
// approval, which moves it from submitted to completed.
const (
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusCompleted  = "completed"
)

var AllStatuses = []string{StatusAssigned, StatusInProgress, StatusSubmitted, StatusCompleted}

type (
	// Responses maps question ids (and derived keys such as
	// "<id>__critical_text") to the inspector's answers.
	Responses map[string]interface{}

	// DefectCounts tallies observed defects per AQL severity.
	DefectCounts struct {
		Critical int `json:"critical"`
		Major    int `json:"major"`
		Minor    int `json:"minor"`
	}

	// OverrideMeta records an inspector's manual accept/reject decision over
	// the computed AQL outcome.
	OverrideMeta struct {
		ActorUserID string    `json:"actor_user_id"`
		ActorRole   string    `json:"actor_role"`
		Decision    string    `json:"decision"`
		Reason      string    `json:"reason"`
		At          time.Time `json:"at"`

		PreviousPassed           bool     `json:"previous_passed"`
		PreviousRejectionReasons []string `json:"previous_rejection_reasons"`
	}

	// AQLResult is the evaluated sampling outcome stored with a submission.
	AQLResult struct {
		DefectCounts     DefectCounts  `json:"defect_counts"`
		Passed           bool          `json:"passed"`
		RejectionReasons []string      `json:"rejection_reasons"`
		Overridden       bool          `json:"overridden"`
		Override         *OverrideMeta `json:"override_meta,omitempty"`
	}

	// Inspection is a published template scheduled by a manager for an
	// inspector, carrying the responses once completed.
	Inspection struct {
		ID          string `db:"id" json:"id"`
		TemplateID  string `db:"template_id" json:"template_id"`
		InspectorID string `db:"inspector_id" json:"inspector_id"`
		ManagerID   string `db:"manager_id" json:"manager_id"`

		ScheduledDate null.Time `db:"scheduled_date" json:"scheduled_date"`

		Status    string    `db:"status" json:"status"`
		Responses Responses `db:"responses" json:"responses"`

		AQLResults          AQLResult        `db:"aql_results" json:"aql_results"`
		DefectCounts        DefectCounts     `db:"defect_counts" json:"defect_counts"`
		AQLPassed           bool             `db:"aql_passed" json:"aql_passed"`
		AQLRejectionReasons RejectionReasons `db:"aql_rejection_reasons" json:"aql_rejection_reasons"`

		CompletedAt null.Time `db:"completed_at" json:"completed_at"`
		CreatedAt   time.Time `db:"created_at" json:"created_at"` // UTC
		UpdatedAt   time.Time `db:"updated_at" json:"updated_at"` // UTC

		// denormalized for list views, populated by the service
		TemplateTitle       string `db:"-" json:"template_title,omitempty"`
		TemplateDescription string `db:"-" json:"template_description,omitempty"`
	}

	// AssignInspection schedules a published template for an inspector. The
	// template may be referenced by id or by exact title.
	AssignInspection struct {
		TemplateID     string    `json:"template_id" validate:"required_without=TemplateTitle"`
		TemplateTitle  string    `json:"template_title" validate:"required_without=TemplateID"`
		InspectorEmail string    `json:"inspector_email" validate:"required,email"`
		ScheduledDate  null.Time `json:"scheduled_date"`
	}

	// Override is an inspector's manual decision overriding the AQL outcome.
	// A reason is mandatory.
	Override struct {
		Decision string `json:"decision" validate:"required,oneof=ACCEPT REJECT"`
		Reason   string `json:"reason" validate:"required"`
	}

	SubmitInspection struct {
		Responses Responses `json:"responses" validate:"required"`
		Override  *Override `json:"override" validate:"omitempty"`
	}
)

func (si *AssignInspection) Validate(validate *validator.Validate) error {
	si.TemplateTitle = core.CleanString(si.TemplateTitle)
	si.InspectorEmail = core.CleanString(si.InspectorEmail, true)
	return validate.Struct(si)
}

func (si *SubmitInspection) Validate(validate *validator.Validate) error {
	return validate.Struct(si)
}

func newID() string {
	return uuid.New().String()
}
