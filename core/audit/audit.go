package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/streamlineer/streamlineer/core"
)

// User events
const (
	EventAccountCreated = "ACCOUNT_CREATED"
	EventLoginSuccess   = "LOGIN_SUCCESS"
	EventLoginFailed    = "LOGIN_FAILED"
	EventAccountLocked  = "ACCOUNT_LOCKED"
	EventPasswordReset  = "PASSWORD_RESET"
)

// Inspection actions
const (
	ActionAssign  = "ASSIGN"
	ActionSubmit  = "SUBMIT"
	ActionApprove = "APPROVE"
)

type (
	UserEntry struct {
		ID        string    `db:"id" json:"id"`
		UserID    string    `db:"user_id" json:"user_id"`
		Email     string    `db:"email" json:"email"`
		FirstName string    `db:"first_name" json:"first_name"`
		LastName  string    `db:"last_name" json:"last_name"`
		Event     string    `db:"event" json:"event"`
		Timestamp time.Time `db:"timestamp" json:"timestamp"` // UTC
	}

	InspectionEntry struct {
		ID           string                 `db:"id" json:"id"`
		InspectionID string                 `db:"inspection_id" json:"inspection_id"`
		UserID       string                 `db:"user_id" json:"user_id"`
		Action       string                 `db:"-" json:"action"`
		Details      map[string]interface{} `db:"-" json:"details"`
		Timestamp    time.Time              `db:"timestamp" json:"timestamp"` // UTC
	}

	Repository interface {
		LogUserEvent(ctx context.Context, entry UserEntry) error
		LogInspectionEvent(ctx context.Context, entry InspectionEntry) error
	}

	// Service persists audit entries. Logging an entry never fails the calling
	// operation; repository errors are reported to the app logger only.
	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// UserEvent records a user-centric audit entry (account created, login, lockout...).
func (svc *Service) UserEvent(ctx context.Context, userID, email, firstName, lastName, event string) {
	if svc == nil || svc.repo == nil {
		return
	}
	entry := UserEntry{
		UserID:    userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Event:     event,
		Timestamp: time.Now().UTC(),
	}
	if err := svc.repo.LogUserEvent(ctx, entry); err != nil {
		svc.logger.Error(fmt.Sprintf("logging user event %s: %v", event, err), err)
	}
}

// InspectionEvent records an inspection-centric audit entry.
func (svc *Service) InspectionEvent(ctx context.Context, inspectionID, userID, action string, details map[string]interface{}) {
	if svc == nil || svc.repo == nil {
		return
	}
	entry := InspectionEntry{
		InspectionID: inspectionID,
		UserID:       userID,
		Action:       action,
		Details:      details,
		Timestamp:    time.Now().UTC(),
	}
	if err := svc.repo.LogInspectionEvent(ctx, entry); err != nil {
		svc.logger.Error(fmt.Sprintf("logging inspection event %s: %v", action, err), err)
	}
}
