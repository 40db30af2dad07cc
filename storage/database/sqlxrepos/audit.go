package sqlxrepos

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core/audit"
)

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *sqlx.DB) audit.Repository {
	return &auditRepository{db: db}
}

func (repo *auditRepository) LogUserEvent(ctx context.Context, entry audit.UserEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO user_audit (id, user_id, email, first_name, last_name, event, "timestamp")
		VALUES (:id, :user_id, :email, :first_name, :last_name, :event, :timestamp)`
	if _, err := repo.db.NamedExecContext(ctx, query, entry); err != nil {
		return errors.Wrap(err, "logging user event")
	}
	return nil
}

func (repo *auditRepository) LogInspectionEvent(ctx context.Context, entry audit.InspectionEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	details := entry.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return errors.Wrap(err, "marshaling event details")
	}
	query := `
		INSERT INTO inspection_audit (id, inspection_id, user_id, action, details, "timestamp")
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = repo.db.ExecContext(ctx, query, entry.ID, entry.InspectionID, entry.UserID, entry.Action, detailsJSON, entry.Timestamp); err != nil {
		return errors.Wrap(err, "logging inspection event")
	}
	return nil
}
