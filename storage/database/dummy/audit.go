package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamlineer/streamlineer/core/audit"
)

type auditRepository struct {
	db *auditTable
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) audit.Repository {
	return &auditRepository{db: db.audit}
}

func (repo *auditRepository) LogUserEvent(_ context.Context, entry audit.UserEntry) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	repo.db.userEntries = append(repo.db.userEntries, entry)
	return nil
}

func (repo *auditRepository) LogInspectionEvent(_ context.Context, entry audit.InspectionEntry) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	repo.db.inspectionEntries = append(repo.db.inspectionEntries, entry)
	return nil
}

// UserEntries returns a snapshot of recorded user events, for tests.
func UserEntries(db *DB) []audit.UserEntry {
	db.audit.RLock()
	defer db.audit.RUnlock()
	entries := make([]audit.UserEntry, len(db.audit.userEntries))
	copy(entries, db.audit.userEntries)
	return entries
}

// InspectionEntries returns a snapshot of recorded inspection events, for tests.
func InspectionEntries(db *DB) []audit.InspectionEntry {
	db.audit.RLock()
	defer db.audit.RUnlock()
	entries := make([]audit.InspectionEntry, len(db.audit.inspectionEntries))
	copy(entries, db.audit.inspectionEntries)
	return entries
}
