package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/streamlineer/streamlineer/core/inspection"
)

type inspectionRepository struct {
	db *inspectionTable
}

var _ inspection.Repository = (*inspectionRepository)(nil) // interface compliance check

func NewInspectionRepository(db *DB) inspection.Repository {
	return &inspectionRepository{db: db.inspection}
}

func (repo *inspectionRepository) query() []inspection.Inspection {
	insps := make([]inspection.Inspection, 0, len(repo.db.table))
	for _, insp := range repo.db.table {
		insps = append(insps, *insp)
	}
	sort.Slice(insps, func(i, j int) bool { return insps[i].CreatedAt.After(insps[j].CreatedAt) })
	return insps
}

func (repo *inspectionRepository) CreateInspection(_ context.Context, insp inspection.Inspection) (inspection.Inspection, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if insp.ID == "" {
		insp.ID = uuid.New().String()
	}
	repo.db.table[insp.ID] = &insp
	return insp, nil
}

func (repo *inspectionRepository) GetInspectionByID(_ context.Context, id string) (inspection.Inspection, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if insp, ok := repo.db.table[id]; ok {
		return *insp, nil
	}
	return inspection.Inspection{}, inspection.ErrNotFound
}

func (repo *inspectionRepository) FilterInspections(_ context.Context, filter inspection.Filter) ([]inspection.Inspection, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]inspection.Inspection, 0)
	for _, insp := range repo.query() {
		if filter.TemplateID != "" && insp.TemplateID != filter.TemplateID {
			continue
		}
		if filter.InspectorID != "" && insp.InspectorID != filter.InspectorID {
			continue
		}
		if filter.ManagerID != "" && insp.ManagerID != filter.ManagerID {
			continue
		}
		if filter.Status != "" && insp.Status != filter.Status {
			continue
		}
		matched = append(matched, insp)
	}
	return matched, nil
}

func (repo *inspectionRepository) UpdateInspection(_ context.Context, insp inspection.Inspection) (inspection.Inspection, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[insp.ID]; !ok {
		return inspection.Inspection{}, inspection.ErrNotFound
	}
	repo.db.table[insp.ID] = &insp
	return insp, nil
}

func (repo *inspectionRepository) DeleteInspectionsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
