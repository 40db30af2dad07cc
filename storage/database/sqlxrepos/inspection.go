package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core/inspection"
)

type inspectionRepository struct {
	db *sqlx.DB
}

var _ inspection.Repository = (*inspectionRepository)(nil) // interface compliance check

func NewInspectionRepository(db *sqlx.DB) inspection.Repository {
	return &inspectionRepository{db: db}
}

func (repo *inspectionRepository) CreateInspection(ctx context.Context, insp inspection.Inspection) (inspection.Inspection, error) {
	if insp.ID == "" {
		insp.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inspection (id, template_id, inspector_id, manager_id, scheduled_date, status, responses,
		                        aql_results, defect_counts, aql_passed, aql_rejection_reasons, completed_at,
		                        created_at, updated_at)
		VALUES (:id, :template_id, :inspector_id, :manager_id, :scheduled_date, :status, :responses,
		        :aql_results, :defect_counts, :aql_passed, :aql_rejection_reasons, :completed_at,
		        :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, insp); err != nil {
		return inspection.Inspection{}, errors.Wrap(err, "creating inspection")
	}
	return insp, nil
}

func (repo *inspectionRepository) GetInspectionByID(ctx context.Context, id string) (inspection.Inspection, error) {
	var insp inspection.Inspection
	if err := repo.db.GetContext(ctx, &insp, `SELECT * FROM inspection WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return inspection.Inspection{}, inspection.ErrNotFound
		}
		return inspection.Inspection{}, errors.Wrap(err, "getting inspection by id")
	}
	return insp, nil
}

func (repo *inspectionRepository) FilterInspections(ctx context.Context, filter inspection.Filter) ([]inspection.Inspection, error) {
	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if filter.TemplateID != "" {
		conds = append(conds, `template_id = ?`)
		args = append(args, filter.TemplateID)
	}
	if filter.InspectorID != "" {
		conds = append(conds, `inspector_id = ?`)
		args = append(args, filter.InspectorID)
	}
	if filter.ManagerID != "" {
		conds = append(conds, `manager_id = ?`)
		args = append(args, filter.ManagerID)
	}
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, filter.Status)
	}

	query := `SELECT * FROM inspection`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	insps := make([]inspection.Inspection, 0)
	if err := repo.db.SelectContext(ctx, &insps, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering inspections")
	}
	return insps, nil
}

func (repo *inspectionRepository) UpdateInspection(ctx context.Context, insp inspection.Inspection) (inspection.Inspection, error) {
	query := `
		UPDATE inspection
		SET scheduled_date        = :scheduled_date,
		    status                = :status,
		    responses             = :responses,
		    aql_results           = :aql_results,
		    defect_counts         = :defect_counts,
		    aql_passed            = :aql_passed,
		    aql_rejection_reasons = :aql_rejection_reasons,
		    completed_at          = :completed_at,
		    updated_at            = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, insp)
	if err != nil {
		return inspection.Inspection{}, errors.Wrap(err, "updating inspection")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return inspection.Inspection{}, inspection.ErrNotFound
	}
	return insp, nil
}

func (repo *inspectionRepository) DeleteInspectionsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM inspection WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting inspections")
	}
	return nil
}
