package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core/task"
)

const taskColumns = `id, title, description, priority, status, is_completed,
	COALESCE(inspection_id::text, '') AS inspection_id,
	COALESCE(template_id::text, '') AS template_id,
	template_title, assigned_to_id,
	COALESCE(assigned_by_id::text, '') AS assigned_by_id,
	assigned_to_name, assigned_by_name, due_date, completed_at, created_at, updated_at`

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO task (id, title, description, priority, status, is_completed, inspection_id, template_id,
		                  template_title, assigned_to_id, assigned_by_id, assigned_to_name, assigned_by_name,
		                  due_date, completed_at, created_at, updated_at)
		VALUES (:id, :title, :description, :priority, :status, :is_completed,
		        NULLIF(:inspection_id, '')::uuid, NULLIF(:template_id, '')::uuid,
		        :template_title, :assigned_to_id, NULLIF(:assigned_by_id, '')::uuid,
		        :assigned_to_name, :assigned_by_name, :due_date, :completed_at, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, t); err != nil {
		return task.Task{}, errors.Wrap(err, "creating task")
	}
	return t, nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	var t task.Task
	query := `SELECT ` + taskColumns + ` FROM task WHERE id = $1`
	if err := repo.db.GetContext(ctx, &t, query, id); err != nil {
		if err == sql.ErrNoRows {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "getting task by id")
	}
	return t, nil
}

func (repo *taskRepository) FilterTasks(ctx context.Context, filter task.QueryFilter) ([]task.Task, error) {
	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if filter.AssignedToID != "" {
		conds = append(conds, `assigned_to_id = ?`)
		args = append(args, filter.AssignedToID)
	}
	if filter.AssignedByID != "" {
		conds = append(conds, `assigned_by_id = ?`)
		args = append(args, filter.AssignedByID)
	}
	if filter.InspectionID != "" {
		conds = append(conds, `inspection_id = ?`)
		args = append(args, filter.InspectionID)
	}
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, filter.Status)
	}

	query := `SELECT ` + taskColumns + ` FROM task`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	tasks := make([]task.Task, 0)
	if err := repo.db.SelectContext(ctx, &tasks, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering tasks")
	}
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	query := `
		UPDATE task
		SET title            = :title,
		    description      = :description,
		    priority         = :priority,
		    status           = :status,
		    is_completed     = :is_completed,
		    assigned_to_id   = :assigned_to_id,
		    assigned_to_name = :assigned_to_name,
		    due_date         = :due_date,
		    completed_at     = :completed_at,
		    updated_at       = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (repo *taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM task WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return nil
}
