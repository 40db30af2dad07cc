package task

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core/user"
)

var ErrNotFound = errors.New("task not found")

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task) (Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		// FilterTasks applies AND operation on available QueryFilter fields.
		FilterTasks(ctx context.Context, filter QueryFilter) ([]Task, error)
		UpdateTask(ctx context.Context, t Task) (Task, error)
		DeleteTasksByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, creator user.User, nt NewTask) (Task, error)
		// CreateLinked records a board task tied to an inspection. Inspection
		// workflow transitions later move these tasks via AdvanceLinked.
		CreateLinked(ctx context.Context, t Task) (Task, error)
		GetByID(ctx context.Context, id string) (Task, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Task, error)
		UpdateStatus(ctx context.Context, id string, ut UpdateTaskStatus) (Task, error)
		// AdvanceLinked moves every task tied to an inspection, optionally
		// narrowed to a single assignee, to the given status.
		AdvanceLinked(ctx context.Context, inspectionID, assignedToID, status string) error
		Delete(ctx context.Context, ids ...string) error
		GetStats(ctx context.Context, assignedToID string) (Stats, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, creator user.User, nt NewTask) (Task, error) {
	now := time.Now().UTC()
	t := Task{
		ID:             newID(),
		Title:          nt.Title,
		Description:    nt.Description,
		Priority:       nt.Priority,
		Status:         StatusTodo,
		AssignedToID:   nt.AssignedToID,
		AssignedToName: nt.AssignedToName,
		AssignedByID:   creator.ID,
		AssignedByName: creator.FullName(),
		DueDate:        nt.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateTask(ctx, t)
}

func (svc *service) CreateLinked(ctx context.Context, t Task) (Task, error) {
	now := time.Now().UTC()
	t.ID = newID()
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return svc.repo.CreateTask(ctx, t)
}

func (svc *service) GetByID(ctx context.Context, id string) (Task, error) {
	return svc.repo.GetTaskByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Task, error) {
	return svc.repo.FilterTasks(ctx, filter)
}

func (svc *service) UpdateStatus(ctx context.Context, id string, ut UpdateTaskStatus) (Task, error) {
	t, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	t.advance(ut.Status, time.Now().UTC())
	return svc.repo.UpdateTask(ctx, t)
}

func (svc *service) AdvanceLinked(ctx context.Context, inspectionID, assignedToID, status string) error {
	tasks, err := svc.repo.FilterTasks(ctx, QueryFilter{InspectionID: inspectionID, AssignedToID: assignedToID})
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, t := range tasks {
		t.advance(status, now)
		if _, err := svc.repo.UpdateTask(ctx, t); err != nil {
			return errors.Wrapf(err, "advancing task %s", t.ID)
		}
	}
	return nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTasksByID(ctx, ids...)
}

func (svc *service) GetStats(ctx context.Context, assignedToID string) (Stats, error) {
	tasks, err := svc.repo.FilterTasks(ctx, QueryFilter{AssignedToID: assignedToID})
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			stats.Todo++
		case StatusInProgress:
			stats.InProgress++
		case StatusReview:
			stats.Review++
		case StatusCompleted:
			stats.Completed++
		}
	}
	stats.Total = len(tasks)
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}
	return stats, nil
}
