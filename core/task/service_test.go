package task_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlineer/streamlineer/core/task"
	"github.com/streamlineer/streamlineer/core/user"
	dummydb "github.com/streamlineer/streamlineer/storage/database/dummy"
)

func setup(t *testing.T) task.Service {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)
	return task.NewService(dummydb.NewTaskRepository(db))
}

func TestService_Create(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	creator := user.User{ID: "mgr-1", FirstName: "Manny", LastName: "Ger"}
	tsk, err := svc.Create(ctx, creator, task.NewTask{
		Title:        "Check cold storage",
		Priority:     task.PriorityHigh,
		AssignedToID: "ins-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tsk.ID)
	assert.Equal(t, task.StatusTodo, tsk.Status)
	assert.Equal(t, task.PriorityHigh, tsk.Priority)
	assert.Equal(t, creator.ID, tsk.AssignedByID)
	assert.Equal(t, "Manny Ger", tsk.AssignedByName)
	assert.False(t, tsk.IsCompleted)
}

func TestService_UpdateStatus(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	tsk, err := svc.Create(ctx, user.User{ID: "mgr-1"}, task.NewTask{
		Title:        "Check cold storage",
		AssignedToID: "ins-1",
		Priority:     task.PriorityLow,
	})
	require.NoError(t, err)

	tsk, err = svc.UpdateStatus(ctx, tsk.ID, task.UpdateTaskStatus{Status: task.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, tsk.Status)
	assert.True(t, tsk.IsCompleted)
	assert.True(t, tsk.CompletedAt.Valid)

	// moving a completed task back clears the completion fields
	tsk, err = svc.UpdateStatus(ctx, tsk.ID, task.UpdateTaskStatus{Status: task.StatusInProgress})
	require.NoError(t, err)
	assert.False(t, tsk.IsCompleted)
	assert.False(t, tsk.CompletedAt.Valid)

	_, err = svc.UpdateStatus(ctx, "nope", task.UpdateTaskStatus{Status: task.StatusTodo})
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestService_AdvanceLinked(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	mk := func(inspectionID, assignedToID string) task.Task {
		tsk, err := svc.CreateLinked(ctx, task.Task{
			Title:        "Inspection: Factory Audit",
			InspectionID: inspectionID,
			AssignedToID: assignedToID,
		})
		require.NoError(t, err)
		return tsk
	}

	t1 := mk("insp-1", "ins-1")
	t2 := mk("insp-1", "mgr-1")
	t3 := mk("insp-2", "ins-1")

	// narrowed to one assignee
	require.NoError(t, svc.AdvanceLinked(ctx, "insp-1", "ins-1", task.StatusReview))
	got, err := svc.GetByID(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusReview, got.Status)
	got, err = svc.GetByID(ctx, t2.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusTodo, got.Status)

	// all tasks of the inspection
	require.NoError(t, svc.AdvanceLinked(ctx, "insp-1", "", task.StatusCompleted))
	for _, id := range []string{t1.ID, t2.ID} {
		got, err = svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, task.StatusCompleted, got.Status)
		assert.True(t, got.IsCompleted)
	}

	// other inspections untouched
	got, err = svc.GetByID(ctx, t3.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusTodo, got.Status)
}

func TestService_GetStats(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	mk := func(assignedToID, status string) {
		tsk, err := svc.CreateLinked(ctx, task.Task{Title: "t", AssignedToID: assignedToID, Status: status})
		require.NoError(t, err)
		_ = tsk
	}

	mk("ins-1", task.StatusTodo)
	mk("ins-1", task.StatusTodo)
	mk("ins-1", task.StatusInProgress)
	mk("ins-1", task.StatusReview)
	mk("ins-2", task.StatusCompleted)

	stats, err := svc.GetStats(ctx, "ins-1")
	require.NoError(t, err)
	assert.Equal(t, task.Stats{Todo: 2, InProgress: 1, Review: 1, Completed: 0, Total: 4}, stats)

	stats, err = svc.GetStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, task.Stats{}, stats)
}
