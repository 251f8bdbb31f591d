package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/pkg/types"
)

// openTestStore opens a fresh in-memory database. The pool is pinned to a
// single connection because every SQLite ":memory:" connection is its own
// database.
func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := Open(context.Background(), "sqlite3", ":memory:", Options{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testTask(userID string) *types.Task {
	now := time.Now().UTC().Truncate(time.Second)
	return &types.Task{
		ID:                uuid.New().String(),
		UserID:            userID,
		Title:             "Write quarterly report",
		Description:       "numbers first, narrative second",
		Urgency:           types.RatingHigh,
		Impact:            types.RatingMedium,
		EnergyRequired:    types.RatingLow,
		EstimatedDuration: 90,
		Status:            types.TaskStatusPending,
		PriorityLevel:     types.PriorityMedium,
		PriorityScore:     60,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestTaskRepositoryCRUD(t *testing.T) {
	store := openTestStore(t)
	tasks := store.TaskStore()
	ctx := context.Background()

	task := testTask("u1")
	deadline := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	task.Deadline = &deadline

	require.NoError(t, tasks.Create(ctx, task))

	t.Run("get returns the stored task", func(t *testing.T) {
		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)
		assert.Equal(t, task.Urgency, got.Urgency)
		assert.Equal(t, task.PriorityScore, got.PriorityScore)
		require.NotNil(t, got.Deadline)
		assert.WithinDuration(t, deadline, *got.Deadline, time.Second)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("update rewrites fields", func(t *testing.T) {
		completedAt := time.Now().UTC().Truncate(time.Second)
		task.Status = types.TaskStatusCompleted
		task.CompletedAt = &completedAt
		task.ActualDuration = 75
		task.UpdatedAt = completedAt
		require.NoError(t, tasks.Update(ctx, task))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, types.TaskStatusCompleted, got.Status)
		assert.Equal(t, 75, got.ActualDuration)
		require.NotNil(t, got.CompletedAt)
		assert.WithinDuration(t, completedAt, *got.CompletedAt, time.Second)
	})

	t.Run("delete removes the task", func(t *testing.T) {
		require.NoError(t, tasks.Delete(ctx, task.ID))
		_, err := tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("writes to missing tasks return ErrNotFound", func(t *testing.T) {
		missing := testTask("u1")
		assert.ErrorIs(t, tasks.Update(ctx, missing), ErrNotFound)
		assert.ErrorIs(t, tasks.Delete(ctx, missing.ID), ErrNotFound)
	})
}

func TestTaskRepositoryLists(t *testing.T) {
	store := openTestStore(t)
	tasks := store.TaskStore()
	ctx := context.Background()

	statuses := []types.TaskStatus{
		types.TaskStatusPending,
		types.TaskStatusInProgress,
		types.TaskStatusCompleted,
		types.TaskStatusArchived,
	}
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)
	for i, status := range statuses {
		task := testTask("u1")
		task.Status = status
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		task.UpdatedAt = task.CreatedAt
		if status == types.TaskStatusCompleted {
			done := task.CreatedAt.Add(30 * time.Minute)
			task.CompletedAt = &done
		}
		require.NoError(t, tasks.Create(ctx, task))
	}
	other := testTask("u2")
	require.NoError(t, tasks.Create(ctx, other))

	t.Run("list by user scopes to the user", func(t *testing.T) {
		got, err := tasks.ListByUser(ctx, "u1", "", 0, 0)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := tasks.ListByUser(ctx, "u1", types.TaskStatusArchived, 0, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, types.TaskStatusArchived, got[0].Status)
	})

	t.Run("limit and offset page newest first", func(t *testing.T) {
		page1, err := tasks.ListByUser(ctx, "u1", "", 2, 0)
		require.NoError(t, err)
		page2, err := tasks.ListByUser(ctx, "u1", "", 2, 2)
		require.NoError(t, err)
		require.Len(t, page1, 2)
		require.Len(t, page2, 2)
		assert.True(t, page1[0].CreatedAt.After(page2[0].CreatedAt))
	})

	t.Run("open list holds pending and in-progress only", func(t *testing.T) {
		got, err := tasks.ListOpen(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, task := range got {
			assert.True(t, task.IsOpen())
		}
	})

	t.Run("completed list", func(t *testing.T) {
		got, err := tasks.ListCompleted(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, types.TaskStatusCompleted, got[0].Status)
	})
}

func TestModelRepository(t *testing.T) {
	store := openTestStore(t)
	models := store.ModelStore()
	ctx := context.Background()

	t.Run("no active model yields nil without error", func(t *testing.T) {
		got, err := models.GetActiveModel(ctx, "u1", types.ModelTypePriorityPredictor)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	first := &types.ModelRecord{
		ID:           uuid.New().String(),
		UserID:       "u1",
		ModelType:    types.ModelTypePriorityPredictor,
		ModelVersion: "1.0",
		ModelData:    []byte(`{"weights":[1,2]}`),
		IsActive:     true,
		TrainedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, models.SaveModelVersion(ctx, first))

	t.Run("active model round trips", func(t *testing.T) {
		got, err := models.GetActiveModel(ctx, "u1", types.ModelTypePriorityPredictor)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, first.ModelData, got.ModelData)
		assert.True(t, got.IsActive)
	})

	t.Run("saving a new version deactivates the old one", func(t *testing.T) {
		second := &types.ModelRecord{
			ID:           uuid.New().String(),
			UserID:       "u1",
			ModelType:    types.ModelTypePriorityPredictor,
			ModelVersion: "1.0",
			ModelData:    []byte(`{"weights":[3,4]}`),
			IsActive:     true,
			TrainedAt:    time.Now().UTC().Truncate(time.Second).Add(time.Minute),
		}
		require.NoError(t, models.SaveModelVersion(ctx, second))

		got, err := models.GetActiveModel(ctx, "u1", types.ModelTypePriorityPredictor)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, second.ID, got.ID)
	})

	t.Run("other users are untouched", func(t *testing.T) {
		got, err := models.GetActiveModel(ctx, "u2", types.ModelTypePriorityPredictor)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestFeedbackRepository(t *testing.T) {
	store := openTestStore(t)
	feedback := store.FeedbackStore()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	records := []types.Feedback{
		{ID: uuid.New().String(), TaskID: "t1", UserID: "u1", FeedbackType: types.FeedbackTypePriority,
			WasUseful: true, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: uuid.New().String(), TaskID: "t1", UserID: "u1", FeedbackType: types.FeedbackTypePriority,
			WasUseful: false, ActualPriority: types.PriorityHigh, CreatedAt: now.Add(-time.Hour)},
		{ID: uuid.New().String(), TaskID: "t2", UserID: "u1", FeedbackType: types.FeedbackTypeCompletion,
			WasUseful: true, ActualCompletionTime: 45, CreatedAt: now},
	}
	for i := range records {
		require.NoError(t, feedback.Append(ctx, &records[i]))
	}

	t.Run("list by user is chronological", func(t *testing.T) {
		got, err := feedback.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, records[0].ID, got[0].ID)
		assert.Equal(t, 45, got[2].ActualCompletionTime)
		assert.Equal(t, types.PriorityHigh, got[1].ActualPriority)
	})

	t.Run("recent negative feedback is found", func(t *testing.T) {
		has, err := feedback.HasNegativeSince(ctx, "t1", now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("old negative feedback falls outside the window", func(t *testing.T) {
		has, err := feedback.HasNegativeSince(ctx, "t1", now.Add(-30*time.Minute))
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("positive-only task has no negative feedback", func(t *testing.T) {
		has, err := feedback.HasNegativeSince(ctx, "t2", now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestHistoryRepository(t *testing.T) {
	store := openTestStore(t)
	history := store.HistoryStore()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	entry := &types.HistoryEntry{
		ID:         uuid.New().String(),
		TaskID:     "t1",
		UserID:     "u1",
		ChangeType: types.ChangeTypeStatusChanged,
		OldValues:  map[string]interface{}{"status": "pending"},
		NewValues:  map[string]interface{}{"status": "completed"},
		CreatedAt:  now,
	}
	require.NoError(t, history.Append(ctx, entry))

	bare := &types.HistoryEntry{
		ID:         uuid.New().String(),
		TaskID:     "t1",
		UserID:     "u1",
		ChangeType: types.ChangeTypeCreated,
		CreatedAt:  now.Add(time.Second),
	}
	require.NoError(t, history.Append(ctx, bare))

	got, err := history.ListByTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, map[string]interface{}{"status": "pending"}, got[0].OldValues)
	assert.Equal(t, map[string]interface{}{"status": "completed"}, got[0].NewValues)
	assert.Nil(t, got[1].OldValues)
	assert.Nil(t, got[1].NewValues)
}

func TestEnergyLogRepository(t *testing.T) {
	store := openTestStore(t)
	energy := store.EnergyLogStore()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		log := &types.EnergyLog{
			ID:          uuid.New().String(),
			UserID:      "u1",
			EnergyLevel: types.RatingMedium,
			LoggedAt:    now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, energy.Append(ctx, log))
	}

	got, err := energy.ListByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].LoggedAt.After(got[1].LoggedAt))
}
