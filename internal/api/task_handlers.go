package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/storage"
	"taskpilot/pkg/types"
)

type createTaskRequest struct {
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	CategoryID        string       `json:"category_id"`
	Urgency           types.Rating `json:"urgency"`
	Impact            types.Rating `json:"impact"`
	EnergyRequired    types.Rating `json:"energy_required"`
	EstimatedDuration int          `json:"estimated_duration"`
	Deadline          *time.Time   `json:"deadline"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	now := time.Now().UTC()
	task := &types.Task{
		ID:                uuid.New().String(),
		UserID:            userID(r.Context()),
		CategoryID:        req.CategoryID,
		Title:             req.Title,
		Description:       req.Description,
		Urgency:           req.Urgency,
		Impact:            req.Impact,
		EnergyRequired:    req.EnergyRequired,
		EstimatedDuration: req.EstimatedDuration,
		Deadline:          req.Deadline,
		Status:            types.TaskStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := task.Validate(); err != nil {
		apperrors.WriteHTTP(w, apperrors.Validation(err.Error()))
		return
	}

	priority := s.scoring.ComputePriority(task)
	task.PriorityLevel = priority.Level
	task.PriorityScore = priority.Score

	if err := s.store.TaskStore().Create(r.Context(), task); err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("create task", err))
		return
	}

	s.writeHistory(r, task, types.ChangeTypeCreated, nil, map[string]interface{}{
		"title":          task.Title,
		"priority_level": string(task.PriorityLevel),
		"priority_score": task.PriorityScore,
	})

	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.ownedTask(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	status := types.TaskStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		apperrors.WriteHTTP(w, apperrors.Validation("invalid status filter: "+string(status)))
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	tasks, err := s.store.TaskStore().ListByUser(r.Context(), userID(r.Context()), status, limit, offset)
	if err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("list tasks", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": emptyIfNil(tasks),
		"count": len(tasks),
	})
}

type updateTaskRequest struct {
	Title             *string       `json:"title"`
	Description       *string       `json:"description"`
	CategoryID        *string       `json:"category_id"`
	Urgency           *types.Rating `json:"urgency"`
	Impact            *types.Rating `json:"impact"`
	EnergyRequired    *types.Rating `json:"energy_required"`
	EstimatedDuration *int          `json:"estimated_duration"`
	Deadline          *time.Time    `json:"deadline"`
	ClearDeadline     bool          `json:"clear_deadline"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.ownedTask(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	oldValues := map[string]interface{}{
		"title":          task.Title,
		"urgency":        string(task.Urgency),
		"impact":         string(task.Impact),
		"priority_level": string(task.PriorityLevel),
		"priority_score": task.PriorityScore,
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.CategoryID != nil {
		task.CategoryID = *req.CategoryID
	}
	if req.Urgency != nil {
		task.Urgency = *req.Urgency
	}
	if req.Impact != nil {
		task.Impact = *req.Impact
	}
	if req.EnergyRequired != nil {
		task.EnergyRequired = *req.EnergyRequired
	}
	if req.EstimatedDuration != nil {
		task.EstimatedDuration = *req.EstimatedDuration
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline
	} else if req.ClearDeadline {
		task.Deadline = nil
	}

	if err := task.Validate(); err != nil {
		apperrors.WriteHTTP(w, apperrors.Validation(err.Error()))
		return
	}

	// Attribute edits invalidate the stored priority, so recompute it as
	// part of the same update.
	priority := s.scoring.ComputePriority(task)
	task.PriorityLevel = priority.Level
	task.PriorityScore = priority.Score
	task.UpdatedAt = time.Now().UTC()

	if err := s.store.TaskStore().Update(r.Context(), task); err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("update task", err))
		return
	}

	s.writeHistory(r, task, types.ChangeTypeUpdated, oldValues, map[string]interface{}{
		"title":          task.Title,
		"urgency":        string(task.Urgency),
		"impact":         string(task.Impact),
		"priority_level": string(task.PriorityLevel),
		"priority_score": task.PriorityScore,
	})

	writeJSON(w, http.StatusOK, task)
}

type updateStatusRequest struct {
	Status         types.TaskStatus `json:"status"`
	ActualDuration *int             `json:"actual_duration"`
}

func (s *Server) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, err := s.ownedTask(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}
	if !req.Status.Valid() {
		apperrors.WriteHTTP(w, apperrors.Validation("invalid status: "+string(req.Status)))
		return
	}

	oldStatus := task.Status
	now := time.Now().UTC()

	task.Status = req.Status
	task.UpdatedAt = now
	if req.Status == types.TaskStatusCompleted {
		if task.CompletedAt == nil {
			task.CompletedAt = &now
		}
		if req.ActualDuration != nil {
			task.ActualDuration = *req.ActualDuration
		}
	} else {
		task.CompletedAt = nil
		task.ActualDuration = 0
	}

	if err := s.store.TaskStore().Update(r.Context(), task); err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("update task status", err))
		return
	}

	s.writeHistory(r, task, types.ChangeTypeStatusChanged,
		map[string]interface{}{"status": string(oldStatus)},
		map[string]interface{}{"status": string(task.Status)})

	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.ownedTask(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	if err := s.store.TaskStore().Delete(r.Context(), task.ID); err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("delete task", err))
		return
	}

	s.writeHistory(r, task, types.ChangeTypeDeleted,
		map[string]interface{}{"title": task.Title}, nil)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecomputePriority(w http.ResponseWriter, r *http.Request) {
	task, err := s.ownedTask(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	result, err := s.scoring.RecomputePriority(r.Context(), task.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			apperrors.WriteHTTP(w, apperrors.NotFound("task"))
			return
		}
		apperrors.WriteHTTP(w, apperrors.Wrap(apperrors.ErrCodeInternal, "recompute priority", err))
		return
	}

	if result.Changed {
		s.writeHistory(r, task, types.ChangeTypeRecomputed,
			map[string]interface{}{
				"priority_level": string(result.Previous.Level),
				"priority_score": result.Previous.Score,
			},
			map[string]interface{}{
				"priority_level": string(result.Result.Level),
				"priority_score": result.Result.Score,
			})
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTaskHistory(w http.ResponseWriter, r *http.Request) {
	task, err := s.ownedTask(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	entries, err := s.store.HistoryStore().ListByTask(r.Context(), task.ID)
	if err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("list history", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": emptyIfNil(entries),
		"count":   len(entries),
	})
}

// ownedTask loads the task from the URL and checks it belongs to the
// requesting user. Foreign tasks read as not found, never as forbidden, so
// the API does not confirm their existence.
func (s *Server) ownedTask(r *http.Request) (*types.Task, error) {
	taskID := chi.URLParam(r, "taskID")
	task, err := s.store.TaskStore().GetByID(r.Context(), taskID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NotFound("task")
	}
	if err != nil {
		return nil, apperrors.Storage("get task", err)
	}
	if task.UserID != userID(r.Context()) {
		return nil, apperrors.NotFound("task")
	}
	return task, nil
}

// writeHistory appends a change record. History is best effort: a failed
// write is logged and the request still succeeds.
func (s *Server) writeHistory(r *http.Request, task *types.Task, changeType string, oldValues, newValues map[string]interface{}) {
	entry := &types.HistoryEntry{
		ID:         uuid.New().String(),
		TaskID:     task.ID,
		UserID:     task.UserID,
		ChangeType: changeType,
		OldValues:  oldValues,
		NewValues:  newValues,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.HistoryStore().Append(r.Context(), entry); err != nil {
		s.logger.Warn("history write failed",
			"task_id", task.ID,
			"change_type", changeType,
			"error", err.Error())
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

// emptyIfNil keeps empty lists serializing as [] instead of null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
