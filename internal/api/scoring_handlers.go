package api

import (
	"errors"
	"net/http"

	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/storage"
	"taskpilot/pkg/types"
)

func (s *Server) handlePrioritizedTasks(w http.ResponseWriter, r *http.Request) {
	user := userID(r.Context())

	open, err := s.store.TaskStore().ListOpen(r.Context(), user)
	if err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("list open tasks", err))
		return
	}

	ranked := s.scoring.RankPending(r.Context(), user, open)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": emptyIfNil(ranked),
		"count": len(ranked),
	})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	outcome := s.scoring.Train(r.Context(), userID(r.Context()))
	writeJSON(w, http.StatusOK, outcome)
}

type feedbackRequest struct {
	TaskID               string              `json:"task_id"`
	FeedbackType         string              `json:"feedback_type"`
	WasUseful            bool                `json:"was_useful"`
	ActualPriority       types.PriorityLevel `json:"actual_priority"`
	ActualCompletionTime int                 `json:"actual_completion_time"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}
	if req.TaskID == "" {
		apperrors.WriteHTTP(w, apperrors.Validation("task_id is required"))
		return
	}
	if req.ActualPriority != "" && !req.ActualPriority.Valid() {
		apperrors.WriteHTTP(w, apperrors.Validation("invalid actual_priority: "+string(req.ActualPriority)))
		return
	}

	// Feedback must reference a task the user owns.
	task, err := s.store.TaskStore().GetByID(r.Context(), req.TaskID)
	if errors.Is(err, storage.ErrNotFound) {
		apperrors.WriteHTTP(w, apperrors.NotFound("task"))
		return
	}
	if err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("get task", err))
		return
	}
	if task.UserID != userID(r.Context()) {
		apperrors.WriteHTTP(w, apperrors.NotFound("task"))
		return
	}

	fb := &types.Feedback{
		TaskID:               req.TaskID,
		UserID:               userID(r.Context()),
		FeedbackType:         req.FeedbackType,
		WasUseful:            req.WasUseful,
		ActualPriority:       req.ActualPriority,
		ActualCompletionTime: req.ActualCompletionTime,
	}
	if err := s.scoring.RecordFeedback(r.Context(), fb); err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.Storage("record feedback", err)
		}
		apperrors.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

func (s *Server) handleRecommendedTime(w http.ResponseWriter, r *http.Request) {
	task, err := s.ownedTask(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id":          task.ID,
		"recommended_time": s.scoring.RecommendTime(r.Context(), userID(r.Context())),
	})
}
