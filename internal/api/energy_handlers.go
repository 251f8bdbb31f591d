package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "taskpilot/internal/errors"
	"taskpilot/pkg/types"
)

type energyLogRequest struct {
	TaskID      string       `json:"task_id"`
	EnergyLevel types.Rating `json:"energy_level"`
	Notes       string       `json:"notes"`
}

func (s *Server) handleCreateEnergyLog(w http.ResponseWriter, r *http.Request) {
	var req energyLogRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}
	if !req.EnergyLevel.Valid() {
		apperrors.WriteHTTP(w, apperrors.Validation("invalid energy_level: "+string(req.EnergyLevel)))
		return
	}

	log := &types.EnergyLog{
		ID:          uuid.New().String(),
		UserID:      userID(r.Context()),
		TaskID:      req.TaskID,
		EnergyLevel: req.EnergyLevel,
		Notes:       req.Notes,
		LoggedAt:    time.Now().UTC(),
	}
	if err := s.store.EnergyLogStore().Append(r.Context(), log); err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("create energy log", err))
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) handleListEnergyLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	logs, err := s.store.EnergyLogStore().ListByUser(r.Context(), userID(r.Context()), limit)
	if err != nil {
		apperrors.WriteHTTP(w, apperrors.Storage("list energy logs", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"energy_logs": emptyIfNil(logs),
		"count":       len(logs),
	})
}
