package handler

import (
	"net/http"

	"github.com/osse101/PrizeArena_Go/internal/participation"
)

// RecordAttemptRequest is the body of POST /tournaments/{id}/attempts
type RecordAttemptRequest struct {
	PlayerID    string `json:"player_id" validate:"notblank,nocontrol,max=128"`
	DisplayName string `json:"display_name" validate:"max=64"`
	Score       *int64 `json:"score" validate:"required,min=0"`
}

// JoinRequest is the body of POST /tournaments/{id}/join
type JoinRequest struct {
	PlayerID    string `json:"player_id" validate:"notblank,nocontrol,max=128"`
	DisplayName string `json:"display_name" validate:"max=64"`
	AutoRenew   bool   `json:"auto_renew"`
}

// ParticipationHandler serves score submission and entry
type ParticipationHandler struct {
	svc participation.Service
}

func NewParticipationHandler(svc participation.Service) *ParticipationHandler {
	return &ParticipationHandler{svc: svc}
}

// HandleRecordAttempt submits a score
// @Summary Record attempt
// @Tags participation
// @Accept json
// @Produce json
// @Param id path string true "Tournament ID"
// @Param request body RecordAttemptRequest true "Attempt"
// @Success 200 {object} domain.AttemptResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Router /api/v1/tournaments/{id}/attempts [post]
func (h *ParticipationHandler) HandleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentIDParam(w, r)
	if !ok {
		return
	}
	var req RecordAttemptRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Record attempt"); err != nil {
		return
	}

	result, err := h.svc.RecordAttempt(r.Context(), id, req.PlayerID, req.DisplayName, *req.Score)
	if err != nil {
		respondServiceError(w, r, "record attempt", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleJoin enters a player without submitting a score
func (h *ParticipationHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentIDParam(w, r)
	if !ok {
		return
	}
	var req JoinRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Join tournament"); err != nil {
		return
	}

	p, err := h.svc.Join(r.Context(), id, req.PlayerID, req.DisplayName, req.AutoRenew)
	if err != nil {
		respondServiceError(w, r, "join tournament", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
