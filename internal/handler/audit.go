package handler

import (
	"net/http"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/eventlog"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// DefaultHistoryLimit caps the event history when no limit is given
const DefaultHistoryLimit = 50

// AuditHandler exposes payout delivery state and the event log of a tournament
type AuditHandler struct {
	payouts repository.Payout
	events  eventlog.Service
}

func NewAuditHandler(payouts repository.Payout, events eventlog.Service) *AuditHandler {
	return &AuditHandler{payouts: payouts, events: events}
}

// HandlePayouts lists the outbox rows written when the tournament settled
// @Summary Payout delivery state
// @Tags audit
// @Produce json
// @Param id path string true "Tournament ID"
// @Success 200 {array} domain.PayoutEvent
// @Router /api/v1/tournaments/{id}/payouts [get]
func (h *AuditHandler) HandlePayouts(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentIDParam(w, r)
	if !ok {
		return
	}
	payouts, err := h.payouts.ListByTournament(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "list payouts", err)
		return
	}
	if payouts == nil {
		payouts = []domain.PayoutEvent{}
	}
	respondJSON(w, http.StatusOK, payouts)
}

// HandleEvents returns the logged bus events of a tournament, newest first
func (h *AuditHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	events, err := h.events.History(r.Context(), id.String(), limit)
	if err != nil {
		respondServiceError(w, r, "event history", err)
		return
	}
	if events == nil {
		events = []eventlog.Entry{}
	}
	respondJSON(w, http.StatusOK, events)
}
