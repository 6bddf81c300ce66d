package handler

import (
	"net/http"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/logger"
	"github.com/osse101/PrizeArena_Go/internal/settlement"
)

// SettlementRunResponse summarises an operator-triggered pass
type SettlementRunResponse struct {
	Settled  int                        `json:"settled"`
	Noop     int                        `json:"noop"`
	Failed   int                        `json:"failed"`
	Outcomes []domain.SettlementOutcome `json:"outcomes"`
}

// HandleRunSettlement runs a settlement pass immediately
// @Summary Run settlement pass
// @Tags settlement
// @Produce json
// @Success 200 {object} SettlementRunResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/settlement/run [post]
func HandleRunSettlement(svc settlement.Service, clock func() time.Time) http.HandlerFunc {
	if clock == nil {
		clock = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info(LogMsgSettlementTrigger)

		outcomes, err := svc.RunSettlementPass(r.Context(), clock())
		if err != nil {
			logger.FromContext(r.Context()).Error(LogMsgRequestFailed, "operation", "run settlement", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgSettlementUnavailable)
			return
		}

		resp := SettlementRunResponse{Outcomes: outcomes}
		for _, o := range outcomes {
			switch o.Status {
			case domain.SettlementStatusSettled:
				resp.Settled++
			case domain.SettlementStatusNoop:
				resp.Noop++
			case domain.SettlementStatusFailed:
				resp.Failed++
			}
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
