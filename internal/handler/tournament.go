package handler

import (
	"net/http"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/tournament"
)

// CreateTournamentRequest is the body of POST /tournaments. Money fields are
// decimal strings. When prize_distribution is empty, preset names one.
type CreateTournamentRequest struct {
	Name               string                   `json:"name" validate:"notblank,max=100"`
	Description        string                   `json:"description" validate:"max=1000"`
	EntryFee           string                   `json:"entry_fee" validate:"decimal"`
	PrizePool          string                   `json:"prize_pool" validate:"decimal"`
	PlatformFeePercent string                   `json:"platform_fee_percent" validate:"decimal"`
	StartTime          time.Time                `json:"start_time" validate:"required"`
	EndTime            time.Time                `json:"end_time" validate:"required,gtfield=StartTime"`
	MaxParticipants    *int                     `json:"max_participants" validate:"omitempty,min=1"`
	PrizeDistribution  domain.PrizeDistribution `json:"prize_distribution"`
	Preset             string                   `json:"preset" validate:"max=64"`
	AutoRenew          bool                     `json:"auto_renew"`
}

func (req CreateTournamentRequest) spec() domain.TournamentSpec {
	return domain.TournamentSpec{
		Name:               req.Name,
		Description:        req.Description,
		EntryFee:           parseDecimal(req.EntryFee),
		PrizePool:          parseDecimal(req.PrizePool),
		PlatformFeePercent: parseDecimal(req.PlatformFeePercent),
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		MaxParticipants:    req.MaxParticipants,
		PrizeDistribution:  req.PrizeDistribution,
		AutoRenew:          req.AutoRenew,
	}
}

// TournamentHandler serves the tournament registry
type TournamentHandler struct {
	svc tournament.Service
}

func NewTournamentHandler(svc tournament.Service) *TournamentHandler {
	return &TournamentHandler{svc: svc}
}

// HandleCreate registers a tournament
// @Summary Create tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param request body CreateTournamentRequest true "Tournament definition"
// @Success 201 {object} domain.Tournament
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tournaments [post]
func (h *TournamentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTournamentRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create tournament"); err != nil {
		return
	}

	t, err := h.svc.Create(r.Context(), req.spec(), req.Preset)
	if err != nil {
		respondServiceError(w, r, "create tournament", err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

// HandleList lists tournaments, optionally filtered by ?status=
func (h *TournamentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	var status *domain.TournamentStatus
	if raw := r.URL.Query().Get(QueryStatus); raw != "" {
		s := domain.TournamentStatus(raw)
		if !s.IsValid() {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidStatus)
			return
		}
		status = &s
	}

	list, err := h.svc.List(r.Context(), status, limit)
	if err != nil {
		respondServiceError(w, r, "list tournaments", err)
		return
	}
	if list == nil {
		list = []domain.Tournament{}
	}
	respondJSON(w, http.StatusOK, list)
}

// HandleGet returns one tournament
func (h *TournamentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentIDParam(w, r)
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get tournament", err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// LeaderboardResponse wraps the ranked rows
type LeaderboardResponse struct {
	TournamentID string                    `json:"tournament_id"`
	Entries      []domain.LeaderboardEntry `json:"entries"`
}

// HandleLeaderboard returns the top players by best score
// @Summary Tournament leaderboard
// @Tags tournaments
// @Produce json
// @Param id path string true "Tournament ID"
// @Param limit query int false "Rows to return (default 10, max 100)"
// @Success 200 {object} LeaderboardResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/tournaments/{id}/leaderboard [get]
func (h *TournamentHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.GetLeaderboard(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, r, "get leaderboard", err)
		return
	}
	respondJSON(w, http.StatusOK, LeaderboardResponse{TournamentID: id.String(), Entries: entries})
}

// HandleReceipts returns the prize receipts of a settled tournament
func (h *TournamentHandler) HandleReceipts(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentIDParam(w, r)
	if !ok {
		return
	}
	receipts, err := h.svc.GetReceipts(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get receipts", err)
		return
	}
	if receipts == nil {
		receipts = []domain.PrizeReceipt{}
	}
	respondJSON(w, http.StatusOK, receipts)
}

// HandlePresets lists the named prize distributions
func (h *TournamentHandler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"presets": h.svc.Presets()})
}
