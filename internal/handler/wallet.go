package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/PrizeArena_Go/internal/domain"
	"github.com/osse101/PrizeArena_Go/internal/repository"
)

// DefaultLedgerLimit caps the ledger rows returned with a balance
const DefaultLedgerLimit = 20

// DepositRequest is the body of POST /wallets/{playerId}/deposits. A repeated
// idempotency_key is acknowledged without a second credit.
type DepositRequest struct {
	Amount         string `json:"amount" validate:"notblank,decimal"`
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=128"`
}

// WalletResponse is a balance with its most recent movements
type WalletResponse struct {
	domain.WalletBalance
	Ledger []domain.LedgerEntry `json:"ledger"`
}

// WalletHandler serves player balances
type WalletHandler struct {
	repo repository.Wallet
}

func NewWalletHandler(repo repository.Wallet) *WalletHandler {
	return &WalletHandler{repo: repo}
}

// HandleGetBalance returns a player's balance and recent ledger
func (h *WalletHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	if limit == 0 {
		limit = DefaultLedgerLimit
	}

	balance, err := h.repo.GetBalance(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, r, "get balance", err)
		return
	}
	ledger, err := h.repo.ListLedger(r.Context(), playerID, limit)
	if err != nil {
		respondServiceError(w, r, "list ledger", err)
		return
	}
	if ledger == nil {
		ledger = []domain.LedgerEntry{}
	}
	respondJSON(w, http.StatusOK, WalletResponse{WalletBalance: *balance, Ledger: ledger})
}

// HandleDeposit credits a player's wallet
func (h *WalletHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDParam(w, r)
	if !ok {
		return
	}
	var req DepositRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Deposit"); err != nil {
		return
	}

	amount := parseDecimal(req.Amount)
	if !amount.IsPositive() {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidAmount)
		return
	}
	key := req.IdempotencyKey
	if key == "" {
		key = "deposit:" + uuid.NewString()
	}

	entry, err := h.repo.Deposit(r.Context(), playerID, amount, key)
	if err != nil {
		respondServiceError(w, r, "deposit", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}
