package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TournamentStatus is the lifecycle state of a tournament.
// Transitions only move forward: upcoming -> active -> finished.
type TournamentStatus string

const (
	TournamentStatusUpcoming TournamentStatus = "upcoming"
	TournamentStatusActive   TournamentStatus = "active"
	TournamentStatusFinished TournamentStatus = "finished"
)

// Tournament limits
const (
	MaxTournamentNameLength = 100
	MaxDescriptionLength    = 1000
)

// IsValid reports whether s is a known status.
func (s TournamentStatus) IsValid() bool {
	switch s {
	case TournamentStatusUpcoming, TournamentStatusActive, TournamentStatusFinished:
		return true
	}
	return false
}

// IsOpen reports whether the status still allows settlement.
func (s TournamentStatus) IsOpen() bool {
	return s == TournamentStatusUpcoming || s == TournamentStatusActive
}

// Tournament is a time-boxed competition with a prize pool.
type Tournament struct {
	ID                  uuid.UUID         `json:"id"`
	Name                string            `json:"name"`
	Description         string            `json:"description,omitempty"`
	EntryFee            decimal.Decimal   `json:"entry_fee"`
	PrizePool           decimal.Decimal   `json:"prize_pool"`
	BasePrizePool       decimal.Decimal   `json:"base_prize_pool"`
	PlatformFeePercent  decimal.Decimal   `json:"platform_fee_percent"`
	Status              TournamentStatus  `json:"status"`
	StartTime           time.Time         `json:"start_time"`
	EndTime             time.Time         `json:"end_time"`
	MaxParticipants     *int              `json:"max_participants,omitempty"`
	CurrentParticipants int               `json:"current_participants"`
	PrizeDistribution   PrizeDistribution `json:"prize_distribution"`
	AutoRenew           bool              `json:"auto_renew"`
	RenewedFrom         *uuid.UUID        `json:"renewed_from,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// IsExpired reports whether the tournament window closed before now.
func (t *Tournament) IsExpired(now time.Time) bool {
	return t.EndTime.Before(now)
}

// IsSettleable reports whether settlement may run for the tournament at now.
func (t *Tournament) IsSettleable(now time.Time) bool {
	return t.Status.IsOpen() && t.IsExpired(now)
}

// IsFull reports whether a new participant would exceed the cap.
func (t *Tournament) IsFull() bool {
	return t.MaxParticipants != nil && t.CurrentParticipants >= *t.MaxParticipants
}

// Duration is the length of the tournament window.
func (t *Tournament) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// CheckAcceptingAttempts returns the reason an attempt at now must be rejected, or nil.
func (t *Tournament) CheckAcceptingAttempts(now time.Time) error {
	if t.Status == TournamentStatusFinished || t.IsExpired(now) {
		return ErrTournamentClosed
	}
	if now.Before(t.StartTime) {
		return ErrTournamentNotStarted
	}
	return nil
}

// NetEntryContribution is the part of the entry fee that grows the prize pool.
func (t *Tournament) NetEntryContribution() decimal.Decimal {
	if !t.EntryFee.IsPositive() {
		return decimal.Zero
	}
	share := hundred.Sub(t.PlatformFeePercent)
	return t.EntryFee.Mul(share).Div(hundred).RoundBank(MoneyScale)
}

// TournamentSpec is the operator input for creating a tournament.
type TournamentSpec struct {
	Name               string
	Description        string
	EntryFee           decimal.Decimal
	PrizePool          decimal.Decimal
	PlatformFeePercent decimal.Decimal
	StartTime          time.Time
	EndTime            time.Time
	MaxParticipants    *int
	PrizeDistribution  PrizeDistribution
	AutoRenew          bool
}

// Validate checks the window, fees and distribution.
func (s TournamentSpec) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(name) > MaxTournamentNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrValidation, MaxTournamentNameLength)
	}
	if len(s.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", ErrValidation)
	}
	if !s.EndTime.After(s.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	if s.EntryFee.IsNegative() {
		return fmt.Errorf("%w: entry_fee must not be negative", ErrValidation)
	}
	if s.PrizePool.IsNegative() {
		return fmt.Errorf("%w: prize_pool must not be negative", ErrValidation)
	}
	if s.PlatformFeePercent.IsNegative() || s.PlatformFeePercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: platform_fee_percent must be between 0 and 100", ErrValidation)
	}
	if s.MaxParticipants != nil && *s.MaxParticipants < 1 {
		return fmt.Errorf("%w: max_participants must be at least 1", ErrValidation)
	}
	return s.PrizeDistribution.Validate()
}

// NewTournament validates spec and builds a tournament whose status reflects now.
func NewTournament(spec TournamentSpec, now time.Time) (*Tournament, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	status := TournamentStatusUpcoming
	if !spec.StartTime.After(now) {
		status = TournamentStatusActive
	}

	return &Tournament{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(spec.Name),
		Description:        spec.Description,
		EntryFee:           spec.EntryFee,
		PrizePool:          spec.PrizePool,
		BasePrizePool:      spec.PrizePool,
		PlatformFeePercent: spec.PlatformFeePercent,
		Status:             status,
		StartTime:          spec.StartTime.UTC(),
		EndTime:            spec.EndTime.UTC(),
		MaxParticipants:    spec.MaxParticipants,
		PrizeDistribution:  spec.PrizeDistribution,
		AutoRenew:          spec.AutoRenew,
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}, nil
}

// Successor builds the next edition of an auto-renewing tournament.
// The new window starts where this one ended and keeps the same length.
// Windows already over at now are skipped.
func (t *Tournament) Successor(now time.Time) *Tournament {
	duration := t.Duration()
	if duration <= 0 {
		return nil
	}

	parentID := t.ID
	start := t.EndTime
	if elapsed := now.Sub(t.EndTime); elapsed >= duration {
		start = start.Add(elapsed / duration * duration)
	}

	status := TournamentStatusActive
	if start.After(now) {
		status = TournamentStatusUpcoming
	}

	return &Tournament{
		ID:                 uuid.New(),
		Name:               t.Name,
		Description:        t.Description,
		EntryFee:           t.EntryFee,
		PrizePool:          t.BasePrizePool,
		BasePrizePool:      t.BasePrizePool,
		PlatformFeePercent: t.PlatformFeePercent,
		Status:             status,
		StartTime:          start,
		EndTime:            start.Add(duration),
		MaxParticipants:    t.MaxParticipants,
		PrizeDistribution:  t.PrizeDistribution,
		AutoRenew:          true,
		RenewedFrom:        &parentID,
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}
}
