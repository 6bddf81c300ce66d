package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// MaxDisplayNameLength is measured in runes after normalisation.
const MaxDisplayNameLength = 64

// Participant is a player's standing within one tournament.
type Participant struct {
	TournamentID  uuid.UUID  `json:"tournament_id"`
	PlayerID      string     `json:"player_id"`
	DisplayName   string     `json:"display_name"`
	BestScore     int64      `json:"best_score"`
	Attempts      int        `json:"attempts"`
	PaidEntry     bool       `json:"paid_entry"`
	AutoRenew     bool       `json:"auto_renew"`
	JoinedAt      time.Time  `json:"joined_at"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}

// AttemptResult is returned to the caller after an attempt is recorded.
type AttemptResult struct {
	BestScore int64 `json:"best_score"`
	IsNewBest bool  `json:"is_new_best"`
	Attempts  int   `json:"attempts"`
}

// LeaderboardEntry is one row of a tournament ranking.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	BestScore   int64     `json:"best_score"`
	JoinedAt    time.Time `json:"joined_at"`
}

// NewParticipant creates a participant that has joined but not yet played.
func NewParticipant(tournamentID uuid.UUID, playerID, displayName string, joinedAt time.Time) *Participant {
	return &Participant{
		TournamentID: tournamentID,
		PlayerID:     playerID,
		DisplayName:  NormalizeDisplayName(displayName, playerID),
		JoinedAt:     joinedAt,
	}
}

// ApplyAttempt counts an attempt and raises the best score when score beats it.
// The first attempt always sets the personal best.
func (p *Participant) ApplyAttempt(score int64, at time.Time) bool {
	first := p.Attempts == 0
	p.Attempts++

	if first || score > p.BestScore {
		p.BestScore = score
		p.LastAttemptAt = &at
		return true
	}
	return false
}

// Result summarises the participant after an attempt.
func (p *Participant) Result(isNewBest bool) *AttemptResult {
	return &AttemptResult{
		BestScore: p.BestScore,
		IsNewBest: isNewBest,
		Attempts:  p.Attempts,
	}
}

// NormalizeDisplayName trims, NFC-normalises and truncates a display name,
// falling back to the player id when nothing printable remains.
func NormalizeDisplayName(name, playerID string) string {
	cleaned := strings.TrimSpace(norm.NFC.String(name))
	if cleaned == "" {
		return playerID
	}
	if utf8.RuneCountInString(cleaned) > MaxDisplayNameLength {
		runes := []rune(cleaned)
		cleaned = strings.TrimSpace(string(runes[:MaxDisplayNameLength]))
	}
	return cleaned
}
