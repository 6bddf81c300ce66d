package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParticipant_ApplyAttempt(t *testing.T) {
	p := NewParticipant(uuid.New(), "p1", "Player One", testNow)

	assert.True(t, p.ApplyAttempt(0, testNow), "first attempt is always a personal best")
	assert.Equal(t, int64(0), p.BestScore)

	assert.True(t, p.ApplyAttempt(50, testNow.Add(time.Second)))
	assert.False(t, p.ApplyAttempt(40, testNow.Add(2*time.Second)))
	assert.False(t, p.ApplyAttempt(50, testNow.Add(3*time.Second)))

	assert.Equal(t, int64(50), p.BestScore)
	assert.Equal(t, 4, p.Attempts)
	assert.Equal(t, testNow.Add(time.Second), *p.LastAttemptAt)
}

func TestParticipant_BestIsMaxRegardlessOfOrder(t *testing.T) {
	scores := []int64{17, 3, 99, 42, 99, 0, 58}

	p := NewParticipant(uuid.New(), "p1", "", testNow)
	for i, s := range scores {
		p.ApplyAttempt(s, testNow.Add(time.Duration(i)*time.Second))
	}

	assert.Equal(t, int64(99), p.BestScore)
	assert.Equal(t, len(scores), p.Attempts)
}

func TestNormalizeDisplayName(t *testing.T) {
	assert.Equal(t, "p1", NormalizeDisplayName("   ", "p1"))
	assert.Equal(t, "Zoë", NormalizeDisplayName(" Zoë ", "p1"))

	long := strings.Repeat("é", MaxDisplayNameLength+10)
	assert.Equal(t, MaxDisplayNameLength, len([]rune(NormalizeDisplayName(long, "p1"))))
}
