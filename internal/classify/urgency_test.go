package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCalculateUrgency(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := NewUrgencyCalculatorAt(fixedClock(now))

	ageDays := func(days int) *time.Time {
		created := now.AddDate(0, 0, -days)
		return &created
	}

	t.Run("old tickets rank high regardless of priority", func(t *testing.T) {
		got := c.Calculate(ageDays(10), "low")
		assert.Equal(t, domain.UrgencyHigh, got.Level)
		assert.True(t, got.IsOld)
		assert.Equal(t, 10, got.AgeInDays)
		assert.Equal(t, "High priority - Ticket is 10 days old", got.Description)
	})

	t.Run("exactly seven days is not old", func(t *testing.T) {
		got := c.Calculate(ageDays(7), "normal")
		assert.False(t, got.IsOld)
		assert.Equal(t, domain.UrgencyNormal, got.Level)
	})

	t.Run("declared urgent priority", func(t *testing.T) {
		got := c.Calculate(ageDays(1), "urgent")
		assert.Equal(t, domain.UrgencyHigh, got.Level)
		assert.False(t, got.IsOld)
		assert.Equal(t, "High priority - Marked as urgent by the requester", got.Description)
	})

	t.Run("declared low priority", func(t *testing.T) {
		got := c.Calculate(ageDays(1), "low")
		assert.Equal(t, domain.UrgencyLow, got.Level)
		assert.Equal(t, "Low priority", got.Description)
	})

	t.Run("aging normal ticket gets annotated", func(t *testing.T) {
		got := c.Calculate(ageDays(5), "normal")
		assert.Equal(t, domain.UrgencyNormal, got.Level)
		assert.Equal(t, "Normal priority - Ticket is 5 days old", got.Description)
	})

	t.Run("fresh normal ticket", func(t *testing.T) {
		got := c.Calculate(ageDays(1), "normal")
		assert.Equal(t, domain.UrgencyNormal, got.Level)
		assert.Equal(t, "Normal priority", got.Description)
	})

	t.Run("future creation time clamps to zero", func(t *testing.T) {
		created := now.Add(48 * time.Hour)
		got := c.Calculate(&created, "normal")
		assert.Equal(t, 0, got.AgeInDays)
	})

	t.Run("missing creation time defaults to normal", func(t *testing.T) {
		got := c.Calculate(nil, "urgent")
		assert.Equal(t, domain.UrgencyNormal, got.Level)
		assert.Equal(t, "Normal priority", got.Description)
	})
}
