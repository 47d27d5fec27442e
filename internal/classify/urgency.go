package classify

import (
	"fmt"
	"time"

	"github.com/spec-kit/ticket-intel/internal/domain"
)

// UrgencyCalculator derives a priority descriptor from ticket age and the
// declared priority.
type UrgencyCalculator struct {
	now func() time.Time
}

// NewUrgencyCalculator constructs a calculator using the wall clock.
func NewUrgencyCalculator() *UrgencyCalculator {
	return &UrgencyCalculator{now: time.Now}
}

// NewUrgencyCalculatorAt constructs a calculator with a fixed clock.
func NewUrgencyCalculatorAt(now func() time.Time) *UrgencyCalculator {
	return &UrgencyCalculator{now: now}
}

// Calculate evaluates the urgency policy in order: old tickets always rank
// high regardless of declared priority, then the declared priority decides.
func (c *UrgencyCalculator) Calculate(createdAt *time.Time, priority string) domain.UrgencyInfo {
	urgency := domain.UrgencyInfo{
		Level:       domain.UrgencyNormal,
		AgeInDays:   0,
		Description: "Normal priority",
	}
	if createdAt == nil {
		return urgency
	}

	age := c.now().Sub(*createdAt)
	ageInDays := int(age.Hours() / 24)
	if ageInDays < 0 {
		ageInDays = 0
	}
	urgency.AgeInDays = ageInDays

	switch {
	case ageInDays > 7:
		urgency.IsOld = true
		urgency.Level = domain.UrgencyHigh
		urgency.Description = fmt.Sprintf("High priority - Ticket is %d days old", ageInDays)
	case priority == "urgent" || priority == "high":
		urgency.Level = domain.UrgencyHigh
		urgency.Description = "High priority - Marked as urgent by the requester"
	case priority == "low":
		urgency.Level = domain.UrgencyLow
		urgency.Description = "Low priority"
	default:
		if ageInDays > 3 {
			urgency.Description = fmt.Sprintf("Normal priority - Ticket is %d days old", ageInDays)
		}
	}

	return urgency
}
