package domain

// UrgencyLevel enumerates derived ticket urgency.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyNormal UrgencyLevel = "normal"
	UrgencyHigh   UrgencyLevel = "high"
)

// UrgencyInfo describes how pressing a ticket is, derived from its age and
// declared priority. Never persisted.
type UrgencyInfo struct {
	Level       UrgencyLevel `json:"level"`
	AgeInDays   int          `json:"age_in_days"`
	IsOld       bool         `json:"is_old"`
	Description string       `json:"description"`
}
