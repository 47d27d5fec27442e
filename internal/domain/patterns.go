package domain

// PatternMatches holds candidate identifiers recovered from raw ticket text.
// Each slice contains unique values; ordering is not significant.
type PatternMatches struct {
	SerialNumbers []string `json:"serial_numbers"`
	IMEIs         []string `json:"imeis"`
	Addresses     []string `json:"addresses"`
	Emails        []string `json:"emails"`
	Phones        []string `json:"phones"`
}

// IsEmpty reports whether no category produced a match.
func (p PatternMatches) IsEmpty() bool {
	return len(p.SerialNumbers) == 0 &&
		len(p.IMEIs) == 0 &&
		len(p.Addresses) == 0 &&
		len(p.Emails) == 0 &&
		len(p.Phones) == 0
}
