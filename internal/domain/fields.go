package domain

// ExtractedFields holds transactional values recovered from a generated
// summary. An empty string means the field was not found; a field is never
// populated with an empty match.
type ExtractedFields struct {
	OrderNumber     string `json:"order_number,omitempty"`
	Product         string `json:"product,omitempty"`
	SerialNumber    string `json:"serial_number,omitempty"`
	DateOfPurchase  string `json:"date_of_purchase,omitempty"`
	ReasonForReturn string `json:"reason_for_return,omitempty"`
	Address         string `json:"address,omitempty"`
	BriefSummary    string `json:"brief_summary,omitempty"`
}

// IsEmpty reports whether no field was recovered. An empty result is a valid
// outcome, not an error.
func (f ExtractedFields) IsEmpty() bool {
	return f == ExtractedFields{}
}
