package domain

// WarrantyStatus enumerates warranty states derived from ticket tags.
type WarrantyStatus string

const (
	WarrantyUnknown       WarrantyStatus = ""
	WarrantyInWarranty    WarrantyStatus = "In warranty"
	WarrantyOutOfWarranty WarrantyStatus = "Out of warranty"
	WarrantyExpired       WarrantyStatus = "Warranty expired"
	WarrantyExtended      WarrantyStatus = "Extended warranty"
)

// ProductContext is the structured view of a ticket's tag list. Model is set
// by at most one detection rule; the collection fields accumulate every
// matching tag.
type ProductContext struct {
	Model              string         `json:"model,omitempty"`
	Generation         string         `json:"generation,omitempty"`
	IssueCategories    []string       `json:"issue_categories"`
	HardwareComponents []string       `json:"hardware_components"`
	OSVersion          string         `json:"os_version,omitempty"`
	SoftwareContext    []string       `json:"software_context"`
	ReturnRepairStatus []string       `json:"return_repair_status"`
	SupportContext     []string       `json:"support_context"`
	WarrantyStatus     WarrantyStatus `json:"warranty_status,omitempty"`
	RawTags            []string       `json:"raw_tags"`
}
