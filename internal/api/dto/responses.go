package dto

// TemplateResponse returns a prompt template.
type TemplateResponse struct {
	Template string `json:"template"`
}

// ModelsResponse lists available model names.
type ModelsResponse struct {
	Backend string      `json:"backend"`
	Models  []ModelItem `json:"models"`
}

// ModelItem is one selectable model.
type ModelItem struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

// CacheClearedResponse reports a bulk cache clear.
type CacheClearedResponse struct {
	EntriesRemoved int `json:"entries_removed"`
}

// StatusResponse is a minimal acknowledgment.
type StatusResponse struct {
	Status string `json:"status"`
}
