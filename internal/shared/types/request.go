package types

// SubmitRequest represents a component generation request
type SubmitRequest struct {
	Kind                string                 `json:"kind,omitempty"`
	NaturalLanguageHint string                 `json:"natural_language_hint,omitempty"`
	Props               map[string]interface{} `json:"props"`
	Platforms           []string               `json:"platforms" binding:"required,min=1"`
	ComplianceTags      []string               `json:"compliance_tags"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string         `json:"type"`
	JobID   string         `json:"job_id,omitempty"`
	Request *SubmitRequest `json:"request,omitempty"`
}
