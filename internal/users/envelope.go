package users

// Page is the list envelope returned by collection endpoints.
type Page struct {
	Items []*Public `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

// ErrorResponse is the envelope carried by every failing API response.
// Fields is populated only for validation failures, one entry per
// offending field.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}
