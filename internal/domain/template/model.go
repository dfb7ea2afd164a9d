package template

import "time"

// Template is a named message template. Its subject and body may contain
// {{key}} placeholders that are substituted at dispatch time.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpsertRequest is the API payload for creating or updating a template.
type UpsertRequest struct {
	Name    string `json:"name" binding:"required"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
