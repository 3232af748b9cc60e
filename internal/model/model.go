// Package model contains domain types for the inventory pipeline.
// These types are independent of any external GitHub library.
package model

// NotAvailable is the placeholder rendered for any value that could not be
// fetched or does not exist.
const NotAvailable = "N/A"

// Organization is an organization the token can see.
type Organization struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Repository is a repository listed under an organization.
type Repository struct {
	Name       string `json:"name"`
	Private    bool   `json:"private"`
	Archived   bool   `json:"archived"`
	Visibility string `json:"visibility,omitempty"` // public, private, internal; empty on older servers
	Language   string `json:"language,omitempty"`
}

// VisibilityLabel returns the server-reported visibility, falling back to
// the private flag on servers that don't report one.
func (r Repository) VisibilityLabel() string {
	if r.Visibility != "" {
		return r.Visibility
	}
	if r.Private {
		return "private"
	}
	return "public"
}
