package model

import "strconv"

// RepositoryData is the flat inventory record emitted for one repository.
type RepositoryData struct {
	Organization  string `json:"organization"`
	Repository    string `json:"repository"`
	Visibility    string `json:"visibility"`
	Collaborators string `json:"collaborators"`
	Languages     string `json:"languages"`
	LastAccessed  string `json:"last_accessed"`
	ActivePRs     int    `json:"active_prs"`
	PRs2W         int    `json:"prs_2w"`
	PRs1M         int    `json:"prs_1m"`
}

// Fields returns the record's columns in report order.
func (d RepositoryData) Fields() []string {
	return []string{
		d.Organization,
		d.Repository,
		d.Visibility,
		d.Collaborators,
		d.Languages,
		d.LastAccessed,
		strconv.Itoa(d.ActivePRs),
		strconv.Itoa(d.PRs2W),
		strconv.Itoa(d.PRs1M),
	}
}

// Columns are the report column names, in the same order as Fields.
var Columns = []string{
	"organization",
	"repository",
	"visibility",
	"collaborators",
	"languages",
	"last_accessed",
	"active_prs",
	"prs_2w",
	"prs_1m",
}
