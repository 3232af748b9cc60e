package model

import "time"

// PullRequest is an open pull request.
type PullRequest struct {
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"createdAt"`
	State     string    `json:"state"`
}

// Default age thresholds for PR counting.
const (
	DefaultStaleAfter = 14 * 24 * time.Hour
	DefaultOldAfter   = 30 * 24 * time.Hour
)

// PRCounts summarizes open pull requests by age.
type PRCounts struct {
	Active int `json:"active"`
	Stale  int `json:"stale"` // created before now - staleAfter (2 weeks by default)
	Old    int `json:"old"`   // created before now - oldAfter (1 month by default)
}

// CountPullRequests counts prs relative to now. oldAfter must not be shorter
// than staleAfter, so Old <= Stale <= Active always holds.
func CountPullRequests(prs []PullRequest, now time.Time, staleAfter, oldAfter time.Duration) PRCounts {
	if oldAfter < staleAfter {
		oldAfter = staleAfter
	}
	staleCutoff := now.Add(-staleAfter)
	oldCutoff := now.Add(-oldAfter)

	counts := PRCounts{Active: len(prs)}
	for _, pr := range prs {
		if pr.CreatedAt.Before(staleCutoff) {
			counts.Stale++
		}
		if pr.CreatedAt.Before(oldCutoff) {
			counts.Old++
		}
	}
	return counts
}
