package ghclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghinventory/internal/model"
)

// Languages returns the languages of owner/repo in the order the server
// reports them (largest byte count first on github.com).
func (c *Client) Languages(ctx context.Context, owner, repo string) ([]string, error) {
	endpoint := repoPath(owner, repo, "languages")
	raw, err := c.GetRaw(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	langs, err := objectKeys(raw)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "invalid languages payload: " + err.Error(), Err: err}
	}
	return langs, nil
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Teams returns the teams with access to owner/repo.
func (c *Client) Teams(ctx context.Context, owner, repo string) ([]model.Team, error) {
	teams, err := Get[[]*gh.Team](ctx, c, repoPath(owner, repo, "teams"))
	if err != nil {
		return nil, err
	}

	result := make([]model.Team, 0, len(teams))
	for _, t := range teams {
		result = append(result, model.Team{
			Name:        t.GetName(),
			ID:          t.GetID(),
			Slug:        t.GetSlug(),
			Permission:  t.GetPermission(),
			Permissions: model.PermissionsFromMap(t.Permissions),
		})
	}
	return result, nil
}

// collaboratorPayload holds the collaborator fields we read, including the
// ldap_dn that only GitHub Enterprise Server sends.
type collaboratorPayload struct {
	Login       string          `json:"login"`
	LDAPDN      string          `json:"ldap_dn"`
	RoleName    string          `json:"role_name"`
	Type        string          `json:"type"`
	Permissions map[string]bool `json:"permissions"`
}

// DirectCollaborators returns users granted access to owner/repo directly
// rather than through a team or organization membership.
func (c *Client) DirectCollaborators(ctx context.Context, owner, repo string) ([]model.Collaborator, error) {
	users, err := Get[[]collaboratorPayload](ctx, c, repoPath(owner, repo, "collaborators?affiliation=direct"))
	if err != nil {
		return nil, err
	}

	result := make([]model.Collaborator, 0, len(users))
	for _, u := range users {
		result = append(result, model.Collaborator{
			Login:       u.Login,
			LDAPDN:      u.LDAPDN,
			RoleName:    u.RoleName,
			Type:        u.Type,
			Permissions: model.PermissionsFromMap(u.Permissions),
		})
	}
	return result, nil
}

// LastCommitDate returns the author date of the most recent commit on the
// default branch. ok is false when the repository has no commits or the
// commit carries no author date.
func (c *Client) LastCommitDate(ctx context.Context, owner, repo string) (date time.Time, ok bool, err error) {
	commits, err := Get[[]*gh.RepositoryCommit](ctx, c, repoPath(owner, repo, "commits?per_page=1"))
	if err != nil {
		return time.Time{}, false, err
	}
	if len(commits) == 0 {
		return time.Time{}, false, nil
	}

	date = commits[0].GetCommit().GetAuthor().GetDate().Time
	if date.IsZero() {
		return time.Time{}, false, nil
	}
	return date, true, nil
}
