package ghclient

import (
	"context"
	"fmt"
	"net/url"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghinventory/internal/model"
)

// ListRepositories lists every repository of org. On a page failure the
// repositories gathered so far are returned together with the error.
func (c *Client) ListRepositories(ctx context.Context, org string) ([]model.Repository, error) {
	repos, err := paginate[*gh.Repository](ctx, c, fmt.Sprintf("orgs/%s/repos", url.PathEscape(org)), 0)

	result := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		result = append(result, model.Repository{
			Name:       r.GetName(),
			Private:    r.GetPrivate(),
			Archived:   r.GetArchived(),
			Visibility: r.GetVisibility(),
			Language:   r.GetLanguage(),
		})
	}
	return result, err
}

// repoPath builds repos/{owner}/{repo}/{suffix}.
func repoPath(owner, repo, suffix string) string {
	return fmt.Sprintf("repos/%s/%s/%s", url.PathEscape(owner), url.PathEscape(repo), suffix)
}
