package ghclient

import (
	"context"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghinventory/internal/model"
)

// ListOpenPullRequests lists every open pull request of owner/repo. On a
// page failure the pull requests gathered so far are returned with the error.
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]model.PullRequest, error) {
	prs, err := paginate[*gh.PullRequest](ctx, c, repoPath(owner, repo, "pulls?state=open"), 0)

	result := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		result = append(result, model.PullRequest{
			Number:    pr.GetNumber(),
			CreatedAt: pr.GetCreatedAt().Time,
			State:     pr.GetState(),
		})
	}
	return result, err
}
