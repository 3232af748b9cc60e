// Package ghclient provides GitHub REST API access for the inventory pipeline.
package ghclient

import (
	"context"
	"time"

	"github.com/spiffcs/ghinventory/internal/model"
)

// GitHubFetcher defines the API operations the inventory pipeline needs.
// This interface enables mocking the GitHub client in unit tests.
type GitHubFetcher interface {
	ListOrganizations(ctx context.Context, allOrgs, fetchAll bool) ([]model.Organization, error)
	ListRepositories(ctx context.Context, org string) ([]model.Repository, error)

	// Per-repository enrichment
	Languages(ctx context.Context, owner, repo string) ([]string, error)
	Teams(ctx context.Context, owner, repo string) ([]model.Team, error)
	DirectCollaborators(ctx context.Context, owner, repo string) ([]model.Collaborator, error)
	LastCommitDate(ctx context.Context, owner, repo string) (time.Time, bool, error)
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]model.PullRequest, error)
}

// Ensure Client implements GitHubFetcher interface.
var _ GitHubFetcher = (*Client)(nil)
