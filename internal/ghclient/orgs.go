package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghinventory/internal/constants"
	"github.com/spiffcs/ghinventory/internal/log"
	"github.com/spiffcs/ghinventory/internal/model"
)

// ListOrganizations lists the organizations of the authenticated user, or
// every organization on the server when allOrgs is set. Unless fetchAll is
// set the result is capped at constants.OrganizationCap.
//
// A page failure ends the listing: the organizations gathered so far are
// returned together with the error.
func (c *Client) ListOrganizations(ctx context.Context, allOrgs, fetchAll bool) ([]model.Organization, error) {
	limit := constants.OrganizationCap
	if fetchAll {
		limit = 0
	}

	var (
		orgs []*gh.Organization
		err  error
	)
	if allOrgs {
		orgs, err = paginateSince(ctx, c, "organizations", limit, func(o *gh.Organization) int64 {
			return o.GetID()
		})
	} else {
		orgs, err = paginate[*gh.Organization](ctx, c, "user/orgs", limit)
	}
	if err != nil {
		log.Warn("organization listing incomplete", "fetched", len(orgs), "error", err)
		err = fmt.Errorf("failed to list organizations: %w", err)
	}

	if limit > 0 && len(orgs) > limit {
		log.Warn("organization list truncated, use --fetch-all to list every organization",
			"limit", limit, "fetched", len(orgs))
		orgs = orgs[:limit]
	}

	result := make([]model.Organization, 0, len(orgs))
	for _, o := range orgs {
		result = append(result, model.Organization{
			Login: o.GetLogin(),
			ID:    o.GetID(),
		})
	}
	return result, err
}
