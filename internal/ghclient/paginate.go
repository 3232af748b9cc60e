package ghclient

import (
	"context"
	"strconv"
	"strings"

	"github.com/spiffcs/ghinventory/internal/constants"
)

// withQuery appends key=value to endpoint.
func withQuery(endpoint, key, value string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + key + "=" + value
}

// paginate drains a page-numbered list endpoint. A page holding exactly
// PageSize items is taken to mean another page exists. When limit > 0 it stops
// as soon as more than limit items are held, so callers can tell a truncation
// from an exact fit. On error the items gathered so far are returned with it.
func paginate[T any](ctx context.Context, c *Client, endpoint string, limit int) ([]T, error) {
	endpoint = withQuery(endpoint, "per_page", strconv.Itoa(constants.PageSize))

	var all []T
	for page := 1; ; page++ {
		items, err := Get[[]T](ctx, c, withQuery(endpoint, "page", strconv.Itoa(page)))
		if err != nil {
			return all, err
		}
		all = append(all, items...)

		if len(items) != constants.PageSize {
			return all, nil
		}
		if limit > 0 && len(all) > limit {
			return all, nil
		}
	}
}

// paginateSince drains a list endpoint that pages with a since=<id> cursor
// instead of page numbers. next returns the cursor for the last item.
func paginateSince[T any](ctx context.Context, c *Client, endpoint string, limit int, next func(T) int64) ([]T, error) {
	endpoint = withQuery(endpoint, "per_page", strconv.Itoa(constants.PageSize))

	var all []T
	var since int64
	for {
		pageURL := endpoint
		if since > 0 {
			pageURL = withQuery(endpoint, "since", strconv.FormatInt(since, 10))
		}
		items, err := Get[[]T](ctx, c, pageURL)
		if err != nil {
			return all, err
		}
		all = append(all, items...)

		if len(items) != constants.PageSize {
			return all, nil
		}
		if limit > 0 && len(all) > limit {
			return all, nil
		}

		cursor := next(items[len(items)-1])
		if cursor <= since {
			// a server that ignores the cursor would loop forever
			return all, nil
		}
		since = cursor
	}
}
