package ghclient

import (
	"bytes"
	"context"
	"net/http"
)

// Get issues an authenticated GET for endpoint (relative to the base URL)
// and decodes the JSON response into T.
func Get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var v T
	if err := c.do(ctx, endpoint, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// GetRaw issues an authenticated GET for endpoint and returns the body as is.
func (c *Client) GetRaw(ctx context.Context, endpoint string) (string, error) {
	var buf bytes.Buffer
	if err := c.do(ctx, endpoint, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// do sends the request. go-github decodes JSON into v, or copies the body
// when v is an io.Writer, and turns non-2xx statuses into errors.
func (c *Client) do(ctx context.Context, endpoint string, v any) error {
	req, err := c.client.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return &APIError{Endpoint: endpoint, Message: err.Error(), Err: err}
	}

	resp, err := c.client.Do(ctx, req, v)
	if err != nil {
		return newAPIError(endpoint, resp, err)
	}
	return nil
}
