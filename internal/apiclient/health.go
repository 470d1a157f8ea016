package apiclient

import (
	"context"
	"net/http"
	"strings"
)

// Health calls the server health check, which lives outside the /api prefix.
func (c *Client) Health(ctx context.Context) error {
	root := strings.TrimSuffix(c.baseURL, "/api")

	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doURL(ctx, root+"/health", request{method: http.MethodGet, path: "/health"}, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return &APIError{StatusCode: http.StatusServiceUnavailable, Message: "health status " + resp.Status}
	}
	return nil
}
