package apiclient

import (
	"context"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// AskHistory is a page of past questions.
type AskHistory struct {
	Messages   []entities.AskMessage `json:"messages"`
	Pagination entities.Pagination   `json:"pagination"`
}

type envelope[T any] struct {
	Success   bool   `json:"success"`
	Data      T      `json:"data"`
	RequestID string `json:"requestId,omitempty"`
}

// Ask sends a question to the assistant.
func (c *Client) Ask(ctx context.Context, token, message string) (*entities.AskAnswer, error) {
	var resp envelope[entities.AskAnswer]
	if err := c.post(ctx, token, "/ask/question", map[string]string{"message": message}, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) AskHistory(ctx context.Context, token string, page, limit int) (*AskHistory, error) {
	var resp envelope[AskHistory]
	if err := c.get(ctx, token, "/ask/history", pageQuery(page, limit), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) AskSuggestions(ctx context.Context) ([]string, error) {
	var resp envelope[struct {
		Suggestions []string `json:"suggestions"`
	}]
	if err := c.get(ctx, "", "/ask/suggestions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Suggestions, nil
}

func (c *Client) ClearAskHistory(ctx context.Context, token string) error {
	return c.delete(ctx, token, "/ask/history", nil)
}

// AskStatus reports whether the AI backend is configured and reachable.
func (c *Client) AskStatus(ctx context.Context, token string) (bool, error) {
	var resp envelope[struct {
		Available bool `json:"available"`
	}]
	if err := c.get(ctx, token, "/ask/status", nil, &resp); err != nil {
		return false, err
	}
	return resp.Data.Available, nil
}

func (c *Client) AskStats(ctx context.Context, token string) (*entities.AskStats, error) {
	var resp envelope[entities.AskStats]
	if err := c.get(ctx, token, "/ask/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
