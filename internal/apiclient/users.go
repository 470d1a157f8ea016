package apiclient

import (
	"context"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// ProfileUpdate carries the editable profile fields. Empty fields are left unchanged.
type ProfileUpdate struct {
	Name          string `json:"name,omitempty"`
	AgeRange      string `json:"ageRange,omitempty"`
	FinancialGoal string `json:"financialGoal,omitempty"`
	LearningMode  string `json:"learningMode,omitempty"`
}

func (c *Client) Profile(ctx context.Context, token string) (*entities.User, error) {
	var resp struct {
		User entities.User `json:"user"`
	}
	if err := c.get(ctx, token, "/users/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, p ProfileUpdate) (*entities.User, error) {
	var resp struct {
		User entities.User `json:"user"`
	}
	if err := c.put(ctx, token, "/users/profile", p, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.delete(ctx, token, "/users/account", nil)
}

func (c *Client) UserStats(ctx context.Context, token string) (*entities.UserStats, error) {
	var resp struct {
		Stats entities.UserStats `json:"stats"`
	}
	if err := c.get(ctx, token, "/users/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}
