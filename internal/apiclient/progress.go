package apiclient

import (
	"context"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// RemoteProgress is the progress record as the backend stores it.
type RemoteProgress struct {
	XP               int              `json:"xp"`
	Level            int              `json:"level"`
	Streak           int              `json:"streak"`
	Badges           []entities.Badge `json:"badges"`
	CompletedFacts   []entities.ID    `json:"completedFacts"`
	CompletedLessons []entities.ID    `json:"completedLessons"`
}

// GetProgress returns GET /progress. The body may be bare or wrapped in {progress}.
func (c *Client) GetProgress(ctx context.Context, token string) (*RemoteProgress, error) {
	var raw struct {
		RemoteProgress
		Progress *RemoteProgress `json:"progress"`
	}
	if err := c.get(ctx, token, "/progress", nil, &raw); err != nil {
		return nil, err
	}
	if raw.Progress != nil {
		return raw.Progress, nil
	}
	return &raw.RemoteProgress, nil
}

func (c *Client) UpdateProgress(ctx context.Context, token string, p RemoteProgress) error {
	return c.put(ctx, token, "/progress", p, nil)
}

func (c *Client) AddXP(ctx context.Context, token string, amount int) (*entities.XPUpdate, error) {
	var resp entities.XPUpdate
	if err := c.post(ctx, token, "/progress/xp", map[string]int{"amount": amount}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateStreak(ctx context.Context, token string, increment bool) (*entities.XPUpdate, error) {
	var resp entities.XPUpdate
	if err := c.post(ctx, token, "/progress/streak", map[string]bool{"increment": increment}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddBadge(ctx context.Context, token string, badge entities.Badge) error {
	return c.post(ctx, token, "/progress/badges", map[string]entities.Badge{"badge": badge}, nil)
}

// CompleteFact marks a fact read. The backend allows one per day.
func (c *Client) CompleteFact(ctx context.Context, token string, factID entities.ID) (*entities.XPUpdate, error) {
	var resp entities.XPUpdate
	if err := c.post(ctx, token, "/progress/complete-fact", map[string]entities.ID{"factId": factID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CompleteLesson(ctx context.Context, token string, lessonID entities.ID) (*entities.XPUpdate, error) {
	var resp entities.XPUpdate
	if err := c.post(ctx, token, "/progress/complete-lesson", map[string]entities.ID{"lessonId": lessonID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
