package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// FactPage is a page of facts.
type FactPage struct {
	Facts      []entities.Fact     `json:"facts"`
	Pagination entities.Pagination `json:"pagination"`
}

// TodayFact returns the fact of the day for the user.
func (c *Client) TodayFact(ctx context.Context, token string) (*entities.Fact, error) {
	var resp struct {
		Fact *entities.Fact `json:"fact"`
	}
	if err := c.get(ctx, token, "/facts/today", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Fact == nil {
		return nil, &APIError{StatusCode: 404, Message: "No fact available today"}
	}
	return resp.Fact, nil
}

func (c *Client) Facts(ctx context.Context, token string, page, limit int, category string) (*FactPage, error) {
	q := pageQuery(page, limit)
	if category != "" {
		q.Set("category", category)
	}

	var resp FactPage
	if err := c.get(ctx, token, "/facts", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Fact(ctx context.Context, token string, id entities.ID) (*entities.Fact, error) {
	var raw struct {
		entities.Fact
		Wrapped *entities.Fact `json:"fact"`
	}
	if err := c.get(ctx, token, "/facts/"+pathEscape(id.String()), nil, &raw); err != nil {
		return nil, err
	}
	if raw.Wrapped != nil {
		return raw.Wrapped, nil
	}
	return &raw.Fact, nil
}

func (c *Client) CompletedFacts(ctx context.Context, token string, page, limit int) (*FactPage, error) {
	var resp FactPage
	if err := c.get(ctx, token, "/facts/user/completed", pageQuery(page, limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FactCategories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.get(ctx, "", "/facts/categories/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) SearchFacts(ctx context.Context, token, query string, page, limit int) (*FactPage, error) {
	var resp FactPage
	if err := c.get(ctx, token, "/facts/search/"+pathEscape(query), pageQuery(page, limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
