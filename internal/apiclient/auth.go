package apiclient

import (
	"context"
	"errors"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

var ErrNoToken = errors.New("no token received")

// AuthResponse is returned by login, register and guest.
type AuthResponse struct {
	Token   string        `json:"token"`
	User    entities.User `json:"user"`
	Message string        `json:"message,omitempty"`
}

// RegisterRequest creates a full account.
type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	AgeRange      string `json:"ageRange,omitempty"`
	FinancialGoal string `json:"financialGoal,omitempty"`
	LearningMode  string `json:"learningMode,omitempty"`
}

// GuestRequest creates a guest account without credentials.
type GuestRequest struct {
	Name          string `json:"name"`
	AgeRange      string `json:"ageRange"`
	FinancialGoal string `json:"financialGoal"`
	LearningMode  string `json:"learningMode"`
}

// DefaultGuest returns the profile used when onboarding is skipped.
func DefaultGuest() GuestRequest {
	return GuestRequest{
		Name:          entities.GuestName,
		AgeRange:      entities.GuestAgeRange,
		FinancialGoal: entities.GuestFinancialGoal,
		LearningMode:  entities.LearningModeFacts,
	}
}

// VerifyResponse reports whether the backend still accepts a token.
type VerifyResponse struct {
	Valid bool           `json:"valid"`
	User  *entities.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/auth/login", body)
}

func (c *Client) Register(ctx context.Context, r RegisterRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", r)
}

func (c *Client) Guest(ctx context.Context, r GuestRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/guest", r)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "", path, body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrNoToken
	}
	return &resp, nil
}

// Verify checks token against GET /auth/verify.
func (c *Client) Verify(ctx context.Context, token string) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.get(ctx, token, "/auth/verify", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
