package service

import (
	"context"
	"errors"
	"testing"
)

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := NewUserService(env.api, env.auth, env.sessions)

	if err := users.DeleteAccount(ctx, 1); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("logged out: want=%v got=%v", ErrNotAuthenticated, err)
	}

	tok := env.login(t, 1, nil)
	if err := users.DeleteAccount(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(env.api.deleted) != 1 || env.api.deleted[0] != tok {
		t.Fatalf("backend delete: want token %q got %v", tok, env.api.deleted)
	}
	if env.auth.IsAuthenticated(ctx, 1) {
		t.Fatal("chat should be logged out after deleting the account")
	}
}

func TestDeleteAccountUnauthorized(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := NewUserService(env.api, env.auth, env.sessions)
	env.api.deleteErr = errUnauthorized

	env.login(t, 1, nil)
	if err := users.DeleteAccount(ctx, 1); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want=%v got=%v", ErrSessionExpired, err)
	}
	if env.auth.IsAuthenticated(ctx, 1) {
		t.Fatal("a rejected token should log the chat out")
	}
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := NewUserService(env.api, env.auth, env.sessions)
	env.login(t, 1, nil)

	if _, err := users.Rename(ctx, 1, ""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("empty name: want=%v got=%v", ErrInvalidName, err)
	}

	u, err := users.Rename(ctx, 1, "Grace")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	st, _ := env.sessions.Load(ctx, 1)
	if u.Name != "Grace" || st.User == nil || st.User.Name != "Grace" {
		t.Fatalf("name not stored: user=%+v state=%+v", u, st.User)
	}
}
