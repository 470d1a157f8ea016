package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

func TestSessionStorageCopies(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStorage()

	if _, err := s.Get(ctx, 1); !errors.Is(err, state.ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound got=%v", err)
	}

	st := state.New()
	st.AddXP(60)
	if err := s.Save(ctx, &state.Session{ChatID: 1, Token: "t", State: st}); err != nil {
		t.Fatalf("save: %v", err)
	}

	st.AddXP(100)

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State.Progress.XP != 60 {
		t.Fatalf("stored state was aliased: want xp=60 got=%d", got.State.Progress.XP)
	}
}

func TestSessionStorageListAuthenticated(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStorage()

	for _, id := range []int64{5, 1, 3, 4} {
		token := "t"
		if id == 4 {
			token = ""
		}
		_ = s.Save(ctx, &state.Session{ChatID: id, Token: token})
	}

	page, _ := s.ListAuthenticated(ctx, 2, 0)
	if len(page) != 2 || page[0].ChatID != 1 || page[1].ChatID != 3 {
		t.Fatalf("first page: got=%v", ids(page))
	}

	page, _ = s.ListAuthenticated(ctx, 2, 2)
	if len(page) != 1 || page[0].ChatID != 5 {
		t.Fatalf("second page: got=%v", ids(page))
	}
}

func ids(ss []*state.Session) []int64 {
	out := make([]int64, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.ChatID)
	}
	return out
}

func TestPendingStorage(t *testing.T) {
	p := NewPendingStorage()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	p.Expect(7, InputSignupName)
	p.Put(7, "name", "Ann")
	p.Expect(7, InputSignupEmail)

	got, ok := p.Get(7)
	if !ok || got.Kind != InputSignupEmail || got.Values["name"] != "Ann" {
		t.Fatalf("unexpected pending input: %+v ok=%v", got, ok)
	}

	now = now.Add(pendingTTL + time.Second)
	if _, ok := p.Get(7); ok {
		t.Fatal("expired prompt should be dropped")
	}
}

func TestQuizStorage(t *testing.T) {
	s := NewQuizStorage()
	s.Store(1, entities.NewQuizSession(1, "c", "l", entities.Quiz{ID: "q"}))

	if got, ok := s.Get(1); !ok || got.Quiz.ID != "q" {
		t.Fatalf("get: got=%v ok=%v", got, ok)
	}
	s.Delete(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("expected deletion")
	}
}

func TestReminderStorage(t *testing.T) {
	s := NewReminderStorage()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	if s.SentOn(1, "2024-05-01") {
		t.Fatal("nothing sent yet")
	}
	if _, had := s.UpsertAndGetPrev(ReminderMessage{ChatID: 1, MessageID: 10, Day: "2024-04-30", SentAt: at.Add(-24 * time.Hour)}); had {
		t.Fatal("no previous reminder expected")
	}
	prev, had := s.UpsertAndGetPrev(ReminderMessage{ChatID: 1, MessageID: 11, Day: "2024-05-01", SentAt: at})
	if !had || prev.MessageID != 10 {
		t.Fatalf("prev: want=10 got=%d had=%v", prev.MessageID, had)
	}

	if !s.SentOn(1, "2024-05-01") {
		t.Fatal("expected today's reminder to be recorded")
	}
	if s.SentOn(1, "2024-05-02") {
		t.Fatal("a new day should not count as sent")
	}
	if s.SentOn(2, "2024-05-01") {
		t.Fatal("other chats are unaffected")
	}

	if msg, ok := s.Get(1); !ok || msg.MessageID != 11 || !msg.SentAt.Equal(at) {
		t.Fatalf("get: want message 11 sent at %s, got %+v ok=%v", at, msg, ok)
	}
	s.Delete(1)
	if _, ok := s.Get(1); ok || s.SentOn(1, "2024-05-01") {
		t.Fatal("delete should forget the chat")
	}
}
