package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", 5*time.Second, nil)
}

func TestBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `{"xp":120,"level":99,"streak":3}`)
	})

	p, err := c.GetProgress(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("authorization: want=%q got=%q", "Bearer tok-1", gotAuth)
	}
	if gotReqID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if p.XP != 120 || p.Streak != 3 {
		t.Fatalf("unexpected progress: %+v", p)
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected authorization header %q", h)
		}
		_, _ = io.WriteString(w, `{"categories":["saving","investing"]}`)
	})

	cats, err := c.FactCategories(context.Background())
	if err != nil {
		t.Fatalf("FactCategories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("want 2 categories got=%d", len(cats))
	}
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Lesson already completed"}`, "Lesson already completed"},
		{"message field", http.StatusConflict, `{"message":"You can only complete one fact per day"}`, "You can only complete one fact per day"},
		{"no body", http.StatusInternalServerError, ``, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.CompleteLesson(context.Background(), "tok", "7")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("want *APIError got=%v", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Message != tt.want {
				t.Fatalf("want=(%d,%q) got=(%d,%q)", tt.status, tt.want, apiErr.StatusCode, apiErr.Message)
			}
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Invalid token"}`)
	})

	_, err := c.Verify(context.Background(), "bad")
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got=%v", err)
	}
	if IsNotFound(err) {
		t.Fatal("401 must not be reported as not found")
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url+"/api", time.Second, nil)
	_, err := c.Courses(context.Background(), "tok")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("want ErrNetwork got=%v", err)
	}
}

func TestGuestAndNoToken(t *testing.T) {
	var got GuestRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/guest" {
			t.Errorf("path: want=%q got=%q", "/api/auth/guest", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"user":{"id":5,"name":"Guest User"}}`)
	})

	_, err := c.Guest(context.Background(), DefaultGuest())
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("want ErrNoToken got=%v", err)
	}
	if got.Name != entities.GuestName || got.AgeRange != "18-24" || got.FinancialGoal != "investing" || got.LearningMode != "facts" {
		t.Fatalf("unexpected guest body: %+v", got)
	}
}

func TestQuizWrappedAndBare(t *testing.T) {
	bodies := []string{
		`{"quiz":{"id":3,"title":"Budgeting","passingScore":80,"questions":[{"id":1,"question":"q","options":["a","b"]}]}}`,
		`{"id":3,"title":"Budgeting","passingScore":80,"questions":[{"id":1,"question":"q","options":["a","b"]}]}`,
	}

	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		q, err := c.Quiz(context.Background(), "tok", "3")
		if err != nil {
			t.Fatalf("Quiz: %v", err)
		}
		if q.ID != "3" || q.PassingScore != 80 || len(q.Questions) != 1 {
			t.Fatalf("unexpected quiz: %+v", q)
		}
	}
}

func TestSubmitQuizBody(t *testing.T) {
	var body map[string]map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/quizzes/9/submit" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"score":85,"passed":true,"xpEarned":20,"isFirstTimePass":true,"newLevel":3}`)
	})

	res, err := c.SubmitQuiz(context.Background(), "tok", "9", Answers{"1": 2, "2": "diversify"})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if !res.Passed || res.XPEarned != 20 || res.NewLevel != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if body["answers"]["2"] != "diversify" {
		t.Fatalf("answers not sent: %+v", body)
	}
}

func TestBuyParsesDecimalStrings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"portfolio":{"balance":"9500.50","totalValue":10000},"transaction":{"id":"t1","createdAt":"2024-05-01T12:00:00Z"}}`)
	})

	resp, err := c.Buy(context.Background(), "tok", "aapl", decimal.NewFromInt(2), decimal.RequireFromString("249.75"))
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if !resp.Portfolio.Balance.Equal(decimal.RequireFromString("9500.50")) {
		t.Fatalf("balance: got=%s", resp.Portfolio.Balance)
	}
	if resp.Transaction.ID != "t1" || resp.Transaction.CreatedAt.IsZero() {
		t.Fatalf("unexpected transaction: %+v", resp.Transaction)
	}
}

func TestAskEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":11,"answer":"Diversify.","createdAt":"now"},"requestId":"r"}`)
	})

	ans, err := c.Ask(context.Background(), "tok", "What is an index fund?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.ID != "11" || ans.Answer != "Diversify." {
		t.Fatalf("unexpected answer: %+v", ans)
	}
}

func TestAskStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/ask/stats" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"totalQuestions":12,"todayQuestions":3}}`)
	})

	stats, err := c.AskStats(context.Background(), "tok")
	if err != nil {
		t.Fatalf("AskStats: %v", err)
	}
	if stats.TotalQuestions != 12 || stats.TodayQuestions != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDeleteAccount(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotAuth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteAccount(context.Background(), "tok"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/users/account" || gotAuth != "Bearer tok" {
		t.Fatalf("unexpected request: %s %s auth=%q", gotMethod, gotPath, gotAuth)
	}
}

func TestLessonQuizAttempts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/quizzes/lesson/5/attempts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"attempts":[{"id":1,"quizId":3,"score":80,"passed":true}]}`)
	})

	attempts, err := c.LessonQuizAttempts(context.Background(), "tok", "5")
	if err != nil {
		t.Fatalf("LessonQuizAttempts: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Score != 80 || !attempts[0].Passed || attempts[0].QuizID != "3" {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
}

func TestHealthStripsAPIPrefix(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"status":"OK"}`)
	})

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
