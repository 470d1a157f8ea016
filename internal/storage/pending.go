package storage

import (
	"sync"
	"time"
)

// InputKind names the free text a chat is expected to send next.
type InputKind string

const (
	InputNone          InputKind = ""
	InputAskQuestion   InputKind = "ask"
	InputQuizAnswer    InputKind = "quiz_answer"
	InputLoginEmail    InputKind = "login_email"
	InputLoginPassword InputKind = "login_password"
	InputSignupName    InputKind = "signup_name"
	InputSignupEmail   InputKind = "signup_email"
	InputSignupPass    InputKind = "signup_password"
	InputFactSearch    InputKind = "fact_search"
	InputStockSearch   InputKind = "stock_search"
	InputDailyTime     InputKind = "daily_time"
	InputTimezone      InputKind = "timezone"
	InputProfileName   InputKind = "profile_name"
)

// pendingTTL bounds how long an unanswered prompt stays active.
const pendingTTL = 15 * time.Minute

// PendingInput is a prompt awaiting the user's reply, with values collected so far.
type PendingInput struct {
	Kind      InputKind
	Values    map[string]string
	CreatedAt time.Time
}

// PendingStorage tracks prompts per chat.
type PendingStorage struct {
	mu     sync.RWMutex
	inputs map[int64]PendingInput
	now    func() time.Time
}

func NewPendingStorage() *PendingStorage {
	return &PendingStorage{
		inputs: make(map[int64]PendingInput),
		now:    time.Now,
	}
}

// Expect sets the next expected input, keeping previously collected values.
func (s *PendingStorage) Expect(chatID int64, kind InputKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.inputs[chatID]
	if p.Values == nil {
		p.Values = make(map[string]string)
	}
	p.Kind = kind
	p.CreatedAt = s.now()
	s.inputs[chatID] = p
}

// Put stores a collected value for the current prompt.
func (s *PendingStorage) Put(chatID int64, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.inputs[chatID]
	if p.Values == nil {
		p.Values = make(map[string]string)
	}
	p.Values[key] = value
	s.inputs[chatID] = p
}

// Get returns the active prompt. Expired prompts are dropped.
func (s *PendingStorage) Get(chatID int64) (PendingInput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.inputs[chatID]
	if !ok || p.Kind == InputNone {
		return PendingInput{}, false
	}
	if s.now().Sub(p.CreatedAt) > pendingTTL {
		delete(s.inputs, chatID)
		return PendingInput{}, false
	}

	values := make(map[string]string, len(p.Values))
	for k, v := range p.Values {
		values[k] = v
	}
	p.Values = values
	return p, true
}

// Delete forgets the prompt and its values.
func (s *PendingStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inputs, chatID)
}
