package storage

import (
	"sync"
	"time"
)

// ReminderMessage points at the last daily fact reminder sent to a chat.
type ReminderMessage struct {
	ChatID    int64
	MessageID int
	Day       string // user's local date, 2006-01-02
	SentAt    time.Time
}

// ReminderStorage remembers reminder messages so the previous one can be
// cleaned up when a new one is sent.
type ReminderStorage struct {
	mu       sync.RWMutex
	messages map[int64]ReminderMessage
}

func NewReminderStorage() *ReminderStorage {
	return &ReminderStorage{
		messages: make(map[int64]ReminderMessage),
	}
}

func (s *ReminderStorage) Get(chatID int64) (ReminderMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *ReminderStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}

// UpsertAndGetPrev stores the new message and returns the one it replaced.
func (s *ReminderStorage) UpsertAndGetPrev(msg ReminderMessage) (prev ReminderMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[msg.ChatID]
	s.messages[msg.ChatID] = msg

	return prev, hadPrev
}

// SentOn reports whether chatID already got the reminder for day.
func (s *ReminderStorage) SentOn(chatID int64, day string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return ok && msg.Day == day
}
