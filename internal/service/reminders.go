package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

// Telegram allows about 30 messages per second across chats.
const reminderRate = 25

// ReminderStore remembers the last reminder per chat.
type ReminderStore interface {
	UpsertAndGetPrev(msg storage.ReminderMessage) (prev storage.ReminderMessage, hadPrev bool)
	SentOn(chatID int64, day string) bool
}

// ReminderService sends the daily fact at each user's chosen time.
type ReminderService struct {
	lister   SessionLister
	facts    *FactsService
	store    ReminderStore
	notifier ReminderNotifier
	limiter  *rate.Limiter
	logger   *zap.Logger
	now      func() time.Time
}

// NewReminderService creates a new reminder service.
func NewReminderService(lister SessionLister, facts *FactsService, store ReminderStore, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		lister:  lister,
		facts:   facts,
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(reminderRate), 1),
		logger:  logger,
		now:     time.Now,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start checks for due reminders every minute until ctx is done.
func (s *ReminderService) Start(ctx context.Context) {
	s.logger.Info("reminder service started")

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("* * * * *", func() {
		if _, err := s.SendDue(ctx); err != nil {
			s.logger.Error("failed to send daily facts", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	s.logger.Info("reminder service stopped")
}

// SendDue sends today's fact to every session whose daily time is now.
func (s *ReminderService) SendDue(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, errors.New("notifier not initialized")
	}

	const batchSize = 100
	offset := 0
	totalSent := 0
	now := s.now().UTC().Truncate(time.Minute)

	for {
		sessions, err := s.lister.ListAuthenticated(ctx, batchSize, offset)
		if err != nil {
			return totalSent, fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			break
		}

		totalSent += s.processBatch(ctx, sessions, now)

		if len(sessions) < batchSize {
			break
		}
		offset += batchSize
	}

	if totalSent > 0 {
		s.logger.Info("daily facts sent", zap.Int("total_sent", totalSent))
	}

	return totalSent, nil
}

func (s *ReminderService) processBatch(ctx context.Context, sessions []*state.Session, now time.Time) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, sess := range sessions {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			ok, err := s.processReminder(ctx, sess, now)
			if err != nil {
				s.logger.Error("failed to send daily fact",
					zap.Int64("chat_id", sess.ChatID),
					zap.Error(err))
				return
			}
			if ok {
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return sent
}

func (s *ReminderService) processReminder(ctx context.Context, sess *state.Session, now time.Time) (bool, error) {
	st := sess.State
	if st == nil {
		st = sess.Backup
	}
	if st == nil || !IsReminderDue(st.Preferences, now) {
		return false, nil
	}
	day := reminderDay(st.Preferences, now)
	if s.store.SentOn(sess.ChatID, day) {
		return false, nil
	}

	fact, _, err := s.facts.today(ctx, sess.ChatID, sess.Token)
	if err != nil {
		return false, fmt.Errorf("today's fact: %w", err)
	}
	if fact.IsCompleted {
		return false, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}

	msgID, err := s.notifier.SendDailyFact(sess.ChatID, fact)
	if err != nil {
		return false, fmt.Errorf("send notification: %w", err)
	}

	msg := storage.ReminderMessage{
		ChatID:    sess.ChatID,
		MessageID: msgID,
		Day:       day,
		SentAt:    now,
	}
	if prev, ok := s.store.UpsertAndGetPrev(msg); ok {
		if err := s.notifier.DeleteMessage(sess.ChatID, prev.MessageID); err != nil {
			s.logger.Debug("failed to delete previous reminder",
				zap.Int64("chat_id", sess.ChatID),
				zap.Error(err))
		}
	}

	return true, nil
}

// IsReminderDue reports whether now, in the user's timezone, is the chosen
// daily fact time. Unknown timezones fall back to UTC.
func IsReminderDue(p entities.Preferences, now time.Time) bool {
	if !p.Notifications || p.DailyFactTime == "" {
		return false
	}
	return now.In(userLocation(p)).Format("15:04") == p.DailyFactTime
}

// reminderDay is the user's local date at now.
func reminderDay(p entities.Preferences, now time.Time) string {
	return now.In(userLocation(p)).Format(time.DateOnly)
}

func userLocation(p entities.Preferences) *time.Location {
	loc, err := entities.LoadTimezone(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
