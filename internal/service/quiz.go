package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

// QuizStore keeps the quiz attempt in progress per chat.
type QuizStore interface {
	Store(chatID int64, session *entities.QuizSession)
	Get(chatID int64) (*entities.QuizSession, bool)
	Delete(chatID int64)
}

// QuizOutcome is a graded submission applied to local progress.
type QuizOutcome struct {
	Result    *entities.QuizResult
	LeveledUp bool
	State     *state.AppState
}

// QuizService runs quiz attempts: fetch, answer, navigate and submit.
type QuizService struct {
	api      QuizAPI
	auth     *AuthService
	sessions *state.Manager
	store    QuizStore
	logger   *zap.Logger
}

func NewQuizService(api QuizAPI, auth *AuthService, sessions *state.Manager, store QuizStore, logger *zap.Logger) *QuizService {
	return &QuizService{
		api:      api,
		auth:     auth,
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

// Start fetches a quiz and opens a new attempt on its first question.
func (s *QuizService) Start(ctx context.Context, chatID int64, courseID, lessonID, quizID entities.ID) (*entities.QuizSession, error) {
	if quizID == "" {
		return nil, ErrQuizNotFound
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	quiz, err := s.api.Quiz(ctx, token, quizID)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrQuizNotFound
	}
	if quiz.ID == "" {
		quiz.ID = quizID
	}
	if quiz.LessonID == "" {
		quiz.LessonID = lessonID
	}

	session := entities.NewQuizSession(chatID, courseID, lessonID, *quiz)
	s.store.Store(chatID, session)

	s.logger.Debug("quiz started",
		zap.Int64("chat_id", chatID),
		zap.String("quiz_id", quizID.String()),
		zap.Int("questions", session.Total()),
	)

	return session, nil
}

// Current returns the attempt in progress.
func (s *QuizService) Current(chatID int64) (*entities.QuizSession, error) {
	session, ok := s.store.Get(chatID)
	if !ok {
		return nil, ErrNoActiveQuiz
	}
	return session, nil
}

// Choose records an option for the multiple choice question at index.
func (s *QuizService) Choose(chatID int64, index, option int) (*entities.QuizSession, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return nil, err
	}
	if !session.Choose(index, option) {
		return nil, fmt.Errorf("choose option %d for question %d: out of range", option, index+1)
	}
	session.GoTo(index)
	return session, nil
}

// Write records a free text answer for the question on screen.
func (s *QuizService) Write(chatID int64, text string) (*entities.QuizSession, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return nil, err
	}
	if !session.Write(session.Current, text) {
		return nil, fmt.Errorf("question %d does not take text answers", session.Current+1)
	}
	return session, nil
}

// GoTo moves to the question at index, clamped to the quiz.
func (s *QuizService) GoTo(chatID int64, index int) (*entities.QuizSession, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return nil, err
	}
	session.GoTo(index)
	return session, nil
}

func (s *QuizService) Next(chatID int64) (*entities.QuizSession, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return nil, err
	}
	session.Next()
	return session, nil
}

func (s *QuizService) Prev(chatID int64) (*entities.QuizSession, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return nil, err
	}
	session.Prev()
	return session, nil
}

// Cancel drops the attempt in progress.
func (s *QuizService) Cancel(chatID int64) {
	s.store.Delete(chatID)
}

// Submit grades the attempt. Unanswered questions yield a
// *MissingAnswersError and move the cursor to the first of them.
func (s *QuizService) Submit(ctx context.Context, chatID int64) (*QuizOutcome, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return nil, err
	}

	if missing := session.Missing(); len(missing) > 0 {
		session.GoTo(missing[0] - 1)
		return nil, &MissingAnswersError{Numbers: missing}
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	result, err := s.api.SubmitQuiz(ctx, token, session.Quiz.ID, apiclient.Answers(session.Answers()))
	if err != nil {
		if apiclient.IsNotFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("submit quiz: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	out := &QuizOutcome{Result: result}
	st, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		if result.XPEarned > 0 {
			out.LeveledUp = st.AddXP(result.XPEarned)
		}
		if result.Passed && session.LessonID != "" {
			st.CompleteLesson(session.LessonID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.State = st

	s.store.Delete(chatID)

	s.logger.Info("quiz submitted",
		zap.Int64("chat_id", chatID),
		zap.String("quiz_id", session.Quiz.ID.String()),
		zap.Int("score", result.Score),
		zap.Bool("passed", result.Passed),
		zap.Int("xp_earned", result.XPEarned),
	)

	return out, nil
}

// Attempts lists previous attempts for a lesson's quizzes.
func (s *QuizService) Attempts(ctx context.Context, chatID int64, lessonID entities.ID) ([]entities.QuizAttempt, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.api.LessonQuizAttempts(ctx, token, lessonID)
	if err != nil {
		return nil, fmt.Errorf("quiz attempts: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return attempts, nil
}
