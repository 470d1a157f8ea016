package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/service"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

func (h *Handler) handleLearn(ctx context.Context, chatID int64) error {
	return h.showCourses(ctx, chatID, 0)
}

func (h *Handler) showCourses(ctx context.Context, chatID int64, messageID int) error {
	courses, err := h.svc.Learning.Courses(ctx, chatID)
	if err != nil {
		return err
	}

	kb := buildCoursesKeyboard(courses)
	return h.sendOrEdit(chatID, messageID, renderCourses(courses), &kb)
}

func (h *Handler) showCourse(ctx context.Context, chatID int64, messageID int, id entities.ID) error {
	course, err := h.svc.Learning.Course(ctx, chatID, id)
	if err != nil {
		return err
	}

	kb := buildCourseKeyboard(course)
	return h.sendOrEdit(chatID, messageID, renderCourse(course), &kb)
}

func (h *Handler) showLesson(ctx context.Context, chatID int64, messageID int, courseID, lessonID entities.ID) error {
	view, err := h.svc.Learning.Lesson(ctx, chatID, courseID, lessonID)
	if err != nil {
		return err
	}

	var attempts []entities.QuizAttempt
	if view.QuizID() != "" {
		attempts, err = h.svc.Quiz.Attempts(ctx, chatID, lessonID)
		if err != nil {
			h.logger.Debug("failed to load quiz attempts",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}
	}

	kb := buildLessonKeyboard(view)
	return h.sendOrEdit(chatID, messageID, renderLesson(view, attempts), &kb)
}

// completeLesson marks a lesson without a quiz as done. A lesson finished
// earlier is only re-rendered.
func (h *Handler) completeLesson(ctx context.Context, chatID int64, messageID int, courseID, lessonID entities.ID) error {
	award, err := h.svc.Progress.CompleteLesson(ctx, chatID, lessonID)
	if err != nil && !errors.Is(err, service.ErrAlreadyCompleted) {
		return err
	}

	if err := h.showLesson(ctx, chatID, messageID, courseID, lessonID); err != nil {
		return err
	}

	if award == nil {
		return h.send(newHTMLMessage(chatID, msgLessonAlreadyCompleted))
	}
	text := "✅ Lesson complete!"
	if a := renderAward(award); a != "" {
		text += "\n" + a
	}
	if award.State != nil && award.State.PortfolioUnlocked() &&
		len(award.State.Progress.CompletedLessons) == entities.LessonsToUnlockPortfolio {
		text += "\n\n🔓 Practice portfolio unlocked! Try /portfolio."
	}
	return h.send(newHTMLMessage(chatID, text))
}

// startQuiz looks the lesson up again to find its quiz.
func (h *Handler) startQuiz(ctx context.Context, chatID int64, courseID, lessonID entities.ID) error {
	view, err := h.svc.Learning.Lesson(ctx, chatID, courseID, lessonID)
	if err != nil {
		return err
	}

	session, err := h.svc.Quiz.Start(ctx, chatID, courseID, lessonID, view.QuizID())
	if err != nil {
		return err
	}

	return h.showQuiz(chatID, 0, session)
}

// showQuiz renders the current question. Free text questions wait for a message.
func (h *Handler) showQuiz(chatID int64, messageID int, session *entities.QuizSession) error {
	if q, ok := session.Question(); ok && q.Type.IsFreeText() {
		h.pending.Expect(chatID, storage.InputQuizAnswer)
	} else {
		h.pending.Delete(chatID)
	}

	kb := buildQuizKeyboard(session)
	return h.sendOrEdit(chatID, messageID, renderQuizQuestion(session), &kb)
}

func (h *Handler) submitQuiz(ctx context.Context, chatID int64, messageID int) error {
	session, err := h.svc.Quiz.Current(chatID)
	if err != nil {
		return err
	}

	outcome, err := h.svc.Quiz.Submit(ctx, chatID)
	if err != nil {
		var missing *service.MissingAnswersError
		if errors.As(err, &missing) {
			// The cursor moved to the first unanswered question.
			if serr := h.showQuiz(chatID, messageID, session); serr != nil {
				return serr
			}
		}
		return err
	}

	h.pending.Delete(chatID)

	kb := buildQuizResultKeyboard(session.CourseID, session.LessonID, outcome.Result.Passed)
	return h.sendOrEdit(chatID, messageID, renderQuizResult(outcome), &kb)
}

func (h *Handler) handleQuizAnswerInput(ctx context.Context, chatID int64, text string) error {
	session, err := h.svc.Quiz.Write(chatID, text)
	if err != nil {
		return err
	}
	if !session.IsLast() {
		if session, err = h.svc.Quiz.Next(chatID); err != nil {
			return err
		}
	}
	return h.showQuiz(chatID, 0, session)
}

func (h *Handler) handleQuizCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	var (
		session *entities.QuizSession
		err     error
	)

	switch cd.Action {
	case actionQuizStart:
		return h.startQuiz(ctx, chatID, entities.ID(cd.param(0)), entities.ID(cd.param(1)))

	case actionQuizAnswer:
		index, ok1 := cd.intParam(0)
		option, ok2 := cd.intParam(1)
		if !ok1 || !ok2 {
			return nil
		}
		session, err = h.svc.Quiz.Choose(chatID, index, option)

	case actionQuizGoTo:
		index, ok := cd.intParam(0)
		if !ok {
			return nil
		}
		session, err = h.svc.Quiz.GoTo(chatID, index)

	case actionQuizNav:
		switch cd.param(0) {
		case quizNext:
			session, err = h.svc.Quiz.Next(chatID)
		case quizPrev:
			session, err = h.svc.Quiz.Prev(chatID)
		case quizSubmit:
			return h.submitQuiz(ctx, chatID, messageID)
		case quizCancel:
			h.svc.Quiz.Cancel(chatID)
			h.pending.Delete(chatID)
			return h.sendOrEdit(chatID, messageID, "Quiz cancelled.", nil)
		default:
			return nil
		}
	}

	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return h.showQuiz(chatID, messageID, session)
}

func (h *Handler) handleLearnCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	switch cd.Action {
	case actionCourses:
		return h.showCourses(ctx, chatID, messageID)
	case actionCourse:
		return h.showCourse(ctx, chatID, messageID, entities.ID(cd.param(0)))
	case actionLesson:
		return h.showLesson(ctx, chatID, messageID, entities.ID(cd.param(0)), entities.ID(cd.param(1)))
	case actionLessonDone:
		return h.completeLesson(ctx, chatID, messageID, entities.ID(cd.param(0)), entities.ID(cd.param(1)))
	}
	return nil
}
