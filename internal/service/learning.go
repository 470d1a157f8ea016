package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

var ErrLessonNotFound = errors.New("lesson not found")

// LessonView is a lesson with its position inside the course.
type LessonView struct {
	Course *entities.Course
	Lesson *entities.Lesson
	Index  int // 0-based position across all units
	Total  int
	PrevID entities.ID
	NextID entities.ID
}

// QuizID returns the first quiz of the lesson, empty when there is none.
func (v *LessonView) QuizID() entities.ID {
	if len(v.Lesson.Quizzes) == 0 {
		return ""
	}
	return v.Lesson.Quizzes[0].ID
}

// LearningService serves courses and lessons.
type LearningService struct {
	api      LearningAPI
	auth     *AuthService
	sessions *state.Manager
}

func NewLearningService(api LearningAPI, auth *AuthService, sessions *state.Manager) *LearningService {
	return &LearningService{api: api, auth: auth, sessions: sessions}
}

func (s *LearningService) Courses(ctx context.Context, chatID int64) ([]entities.Course, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	courses, err := s.api.Courses(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get courses: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return courses, nil
}

// Course returns a course with lessons marked completed from local progress.
func (s *LearningService) Course(ctx context.Context, chatID int64, id entities.ID) (*entities.Course, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	course, err := s.api.Course(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	st, err := s.sessions.Load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	markCompleted(course, st.Progress.CompletedLessons)

	return course, nil
}

// Lesson returns a lesson of a course together with its neighbours.
func (s *LearningService) Lesson(ctx context.Context, chatID int64, courseID, lessonID entities.ID) (*LessonView, error) {
	course, err := s.Course(ctx, chatID, courseID)
	if err != nil {
		return nil, err
	}

	var all []*entities.Lesson
	for i := range course.Units {
		for j := range course.Units[i].Lessons {
			all = append(all, &course.Units[i].Lessons[j])
		}
	}

	for i, l := range all {
		if l.ID != lessonID {
			continue
		}
		view := &LessonView{Course: course, Lesson: l, Index: i, Total: len(all)}
		if i > 0 {
			view.PrevID = all[i-1].ID
		}
		if i < len(all)-1 {
			view.NextID = all[i+1].ID
		}
		return view, nil
	}

	return nil, ErrLessonNotFound
}

func markCompleted(course *entities.Course, completed []entities.ID) {
	for i := range course.Units {
		for j := range course.Units[i].Lessons {
			l := &course.Units[i].Lessons[j]
			if entities.Contains(completed, l.ID) {
				l.IsCompleted = true
			}
		}
	}
}
