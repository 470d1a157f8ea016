package apiclient

import (
	"context"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// Answers maps question ids to an option index (multiple choice) or text.
type Answers map[string]any

// Quiz returns a quiz with its questions. The body may be bare or wrapped in {quiz}.
func (c *Client) Quiz(ctx context.Context, token string, id entities.ID) (*entities.Quiz, error) {
	var raw struct {
		entities.Quiz
		Wrapped *entities.Quiz `json:"quiz"`
	}
	if err := c.get(ctx, token, "/quizzes/"+pathEscape(id.String()), nil, &raw); err != nil {
		return nil, err
	}
	if raw.Wrapped != nil {
		return raw.Wrapped, nil
	}
	return &raw.Quiz, nil
}

// SubmitQuiz sends all answers for grading.
func (c *Client) SubmitQuiz(ctx context.Context, token string, id entities.ID, answers Answers) (*entities.QuizResult, error) {
	var resp entities.QuizResult
	body := map[string]Answers{"answers": answers}
	if err := c.post(ctx, token, "/quizzes/"+pathEscape(id.String())+"/submit", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) LessonQuizAttempts(ctx context.Context, token string, lessonID entities.ID) ([]entities.QuizAttempt, error) {
	var resp struct {
		Attempts []entities.QuizAttempt `json:"attempts"`
	}
	if err := c.get(ctx, token, "/quizzes/lesson/"+pathEscape(lessonID.String())+"/attempts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Attempts, nil
}
