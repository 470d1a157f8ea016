package entities

import (
	"strconv"
	"strings"
)

// QuestionType is the kind of answer a question expects.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFreeResponse   QuestionType = "free_response"
	QuestionShortAnswer    QuestionType = "short_answer"
)

// IsFreeText reports whether the question is answered with text.
func (t QuestionType) IsFreeText() bool {
	return t == QuestionFreeResponse || t == QuestionShortAnswer
}

func (t QuestionType) valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionFreeResponse, QuestionShortAnswer:
		return true
	}
	return false
}

// Question is a single quiz item.
type Question struct {
	ID          ID           `json:"id"`
	Question    string       `json:"question"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options,omitempty"`
	Points      int          `json:"points,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}

// Quiz belongs to a lesson and is graded by the backend.
type Quiz struct {
	ID           ID         `json:"id"`
	LessonID     ID         `json:"lessonId,omitempty"`
	Title        string     `json:"title"`
	PassingScore int        `json:"passingScore"`
	Questions    []Question `json:"questions"`
}

// DefaultPassingScore applies when a quiz does not declare one.
const DefaultPassingScore = 70

// Normalize fills in defaults so the quiz can be navigated safely:
// a missing id becomes the 1-based position, an unknown type becomes
// multiple choice, and a multiple choice question without options
// is answered as free text.
func (q *Quiz) Normalize() {
	if q.PassingScore <= 0 {
		q.PassingScore = DefaultPassingScore
	}

	for i := range q.Questions {
		qq := &q.Questions[i]
		if strings.TrimSpace(qq.ID.String()) == "" {
			qq.ID = ID(strconv.Itoa(i + 1))
		}
		if !qq.Type.valid() {
			qq.Type = QuestionMultipleChoice
		}
		if qq.Type == QuestionMultipleChoice && len(qq.Options) == 0 {
			qq.Type = QuestionFreeResponse
		}
	}
}

// QuestionResult is the per-question grading returned by the backend.
type QuestionResult struct {
	QuestionID ID     `json:"questionId"`
	IsCorrect  bool   `json:"isCorrect"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback,omitempty"`
}

// QuizResult is the outcome of a submission.
type QuizResult struct {
	Score           int              `json:"score"`
	Passed          bool             `json:"passed"`
	XPEarned        int              `json:"xpEarned"`
	IsFirstTimePass bool             `json:"isFirstTimePass"`
	NewLevel        int              `json:"newLevel,omitempty"`
	DetailedResults []QuestionResult `json:"detailedResults,omitempty"`
}

// CorrectCount returns how many questions were graded correct.
func (r *QuizResult) CorrectCount() int {
	n := 0
	for _, d := range r.DetailedResults {
		if d.IsCorrect {
			n++
		}
	}
	return n
}

// QuizAttempt is a past submission.
type QuizAttempt struct {
	ID        ID     `json:"id"`
	QuizID    ID     `json:"quizId"`
	Score     int    `json:"score"`
	Passed    bool   `json:"passed"`
	CreatedAt string `json:"createdAt"`
}
