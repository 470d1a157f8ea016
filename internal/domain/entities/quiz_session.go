package entities

import (
	"strings"
	"time"
)

// QuizSession is an in-progress quiz for one chat.
type QuizSession struct {
	ChatID    int64
	CourseID  ID
	LessonID  ID
	Quiz      Quiz
	Current   int          // 0-based index of the question on screen
	Choices   map[ID]int    // multiple choice answers by question id
	Texts     map[ID]string // free text answers by question id
	StartedAt time.Time
}

// NewQuizSession normalizes quiz and starts at the first question.
func NewQuizSession(chatID int64, courseID, lessonID ID, quiz Quiz) *QuizSession {
	quiz.Normalize()
	return &QuizSession{
		ChatID:    chatID,
		CourseID:  courseID,
		LessonID:  lessonID,
		Quiz:      quiz,
		Choices:   make(map[ID]int),
		Texts:     make(map[ID]string),
		StartedAt: time.Now(),
	}
}

// Total returns the number of questions.
func (s *QuizSession) Total() int {
	return len(s.Quiz.Questions)
}

// Question returns the question at the cursor.
func (s *QuizSession) Question() (*Question, bool) {
	return s.QuestionAt(s.Current)
}

// QuestionAt returns the question at index i.
func (s *QuizSession) QuestionAt(i int) (*Question, bool) {
	if i < 0 || i >= len(s.Quiz.Questions) {
		return nil, false
	}
	return &s.Quiz.Questions[i], true
}

// Choose records option index for the multiple choice question at index i.
func (s *QuizSession) Choose(i, option int) bool {
	q, ok := s.QuestionAt(i)
	if !ok || q.Type.IsFreeText() || option < 0 || option >= len(q.Options) {
		return false
	}
	s.Choices[q.ID] = option
	return true
}

// Write records a free text answer for the question at index i.
func (s *QuizSession) Write(i int, text string) bool {
	q, ok := s.QuestionAt(i)
	if !ok || !q.Type.IsFreeText() {
		return false
	}
	s.Texts[q.ID] = text
	return true
}

// IsAnswered reports whether q has a usable answer: an option for multiple
// choice, non-blank text for free response.
func (s *QuizSession) IsAnswered(q Question) bool {
	if q.Type.IsFreeText() {
		return strings.TrimSpace(s.Texts[q.ID]) != ""
	}
	_, ok := s.Choices[q.ID]
	return ok
}

// Missing returns the 1-based numbers of unanswered questions.
func (s *QuizSession) Missing() []int {
	var out []int
	for i, q := range s.Quiz.Questions {
		if !s.IsAnswered(q) {
			out = append(out, i+1)
		}
	}
	return out
}

// AnsweredCount returns how many questions have answers.
func (s *QuizSession) AnsweredCount() int {
	return s.Total() - len(s.Missing())
}

// GoTo moves the cursor to index i, clamped to the quiz.
func (s *QuizSession) GoTo(i int) {
	if i < 0 {
		i = 0
	}
	if i > s.Total()-1 {
		i = s.Total() - 1
	}
	if i < 0 {
		i = 0
	}
	s.Current = i
}

func (s *QuizSession) Next() { s.GoTo(s.Current + 1) }
func (s *QuizSession) Prev() { s.GoTo(s.Current - 1) }

// IsLast reports whether the cursor is on the final question.
func (s *QuizSession) IsLast() bool {
	return s.Current >= s.Total()-1
}

// Answers returns the submission payload keyed by question id.
func (s *QuizSession) Answers() map[string]any {
	out := make(map[string]any, s.Total())
	for _, q := range s.Quiz.Questions {
		if q.Type.IsFreeText() {
			if t, ok := s.Texts[q.ID]; ok {
				out[q.ID.String()] = strings.TrimSpace(t)
			}
			continue
		}
		if c, ok := s.Choices[q.ID]; ok {
			out[q.ID.String()] = c
		}
	}
	return out
}
