package entities

// AskAnswer is the AI reply to a question.
type AskAnswer struct {
	ID        ID     `json:"id"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"createdAt"`
}

// AskMessage is one question/answer pair from the history.
type AskMessage struct {
	ID        ID     `json:"id"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	CreatedAt string `json:"createdAt"`
}

// AskStats summarises the user's usage of the assistant.
type AskStats struct {
	TotalQuestions int    `json:"totalQuestions"`
	TodayQuestions int    `json:"todayQuestions"`
	LastAskedAt    string `json:"lastAskedAt,omitempty"`
}

// UserStats is the profile statistics block.
type UserStats struct {
	TotalXP          int `json:"totalXp"`
	Level            int `json:"level"`
	Streak           int `json:"streak"`
	CompletedFacts   int `json:"completedFacts"`
	CompletedLessons int `json:"completedLessons"`
	BadgesCount      int `json:"badgesCount"`
}
