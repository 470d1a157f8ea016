package entities

// Learning modes chosen during onboarding.
const (
	LearningModeFacts   = "facts"
	LearningModeCourses = "courses"
)

// Default profile used for guest accounts.
const (
	GuestName          = "Guest User"
	GuestAgeRange      = "18-24"
	GuestFinancialGoal = "investing"
)

// DefaultDailyFactTime is the local time the daily fact reminder fires at.
const DefaultDailyFactTime = "08:00"

// User mirrors the backend account.
type User struct {
	ID            ID     `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	IsGuest       bool   `json:"isGuest,omitempty"`
	AgeRange      string `json:"ageRange,omitempty"`
	FinancialGoal string `json:"financialGoal,omitempty"`
	LearningMode  string `json:"learningMode,omitempty"`
}

// DisplayName returns the name to greet the user with.
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return "Guest"
	}
	return u.Name
}

// Preferences are client-side settings kept in the session state.
type Preferences struct {
	LearningMode  string `json:"learningMode"`
	Notifications bool   `json:"notifications"`
	DailyFactTime string `json:"dailyFactTime"` // HH:MM
	Timezone      string `json:"timezone,omitempty"`
}

// DefaultPreferences returns preferences for a new session.
func DefaultPreferences() Preferences {
	return Preferences{
		LearningMode:  LearningModeFacts,
		Notifications: true,
		DailyFactTime: DefaultDailyFactTime,
		Timezone:      "UTC",
	}
}
