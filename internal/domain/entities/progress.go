package entities

// Badge is an achievement unlocked on the backend.
type Badge struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Progress is the user's learning progression. Level is always derived from XP.
type Progress struct {
	Level            int     `json:"level"`
	XP               int     `json:"xp"`
	Streak           int     `json:"streak"`
	Badges           []Badge `json:"badges"`
	CompletedFacts   []ID    `json:"completedFacts"`
	CompletedLessons []ID    `json:"completedLessons"`
}

// HasBadge reports whether a badge with the same id, or the same name when ids are empty, exists.
func (p *Progress) HasBadge(b Badge) bool {
	for _, have := range p.Badges {
		if b.ID != "" && have.ID == b.ID {
			return true
		}
		if b.ID == "" && have.Name == b.Name {
			return true
		}
	}
	return false
}

// XPUpdate is returned by backend endpoints that award experience.
type XPUpdate struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	XPEarned      int    `json:"xpEarned"`
	TotalXP       int    `json:"totalXp,omitempty"`
	NewLevel      int    `json:"newLevel,omitempty"`
	NewStreak     int    `json:"newStreak,omitempty"`
	BadgeUnlocked *Badge `json:"badgeUnlocked,omitempty"`
}
