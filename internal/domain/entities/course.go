package entities

// Course is a learning track made of units.
type Course struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty,omitempty"`
	Units       []Unit `json:"units,omitempty"`
}

// Unit groups lessons inside a course.
type Unit struct {
	ID      ID       `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson is a single reading with optional quizzes.
type Lesson struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	XPValue     int    `json:"xpValue"`
	IsCompleted bool   `json:"isCompleted"`
	Quizzes     []Quiz `json:"quizzes,omitempty"`
}

// FindLesson returns the lesson with the given id from any unit of the course.
func (c *Course) FindLesson(id ID) (*Lesson, bool) {
	for i := range c.Units {
		for j := range c.Units[i].Lessons {
			if c.Units[i].Lessons[j].ID == id {
				return &c.Units[i].Lessons[j], true
			}
		}
	}
	return nil, false
}

// LessonCount returns the total number of lessons and how many are completed.
func (c *Course) LessonCount() (total, completed int) {
	for _, u := range c.Units {
		for _, l := range u.Lessons {
			total++
			if l.IsCompleted {
				completed++
			}
		}
	}
	return total, completed
}
