package entities

// Fact is a daily financial-literacy fact.
type Fact struct {
	ID               ID     `json:"id"`
	Title            string `json:"title"`
	Content          string `json:"content"`
	Category         string `json:"category"`
	XPValue          int    `json:"xpValue"`
	IsCompleted      bool   `json:"isCompleted"`
	CanCompleteToday bool   `json:"canCompleteToday"`
}

// FallbackFact is shown when the backend cannot provide today's fact.
func FallbackFact() *Fact {
	return &Fact{
		ID:       "fallback",
		Title:    "Compound Interest",
		Content:  "Compound interest is interest earned on both the original money and the interest already added to it. Starting to save early gives it more time to grow.",
		Category: "investing",
		XPValue:  10,
	}
}

// Pagination is the paging envelope used by list endpoints.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
