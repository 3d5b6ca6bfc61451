package model

// CategoryCount is the number of messages in one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// CategoryCounts aggregates messages per category for one source scope.
type CategoryCounts struct {
	Total        int             `json:"total"`
	Unclassified int             `json:"unclassified"`
	Categories   []CategoryCount `json:"categories"`
}

// CountFor returns the count of the named category, 0 when absent.
func (c CategoryCounts) CountFor(name string) int {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat.Count
		}
	}
	return 0
}

// Consistent reports whether the per-category counts and the unclassified
// count add up to the total. The backend is the source of truth; this is
// only used for diagnostics.
func (c CategoryCounts) Consistent() bool {
	if c.Total < c.Unclassified {
		return false
	}
	sum := c.Unclassified
	for _, cat := range c.Categories {
		sum += cat.Count
	}
	return sum == c.Total
}

// SenderRule is a per-sender override learned from corrections.
type SenderRule struct {
	FromEmail string `json:"from_email"`
	Category  string `json:"category"`
	Count     int    `json:"count"`
}

// RecentFeedback is one recent human correction.
type RecentFeedback struct {
	Subject   string `json:"subject"`
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Date      string `json:"date"`
}

// FeedbackStats summarises human corrections.
type FeedbackStats struct {
	TotalFeedbacks  int              `json:"total_feedbacks"`
	SenderRules     []SenderRule     `json:"sender_rules"`
	RecentFeedbacks []RecentFeedback `json:"recent_feedbacks"`
}

// ClassifyResult is one entry of a classify response.
type ClassifyResult struct {
	MailID   int64  `json:"mail_id"`
	Category string `json:"category"`
}

// ClassifyResponse is the result of an AI classification request.
type ClassifyResponse struct {
	Classified int              `json:"classified"`
	Results    []ClassifyResult `json:"results"`
}
