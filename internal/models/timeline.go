package models

// TimelineEvent is one entry of the wedding-day schedule. Time is free-form
// display text ("10:00 AM") and is never parsed.
type TimelineEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Time        string `json:"time"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

// NewTimelineEvent is the input of TimelineService.Add.
type NewTimelineEvent struct {
	Title       string
	Time        string
	Description string
}
