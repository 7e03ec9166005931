package models

// GuestRSVP is a guest's reply. Timestamp is milliseconds since the epoch.
type GuestRSVP struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Attending           bool   `json:"attending"`
	PlusOne             bool   `json:"plusOne"`
	DietaryRestrictions string `json:"dietaryRestrictions,omitempty"`
	Message             string `json:"message,omitempty"`
	Timestamp           int64  `json:"timestamp"`
}

// NewRSVP is the input of RSVPService.Submit.
type NewRSVP struct {
	Name                string
	Email               string
	Attending           bool
	PlusOne             bool
	DietaryRestrictions string
	Message             string
}
