package models

import "time"

// Announcement is one item from an exchange's announcement or status
// feed (maintenance windows, wallet freezes, listings).
type Announcement struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"published"`
}
