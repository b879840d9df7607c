package session

import "time"

// Status is the lifecycle status of a tally session.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is a known status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TallySession is one tally event for a customer at a plant on a date.
// Sessions are created ongoing; completion and cancellation are one-way in
// normal operation, and a revert back to ongoing is legal but audit-worthy.
type TallySession struct {
	ID            string    `json:"id"`
	PlantID       string    `json:"plant_id"`
	CustomerID    string    `json:"customer_id"`
	SessionNumber int       `json:"session_number"`
	Date          time.Time `json:"date"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
