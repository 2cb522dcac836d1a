package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a post-completion rating left by one participant of a meeting.
// At most one row exists per (meeting, rater) pair.
type Feedback struct {
	ID        uuid.UUID `json:"id" db:"id"`
	MeetingID uuid.UUID `json:"meeting_id" db:"meeting_id"`
	RaterID   uuid.UUID `json:"rater_id" db:"rater_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comments  *string   `json:"comments,omitempty" db:"comments"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidRating reports whether r is on the 1..5 scale
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
