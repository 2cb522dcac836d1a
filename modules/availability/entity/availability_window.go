package entity

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityWindow is a declared interval during which a user accepts
// meeting requests. Either DayOfWeek is set (recurring weekly) or Date is
// set (one-off exception); an exception with IsBlocked removes availability
// for that interval, e.g. a holiday.
type AvailabilityWindow struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	DayOfWeek *int       `db:"day_of_week" json:"day_of_week,omitempty"` // 0=Sunday .. 6=Saturday
	Date      *time.Time `db:"date" json:"date,omitempty"`
	StartTime string     `db:"start_time" json:"start_time"` // HH:MM
	EndTime   string     `db:"end_time" json:"end_time"`     // HH:MM
	IsBlocked bool       `db:"is_blocked" json:"is_blocked"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// IsException reports whether the window is a one-off date exception.
func (w *AvailabilityWindow) IsException() bool {
	return w.Date != nil
}

// Overlaps applies the half-open interval test against another window on the
// same day.
func (w *AvailabilityWindow) Overlaps(other *AvailabilityWindow) bool {
	return Overlaps(w.StartTime, w.EndTime, other.StartTime, other.EndTime)
}

// Overlaps applies the half-open interval test to two same-day time ranges.
// Zero-padded "15:04" strings compare correctly as text.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
