package entity

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the lifecycle state of a meeting
type MeetingStatus string

const (
	MeetingStatusRequested MeetingStatus = "requested"
	MeetingStatusAccepted  MeetingStatus = "accepted"
	MeetingStatusDeclined  MeetingStatus = "declined"
	MeetingStatusCancelled MeetingStatus = "cancelled"
	MeetingStatusCompleted MeetingStatus = "completed"
)

// IsTerminal reports whether no further transition is permitted.
func (s MeetingStatus) IsTerminal() bool {
	switch s {
	case MeetingStatusDeclined, MeetingStatusCancelled, MeetingStatusCompleted:
		return true
	}
	return false
}

// IsValid reports whether the status is a known lifecycle state.
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusRequested, MeetingStatusAccepted, MeetingStatusDeclined,
		MeetingStatusCancelled, MeetingStatusCompleted:
		return true
	}
	return false
}

// MeetingType classifies the participant pairing
type MeetingType string

const (
	MeetingTypeStudentCompany     MeetingType = "student_company"
	MeetingTypeStudentCounselor   MeetingType = "student_counselor"
	MeetingTypeCompanyCounselor   MeetingType = "company_counselor"
	MeetingTypeStudentStudent     MeetingType = "student_student"
	MeetingTypeCompanyCompany     MeetingType = "company_company"
	MeetingTypeCounselorCounselor MeetingType = "counselor_counselor"
)

// IsValid reports whether the type is a known pairing.
func (t MeetingType) IsValid() bool {
	switch t {
	case MeetingTypeStudentCompany, MeetingTypeStudentCounselor, MeetingTypeCompanyCounselor,
		MeetingTypeStudentStudent, MeetingTypeCompanyCompany, MeetingTypeCounselorCounselor:
		return true
	}
	return false
}

// Meeting is a scheduled (or requested) meeting between two users.
// StartTime and EndTime are same-day wall-clock times in "15:04" form;
// MeetingDate carries the calendar date.
type Meeting struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	RequestorID   uuid.UUID     `db:"requestor_id" json:"requestor_id"`
	RecipientID   uuid.UUID     `db:"recipient_id" json:"recipient_id"`
	MeetingDate   time.Time     `db:"meeting_date" json:"meeting_date"`
	StartTime     string        `db:"start_time" json:"start_time"`
	EndTime       string        `db:"end_time" json:"end_time"`
	Title         string        `db:"title" json:"title"`
	Description   *string       `db:"description" json:"description,omitempty"`
	MeetingType   MeetingType   `db:"meeting_type" json:"meeting_type"`
	Status        MeetingStatus `db:"status" json:"status"`
	DeclineReason *string       `db:"decline_reason" json:"decline_reason,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// IsParticipant reports whether the user is either side of the meeting.
func (m *Meeting) IsParticipant(userID uuid.UUID) bool {
	return m.RequestorID == userID || m.RecipientID == userID
}

// Counterpart returns the other participant relative to userID.
func (m *Meeting) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.RequestorID == userID {
		return m.RecipientID
	}
	return m.RequestorID
}

// EndsAt combines the meeting date with the end time in loc.
func (m *Meeting) EndsAt(loc *time.Location) time.Time {
	return atClock(m.MeetingDate, m.EndTime, loc)
}

// StartsAt combines the meeting date with the start time in loc.
func (m *Meeting) StartsAt(loc *time.Location) time.Time {
	return atClock(m.MeetingDate, m.StartTime, loc)
}

func atClock(date time.Time, clock string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// Overlaps applies the half-open interval test to two same-day time ranges.
// Zero-padded "15:04" strings compare correctly as text.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
