package dto

// ===================== Request DTOs =====================

// CalendarQuery bounds the projected range
type CalendarQuery struct {
	From string `query:"from"` // YYYY-MM-DD
	To   string `query:"to"`   // YYYY-MM-DD
}

// ===================== Response DTOs =====================

// CalendarEvent is one meeting rendered for a day cell
type CalendarEvent struct {
	MeetingID     string `json:"meeting_id"`
	Title         string `json:"title"`
	TimeRange     string `json:"time_range"` // "09:00 - 09:30"
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	CounterpartID string `json:"counterpart_id"`
	Status        string `json:"status"`
	TypeLabel     string `json:"type_label"`
}

// CalendarResponse buckets the viewer's meetings by date
type CalendarResponse struct {
	Days map[string][]CalendarEvent `json:"days"`
}
