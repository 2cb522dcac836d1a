package dto

import (
	"time"

	"guidia-api/modules/availability/entity"
)

// ===================== Request DTOs =====================

// WindowInput is one recurring weekly window
type WindowInput struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"` // HH:MM
	EndTime   string `json:"end_time" validate:"required"`   // HH:MM
}

// SetWindowsRequest replaces the owner's recurring weekly schedule
type SetWindowsRequest struct {
	Windows []WindowInput `json:"windows"`
}

// AddExceptionRequest adds a one-off exception window for a date. A blocked
// exception removes availability instead of adding it.
type AddExceptionRequest struct {
	Date      string `json:"date" validate:"required"` // YYYY-MM-DD
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsBlocked bool   `json:"is_blocked"`
}

// ===================== Response DTOs =====================

// WindowResponse for an availability window
type WindowResponse struct {
	ID        string `json:"id"`
	DayOfWeek *int   `json:"day_of_week,omitempty"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBlocked bool   `json:"is_blocked"`
}

// ScheduleResponse groups a user's recurring windows and exceptions
type ScheduleResponse struct {
	UserID     string           `json:"user_id"`
	Recurring  []WindowResponse `json:"recurring"`
	Exceptions []WindowResponse `json:"exceptions"`
}

// ===================== Mapper Functions =====================

// ToWindowResponse maps entity to DTO
func ToWindowResponse(w *entity.AvailabilityWindow) WindowResponse {
	resp := WindowResponse{
		ID:        w.ID.String(),
		DayOfWeek: w.DayOfWeek,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		IsBlocked: w.IsBlocked,
	}
	if w.Date != nil {
		resp.Date = w.Date.Format("2006-01-02")
	}
	return resp
}

// ToScheduleResponse splits windows into recurring and exception groups
func ToScheduleResponse(userID string, windows []entity.AvailabilityWindow) *ScheduleResponse {
	resp := &ScheduleResponse{
		UserID:     userID,
		Recurring:  make([]WindowResponse, 0),
		Exceptions: make([]WindowResponse, 0),
	}
	for i := range windows {
		w := &windows[i]
		if w.IsException() {
			resp.Exceptions = append(resp.Exceptions, ToWindowResponse(w))
		} else {
			resp.Recurring = append(resp.Recurring, ToWindowResponse(w))
		}
	}
	return resp
}

// ParseDate parses the wire date format in the server location.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.Local)
}
