package dto

import (
	"time"

	"guidia-api/modules/meeting/entity"
)

// ===================== Request DTOs =====================

// CreateMeetingRequest creates a new meeting request
type CreateMeetingRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	MeetingDate string `json:"meeting_date" validate:"required"` // YYYY-MM-DD
	StartTime   string `json:"start_time" validate:"required"`   // HH:MM
	EndTime     string `json:"end_time" validate:"required"`     // HH:MM
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	MeetingType string `json:"meeting_type" validate:"required"`
}

// DeclineMeetingRequest declines a pending request, reason is mandatory
type DeclineMeetingRequest struct {
	DeclineReason string `json:"decline_reason" validate:"required"`
}

// ListMeetingsQuery filters the meeting list
type ListMeetingsQuery struct {
	ParticipantID string `query:"participant_id"`
	Status        string `query:"status"`
	Type          string `query:"type"`
	From          string `query:"from"` // YYYY-MM-DD
	To            string `query:"to"`   // YYYY-MM-DD
}

// ===================== Response DTOs =====================

// MeetingResponse for meeting details
type MeetingResponse struct {
	ID            string    `json:"id"`
	RequestorID   string    `json:"requestor_id"`
	RecipientID   string    `json:"recipient_id"`
	MeetingDate   string    `json:"meeting_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	MeetingType   string    `json:"meeting_type"`
	Status        string    `json:"status"`
	DeclineReason string    `json:"decline_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ConflictDetails carries the reference to the meeting that blocked a slot
type ConflictDetails struct {
	ConflictingMeetingID string `json:"conflicting_meeting_id"`
	MeetingDate          string `json:"meeting_date"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
}

// ===================== Mapper Functions =====================

// ToMeetingResponse maps entity to DTO
func ToMeetingResponse(m *entity.Meeting) *MeetingResponse {
	resp := &MeetingResponse{
		ID:          m.ID.String(),
		RequestorID: m.RequestorID.String(),
		RecipientID: m.RecipientID.String(),
		MeetingDate: m.MeetingDate.Format("2006-01-02"),
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Title:       m.Title,
		MeetingType: string(m.MeetingType),
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	if m.Description != nil {
		resp.Description = *m.Description
	}
	if m.DeclineReason != nil {
		resp.DeclineReason = *m.DeclineReason
	}

	return resp
}

// ToConflictDetails maps the blocking meeting into the error payload
func ToConflictDetails(m *entity.Meeting) *ConflictDetails {
	return &ConflictDetails{
		ConflictingMeetingID: m.ID.String(),
		MeetingDate:          m.MeetingDate.Format("2006-01-02"),
		StartTime:            m.StartTime,
		EndTime:              m.EndTime,
	}
}
