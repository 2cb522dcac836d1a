package dto

import (
	"time"

	"guidia-api/modules/feedback/entity"
)

// ===================== Request DTOs =====================

// CreateFeedbackRequest rates a completed meeting
type CreateFeedbackRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

// AnalyticsQuery filters the aggregated metrics
type AnalyticsQuery struct {
	UserID string `query:"user_id"`
	From   string `query:"from"` // YYYY-MM-DD
	To     string `query:"to"`   // YYYY-MM-DD
}

// ===================== Response DTOs =====================

// FeedbackResponse for a single feedback row
type FeedbackResponse struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meeting_id"`
	RaterID   string    `json:"rater_id"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyticsResponse carries the aggregated scheduling metrics.
// AverageRating is null when no completed meeting in range has feedback.
type AnalyticsResponse struct {
	MeetingCountsByStatus map[string]int `json:"meeting_counts_by_status"`
	MeetingCountsByType   map[string]int `json:"meeting_counts_by_type"`
	AverageRating         *float64       `json:"average_rating"`
	TrendByDay            map[string]int `json:"trend_by_day"`
}

// ===================== Mapper Functions =====================

// ToFeedbackResponse maps entity to DTO
func ToFeedbackResponse(f *entity.Feedback) *FeedbackResponse {
	resp := &FeedbackResponse{
		ID:        f.ID.String(),
		MeetingID: f.MeetingID.String(),
		RaterID:   f.RaterID.String(),
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt,
	}
	if f.Comments != nil {
		resp.Comments = *f.Comments
	}
	return resp
}
