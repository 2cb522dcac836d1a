package service

import (
	"context"
	"time"

	"guidia-api/core/errors"
	"guidia-api/modules/feedback/dto"
	"guidia-api/modules/feedback/entity"
	"guidia-api/modules/feedback/repository"
	meetingentity "guidia-api/modules/meeting/entity"
	meetingrepo "guidia-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// MeetingDirectory is the slice of the meeting service this module reads
type MeetingDirectory interface {
	GetEntity(ctx context.Context, meetingID uuid.UUID) (*meetingentity.Meeting, *errors.AppError)
	ListEntities(ctx context.Context, filter meetingrepo.ListFilter) ([]meetingentity.Meeting, *errors.AppError)
}

// AnalyticsFilter narrows the aggregation. Zero values mean "no constraint".
type AnalyticsFilter struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

// FeedbackService owns feedback rules and the analytics aggregation
type FeedbackService struct {
	repo     repository.FeedbackRepositoryInterface
	meetings MeetingDirectory
}

// FeedbackServiceInterface defines the feedback service contract
type FeedbackServiceInterface interface {
	Create(ctx context.Context, meetingID, raterID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, *errors.AppError)
	ListForMeeting(ctx context.Context, meetingID, actorID uuid.UUID, isAdmin bool) ([]dto.FeedbackResponse, *errors.AppError)
	Summarize(ctx context.Context, filter AnalyticsFilter) (*dto.AnalyticsResponse, *errors.AppError)
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(repo repository.FeedbackRepositoryInterface, meetings MeetingDirectory) FeedbackServiceInterface {
	return &FeedbackService{repo: repo, meetings: meetings}
}

// Create records a rating for a completed meeting. The rater must be a
// participant and may rate a meeting only once.
func (s *FeedbackService) Create(ctx context.Context, meetingID, raterID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, *errors.AppError) {
	if !entity.ValidRating(req.Rating) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Rating must be between 1 and 5", nil)
	}

	meeting, appErr := s.meetings.GetEntity(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !meeting.IsParticipant(raterID) {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only meeting participants can leave feedback", nil)
	}
	if meeting.Status != meetingentity.MeetingStatusCompleted {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Feedback is only accepted on completed meetings", nil)
	}

	existing, err := s.repo.GetByMeetingAndRater(ctx, meetingID, raterID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing feedback", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Feedback already submitted for this meeting", nil)
	}

	feedback := &entity.Feedback{
		MeetingID: meetingID,
		RaterID:   raterID,
		Rating:    req.Rating,
	}
	if req.Comments != "" {
		feedback.Comments = &req.Comments
	}

	created, err := s.repo.Create(ctx, feedback)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create feedback", err)
	}

	return dto.ToFeedbackResponse(created), nil
}

// ListForMeeting returns the feedback left on a meeting, visible to its
// participants and to admins.
func (s *FeedbackService) ListForMeeting(ctx context.Context, meetingID, actorID uuid.UUID, isAdmin bool) ([]dto.FeedbackResponse, *errors.AppError) {
	meeting, appErr := s.meetings.GetEntity(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !isAdmin && !meeting.IsParticipant(actorID) {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only meeting participants can view feedback", nil)
	}

	feedbacks, err := s.repo.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list feedback", err)
	}

	result := make([]dto.FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		result = append(result, *dto.ToFeedbackResponse(&feedbacks[i]))
	}
	return result, nil
}

// Summarize aggregates meeting counts and ratings over the filtered range.
// Every status counts in the count maps; only completed meetings carry
// ratings, and meetings nobody rated are left out of the average rather than
// counted as zero.
func (s *FeedbackService) Summarize(ctx context.Context, filter AnalyticsFilter) (*dto.AnalyticsResponse, *errors.AppError) {
	meetings, appErr := s.meetings.ListEntities(ctx, meetingrepo.ListFilter{
		ParticipantID: filter.UserID,
		From:          filter.From,
		To:            filter.To,
	})
	if appErr != nil {
		return nil, appErr
	}

	summary := &dto.AnalyticsResponse{
		MeetingCountsByStatus: map[string]int{},
		MeetingCountsByType:   map[string]int{},
		TrendByDay:            map[string]int{},
	}

	completedIDs := make([]uuid.UUID, 0, len(meetings))
	for i := range meetings {
		m := &meetings[i]
		summary.MeetingCountsByStatus[string(m.Status)]++
		summary.MeetingCountsByType[string(m.MeetingType)]++
		summary.TrendByDay[m.MeetingDate.Format("2006-01-02")]++
		if m.Status == meetingentity.MeetingStatusCompleted {
			completedIDs = append(completedIDs, m.ID)
		}
	}

	feedbacks, err := s.repo.ListByMeetingIDs(ctx, completedIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load feedback for analytics", err)
	}
	if len(feedbacks) > 0 {
		total := 0
		for i := range feedbacks {
			total += feedbacks[i].Rating
		}
		avg := float64(total) / float64(len(feedbacks))
		summary.AverageRating = &avg
	}

	return summary, nil
}
