package repository

import (
	"context"
	"database/sql"

	"guidia-api/core/database"
	"guidia-api/core/logger"
	"guidia-api/modules/feedback/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	DB database.IDatabase
}

// NewFeedbackRepository creates a new repository instance
func NewFeedbackRepository(db database.IDatabase) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

// FeedbackRepositoryInterface defines the repository contract
type FeedbackRepositoryInterface interface {
	Create(ctx context.Context, feedback *entity.Feedback) (*entity.Feedback, error)
	GetByMeetingAndRater(ctx context.Context, meetingID, raterID uuid.UUID) (*entity.Feedback, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entity.Feedback, error)
	ListByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) ([]entity.Feedback, error)
}

const feedbackColumns = `id, meeting_id, rater_id, rating, comments, created_at`

func (r *FeedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) (*entity.Feedback, error) {
	query := `
		INSERT INTO meeting_feedback (meeting_id, rater_id, rating, comments)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + feedbackColumns + `
	`

	var created entity.Feedback
	err := r.DB.GetContext(ctx, &created, query,
		feedback.MeetingID, feedback.RaterID, feedback.Rating, feedback.Comments)
	if err != nil {
		logger.Error("FeedbackRepository:Create:Error:", err)
		return nil, err
	}

	return &created, nil
}

func (r *FeedbackRepository) GetByMeetingAndRater(ctx context.Context, meetingID, raterID uuid.UUID) (*entity.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM meeting_feedback WHERE meeting_id = $1 AND rater_id = $2`

	var feedback entity.Feedback
	err := r.DB.GetContext(ctx, &feedback, query, meetingID, raterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("FeedbackRepository:GetByMeetingAndRater:Error:", err)
		return nil, err
	}

	return &feedback, nil
}

func (r *FeedbackRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entity.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM meeting_feedback WHERE meeting_id = $1 ORDER BY created_at`

	var feedbacks []entity.Feedback
	err := r.DB.SelectContext(ctx, &feedbacks, query, meetingID)
	if err != nil {
		logger.Error("FeedbackRepository:ListByMeeting:Error:", err)
		return nil, err
	}

	return feedbacks, nil
}

func (r *FeedbackRepository) ListByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) ([]entity.Feedback, error) {
	if len(meetingIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(meetingIDs))
	for _, id := range meetingIDs {
		ids = append(ids, id.String())
	}

	query := `SELECT ` + feedbackColumns + ` FROM meeting_feedback WHERE meeting_id = ANY($1)`

	var feedbacks []entity.Feedback
	err := r.DB.SelectContext(ctx, &feedbacks, query, pq.Array(ids))
	if err != nil {
		logger.Error("FeedbackRepository:ListByMeetingIDs:Error:", err)
		return nil, err
	}

	return feedbacks, nil
}
