package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"guidia-api/core/database"
	"guidia-api/core/logger"
	"guidia-api/modules/meeting/entity"

	"github.com/google/uuid"
)

// MeetingRepository handles meeting database operations
type MeetingRepository struct {
	DB database.IDatabase
}

// NewMeetingRepository creates a new repository instance
func NewMeetingRepository(db database.IDatabase) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	ParticipantID uuid.UUID
	Status        entity.MeetingStatus
	Type          entity.MeetingType
	From          time.Time
	To            time.Time
}

// MeetingRepositoryInterface defines the repository contract
type MeetingRepositoryInterface interface {
	Create(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error)
	List(ctx context.Context, filter ListFilter) ([]entity.Meeting, error)

	// FindAcceptedOverlap returns the first accepted meeting of the user on
	// the given date whose [start,end) interval intersects the candidate one.
	FindAcceptedOverlap(ctx context.Context, userID uuid.UUID, date time.Time, startTime, endTime string, excludeID uuid.UUID) (*entity.Meeting, error)

	// UpdateStatus transitions id from one status to another as a single
	// conditional update and reports whether a row was changed.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.MeetingStatus, declineReason *string) (bool, error)

	// ListElapsedAccepted returns accepted meetings whose end is strictly
	// before the given instant.
	ListElapsedAccepted(ctx context.Context, before time.Time) ([]entity.Meeting, error)
}

const meetingColumns = `id, requestor_id, recipient_id, meeting_date, start_time, end_time,
	       title, description, meeting_type, status, decline_reason, created_at, updated_at`

func (r *MeetingRepository) Create(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error) {
	query := `
		INSERT INTO meetings (requestor_id, recipient_id, meeting_date, start_time, end_time,
		                      title, description, meeting_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + meetingColumns + `
	`

	var created entity.Meeting
	err := r.DB.GetContext(ctx, &created, query,
		meeting.RequestorID, meeting.RecipientID, meeting.MeetingDate,
		meeting.StartTime, meeting.EndTime, meeting.Title, meeting.Description,
		meeting.MeetingType, meeting.Status)
	if err != nil {
		logger.Error("MeetingRepository:Create:Error:", err)
		return nil, err
	}

	return &created, nil
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetByID:Error:", err)
		return nil, err
	}

	return &meeting, nil
}

func (r *MeetingRepository) List(ctx context.Context, filter ListFilter) ([]entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.ParticipantID != uuid.Nil {
		query += ` AND (requestor_id = $` + strconv.Itoa(idx) + ` OR recipient_id = $` + strconv.Itoa(idx) + `)`
		args = append(args, filter.ParticipantID)
		idx++
	}
	if filter.Status != "" {
		query += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Type != "" {
		query += ` AND meeting_type = $` + strconv.Itoa(idx)
		args = append(args, filter.Type)
		idx++
	}
	if !filter.From.IsZero() {
		query += ` AND meeting_date >= $` + strconv.Itoa(idx)
		args = append(args, filter.From)
		idx++
	}
	if !filter.To.IsZero() {
		query += ` AND meeting_date <= $` + strconv.Itoa(idx)
		args = append(args, filter.To)
		idx++
	}

	query += ` ORDER BY meeting_date, start_time, id`

	var meetings []entity.Meeting
	err := r.DB.SelectContext(ctx, &meetings, query, args...)
	if err != nil {
		logger.Error("MeetingRepository:List:Error:", err)
		return nil, err
	}

	return meetings, nil
}

func (r *MeetingRepository) FindAcceptedOverlap(ctx context.Context, userID uuid.UUID, date time.Time, startTime, endTime string, excludeID uuid.UUID) (*entity.Meeting, error) {
	// Half-open overlap: candidateStart < existingEnd AND existingStart < candidateEnd.
	// Zero-padded HH:MM text compares correctly.
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE (requestor_id = $1 OR recipient_id = $1)
		  AND meeting_date = $2
		  AND status = 'accepted'
		  AND start_time < $4
		  AND end_time > $3
	`
	args := []any{userID, date, startTime, endTime}

	if excludeID != uuid.Nil {
		query += ` AND id != $5`
		args = append(args, excludeID)
	}
	query += ` ORDER BY start_time, id LIMIT 1`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:FindAcceptedOverlap:Error:", err)
		return nil, err
	}

	return &meeting, nil
}

func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.MeetingStatus, declineReason *string) (bool, error) {
	query := `
		UPDATE meetings
		SET status = $3, decline_reason = COALESCE($4, decline_reason), updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	rows, err := r.DB.ExecRowsContext(ctx, query, id, from, to, declineReason)
	if err != nil {
		logger.Error("MeetingRepository:UpdateStatus:Error:", err)
		return false, err
	}
	return rows > 0, nil
}

func (r *MeetingRepository) ListElapsedAccepted(ctx context.Context, before time.Time) ([]entity.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE status = 'accepted'
		  AND meeting_date + end_time::time < $1
		ORDER BY meeting_date, end_time
	`

	var meetings []entity.Meeting
	err := r.DB.SelectContext(ctx, &meetings, query, before)
	if err != nil {
		logger.Error("MeetingRepository:ListElapsedAccepted:Error:", err)
		return nil, err
	}

	return meetings, nil
}
