package repository

import (
	"context"
	"time"

	"guidia-api/core/database"
	"guidia-api/core/logger"
	"guidia-api/modules/availability/entity"

	"github.com/google/uuid"
)

// AvailabilityRepository handles availability window database operations
type AvailabilityRepository struct {
	DB database.IDatabase
}

// NewAvailabilityRepository creates a new repository instance
func NewAvailabilityRepository(db database.IDatabase) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

// AvailabilityRepositoryInterface defines the repository contract
type AvailabilityRepositoryInterface interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.AvailabilityWindow, error)

	// ListForDay returns the windows relevant to one calendar day: exact-date
	// exceptions plus the recurring set for that weekday.
	ListForDay(ctx context.Context, userID uuid.UUID, date time.Time) ([]entity.AvailabilityWindow, error)

	// ReplaceRecurring swaps the user's whole recurring schedule in one
	// transaction. Exceptions are untouched.
	ReplaceRecurring(ctx context.Context, userID uuid.UUID, windows []entity.AvailabilityWindow) error

	CreateException(ctx context.Context, window *entity.AvailabilityWindow) (*entity.AvailabilityWindow, error)
	Delete(ctx context.Context, userID, windowID uuid.UUID) (bool, error)
}

const windowColumns = `id, user_id, day_of_week, date, start_time, end_time, is_blocked, created_at, updated_at`

func (r *AvailabilityRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.AvailabilityWindow, error) {
	query := `
		SELECT ` + windowColumns + `
		FROM availability_windows
		WHERE user_id = $1
		ORDER BY date NULLS FIRST, day_of_week, start_time
	`

	var windows []entity.AvailabilityWindow
	err := r.DB.SelectContext(ctx, &windows, query, userID)
	if err != nil {
		logger.Error("AvailabilityRepository:ListByUser:Error:", err)
		return nil, err
	}

	return windows, nil
}

func (r *AvailabilityRepository) ListForDay(ctx context.Context, userID uuid.UUID, date time.Time) ([]entity.AvailabilityWindow, error) {
	query := `
		SELECT ` + windowColumns + `
		FROM availability_windows
		WHERE user_id = $1
		  AND (date = $2 OR (date IS NULL AND day_of_week = $3))
		ORDER BY start_time
	`

	var windows []entity.AvailabilityWindow
	err := r.DB.SelectContext(ctx, &windows, query, userID, date, int(date.Weekday()))
	if err != nil {
		logger.Error("AvailabilityRepository:ListForDay:Error:", err)
		return nil, err
	}

	return windows, nil
}

func (r *AvailabilityRepository) ReplaceRecurring(ctx context.Context, userID uuid.UUID, windows []entity.AvailabilityWindow) error {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("AvailabilityRepository:ReplaceRecurring:Begin:Error:", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM availability_windows WHERE user_id = $1 AND date IS NULL`, userID); err != nil {
		logger.Error("AvailabilityRepository:ReplaceRecurring:Delete:Error:", err)
		return err
	}

	insert := `
		INSERT INTO availability_windows (user_id, day_of_week, start_time, end_time, is_blocked)
		VALUES ($1, $2, $3, $4, false)
	`
	for _, w := range windows {
		if _, err := tx.ExecContext(ctx, insert, userID, w.DayOfWeek, w.StartTime, w.EndTime); err != nil {
			logger.Error("AvailabilityRepository:ReplaceRecurring:Insert:Error:", err)
			return err
		}
	}

	return tx.Commit()
}

func (r *AvailabilityRepository) CreateException(ctx context.Context, window *entity.AvailabilityWindow) (*entity.AvailabilityWindow, error) {
	query := `
		INSERT INTO availability_windows (user_id, date, start_time, end_time, is_blocked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + windowColumns + `
	`

	var created entity.AvailabilityWindow
	err := r.DB.GetContext(ctx, &created, query,
		window.UserID, window.Date, window.StartTime, window.EndTime, window.IsBlocked)
	if err != nil {
		logger.Error("AvailabilityRepository:CreateException:Error:", err)
		return nil, err
	}

	return &created, nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, userID, windowID uuid.UUID) (bool, error) {
	query := `DELETE FROM availability_windows WHERE id = $1 AND user_id = $2`
	rows, err := r.DB.ExecRowsContext(ctx, query, windowID, userID)
	if err != nil {
		logger.Error("AvailabilityRepository:Delete:Error:", err)
		return false, err
	}
	return rows > 0, nil
}
