package service

import (
	"context"
	"time"

	"guidia-api/core/errors"
	"guidia-api/core/logger"
	"guidia-api/modules/meeting/entity"
	"guidia-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// ConflictDetector answers whether a candidate slot collides with an already
// accepted meeting for a user. Acceptance order decides the winner: only
// accepted meetings block, requested ones never do.
type ConflictDetector struct {
	repo repository.MeetingRepositoryInterface
}

func NewConflictDetector(repo repository.MeetingRepositoryInterface) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// FindConflict returns the first accepted meeting of userID on date whose
// [start,end) interval intersects the candidate interval, or nil.
func (d *ConflictDetector) FindConflict(ctx context.Context, userID uuid.UUID, date time.Time, startTime, endTime string, excludeID uuid.UUID) (*entity.Meeting, *errors.AppError) {
	conflict, err := d.repo.FindAcceptedOverlap(ctx, userID, date, startTime, endTime, excludeID)
	if err != nil {
		logger.Error("ConflictDetector:FindConflict:Error:", err)
		return nil, errors.NewAppError(errors.ErrServiceUnavailable, "Failed to check schedule conflicts", err)
	}
	return conflict, nil
}
