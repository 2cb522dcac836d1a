package service

import (
	"context"
	"sort"
	"time"

	"guidia-api/core/errors"
	"guidia-api/modules/availability/dto"
	"guidia-api/modules/availability/entity"
	"guidia-api/modules/availability/repository"

	"github.com/google/uuid"
)

// AvailabilityService holds each user's recurring weekly windows and one-off
// exceptions and answers whether a user is free at a given time.
type AvailabilityService struct {
	repo repository.AvailabilityRepositoryInterface
}

// AvailabilityServiceInterface defines the service contract
type AvailabilityServiceInterface interface {
	IsAvailable(ctx context.Context, userID uuid.UUID, date time.Time, startTime, endTime string) (bool, *errors.AppError)
	GetWindows(ctx context.Context, userID uuid.UUID) (*dto.ScheduleResponse, *errors.AppError)
	SetWindows(ctx context.Context, userID uuid.UUID, req *dto.SetWindowsRequest) (*dto.ScheduleResponse, *errors.AppError)
	AddException(ctx context.Context, userID uuid.UUID, req *dto.AddExceptionRequest) (*dto.WindowResponse, *errors.AppError)
	DeleteWindow(ctx context.Context, userID, windowID uuid.UUID) *errors.AppError
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(repo repository.AvailabilityRepositoryInterface) AvailabilityServiceInterface {
	return &AvailabilityService{repo: repo}
}

// IsAvailable resolves the candidate day to either its exact-date exceptions
// (which take precedence) or the recurring weekly set, then requires the
// candidate interval to sit fully inside one available stretch and to miss
// every blocking exception.
func (s *AvailabilityService) IsAvailable(ctx context.Context, userID uuid.UUID, date time.Time, startTime, endTime string) (bool, *errors.AppError) {
	windows, err := s.repo.ListForDay(ctx, userID, date)
	if err != nil {
		return false, errors.NewAppError(errors.ErrServiceUnavailable, "Failed to load availability", err)
	}

	var open, blocked, recurring []entity.AvailabilityWindow
	for _, w := range windows {
		switch {
		case w.IsException() && w.IsBlocked:
			blocked = append(blocked, w)
		case w.IsException():
			open = append(open, w)
		default:
			recurring = append(recurring, w)
		}
	}

	// Open exceptions replace the recurring schedule for that day.
	if len(open) == 0 {
		open = recurring
	}

	if !containedInMerged(open, startTime, endTime) {
		return false, nil
	}

	for _, b := range blocked {
		if entity.Overlaps(startTime, endTime, b.StartTime, b.EndTime) {
			return false, nil
		}
	}

	return true, nil
}

// GetWindows returns the user's full declared schedule
func (s *AvailabilityService) GetWindows(ctx context.Context, userID uuid.UUID) (*dto.ScheduleResponse, *errors.AppError) {
	windows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load availability windows", err)
	}
	return dto.ToScheduleResponse(userID.String(), windows), nil
}

// SetWindows replaces the recurring weekly schedule. Already accepted
// meetings are never re-validated against the new schedule.
func (s *AvailabilityService) SetWindows(ctx context.Context, userID uuid.UUID, req *dto.SetWindowsRequest) (*dto.ScheduleResponse, *errors.AppError) {
	windows := make([]entity.AvailabilityWindow, 0, len(req.Windows))
	for _, in := range req.Windows {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Day of week must be between 0 and 6", nil)
		}
		startTime, endTime, appErr := normalizeRange(in.StartTime, in.EndTime)
		if appErr != nil {
			return nil, appErr
		}

		day := in.DayOfWeek
		windows = append(windows, entity.AvailabilityWindow{
			UserID:    userID,
			DayOfWeek: &day,
			StartTime: startTime,
			EndTime:   endTime,
		})
	}

	if appErr := validateNoOverlapPerDay(windows); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.ReplaceRecurring(ctx, userID, windows); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save availability windows", err)
	}

	return s.GetWindows(ctx, userID)
}

// AddException adds a one-off window or a blocking exception for a date.
// The non-overlap rule is per kind: two open or two blocked exceptions on the
// same date must not overlap, but a blocked exception may overlap an open one
// to carve time out of it. IsAvailable resolves the combination.
func (s *AvailabilityService) AddException(ctx context.Context, userID uuid.UUID, req *dto.AddExceptionRequest) (*dto.WindowResponse, *errors.AppError) {
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD", err)
	}
	startTime, endTime, appErr := normalizeRange(req.StartTime, req.EndTime)
	if appErr != nil {
		return nil, appErr
	}

	candidate := entity.AvailabilityWindow{
		UserID:    userID,
		Date:      &date,
		StartTime: startTime,
		EndTime:   endTime,
		IsBlocked: req.IsBlocked,
	}

	existing, err := s.repo.ListForDay(ctx, userID, date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load availability", err)
	}
	for i := range existing {
		w := &existing[i]
		if w.IsException() && w.IsBlocked == candidate.IsBlocked && w.Overlaps(&candidate) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Exception overlaps an existing window on that date", nil)
		}
	}

	created, err := s.repo.CreateException(ctx, &candidate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save exception", err)
	}

	resp := dto.ToWindowResponse(created)
	return &resp, nil
}

// DeleteWindow removes one window owned by the user
func (s *AvailabilityService) DeleteWindow(ctx context.Context, userID, windowID uuid.UUID) *errors.AppError {
	deleted, err := s.repo.Delete(ctx, userID, windowID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete window", err)
	}
	if !deleted {
		return errors.NewAppError(errors.ErrNotFound, "Window not found", nil)
	}
	return nil
}

// ===================== helpers =====================

// containedInMerged merges contiguous or overlapping windows and checks that
// [start,end) sits fully inside one merged stretch.
func containedInMerged(windows []entity.AvailabilityWindow, startTime, endTime string) bool {
	if len(windows) == 0 {
		return false
	}

	sorted := make([]entity.AvailabilityWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	mergedStart, mergedEnd := sorted[0].StartTime, sorted[0].EndTime
	for _, w := range sorted[1:] {
		if w.StartTime <= mergedEnd {
			if w.EndTime > mergedEnd {
				mergedEnd = w.EndTime
			}
			continue
		}
		if mergedStart <= startTime && endTime <= mergedEnd {
			return true
		}
		mergedStart, mergedEnd = w.StartTime, w.EndTime
	}

	return mergedStart <= startTime && endTime <= mergedEnd
}

func validateNoOverlapPerDay(windows []entity.AvailabilityWindow) *errors.AppError {
	byDay := make(map[int][]entity.AvailabilityWindow)
	for _, w := range windows {
		byDay[*w.DayOfWeek] = append(byDay[*w.DayOfWeek], w)
	}

	for _, day := range byDay {
		sort.Slice(day, func(i, j int) bool {
			return day[i].StartTime < day[j].StartTime
		})
		for i := 1; i < len(day); i++ {
			if day[i].StartTime < day[i-1].EndTime {
				return errors.NewAppError(errors.ErrInvalidInput,
					"Windows for the same day must not overlap", nil)
			}
		}
	}
	return nil
}

func normalizeRange(startTime, endTime string) (string, string, *errors.AppError) {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return "", "", errors.NewAppError(errors.ErrInvalidInput, "Invalid start time, expected HH:MM", err)
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return "", "", errors.NewAppError(errors.ErrInvalidInput, "Invalid end time, expected HH:MM", err)
	}
	s, e := start.Format("15:04"), end.Format("15:04")
	if s >= e {
		return "", "", errors.NewAppError(errors.ErrInvalidInput, "Start time must be before end time", nil)
	}
	return s, e, nil
}
