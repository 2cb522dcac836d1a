package service

import (
	"context"
	"time"

	"guidia-api/core/errors"
	"guidia-api/core/logger"
	"guidia-api/modules/meeting/dto"
	"guidia-api/modules/meeting/entity"
	"guidia-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// AvailabilityChecker is the slice of the availability module the meeting
// service depends on.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, userID uuid.UUID, date time.Time, startTime, endTime string) (bool, *errors.AppError)
}

// NotificationEvent is the payload handed to the notification gateway.
type NotificationEvent struct {
	Kind        string
	MeetingID   uuid.UUID
	RecipientID uuid.UUID
	Payload     map[string]any
}

// Notification event kinds emitted by meeting transitions.
const (
	EventMeetingRequested = "meeting_requested"
	EventMeetingAccepted  = "meeting_accepted"
	EventMeetingDeclined  = "meeting_declined"
	EventMeetingCancelled = "meeting_cancelled"
	EventMeetingCompleted = "meeting_completed"
)

// NotificationGateway delivers meeting events. Fire and forget: failures are
// the gateway's problem and never roll back a transition.
type NotificationGateway interface {
	Notify(ctx context.Context, event NotificationEvent)
}

// MeetingService owns the meeting entity and its state machine
type MeetingService struct {
	repo         repository.MeetingRepositoryInterface
	availability AvailabilityChecker
	conflicts    *ConflictDetector
	gateway      NotificationGateway
	now          func() time.Time
}

// MeetingServiceInterface defines the service contract
type MeetingServiceInterface interface {
	Create(ctx context.Context, requestorID uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	Accept(ctx context.Context, meetingID, actorID uuid.UUID) (*dto.MeetingResponse, *errors.AppError)
	Decline(ctx context.Context, meetingID, actorID uuid.UUID, reason string) (*dto.MeetingResponse, *errors.AppError)
	Cancel(ctx context.Context, meetingID, actorID uuid.UUID) (*dto.MeetingResponse, *errors.AppError)
	GetByID(ctx context.Context, meetingID uuid.UUID) (*dto.MeetingResponse, *errors.AppError)
	GetEntity(ctx context.Context, meetingID uuid.UUID) (*entity.Meeting, *errors.AppError)
	List(ctx context.Context, filter repository.ListFilter) ([]dto.MeetingResponse, *errors.AppError)
	ListEntities(ctx context.Context, filter repository.ListFilter) ([]entity.Meeting, *errors.AppError)
	CompleteElapsed(ctx context.Context, now time.Time) (int, *errors.AppError)
}

// NewMeetingService creates a new meeting service
func NewMeetingService(repo repository.MeetingRepositoryInterface, availability AvailabilityChecker, gateway NotificationGateway) MeetingServiceInterface {
	return &MeetingService{
		repo:         repo,
		availability: availability,
		conflicts:    NewConflictDetector(repo),
		gateway:      gateway,
		now:          time.Now,
	}
}

// Create validates and persists a new meeting request
func (s *MeetingService) Create(ctx context.Context, requestorID uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid recipient ID", err)
	}
	if recipientID == requestorID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Requestor and recipient must be distinct users", nil)
	}

	meetingDate, err := time.ParseInLocation("2006-01-02", req.MeetingDate, time.Local)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid meeting date, expected YYYY-MM-DD", err)
	}

	startTime, appErr := normalizeClock(req.StartTime)
	if appErr != nil {
		return nil, appErr
	}
	endTime, appErr := normalizeClock(req.EndTime)
	if appErr != nil {
		return nil, appErr
	}
	if startTime >= endTime {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Start time must be before end time", nil)
	}

	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}

	meetingType := entity.MeetingType(req.MeetingType)
	if !meetingType.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown meeting type", nil)
	}

	candidate := &entity.Meeting{
		RequestorID: requestorID,
		RecipientID: recipientID,
		MeetingDate: meetingDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Title:       req.Title,
		MeetingType: meetingType,
		Status:      entity.MeetingStatusRequested,
	}
	if req.Description != "" {
		candidate.Description = &req.Description
	}

	if candidate.StartsAt(time.Local).Before(s.now()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Meeting date must not be in the past", nil)
	}

	available, appErr := s.availability.IsAvailable(ctx, recipientID, meetingDate, startTime, endTime)
	if appErr != nil {
		return nil, appErr
	}
	if !available {
		return nil, errors.NewAppError(errors.ErrConflict, "Recipient is not available at the requested time", nil)
	}

	for _, userID := range []uuid.UUID{requestorID, recipientID} {
		conflict, appErr := s.conflicts.FindConflict(ctx, userID, meetingDate, startTime, endTime, uuid.Nil)
		if appErr != nil {
			return nil, appErr
		}
		if conflict != nil {
			return nil, errors.NewAppErrorWithDetails(errors.ErrConflict,
				"Requested time conflicts with an existing meeting", nil,
				dto.ToConflictDetails(conflict))
		}
	}

	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create meeting request", err)
	}

	s.notify(ctx, EventMeetingRequested, created, created.RecipientID)

	return dto.ToMeetingResponse(created), nil
}

// Accept transitions requested -> accepted, re-checking conflicts at accept
// time because another overlapping request may have won in the meantime.
func (s *MeetingService) Accept(ctx context.Context, meetingID, actorID uuid.UUID) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.loadMeeting(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}

	if meeting.RecipientID != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the recipient can accept a meeting request", nil)
	}
	if appErr := requireStatus(meeting, entity.MeetingStatusRequested); appErr != nil {
		return nil, appErr
	}

	for _, userID := range []uuid.UUID{meeting.RequestorID, meeting.RecipientID} {
		conflict, appErr := s.conflicts.FindConflict(ctx, userID, meeting.MeetingDate, meeting.StartTime, meeting.EndTime, meeting.ID)
		if appErr != nil {
			return nil, appErr
		}
		if conflict != nil {
			return nil, errors.NewAppErrorWithDetails(errors.ErrConflict,
				"An overlapping meeting was accepted first", nil,
				dto.ToConflictDetails(conflict))
		}
	}

	return s.transition(ctx, meeting, entity.MeetingStatusRequested, entity.MeetingStatusAccepted, nil, EventMeetingAccepted, meeting.RequestorID)
}

// Decline transitions requested -> declined, reason required
func (s *MeetingService) Decline(ctx context.Context, meetingID, actorID uuid.UUID, reason string) (*dto.MeetingResponse, *errors.AppError) {
	if reason == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Decline reason is required", nil)
	}

	meeting, appErr := s.loadMeeting(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}

	if meeting.RecipientID != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the recipient can decline a meeting request", nil)
	}
	if appErr := requireStatus(meeting, entity.MeetingStatusRequested); appErr != nil {
		return nil, appErr
	}

	return s.transition(ctx, meeting, entity.MeetingStatusRequested, entity.MeetingStatusDeclined, &reason, EventMeetingDeclined, meeting.RequestorID)
}

// Cancel transitions requested|accepted -> cancelled, either participant
func (s *MeetingService) Cancel(ctx context.Context, meetingID, actorID uuid.UUID) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.loadMeeting(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}

	if !meeting.IsParticipant(actorID) {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only a participant can cancel a meeting", nil)
	}
	if appErr := requireStatus(meeting, entity.MeetingStatusRequested, entity.MeetingStatusAccepted); appErr != nil {
		return nil, appErr
	}

	return s.transition(ctx, meeting, meeting.Status, entity.MeetingStatusCancelled, nil, EventMeetingCancelled, meeting.Counterpart(actorID))
}

// GetByID retrieves a meeting by ID
func (s *MeetingService) GetByID(ctx context.Context, meetingID uuid.UUID) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.loadMeeting(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToMeetingResponse(meeting), nil
}

// GetEntity retrieves a meeting for other modules that need the raw record
func (s *MeetingService) GetEntity(ctx context.Context, meetingID uuid.UUID) (*entity.Meeting, *errors.AppError) {
	return s.loadMeeting(ctx, meetingID)
}

// List retrieves meetings matching the filter
func (s *MeetingService) List(ctx context.Context, filter repository.ListFilter) ([]dto.MeetingResponse, *errors.AppError) {
	meetings, appErr := s.ListEntities(ctx, filter)
	if appErr != nil {
		return nil, appErr
	}

	result := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, *dto.ToMeetingResponse(&meetings[i]))
	}
	return result, nil
}

// ListEntities is the raw query surface consumed by the calendar projector
// and the analytics aggregator.
func (s *MeetingService) ListEntities(ctx context.Context, filter repository.ListFilter) ([]entity.Meeting, *errors.AppError) {
	meetings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list meetings", err)
	}
	return meetings, nil
}

// CompleteElapsed flips every accepted meeting that ended before now to
// completed. Per-meeting failures are logged and skipped so one bad row never
// aborts the sweep; a lost conditional update just means someone else moved
// the meeting first.
func (s *MeetingService) CompleteElapsed(ctx context.Context, now time.Time) (int, *errors.AppError) {
	elapsed, err := s.repo.ListElapsedAccepted(ctx, now)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrServiceUnavailable, "Failed to scan elapsed meetings", err)
	}

	completed := 0
	for i := range elapsed {
		meeting := &elapsed[i]
		updated, err := s.repo.UpdateStatus(ctx, meeting.ID, entity.MeetingStatusAccepted, entity.MeetingStatusCompleted, nil)
		if err != nil {
			logger.Error("MeetingService:CompleteElapsed:UpdateStatus:Error:", "error", err, "meeting_id", meeting.ID)
			continue
		}
		if !updated {
			// Cancelled or already completed since the scan, nothing to do.
			continue
		}

		completed++
		meeting.Status = entity.MeetingStatusCompleted
		s.notify(ctx, EventMeetingCompleted, meeting, meeting.RequestorID)
		s.notify(ctx, EventMeetingCompleted, meeting, meeting.RecipientID)
	}

	if completed > 0 {
		logger.Info("MeetingService:CompleteElapsed", "completed", completed, "scanned", len(elapsed))
	}
	return completed, nil
}

// ===================== helpers =====================

func (s *MeetingService) loadMeeting(ctx context.Context, meetingID uuid.UUID) (*entity.Meeting, *errors.AppError) {
	meeting, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	return meeting, nil
}

// transition performs the conditional status update. A no-op update on an
// existing row means another actor transitioned it first.
func (s *MeetingService) transition(ctx context.Context, meeting *entity.Meeting, from, to entity.MeetingStatus, declineReason *string, eventKind string, notifyUserID uuid.UUID) (*dto.MeetingResponse, *errors.AppError) {
	updated, err := s.repo.UpdateStatus(ctx, meeting.ID, from, to, declineReason)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update meeting status", err)
	}
	if !updated {
		return nil, errors.NewAppError(errors.ErrStaleState, "Meeting was already transitioned by another actor", nil)
	}

	meeting.Status = to
	meeting.DeclineReason = declineReason
	s.notify(ctx, eventKind, meeting, notifyUserID)

	return dto.ToMeetingResponse(meeting), nil
}

func (s *MeetingService) notify(ctx context.Context, kind string, meeting *entity.Meeting, recipientID uuid.UUID) {
	if s.gateway == nil {
		return
	}
	s.gateway.Notify(ctx, NotificationEvent{
		Kind:        kind,
		MeetingID:   meeting.ID,
		RecipientID: recipientID,
		Payload: map[string]any{
			"title":        meeting.Title,
			"meeting_date": meeting.MeetingDate.Format("2006-01-02"),
			"start_time":   meeting.StartTime,
			"end_time":     meeting.EndTime,
		},
	})
}

func requireStatus(meeting *entity.Meeting, allowed ...entity.MeetingStatus) *errors.AppError {
	for _, status := range allowed {
		if meeting.Status == status {
			return nil
		}
	}
	if meeting.Status.IsTerminal() {
		return errors.NewAppError(errors.ErrInvalidStateTransition,
			"Meeting is in terminal status "+string(meeting.Status), nil)
	}
	return errors.NewAppError(errors.ErrInvalidStateTransition,
		"Action not allowed from status "+string(meeting.Status), nil)
}

// normalizeClock validates an HH:MM wall-clock value and zero-pads it.
func normalizeClock(clock string) (string, *errors.AppError) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInvalidInput, "Invalid time, expected HH:MM", err)
	}
	return t.Format("15:04"), nil
}
