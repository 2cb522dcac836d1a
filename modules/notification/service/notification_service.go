package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"guidia-api/core/cache"
	"guidia-api/core/constants"
	coreEntity "guidia-api/core/entity"
	"guidia-api/core/logger"
	"guidia-api/core/params"
	"guidia-api/core/utils"
	meetingsvc "guidia-api/modules/meeting/service"
	"guidia-api/modules/notification/dto"
	"guidia-api/modules/notification/entity"
	"guidia-api/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskEnqueuer is the slice of asynq.Client this service needs
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type NotificationService struct {
	repo  repository.NotificationRepositoryInterface
	cache cache.ICache
	tasks TaskEnqueuer
}

// NotificationServiceInterface covers the feed operations plus the meeting
// gateway surface.
type NotificationServiceInterface interface {
	meetingsvc.NotificationGateway
	GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, c cache.ICache, tasks TaskEnqueuer) NotificationServiceInterface {
	return &NotificationService{repo: repo, cache: c, tasks: tasks}
}

var eventTitles = map[string]string{
	meetingsvc.EventMeetingRequested: "New meeting request",
	meetingsvc.EventMeetingAccepted:  "Meeting accepted",
	meetingsvc.EventMeetingDeclined:  "Meeting declined",
	meetingsvc.EventMeetingCancelled: "Meeting cancelled",
	meetingsvc.EventMeetingCompleted: "Meeting completed",
}

// Notify persists a feed row for the recipient and queues the dispatch task.
// Fire and forget: every failure is logged and swallowed so a notification
// problem never surfaces into the meeting transition that triggered it.
func (s *NotificationService) Notify(ctx context.Context, event meetingsvc.NotificationEvent) {
	title, ok := eventTitles[event.Kind]
	if !ok {
		title = "Meeting update"
	}

	message := title
	if t, ok := event.Payload["title"].(string); ok && t != "" {
		message = fmt.Sprintf("%s: %s", title, t)
	}

	notif := &entity.Notification{
		UserID:    event.RecipientID,
		Reference: utils.GenerateID(),
		Title:     title,
		Message:   message,
		Type:      event.Kind,
		Data:      entity.JSONB(event.Payload),
		IsRead:    false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	if notif.Data == nil {
		notif.Data = entity.JSONB{}
	}
	notif.Data["meeting_id"] = event.MeetingID.String()

	if err := s.repo.Create(ctx, notif); err != nil {
		logger.Error("NotificationService:Notify:Create:Error:", err)
		return
	}

	if err := s.cache.InvalidateUnreadCount(ctx, event.RecipientID.String()); err != nil {
		logger.Warn("NotificationService:Notify:InvalidateUnreadCount", "error", err)
	}

	if s.tasks == nil {
		return
	}
	payload, err := json.Marshal(dto.DispatchPayload{
		NotificationID: notif.ID,
		UserID:         notif.UserID,
		Reference:      notif.Reference,
	})
	if err != nil {
		logger.Error("NotificationService:Notify:Marshal:Error:", err)
		return
	}
	task := asynq.NewTask(constants.TaskDispatchNotification, payload)
	if _, err := s.tasks.EnqueueContext(ctx, task, asynq.Queue(constants.QueueNotifications)); err != nil {
		logger.Error("NotificationService:Notify:Enqueue:Error:", err)
	}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return err
	}
	if err := s.cache.InvalidateUnreadCount(ctx, userID.String()); err != nil {
		logger.Warn("NotificationService:MarkAsRead:InvalidateUnreadCount", "error", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	if err := s.cache.InvalidateUnreadCount(ctx, userID.String()); err != nil {
		logger.Warn("NotificationService:MarkAllAsRead:InvalidateUnreadCount", "error", err)
	}
	return nil
}

// CountUnread serves the badge counter, cache first with a read-through on
// miss. Cache trouble degrades to the database rather than failing the call.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	if count, hit, err := s.cache.GetUnreadCount(ctx, userID.String()); err != nil {
		logger.Warn("NotificationService:CountUnread:Cache", "error", err)
	} else if hit {
		return count, nil
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.SetUnreadCount(ctx, userID.String(), count); err != nil {
		logger.Warn("NotificationService:CountUnread:SetCache", "error", err)
	}
	return count, nil
}
