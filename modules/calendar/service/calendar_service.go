package service

import (
	"context"
	"sort"
	"time"

	"guidia-api/core/errors"
	"guidia-api/modules/calendar/dto"
	meetingentity "guidia-api/modules/meeting/entity"
	meetingrepo "guidia-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// MeetingSource is the meeting query surface the projector reads from
type MeetingSource interface {
	ListEntities(ctx context.Context, filter meetingrepo.ListFilter) ([]meetingentity.Meeting, *errors.AppError)
}

// CalendarService builds the day-bucketed calendar view
type CalendarService struct {
	meetings MeetingSource
}

// CalendarServiceInterface defines the calendar service contract
type CalendarServiceInterface interface {
	GetCalendar(ctx context.Context, viewerID uuid.UUID, from, to time.Time) (*dto.CalendarResponse, *errors.AppError)
	Project(meetings []meetingentity.Meeting, viewerID uuid.UUID) map[string][]dto.CalendarEvent
}

// NewCalendarService creates a new calendar service
func NewCalendarService(meetings MeetingSource) CalendarServiceInterface {
	return &CalendarService{meetings: meetings}
}

var typeLabels = map[meetingentity.MeetingType]string{
	meetingentity.MeetingTypeStudentCompany:     "Student / Company",
	meetingentity.MeetingTypeStudentCounselor:   "Student / Counselor",
	meetingentity.MeetingTypeCompanyCounselor:   "Company / Counselor",
	meetingentity.MeetingTypeStudentStudent:     "Student / Student",
	meetingentity.MeetingTypeCompanyCompany:     "Company / Company",
	meetingentity.MeetingTypeCounselorCounselor: "Counselor / Counselor",
}

// GetCalendar loads the viewer's meetings in range and projects them by day
func (s *CalendarService) GetCalendar(ctx context.Context, viewerID uuid.UUID, from, to time.Time) (*dto.CalendarResponse, *errors.AppError) {
	meetings, appErr := s.meetings.ListEntities(ctx, meetingrepo.ListFilter{
		ParticipantID: viewerID,
		From:          from,
		To:            to,
	})
	if appErr != nil {
		return nil, appErr
	}

	return &dto.CalendarResponse{Days: s.Project(meetings, viewerID)}, nil
}

// Project buckets meetings by date. Declined and cancelled meetings never
// appear on a calendar. Events within a day are ordered by start time, ties
// broken by meeting ID so the projection is deterministic.
func (s *CalendarService) Project(meetings []meetingentity.Meeting, viewerID uuid.UUID) map[string][]dto.CalendarEvent {
	days := map[string][]dto.CalendarEvent{}

	for i := range meetings {
		m := &meetings[i]
		if m.Status == meetingentity.MeetingStatusDeclined || m.Status == meetingentity.MeetingStatusCancelled {
			continue
		}

		day := m.MeetingDate.Format("2006-01-02")
		days[day] = append(days[day], dto.CalendarEvent{
			MeetingID:     m.ID.String(),
			Title:         m.Title,
			TimeRange:     m.StartTime + " - " + m.EndTime,
			StartTime:     m.StartTime,
			EndTime:       m.EndTime,
			CounterpartID: m.Counterpart(viewerID).String(),
			Status:        string(m.Status),
			TypeLabel:     typeLabels[m.MeetingType],
		})
	}

	for day := range days {
		events := days[day]
		sort.Slice(events, func(i, j int) bool {
			if events[i].StartTime != events[j].StartTime {
				return events[i].StartTime < events[j].StartTime
			}
			return events[i].MeetingID < events[j].MeetingID
		})
	}

	return days
}
