package service

import (
	"context"
	"testing"
	"time"

	"guidia-api/core/errors"
	"guidia-api/modules/feedback/dto"
	"guidia-api/modules/feedback/entity"
	meetingentity "guidia-api/modules/meeting/entity"
	meetingrepo "guidia-api/modules/meeting/repository"

	"github.com/google/uuid"
)

type fakeFeedbackRepo struct {
	feedbacks []entity.Feedback
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *entity.Feedback) (*entity.Feedback, error) {
	stored := *feedback
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	r.feedbacks = append(r.feedbacks, stored)
	return &stored, nil
}

func (r *fakeFeedbackRepo) GetByMeetingAndRater(_ context.Context, meetingID, raterID uuid.UUID) (*entity.Feedback, error) {
	for i := range r.feedbacks {
		if r.feedbacks[i].MeetingID == meetingID && r.feedbacks[i].RaterID == raterID {
			return &r.feedbacks[i], nil
		}
	}
	return nil, nil
}

func (r *fakeFeedbackRepo) ListByMeeting(_ context.Context, meetingID uuid.UUID) ([]entity.Feedback, error) {
	var result []entity.Feedback
	for i := range r.feedbacks {
		if r.feedbacks[i].MeetingID == meetingID {
			result = append(result, r.feedbacks[i])
		}
	}
	return result, nil
}

func (r *fakeFeedbackRepo) ListByMeetingIDs(_ context.Context, meetingIDs []uuid.UUID) ([]entity.Feedback, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range meetingIDs {
		wanted[id] = true
	}
	var result []entity.Feedback
	for i := range r.feedbacks {
		if wanted[r.feedbacks[i].MeetingID] {
			result = append(result, r.feedbacks[i])
		}
	}
	return result, nil
}

type fakeDirectory struct {
	meetings map[uuid.UUID]*meetingentity.Meeting
}

func (d *fakeDirectory) GetEntity(_ context.Context, meetingID uuid.UUID) (*meetingentity.Meeting, *errors.AppError) {
	m, ok := d.meetings[meetingID]
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	return m, nil
}

func (d *fakeDirectory) ListEntities(_ context.Context, filter meetingrepo.ListFilter) ([]meetingentity.Meeting, *errors.AppError) {
	var result []meetingentity.Meeting
	for _, m := range d.meetings {
		if filter.ParticipantID != uuid.Nil && !m.IsParticipant(filter.ParticipantID) {
			continue
		}
		if !filter.From.IsZero() && m.MeetingDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && m.MeetingDate.After(filter.To) {
			continue
		}
		result = append(result, *m)
	}
	return result, nil
}

func onDate(value string) time.Time {
	d, _ := time.ParseInLocation("2006-01-02", value, time.Local)
	return d
}

func completedMeeting(date string) *meetingentity.Meeting {
	return &meetingentity.Meeting{
		ID:          uuid.New(),
		RequestorID: uuid.New(),
		RecipientID: uuid.New(),
		MeetingDate: onDate(date),
		StartTime:   "09:00",
		EndTime:     "10:00",
		Title:       "Session",
		MeetingType: meetingentity.MeetingTypeStudentCounselor,
		Status:      meetingentity.MeetingStatusCompleted,
	}
}

func newFeedbackFixture(meetings ...*meetingentity.Meeting) (FeedbackServiceInterface, *fakeFeedbackRepo, *fakeDirectory) {
	repo := &fakeFeedbackRepo{}
	directory := &fakeDirectory{meetings: map[uuid.UUID]*meetingentity.Meeting{}}
	for _, m := range meetings {
		directory.meetings[m.ID] = m
	}
	return NewFeedbackService(repo, directory), repo, directory
}

func TestCreateFeedback(t *testing.T) {
	meeting := completedMeeting("2026-08-01")
	svc, repo, _ := newFeedbackFixture(meeting)

	created, appErr := svc.Create(context.Background(), meeting.ID, meeting.RequestorID, &dto.CreateFeedbackRequest{
		Rating:   4,
		Comments: "Helpful session",
	})
	if appErr != nil {
		t.Fatalf("Create: %v", appErr)
	}
	if created.Rating != 4 {
		t.Errorf("rating = %d, want 4", created.Rating)
	}
	if created.Comments != "Helpful session" {
		t.Errorf("comments = %q", created.Comments)
	}
	if len(repo.feedbacks) != 1 {
		t.Errorf("stored feedbacks = %d, want 1", len(repo.feedbacks))
	}
}

func TestCreateFeedbackRejectsInvalidRating(t *testing.T) {
	meeting := completedMeeting("2026-08-01")
	svc, _, _ := newFeedbackFixture(meeting)

	for _, rating := range []int{0, 6, -1} {
		_, appErr := svc.Create(context.Background(), meeting.ID, meeting.RequestorID, &dto.CreateFeedbackRequest{Rating: rating})
		if appErr == nil || appErr.Code != errors.ErrInvalidInput {
			t.Errorf("rating %d: error = %v, want invalid input", rating, appErr)
		}
	}
}

func TestCreateFeedbackRequiresCompletedMeeting(t *testing.T) {
	meeting := completedMeeting("2026-08-01")
	meeting.Status = meetingentity.MeetingStatusAccepted
	svc, _, _ := newFeedbackFixture(meeting)

	_, appErr := svc.Create(context.Background(), meeting.ID, meeting.RequestorID, &dto.CreateFeedbackRequest{Rating: 5})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("error = %v, want invalid input", appErr)
	}
}

func TestCreateFeedbackRequiresParticipant(t *testing.T) {
	meeting := completedMeeting("2026-08-01")
	svc, _, _ := newFeedbackFixture(meeting)

	_, appErr := svc.Create(context.Background(), meeting.ID, uuid.New(), &dto.CreateFeedbackRequest{Rating: 5})
	if appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("error = %v, want forbidden", appErr)
	}
}

func TestCreateFeedbackOncePerRater(t *testing.T) {
	meeting := completedMeeting("2026-08-01")
	svc, _, _ := newFeedbackFixture(meeting)

	if _, appErr := svc.Create(context.Background(), meeting.ID, meeting.RequestorID, &dto.CreateFeedbackRequest{Rating: 3}); appErr != nil {
		t.Fatalf("first Create: %v", appErr)
	}
	_, appErr := svc.Create(context.Background(), meeting.ID, meeting.RequestorID, &dto.CreateFeedbackRequest{Rating: 5})
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Errorf("duplicate error = %v, want already exists", appErr)
	}

	// The other participant still gets their own slot.
	if _, appErr := svc.Create(context.Background(), meeting.ID, meeting.RecipientID, &dto.CreateFeedbackRequest{Rating: 5}); appErr != nil {
		t.Errorf("recipient Create: %v", appErr)
	}
}

func TestListForMeetingVisibility(t *testing.T) {
	meeting := completedMeeting("2026-08-01")
	svc, _, _ := newFeedbackFixture(meeting)

	if _, appErr := svc.Create(context.Background(), meeting.ID, meeting.RequestorID, &dto.CreateFeedbackRequest{Rating: 4}); appErr != nil {
		t.Fatalf("Create: %v", appErr)
	}

	_, appErr := svc.ListForMeeting(context.Background(), meeting.ID, uuid.New(), false)
	if appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("outsider error = %v, want forbidden", appErr)
	}

	admin, appErr := svc.ListForMeeting(context.Background(), meeting.ID, uuid.New(), true)
	if appErr != nil {
		t.Fatalf("admin ListForMeeting: %v", appErr)
	}
	if len(admin) != 1 {
		t.Errorf("admin sees %d feedbacks, want 1", len(admin))
	}

	participant, appErr := svc.ListForMeeting(context.Background(), meeting.ID, meeting.RecipientID, false)
	if appErr != nil {
		t.Fatalf("participant ListForMeeting: %v", appErr)
	}
	if len(participant) != 1 {
		t.Errorf("participant sees %d feedbacks, want 1", len(participant))
	}
}

func TestSummarize(t *testing.T) {
	ratedA := completedMeeting("2026-08-01")
	ratedB := completedMeeting("2026-08-01")
	unrated := completedMeeting("2026-08-02")
	pending := completedMeeting("2026-08-03")
	pending.Status = meetingentity.MeetingStatusRequested

	svc, _, _ := newFeedbackFixture(ratedA, ratedB, unrated, pending)

	for _, seed := range []struct {
		meeting *meetingentity.Meeting
		rater   uuid.UUID
		rating  int
	}{
		{ratedA, ratedA.RequestorID, 5},
		{ratedA, ratedA.RecipientID, 3},
		{ratedB, ratedB.RequestorID, 4},
	} {
		if _, appErr := svc.Create(context.Background(), seed.meeting.ID, seed.rater, &dto.CreateFeedbackRequest{Rating: seed.rating}); appErr != nil {
			t.Fatalf("seed Create: %v", appErr)
		}
	}

	summary, appErr := svc.Summarize(context.Background(), AnalyticsFilter{})
	if appErr != nil {
		t.Fatalf("Summarize: %v", appErr)
	}

	if summary.MeetingCountsByStatus["completed"] != 3 {
		t.Errorf("completed count = %d, want 3", summary.MeetingCountsByStatus["completed"])
	}
	if summary.MeetingCountsByStatus["requested"] != 1 {
		t.Errorf("requested count = %d, want 1", summary.MeetingCountsByStatus["requested"])
	}
	if summary.MeetingCountsByType["student_counselor"] != 4 {
		t.Errorf("type count = %d, want 4", summary.MeetingCountsByType["student_counselor"])
	}
	if summary.TrendByDay["2026-08-01"] != 2 {
		t.Errorf("trend 2026-08-01 = %d, want 2", summary.TrendByDay["2026-08-01"])
	}

	// Unrated completed meetings are excluded from the mean, not counted as zero.
	if summary.AverageRating == nil {
		t.Fatal("average rating missing")
	}
	if *summary.AverageRating != 4.0 {
		t.Errorf("average rating = %v, want 4.0", *summary.AverageRating)
	}
}

func TestSummarizeNoRatings(t *testing.T) {
	unrated := completedMeeting("2026-08-02")
	svc, _, _ := newFeedbackFixture(unrated)

	summary, appErr := svc.Summarize(context.Background(), AnalyticsFilter{})
	if appErr != nil {
		t.Fatalf("Summarize: %v", appErr)
	}
	if summary.AverageRating != nil {
		t.Errorf("average rating = %v, want nil when nothing is rated", *summary.AverageRating)
	}
}

func TestSummarizeScopedToUser(t *testing.T) {
	mine := completedMeeting("2026-08-01")
	other := completedMeeting("2026-08-01")
	svc, _, _ := newFeedbackFixture(mine, other)

	summary, appErr := svc.Summarize(context.Background(), AnalyticsFilter{UserID: mine.RequestorID})
	if appErr != nil {
		t.Fatalf("Summarize: %v", appErr)
	}
	if summary.MeetingCountsByStatus["completed"] != 1 {
		t.Errorf("completed count = %d, want 1", summary.MeetingCountsByStatus["completed"])
	}
}
