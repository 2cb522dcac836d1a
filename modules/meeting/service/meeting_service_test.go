package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"guidia-api/core/errors"
	"guidia-api/modules/meeting/dto"
	"guidia-api/modules/meeting/entity"
	"guidia-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// fakeMeetingRepo is an in-memory repository with the same conditional
// update semantics as the SQL implementation.
type fakeMeetingRepo struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]*entity.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: map[uuid.UUID]*entity.Meeting{}}
}

func (r *fakeMeetingRepo) Create(_ context.Context, meeting *entity.Meeting) (*entity.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := *meeting
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.meetings[m.ID] = &m

	copied := m
	return &copied, nil
}

func (r *fakeMeetingRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMeetingRepo) List(_ context.Context, filter repository.ListFilter) ([]entity.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []entity.Meeting
	for _, m := range r.meetings {
		if filter.ParticipantID != uuid.Nil && !m.IsParticipant(filter.ParticipantID) {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Type != "" && m.MeetingType != filter.Type {
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

func (r *fakeMeetingRepo) FindAcceptedOverlap(_ context.Context, userID uuid.UUID, date time.Time, startTime, endTime string, excludeID uuid.UUID) (*entity.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.meetings {
		if m.ID == excludeID || m.Status != entity.MeetingStatusAccepted {
			continue
		}
		if !m.IsParticipant(userID) || !m.MeetingDate.Equal(date) {
			continue
		}
		if entity.Overlaps(startTime, endTime, m.StartTime, m.EndTime) {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.MeetingStatus, declineReason *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meetings[id]
	if !ok || m.Status != from {
		return false, nil
	}
	m.Status = to
	if declineReason != nil {
		m.DeclineReason = declineReason
	}
	m.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeMeetingRepo) ListElapsedAccepted(_ context.Context, before time.Time) ([]entity.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []entity.Meeting
	for _, m := range r.meetings {
		if m.Status == entity.MeetingStatusAccepted && m.EndsAt(time.Local).Before(before) {
			result = append(result, *m)
		}
	}
	return result, nil
}

type fakeAvailability struct {
	available bool
}

func (f *fakeAvailability) IsAvailable(context.Context, uuid.UUID, time.Time, string, string) (bool, *errors.AppError) {
	return f.available, nil
}

type capturingGateway struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (g *capturingGateway) Notify(_ context.Context, event NotificationEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
}

func (g *capturingGateway) kinds() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.events))
	for _, e := range g.events {
		out = append(out, e.Kind)
	}
	return out
}

func newTestService(repo *fakeMeetingRepo) (MeetingServiceInterface, *capturingGateway) {
	gateway := &capturingGateway{}
	return NewMeetingService(repo, &fakeAvailability{available: true}, gateway), gateway
}

func futureDate(t *testing.T) string {
	t.Helper()
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func createRequest(recipient uuid.UUID, date string) *dto.CreateMeetingRequest {
	return &dto.CreateMeetingRequest{
		RecipientID: recipient.String(),
		MeetingDate: date,
		StartTime:   "09:00",
		EndTime:     "10:00",
		Title:       "Career guidance session",
		MeetingType: string(entity.MeetingTypeStudentCounselor),
	}
}

func TestCreateMeeting(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, gateway := newTestService(repo)

	requestor := uuid.New()
	recipient := uuid.New()

	resp, appErr := svc.Create(context.Background(), requestor, createRequest(recipient, futureDate(t)))
	if appErr != nil {
		t.Fatalf("Create: %v", appErr)
	}
	if resp.Status != string(entity.MeetingStatusRequested) {
		t.Errorf("status = %q, want requested", resp.Status)
	}
	if resp.StartTime != "09:00" || resp.EndTime != "10:00" {
		t.Errorf("times = %q-%q", resp.StartTime, resp.EndTime)
	}

	kinds := gateway.kinds()
	if len(kinds) != 1 || kinds[0] != EventMeetingRequested {
		t.Errorf("notified %v, want one %s", kinds, EventMeetingRequested)
	}
}

func TestCreateMeetingValidation(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, _ := newTestService(repo)

	requestor := uuid.New()
	recipient := uuid.New()
	date := futureDate(t)

	cases := []struct {
		name   string
		mutate func(*dto.CreateMeetingRequest)
	}{
		{"self meeting", func(r *dto.CreateMeetingRequest) { r.RecipientID = requestor.String() }},
		{"bad date", func(r *dto.CreateMeetingRequest) { r.MeetingDate = "2026/01/01" }},
		{"bad start", func(r *dto.CreateMeetingRequest) { r.StartTime = "9am" }},
		{"start after end", func(r *dto.CreateMeetingRequest) { r.StartTime = "11:00" }},
		{"start equals end", func(r *dto.CreateMeetingRequest) { r.StartTime = "10:00" }},
		{"empty title", func(r *dto.CreateMeetingRequest) { r.Title = "" }},
		{"unknown type", func(r *dto.CreateMeetingRequest) { r.MeetingType = "student_alien" }},
		{"past date", func(r *dto.CreateMeetingRequest) { r.MeetingDate = "2020-01-01" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createRequest(recipient, date)
			tc.mutate(req)
			_, appErr := svc.Create(context.Background(), requestor, req)
			if appErr == nil {
				t.Fatal("expected error")
			}
			if appErr.Code != errors.ErrInvalidInput {
				t.Errorf("code = %s, want %s", appErr.Code, errors.ErrInvalidInput)
			}
		})
	}
}

func TestCreateMeetingRecipientUnavailable(t *testing.T) {
	repo := newFakeMeetingRepo()
	gateway := &capturingGateway{}
	svc := NewMeetingService(repo, &fakeAvailability{available: false}, gateway)

	_, appErr := svc.Create(context.Background(), uuid.New(), createRequest(uuid.New(), futureDate(t)))
	if appErr == nil || appErr.Code != errors.ErrConflict {
		t.Fatalf("appErr = %v, want %s", appErr, errors.ErrConflict)
	}
	if len(gateway.kinds()) != 0 {
		t.Error("no notification expected on rejected create")
	}
}

func TestCreateMeetingConflictWithAccepted(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, _ := newTestService(repo)

	requestor := uuid.New()
	recipient := uuid.New()
	date := futureDate(t)

	first, appErr := svc.Create(context.Background(), requestor, createRequest(recipient, date))
	if appErr != nil {
		t.Fatalf("Create: %v", appErr)
	}
	firstID := uuid.MustParse(first.ID)
	if _, appErr := svc.Accept(context.Background(), firstID, recipient); appErr != nil {
		t.Fatalf("Accept: %v", appErr)
	}

	// Overlapping request against the same recipient.
	req := createRequest(recipient, date)
	req.StartTime = "09:30"
	req.EndTime = "10:30"
	_, appErr = svc.Create(context.Background(), uuid.New(), req)
	if appErr == nil || appErr.Code != errors.ErrConflict {
		t.Fatalf("appErr = %v, want %s", appErr, errors.ErrConflict)
	}
	details, ok := appErr.Details.(*dto.ConflictDetails)
	if !ok {
		t.Fatalf("details = %T, want *dto.ConflictDetails", appErr.Details)
	}
	if details.ConflictingMeetingID != first.ID {
		t.Errorf("conflicting ID = %s, want %s", details.ConflictingMeetingID, first.ID)
	}

	// Adjacent slot is fine: intervals are half-open.
	adjacent := createRequest(recipient, date)
	adjacent.StartTime = "10:00"
	adjacent.EndTime = "11:00"
	if _, appErr := svc.Create(context.Background(), uuid.New(), adjacent); appErr != nil {
		t.Errorf("adjacent slot rejected: %v", appErr)
	}
}

func TestAcceptMeeting(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, gateway := newTestService(repo)

	requestor := uuid.New()
	recipient := uuid.New()

	created, _ := svc.Create(context.Background(), requestor, createRequest(recipient, futureDate(t)))
	id := uuid.MustParse(created.ID)

	if _, appErr := svc.Accept(context.Background(), id, requestor); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("requestor accept: appErr = %v, want %s", appErr, errors.ErrForbidden)
	}

	resp, appErr := svc.Accept(context.Background(), id, recipient)
	if appErr != nil {
		t.Fatalf("Accept: %v", appErr)
	}
	if resp.Status != string(entity.MeetingStatusAccepted) {
		t.Errorf("status = %q, want accepted", resp.Status)
	}

	// Second accept is illegal from accepted.
	if _, appErr := svc.Accept(context.Background(), id, recipient); appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
		t.Errorf("double accept: appErr = %v, want %s", appErr, errors.ErrInvalidStateTransition)
	}

	kinds := gateway.kinds()
	if len(kinds) != 2 || kinds[1] != EventMeetingAccepted {
		t.Errorf("events = %v", kinds)
	}
}

func TestAcceptLosesToAcceptedOverlap(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, _ := newTestService(repo)

	recipient := uuid.New()
	date := futureDate(t)

	first, _ := svc.Create(context.Background(), uuid.New(), createRequest(recipient, date))
	second, _ := svc.Create(context.Background(), uuid.New(), createRequest(recipient, date))

	if _, appErr := svc.Accept(context.Background(), uuid.MustParse(first.ID), recipient); appErr != nil {
		t.Fatalf("accept first: %v", appErr)
	}

	_, appErr := svc.Accept(context.Background(), uuid.MustParse(second.ID), recipient)
	if appErr == nil || appErr.Code != errors.ErrConflict {
		t.Fatalf("accept second: appErr = %v, want %s", appErr, errors.ErrConflict)
	}
}

func TestDeclineMeeting(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, _ := newTestService(repo)

	requestor := uuid.New()
	recipient := uuid.New()

	created, _ := svc.Create(context.Background(), requestor, createRequest(recipient, futureDate(t)))
	id := uuid.MustParse(created.ID)

	if _, appErr := svc.Decline(context.Background(), id, recipient, ""); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("empty reason: appErr = %v, want %s", appErr, errors.ErrInvalidInput)
	}
	if _, appErr := svc.Decline(context.Background(), id, requestor, "busy"); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("requestor decline: appErr = %v, want %s", appErr, errors.ErrForbidden)
	}

	resp, appErr := svc.Decline(context.Background(), id, recipient, "Fully booked that week")
	if appErr != nil {
		t.Fatalf("Decline: %v", appErr)
	}
	if resp.Status != string(entity.MeetingStatusDeclined) {
		t.Errorf("status = %q, want declined", resp.Status)
	}
	if resp.DeclineReason != "Fully booked that week" {
		t.Errorf("reason = %q", resp.DeclineReason)
	}
}

func TestCancelMeeting(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, _ := newTestService(repo)

	requestor := uuid.New()
	recipient := uuid.New()
	date := futureDate(t)

	// Requested meetings can be cancelled by either side.
	created, _ := svc.Create(context.Background(), requestor, createRequest(recipient, date))
	if _, appErr := svc.Cancel(context.Background(), uuid.MustParse(created.ID), requestor); appErr != nil {
		t.Fatalf("cancel requested: %v", appErr)
	}

	// Accepted meetings too.
	req := createRequest(recipient, date)
	req.StartTime = "13:00"
	req.EndTime = "14:00"
	created, _ = svc.Create(context.Background(), requestor, req)
	id := uuid.MustParse(created.ID)
	if _, appErr := svc.Accept(context.Background(), id, recipient); appErr != nil {
		t.Fatalf("Accept: %v", appErr)
	}
	resp, appErr := svc.Cancel(context.Background(), id, recipient)
	if appErr != nil {
		t.Fatalf("cancel accepted: %v", appErr)
	}
	if resp.Status != string(entity.MeetingStatusCancelled) {
		t.Errorf("status = %q, want cancelled", resp.Status)
	}

	// Terminal states stay terminal.
	if _, appErr := svc.Cancel(context.Background(), id, recipient); appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
		t.Errorf("cancel cancelled: appErr = %v, want %s", appErr, errors.ErrInvalidStateTransition)
	}

	// Outsiders cannot cancel.
	created, _ = svc.Create(context.Background(), requestor, func() *dto.CreateMeetingRequest {
		r := createRequest(recipient, date)
		r.StartTime = "15:00"
		r.EndTime = "16:00"
		return r
	}())
	if _, appErr := svc.Cancel(context.Background(), uuid.MustParse(created.ID), uuid.New()); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("outsider cancel: appErr = %v, want %s", appErr, errors.ErrForbidden)
	}
}

func TestConcurrentAcceptExactlyOneWinner(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, _ := newTestService(repo)

	requestor := uuid.New()
	recipient := uuid.New()
	created, _ := svc.Create(context.Background(), requestor, createRequest(recipient, futureDate(t)))
	id := uuid.MustParse(created.ID)

	const attempts = 8
	results := make(chan *errors.AppError, attempts)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, appErr := svc.Accept(context.Background(), id, recipient)
			results <- appErr
		}()
	}
	start.Done()

	wins, stale := 0, 0
	for i := 0; i < attempts; i++ {
		appErr := <-results
		switch {
		case appErr == nil:
			wins++
		case appErr.Code == errors.ErrStaleState || appErr.Code == errors.ErrInvalidStateTransition:
			stale++
		default:
			t.Errorf("unexpected error: %v", appErr)
		}
	}
	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1 (stale: %d)", wins, stale)
	}
}

func TestCompleteElapsed(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc, gateway := newTestService(repo)

	requestor := uuid.New()
	recipient := uuid.New()

	yesterday := time.Now().AddDate(0, 0, -1)
	elapsed := &entity.Meeting{
		RequestorID: requestor,
		RecipientID: recipient,
		MeetingDate: yesterday,
		StartTime:   "09:00",
		EndTime:     "10:00",
		Title:       "Past session",
		MeetingType: entity.MeetingTypeStudentCounselor,
		Status:      entity.MeetingStatusAccepted,
	}
	stored, _ := repo.Create(context.Background(), elapsed)

	stillPending := *elapsed
	stillPending.Status = entity.MeetingStatusRequested
	pendingStored, _ := repo.Create(context.Background(), &stillPending)

	count, appErr := svc.CompleteElapsed(context.Background(), time.Now())
	if appErr != nil {
		t.Fatalf("CompleteElapsed: %v", appErr)
	}
	if count != 1 {
		t.Fatalf("completed = %d, want 1", count)
	}

	got, _ := repo.GetByID(context.Background(), stored.ID)
	if got.Status != entity.MeetingStatusCompleted {
		t.Errorf("elapsed status = %s, want completed", got.Status)
	}
	pending, _ := repo.GetByID(context.Background(), pendingStored.ID)
	if pending.Status != entity.MeetingStatusRequested {
		t.Errorf("requested meeting was touched: %s", pending.Status)
	}

	// Both participants hear about completion.
	completedEvents := 0
	for _, k := range gateway.kinds() {
		if k == EventMeetingCompleted {
			completedEvents++
		}
	}
	if completedEvents != 2 {
		t.Errorf("completed events = %d, want 2", completedEvents)
	}

	// A second sweep is a no-op.
	count, appErr = svc.CompleteElapsed(context.Background(), time.Now())
	if appErr != nil {
		t.Fatalf("second sweep: %v", appErr)
	}
	if count != 0 {
		t.Errorf("second sweep completed = %d, want 0", count)
	}
}
