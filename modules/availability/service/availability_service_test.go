package service

import (
	"context"
	"testing"
	"time"

	"guidia-api/core/errors"
	"guidia-api/modules/availability/dto"
	"guidia-api/modules/availability/entity"

	"github.com/google/uuid"
)

// fakeWindowRepo stores windows in memory.
type fakeWindowRepo struct {
	windows []entity.AvailabilityWindow
}

func (r *fakeWindowRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entity.AvailabilityWindow, error) {
	var out []entity.AvailabilityWindow
	for _, w := range r.windows {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWindowRepo) ListForDay(_ context.Context, userID uuid.UUID, date time.Time) ([]entity.AvailabilityWindow, error) {
	var out []entity.AvailabilityWindow
	for _, w := range r.windows {
		if w.UserID != userID {
			continue
		}
		if w.Date != nil {
			if w.Date.Equal(date) {
				out = append(out, w)
			}
			continue
		}
		if w.DayOfWeek != nil && *w.DayOfWeek == int(date.Weekday()) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWindowRepo) ReplaceRecurring(_ context.Context, userID uuid.UUID, windows []entity.AvailabilityWindow) error {
	kept := r.windows[:0]
	for _, w := range r.windows {
		if w.UserID != userID || w.Date != nil {
			kept = append(kept, w)
		}
	}
	r.windows = kept
	for _, w := range windows {
		w.ID = uuid.New()
		r.windows = append(r.windows, w)
	}
	return nil
}

func (r *fakeWindowRepo) CreateException(_ context.Context, window *entity.AvailabilityWindow) (*entity.AvailabilityWindow, error) {
	w := *window
	w.ID = uuid.New()
	r.windows = append(r.windows, w)
	copied := w
	return &copied, nil
}

func (r *fakeWindowRepo) Delete(_ context.Context, userID, windowID uuid.UUID) (bool, error) {
	for i, w := range r.windows {
		if w.ID == windowID && w.UserID == userID {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func recurring(userID uuid.UUID, day int, start, end string) entity.AvailabilityWindow {
	d := day
	return entity.AvailabilityWindow{
		ID:        uuid.New(),
		UserID:    userID,
		DayOfWeek: &d,
		StartTime: start,
		EndTime:   end,
	}
}

func exception(userID uuid.UUID, date time.Time, start, end string, blocked bool) entity.AvailabilityWindow {
	d := date
	return entity.AvailabilityWindow{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      &d,
		StartTime: start,
		EndTime:   end,
		IsBlocked: blocked,
	}
}

// nextWeekday returns the next future date falling on the given weekday.
func nextWeekday(day time.Weekday) time.Time {
	d := time.Now().AddDate(0, 0, 1)
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestIsAvailableRecurring(t *testing.T) {
	userID := uuid.New()
	monday := nextWeekday(time.Monday)
	repo := &fakeWindowRepo{windows: []entity.AvailabilityWindow{
		recurring(userID, int(time.Monday), "09:00", "12:00"),
		recurring(userID, int(time.Monday), "13:00", "17:00"),
	}}
	svc := NewAvailabilityService(repo)

	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"inside morning", "09:30", "10:30", true},
		{"exact window", "09:00", "12:00", true},
		{"spans the gap", "11:00", "14:00", false},
		{"before opening", "08:00", "09:30", false},
		{"after closing", "16:30", "18:00", false},
		{"inside afternoon", "13:00", "13:30", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, appErr := svc.IsAvailable(context.Background(), userID, monday, tc.start, tc.end)
			if appErr != nil {
				t.Fatalf("IsAvailable: %v", appErr)
			}
			if got != tc.want {
				t.Errorf("IsAvailable(%s-%s) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}

	// No declared windows on Tuesday at all.
	tuesday := nextWeekday(time.Tuesday)
	got, _ := svc.IsAvailable(context.Background(), userID, tuesday, "09:30", "10:30")
	if got {
		t.Error("available on a day with no windows")
	}
}

func TestIsAvailableMergesAdjacentWindows(t *testing.T) {
	userID := uuid.New()
	monday := nextWeekday(time.Monday)
	repo := &fakeWindowRepo{windows: []entity.AvailabilityWindow{
		recurring(userID, int(time.Monday), "09:00", "11:00"),
		recurring(userID, int(time.Monday), "11:00", "13:00"),
	}}
	svc := NewAvailabilityService(repo)

	got, appErr := svc.IsAvailable(context.Background(), userID, monday, "10:00", "12:00")
	if appErr != nil {
		t.Fatalf("IsAvailable: %v", appErr)
	}
	if !got {
		t.Error("interval across two touching windows should be available")
	}
}

func TestIsAvailableExceptionPrecedence(t *testing.T) {
	userID := uuid.New()
	monday := nextWeekday(time.Monday)

	// Open exception replaces the recurring schedule for that date.
	repo := &fakeWindowRepo{windows: []entity.AvailabilityWindow{
		recurring(userID, int(time.Monday), "09:00", "17:00"),
		exception(userID, monday, "18:00", "20:00", false),
	}}
	svc := NewAvailabilityService(repo)

	got, _ := svc.IsAvailable(context.Background(), userID, monday, "10:00", "11:00")
	if got {
		t.Error("recurring window should be ignored when open exceptions exist")
	}
	got, _ = svc.IsAvailable(context.Background(), userID, monday, "18:00", "19:00")
	if !got {
		t.Error("open exception window should be available")
	}
}

func TestIsAvailableBlockedException(t *testing.T) {
	userID := uuid.New()
	monday := nextWeekday(time.Monday)
	repo := &fakeWindowRepo{windows: []entity.AvailabilityWindow{
		recurring(userID, int(time.Monday), "09:00", "17:00"),
		exception(userID, monday, "12:00", "13:00", true),
	}}
	svc := NewAvailabilityService(repo)

	got, _ := svc.IsAvailable(context.Background(), userID, monday, "12:30", "13:30")
	if got {
		t.Error("blocked exception should veto the overlapping interval")
	}
	got, _ = svc.IsAvailable(context.Background(), userID, monday, "13:00", "14:00")
	if !got {
		t.Error("interval adjacent to the block should stay available")
	}
}

func TestSetWindows(t *testing.T) {
	userID := uuid.New()
	repo := &fakeWindowRepo{}
	svc := NewAvailabilityService(repo)

	resp, appErr := svc.SetWindows(context.Background(), userID, &dto.SetWindowsRequest{
		Windows: []dto.WindowInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
			{DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00"},
			{DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00"},
		},
	})
	if appErr != nil {
		t.Fatalf("SetWindows: %v", appErr)
	}
	if len(resp.Recurring) != 3 {
		t.Errorf("recurring = %d, want 3", len(resp.Recurring))
	}

	// Replacing replaces, not appends.
	resp, appErr = svc.SetWindows(context.Background(), userID, &dto.SetWindowsRequest{
		Windows: []dto.WindowInput{{DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00"}},
	})
	if appErr != nil {
		t.Fatalf("SetWindows replace: %v", appErr)
	}
	if len(resp.Recurring) != 1 {
		t.Errorf("recurring after replace = %d, want 1", len(resp.Recurring))
	}
}

func TestSetWindowsValidation(t *testing.T) {
	svc := NewAvailabilityService(&fakeWindowRepo{})
	userID := uuid.New()

	cases := []struct {
		name    string
		windows []dto.WindowInput
	}{
		{"day out of range", []dto.WindowInput{{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}}},
		{"inverted range", []dto.WindowInput{{DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"}}},
		{"overlap same day", []dto.WindowInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
			{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, appErr := svc.SetWindows(context.Background(), userID, &dto.SetWindowsRequest{Windows: tc.windows})
			if appErr == nil || appErr.Code != errors.ErrInvalidInput {
				t.Errorf("appErr = %v, want %s", appErr, errors.ErrInvalidInput)
			}
		})
	}

	// Same interval on different days is fine.
	_, appErr := svc.SetWindows(context.Background(), userID, &dto.SetWindowsRequest{
		Windows: []dto.WindowInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "11:00"},
		},
	})
	if appErr != nil {
		t.Errorf("distinct days rejected: %v", appErr)
	}
}

func TestAddException(t *testing.T) {
	userID := uuid.New()
	repo := &fakeWindowRepo{}
	svc := NewAvailabilityService(repo)

	date := nextWeekday(time.Friday).Format("2006-01-02")
	resp, appErr := svc.AddException(context.Background(), userID, &dto.AddExceptionRequest{
		Date: date, StartTime: "09:00", EndTime: "10:00",
	})
	if appErr != nil {
		t.Fatalf("AddException: %v", appErr)
	}
	if resp.Date != date {
		t.Errorf("date = %q, want %q", resp.Date, date)
	}

	// Overlapping exception of the same kind on the same date is rejected.
	_, appErr = svc.AddException(context.Background(), userID, &dto.AddExceptionRequest{
		Date: date, StartTime: "09:30", EndTime: "10:30",
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("overlap: appErr = %v, want %s", appErr, errors.ErrInvalidInput)
	}

	// A blocking exception over the same interval is a different kind.
	_, appErr = svc.AddException(context.Background(), userID, &dto.AddExceptionRequest{
		Date: date, StartTime: "09:00", EndTime: "10:00", IsBlocked: true,
	})
	if appErr != nil {
		t.Errorf("blocked over open rejected: %v", appErr)
	}
}

func TestDeleteWindow(t *testing.T) {
	userID := uuid.New()
	w := recurring(userID, 1, "09:00", "10:00")
	repo := &fakeWindowRepo{windows: []entity.AvailabilityWindow{w}}
	svc := NewAvailabilityService(repo)

	if appErr := svc.DeleteWindow(context.Background(), uuid.New(), w.ID); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("foreign delete: appErr = %v, want %s", appErr, errors.ErrNotFound)
	}
	if appErr := svc.DeleteWindow(context.Background(), userID, w.ID); appErr != nil {
		t.Fatalf("DeleteWindow: %v", appErr)
	}
	if appErr := svc.DeleteWindow(context.Background(), userID, w.ID); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("second delete: appErr = %v, want %s", appErr, errors.ErrNotFound)
	}
}
