package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

type calendarDayRepoStub struct {
	days      []persistence.CalendarDay
	err       error
	listCalls int
}

func (s *calendarDayRepoStub) UpsertCalendarDay(ctx context.Context, day persistence.CalendarDay) error {
	return s.err
}

func (s *calendarDayRepoStub) ListCalendarDays(ctx context.Context, employeeID string, rng persistence.DayRange) ([]persistence.CalendarDay, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]persistence.CalendarDay, 0, len(s.days))
	for _, day := range s.days {
		if rng.From != nil && day.Day.Before(*rng.From) {
			continue
		}
		if rng.To != nil && day.Day.After(*rng.To) {
			continue
		}
		out = append(out, day)
	}
	return out, nil
}

type meetingRepoStub struct {
	meetings []persistence.Meeting
	err      error
}

func (s *meetingRepoStub) CreateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	return s.err
}

func (s *meetingRepoStub) UpdateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	return s.err
}

func (s *meetingRepoStub) GetMeeting(ctx context.Context, id string) (persistence.Meeting, error) {
	if s.err != nil {
		return persistence.Meeting{}, s.err
	}
	return persistence.Meeting{}, persistence.ErrNotFound
}

func (s *meetingRepoStub) ListMeetings(ctx context.Context, filter persistence.MeetingFilter) ([]persistence.Meeting, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]persistence.Meeting, len(s.meetings))
	copy(out, s.meetings)
	return out, nil
}

func (s *meetingRepoStub) DeleteMeeting(ctx context.Context, id string) error {
	return s.err
}

func calendarNow() time.Time {
	return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
}

func TestCalendarService_MonthGrid(t *testing.T) {
	t.Parallel()

	days := &calendarDayRepoStub{days: []persistence.CalendarDay{
		{
			EmployeeID:    "emp-1",
			Day:           time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC),
			IsVacation:    true,
			TaskDeadlines: []persistence.TaskLink{{ID: "t-1", Name: "Report"}},
		},
	}}
	svc := NewCalendarService(days, &meetingRepoStub{}, calendarNow, nil)

	cells, err := svc.MonthGrid(context.Background(), MonthGridParams{
		EmployeeID: "emp-1",
		Year:       2025,
		Month:      time.March,
	})
	if err != nil {
		t.Fatalf("MonthGrid returned error: %v", err)
	}
	if len(cells) != 31 {
		t.Fatalf("expected 31 cells for March, got %d", len(cells))
	}
	if !cells[13].IsToday {
		t.Fatalf("expected March 14 marked as today")
	}

	march20 := cells[19]
	if !march20.IsVacation || !march20.HasEvents {
		t.Fatalf("expected March 20 vacation with events, got %+v", march20)
	}
}

func TestCalendarService_UpcomingEvents(t *testing.T) {
	t.Parallel()

	days := &calendarDayRepoStub{days: []persistence.CalendarDay{
		{
			EmployeeID:    "emp-1",
			Day:           time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
			TaskDeadlines: []persistence.TaskLink{{ID: "t-1", Name: "Report"}},
		},
	}}
	meetings := &meetingRepoStub{meetings: []persistence.Meeting{
		{
			ID:             "m-1",
			Name:           "Standup",
			StartsAt:       time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC),
			ParticipantIDs: []string{"emp-1"},
		},
	}}
	svc := NewCalendarService(days, meetings, calendarNow, nil)

	timeline, err := svc.UpcomingEvents(context.Background(), UpcomingEventsParams{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("UpcomingEvents returned error: %v", err)
	}
	if timeline.Empty {
		t.Fatalf("expected non-empty timeline")
	}
	if len(timeline.Days) != 1 {
		t.Fatalf("expected one day group, got %d", len(timeline.Days))
	}
	if got := len(timeline.Days[0].Events); got != 2 {
		t.Fatalf("expected deadline plus meeting, got %d events", got)
	}
}

func TestCalendarService_UpcomingEvents_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	days := &calendarDayRepoStub{}
	svc := NewCalendarService(days, &meetingRepoStub{}, calendarNow, nil)

	params := UpcomingEventsParams{EmployeeID: "emp-1"}
	if _, err := svc.UpcomingEvents(context.Background(), params); err != nil {
		t.Fatalf("first call returned error: %v", err)
	}
	if _, err := svc.UpcomingEvents(context.Background(), params); err != nil {
		t.Fatalf("second call returned error: %v", err)
	}
	if days.listCalls != 1 {
		t.Fatalf("expected repository hit once, got %d", days.listCalls)
	}

	svc.InvalidateCache()
	if _, err := svc.UpcomingEvents(context.Background(), params); err != nil {
		t.Fatalf("post-invalidate call returned error: %v", err)
	}
	if days.listCalls != 2 {
		t.Fatalf("expected repository hit after invalidation, got %d calls", days.listCalls)
	}
}

func TestCalendarService_UpcomingEventsICS(t *testing.T) {
	t.Parallel()

	meetings := &meetingRepoStub{meetings: []persistence.Meeting{
		{
			ID:             "m-1",
			Name:           "Planning",
			StartsAt:       time.Date(2025, time.March, 17, 11, 0, 0, 0, time.UTC),
			ParticipantIDs: []string{"emp-1"},
		},
	}}
	svc := NewCalendarService(&calendarDayRepoStub{}, meetings, calendarNow, nil)

	document, err := svc.UpcomingEventsICS(context.Background(), UpcomingEventsParams{EmployeeID: "emp-1"}, "Upcoming")
	if err != nil {
		t.Fatalf("UpcomingEventsICS returned error: %v", err)
	}
	if !strings.Contains(document, "BEGIN:VCALENDAR") {
		t.Fatalf("expected calendar envelope, got %q", document)
	}
	if !strings.Contains(document, "SUMMARY:Planning") {
		t.Fatalf("expected meeting summary, got %q", document)
	}
}
