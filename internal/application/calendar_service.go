package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/agenda"
	"github.com/Gn4ik/sync-project-tracker/internal/monthgrid"
	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

// CalendarService loads the per-employee calendar data and feeds it through
// the pure month-grid and aggregation cores. Every call takes a fresh
// snapshot of the repositories; the only state kept between calls is the
// short-lived timeline cache.
type CalendarService struct {
	calendarDays persistence.CalendarDayRepository
	meetings     persistence.MeetingRepository
	now          func() time.Time
	logger       *slog.Logger
	cache        *timelineCache
}

// NewCalendarService wires dependencies for the calendar views.
func NewCalendarService(calendarDays persistence.CalendarDayRepository, meetings persistence.MeetingRepository, now func() time.Time, logger *slog.Logger) *CalendarService {
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		calendarDays: calendarDays,
		meetings:     meetings,
		now:          now,
		logger:       logger,
		cache:        newTimelineCache(30*time.Second, 64, now),
	}
}

// MonthGrid builds the classified cells for the requested month.
func (s *CalendarService) MonthGrid(ctx context.Context, params MonthGridParams) ([]monthgrid.DayCell, error) {
	if s == nil || s.calendarDays == nil {
		return nil, fmt.Errorf("calendar repository not configured")
	}

	now := s.now()
	from := time.Date(params.Year, params.Month, 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)

	records, err := s.calendarDays.ListCalendarDays(ctx, params.EmployeeID, persistence.DayRange{From: &from, To: &to})
	if err != nil {
		return nil, mapRepoError(err)
	}

	facts := make([]monthgrid.DayFacts, 0, len(records))
	for _, record := range records {
		facts = append(facts, monthgrid.DayFacts{
			Day:        record.Day,
			IsWeekend:  record.IsWeekend,
			IsVacation: record.IsVacation,
			HasEvents:  len(record.TaskDeadlines)+len(record.Timesheet)+len(record.ActiveTasks) > 0,
		})
	}

	return monthgrid.BuildMonthGrid(params.Year, params.Month, facts, now, params.SelectedTask), nil
}

// UpcomingEvents aggregates the employee's rolling event window. Results are
// memoized briefly so repeated panel refreshes between data changes do not
// re-query the repositories.
func (s *CalendarService) UpcomingEvents(ctx context.Context, params UpcomingEventsParams) (agenda.Timeline, error) {
	if s == nil || s.calendarDays == nil || s.meetings == nil {
		return agenda.Timeline{}, fmt.Errorf("calendar repositories not configured")
	}

	key := cacheKey(params)
	if timeline, ok := s.cache.Get(key); ok {
		return timeline, nil
	}

	now := s.now()
	windowDays := params.WindowDays
	if windowDays <= 0 {
		windowDays = agenda.DefaultWindowDays
	}
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, windowDays)

	records, err := s.calendarDays.ListCalendarDays(ctx, params.EmployeeID, persistence.DayRange{From: &from, To: &to})
	if err != nil {
		return agenda.Timeline{}, mapRepoError(err)
	}

	meetings, err := s.meetings.ListMeetings(ctx, persistence.MeetingFilter{
		ParticipantID: params.EmployeeID,
		StartsAfter:   &from,
		EndsBefore:    &to,
	})
	if err != nil {
		return agenda.Timeline{}, mapRepoError(err)
	}

	timeline := agenda.Aggregate(params.EmployeeID, toDayRecords(records), toAgendaMeetings(meetings), now, agenda.Options{
		WindowDays:           windowDays,
		HighlightedMeetingID: params.HighlightedMeetingID,
	})

	for _, warning := range timeline.Warnings {
		serviceLogger(ctx, s.logger, "calendar", "upcoming_events",
			"employee_id", params.EmployeeID).Warn("skipped event source", "warning", warning)
	}

	s.cache.Store(key, timeline)
	return timeline, nil
}

// UpcomingEventsICS renders the aggregated window as an iCalendar document.
func (s *CalendarService) UpcomingEventsICS(ctx context.Context, params UpcomingEventsParams, calendarName string) (string, error) {
	timeline, err := s.UpcomingEvents(ctx, params)
	if err != nil {
		return "", err
	}
	return agenda.ToICS(timeline, calendarName), nil
}

// InvalidateCache drops memoized timelines, e.g. after a data refresh.
func (s *CalendarService) InvalidateCache() {
	s.cache.Invalidate()
}

func cacheKey(params UpcomingEventsParams) string {
	return fmt.Sprintf("%s|%d|%s", params.EmployeeID, params.WindowDays, params.HighlightedMeetingID)
}

func toDayRecords(records []persistence.CalendarDay) []agenda.DayRecord {
	out := make([]agenda.DayRecord, 0, len(records))
	for _, record := range records {
		out = append(out, agenda.DayRecord{
			Day:           record.Day,
			IsVacation:    record.IsVacation,
			IsWeekend:     record.IsWeekend,
			TaskDeadlines: toTaskRefs(record.TaskDeadlines),
			Timesheet:     toTimesheet(record.Timesheet),
			ActiveTasks:   toTaskRefs(record.ActiveTasks),
		})
	}
	return out
}

func toTaskRefs(links []persistence.TaskLink) []agenda.TaskRef {
	if len(links) == 0 {
		return nil
	}
	refs := make([]agenda.TaskRef, 0, len(links))
	for _, link := range links {
		refs = append(refs, agenda.TaskRef{ID: link.ID, Name: link.Name, Link: link.Link})
	}
	return refs
}

func toTimesheet(items []persistence.TimesheetItem) []agenda.TimesheetEntry {
	if len(items) == 0 {
		return nil
	}
	entries := make([]agenda.TimesheetEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, agenda.TimesheetEntry{Time: item.Time, Label: item.Label, Link: item.Link})
	}
	return entries
}

func toAgendaMeetings(meetings []persistence.Meeting) []agenda.Meeting {
	out := make([]agenda.Meeting, 0, len(meetings))
	for _, meeting := range meetings {
		out = append(out, agenda.Meeting{
			ID:             meeting.ID,
			Name:           meeting.Name,
			Description:    meeting.Description,
			StartsAt:       meeting.StartsAt.Format(time.RFC3339),
			CreatorID:      meeting.CreatorID,
			Link:           meeting.Link,
			ParticipantIDs: meeting.ParticipantIDs,
		})
	}
	return out
}
