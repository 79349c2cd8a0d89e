package status

import (
	"context"
	"testing"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/vacation"
	"github.com/Gn4ik/sync-project-tracker/internal/workday"
)

func weekdaySchedule() workday.WeeklySchedule {
	day := workday.WorkDay{Start: "09:00:00", End: "18:00:00", LunchStart: "13:00:00", LunchEnd: "14:00:00"}
	return workday.WeeklySchedule{
		time.Monday:    day,
		time.Tuesday:   day,
		time.Wednesday: day,
		time.Thursday:  day,
		time.Friday:    day,
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()

	schedule := weekdaySchedule()
	december := []vacation.Range{{
		Start: time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}}

	// 2024-12-25 is a Wednesday inside working hours.
	withinHours := time.Date(2024, time.December, 25, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ranges []vacation.Range
		now    time.Time
		want   Status
	}{
		{"vacation wins over working hours", december, withinHours, StatusOnVacation},
		{"working inside window", nil, withinHours, StatusWorking},
		{"off duty during lunch", nil, time.Date(2024, time.December, 25, 13, 30, 0, 0, time.UTC), StatusOffDuty},
		{"off duty after hours", nil, time.Date(2024, time.December, 25, 19, 0, 0, 0, time.UTC), StatusOffDuty},
		{"off duty on weekend", nil, time.Date(2024, time.December, 28, 10, 0, 0, 0, time.UTC), StatusOffDuty},
		{"vacation wins outside working hours too", december, time.Date(2024, time.December, 21, 3, 0, 0, 0, time.UTC), StatusOnVacation},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			snapshot := Resolve(schedule, tc.ranges, tc.now)
			if snapshot.Status != tc.want {
				t.Fatalf("Resolve = %s, want %s", snapshot.Status, tc.want)
			}
			if !snapshot.EvaluatedAt.Equal(tc.now) {
				t.Fatalf("EvaluatedAt = %v, want %v", snapshot.EvaluatedAt, tc.now)
			}
			if snapshot.Diagnostic != "" {
				t.Fatalf("unexpected diagnostic %q", snapshot.Diagnostic)
			}
		})
	}
}

func TestResolveConfigurationErrorFallsBackToOffDuty(t *testing.T) {
	t.Parallel()

	broken := workday.WeeklySchedule{
		time.Wednesday: {Start: "18:00:00", End: "09:00:00"},
	}
	now := time.Date(2024, time.December, 25, 10, 0, 0, 0, time.UTC)

	snapshot := Resolve(broken, nil, now)
	if snapshot.Status != StatusOffDuty {
		t.Fatalf("expected off-duty fallback, got %s", snapshot.Status)
	}
	if snapshot.Diagnostic == "" {
		t.Fatalf("expected diagnostic for overnight configuration")
	}
}

func TestMonitorRefreshNotifies(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.December, 25, 10, 0, 0, 0, time.UTC)
	fetch := func(ctx context.Context, employeeID string) (workday.WeeklySchedule, []vacation.Range, error) {
		if employeeID != "e1" {
			t.Fatalf("unexpected employee id %q", employeeID)
		}
		return weekdaySchedule(), nil, nil
	}

	var notified []Snapshot
	monitor := NewMonitor(fetch, func(_ string, snapshot Snapshot) {
		notified = append(notified, snapshot)
	}, func() time.Time { return now }, nil)

	monitor.SelectEmployee("e1")

	if len(notified) != 1 {
		t.Fatalf("expected one notification, got %d", len(notified))
	}
	if notified[0].Status != StatusWorking {
		t.Fatalf("expected working snapshot, got %s", notified[0].Status)
	}

	last, ok := monitor.Last()
	if !ok || last.Status != StatusWorking {
		t.Fatalf("expected Last to return the working snapshot")
	}
}

func TestMonitorKeepsLastSnapshotOnFetchError(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.December, 25, 10, 0, 0, 0, time.UTC)
	failing := false
	fetch := func(ctx context.Context, employeeID string) (workday.WeeklySchedule, []vacation.Range, error) {
		if failing {
			return nil, nil, context.DeadlineExceeded
		}
		return weekdaySchedule(), nil, nil
	}

	monitor := NewMonitor(fetch, nil, func() time.Time { return now }, nil)
	monitor.SelectEmployee("e1")

	failing = true
	monitor.Refresh()

	last, ok := monitor.Last()
	if !ok {
		t.Fatalf("expected previous snapshot to survive a failed refresh")
	}
	if last.Status != StatusWorking {
		t.Fatalf("expected working snapshot, got %s", last.Status)
	}
}
