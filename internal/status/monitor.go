package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Gn4ik/sync-project-tracker/internal/vacation"
	"github.com/Gn4ik/sync-project-tracker/internal/workday"
)

// FetchFunc loads the schedule and vacation ranges for an employee. It is
// expected to complete-or-fail before resolution; the resolver itself does no
// I/O.
type FetchFunc func(ctx context.Context, employeeID string) (workday.WeeklySchedule, []vacation.Range, error)

// NotifyFunc receives every freshly resolved snapshot.
type NotifyFunc func(employeeID string, snapshot Snapshot)

// Monitor re-resolves the selected employee's status on a fixed interval and
// whenever the selection changes. Each tick takes a full snapshot of the
// inputs; no state carries over between evaluations beyond the last result.
type Monitor struct {
	fetch  FetchFunc
	notify NotifyFunc
	now    func() time.Time
	logger *slog.Logger
	cron   *cron.Cron

	mu         sync.Mutex
	employeeID string
	last       Snapshot
	hasLast    bool
}

// NewMonitor wires a monitor. The notify callback may be nil when callers
// only poll Last.
func NewMonitor(fetch FetchFunc, notify NotifyFunc, now func() time.Time, logger *slog.Logger) *Monitor {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		fetch:  fetch,
		notify: notify,
		now:    now,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start schedules the periodic re-evaluation. An empty spec falls back to the
// one-minute cadence of the employee-info panel.
func (m *Monitor) Start(spec string) error {
	if spec == "" {
		spec = "@every 1m"
	}
	if _, err := m.cron.AddFunc(spec, m.Refresh); err != nil {
		return fmt.Errorf("status: schedule refresh: %w", err)
	}
	m.cron.Start()
	return nil
}

// Stop halts the periodic re-evaluation and waits for a running tick.
func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

// SelectEmployee switches the monitored employee and re-resolves immediately.
func (m *Monitor) SelectEmployee(employeeID string) {
	m.mu.Lock()
	m.employeeID = employeeID
	m.hasLast = false
	m.mu.Unlock()

	m.Refresh()
}

// Refresh performs one evaluation pass outside the periodic schedule.
func (m *Monitor) Refresh() {
	m.mu.Lock()
	employeeID := m.employeeID
	m.mu.Unlock()

	if employeeID == "" || m.fetch == nil {
		return
	}

	schedule, ranges, err := m.fetch(context.Background(), employeeID)
	if err != nil {
		m.logger.Warn("status refresh failed, keeping previous snapshot",
			"employee_id", employeeID, "error", err)
		return
	}

	snapshot := Resolve(schedule, ranges, m.now())
	if snapshot.Diagnostic != "" {
		m.logger.Warn("schedule configuration problem",
			"employee_id", employeeID, "diagnostic", snapshot.Diagnostic)
	}

	m.mu.Lock()
	m.last = snapshot
	m.hasLast = true
	notify := m.notify
	m.mu.Unlock()

	if notify != nil {
		notify(employeeID, snapshot)
	}
}

// Last returns the most recent snapshot for the selected employee.
func (m *Monitor) Last() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.hasLast
}
