package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"

	"github.com/Gn4ik/sync-project-tracker/internal/application"
	"github.com/Gn4ik/sync-project-tracker/internal/config"
	"github.com/Gn4ik/sync-project-tracker/internal/logging"
	"github.com/Gn4ik/sync-project-tracker/internal/notify"
	"github.com/Gn4ik/sync-project-tracker/internal/persistence/sqlite"
	"github.com/Gn4ik/sync-project-tracker/internal/status"
)

func main() {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootstrap := logging.NewLogger(os.Stdout, "info")
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}
	now := func() time.Time { return time.Now().In(location) }

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(ctx); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	employeeRepo := sqlite.NewEmployeeRepository(pool)
	scheduleRepo := sqlite.NewScheduleRepository(pool)
	vacationRepo := sqlite.NewVacationRepository(pool)
	calendarRepo := sqlite.NewCalendarDayRepository(pool)
	meetingRepo := sqlite.NewMeetingRepository(pool)

	idGenerator := uuid.NewString

	employeeService := application.NewEmployeeService(employeeRepo, scheduleRepo, vacationRepo, idGenerator, now, logger)
	calendarService := application.NewCalendarService(calendarRepo, meetingRepo, now, logger)
	statusService := application.NewStatusService(scheduleRepo, vacationRepo, now, logger)

	var digest *notify.Digest
	if cfg.DigestEnabled() {
		digest = notify.NewDigest(slack.New(cfg.SlackToken), cfg.SlackChannel, logger)
	}

	var onStatus status.NotifyFunc
	if digest != nil {
		onStatus = func(employeeID string, snapshot status.Snapshot) {
			employee, err := employeeService.GetEmployee(ctx, employeeID)
			if err != nil {
				logger.Warn("failed to resolve employee for status notice",
					"employee_id", employeeID, "error", err)
				return
			}
			digest.SendStatusChange(ctx, employee.FullName, snapshot)
		}
	}

	monitor := status.NewMonitor(statusService.FetchFunc(), onStatus, now, logger)
	if err := monitor.Start(cfg.StatusRefresh); err != nil {
		logger.Error("failed to start status monitor", "error", err)
		os.Exit(1)
	}
	defer monitor.Stop()

	if cfg.DefaultEmployee != "" {
		monitor.SelectEmployee(cfg.DefaultEmployee)
	}

	scheduler := cron.New()
	if digest != nil && cfg.DefaultEmployee != "" {
		if _, err := scheduler.AddFunc(cfg.DigestSchedule, func() {
			sendDigest(ctx, cfg, employeeService, calendarService, digest, logger)
		}); err != nil {
			logger.Error("failed to schedule digest", "spec", cfg.DigestSchedule, "error", err)
			os.Exit(1)
		}
	}
	if cfg.ICSEnabled() && cfg.DefaultEmployee != "" {
		exportICS(ctx, calendarService, cfg, logger)
		if _, err := scheduler.AddFunc(icsRefreshSpec, func() {
			exportICS(ctx, calendarService, cfg, logger)
		}); err != nil {
			logger.Error("failed to schedule ICS export", "spec", icsRefreshSpec, "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	logger.Info("tracker running",
		"dsn", cfg.SQLiteDSN,
		"window_days", cfg.WindowDays,
		"digest", cfg.DigestEnabled())

	<-ctx.Done()
	logger.Info("shutting down")
}

// icsRefreshSpec keeps the exported feed close to the data without rewriting
// the file on every status tick.
const icsRefreshSpec = "@every 15m"

func exportICS(ctx context.Context, calendar *application.CalendarService, cfg config.Config, logger *slog.Logger) {
	document, err := calendar.UpcomingEventsICS(ctx, application.UpcomingEventsParams{
		EmployeeID: cfg.DefaultEmployee,
		WindowDays: cfg.WindowDays,
	}, cfg.CalendarName)
	if err != nil {
		logger.Warn("failed to build ICS feed",
			"employee_id", cfg.DefaultEmployee, "error", err)
		return
	}

	if err := os.WriteFile(cfg.ICSPath, []byte(document), 0o644); err != nil {
		logger.Warn("failed to write ICS feed", "path", cfg.ICSPath, "error", err)
	}
}

func sendDigest(ctx context.Context, cfg config.Config, employees *application.EmployeeService, calendar *application.CalendarService, digest *notify.Digest, logger *slog.Logger) {
	employee, err := employees.GetEmployee(ctx, cfg.DefaultEmployee)
	if err != nil {
		logger.Warn("failed to resolve employee for digest",
			"employee_id", cfg.DefaultEmployee, "error", err)
		return
	}

	timeline, err := calendar.UpcomingEvents(ctx, application.UpcomingEventsParams{
		EmployeeID: cfg.DefaultEmployee,
		WindowDays: cfg.WindowDays,
	})
	if err != nil {
		logger.Warn("failed to aggregate timeline for digest",
			"employee_id", cfg.DefaultEmployee, "error", err)
		return
	}

	digest.SendTimeline(ctx, employee.FullName, timeline)
}
