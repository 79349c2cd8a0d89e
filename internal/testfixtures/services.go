package testfixtures

import (
	"log/slog"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/application"
	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// EmployeeServiceDeps captures dependencies for constructing an employee service.
type EmployeeServiceDeps struct {
	Employees   application.EmployeeDirectory
	Schedules   persistence.ScheduleRepository
	Vacations   persistence.VacationRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewEmployeeService builds an employee service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewEmployeeService(deps EmployeeServiceDeps) *application.EmployeeService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewEmployeeService(
		deps.Employees,
		deps.Schedules,
		deps.Vacations,
		idGen,
		now,
		deps.Logger,
	)
}

// CalendarServiceDeps captures dependencies for constructing a calendar service.
type CalendarServiceDeps struct {
	CalendarDays persistence.CalendarDayRepository
	Meetings     persistence.MeetingRepository
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewCalendarService builds a calendar service using the supplied dependencies.
func (f *ServiceFactory) NewCalendarService(deps CalendarServiceDeps) *application.CalendarService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewCalendarService(
		deps.CalendarDays,
		deps.Meetings,
		now,
		deps.Logger,
	)
}

// StatusServiceDeps captures dependencies for constructing a status service.
type StatusServiceDeps struct {
	Schedules persistence.ScheduleRepository
	Vacations persistence.VacationRepository
	Now       func() time.Time
	Logger    *slog.Logger
}

// NewStatusService builds a status service using the supplied dependencies.
func (f *ServiceFactory) NewStatusService(deps StatusServiceDeps) *application.StatusService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewStatusService(
		deps.Schedules,
		deps.Vacations,
		now,
		deps.Logger,
	)
}
