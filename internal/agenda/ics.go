package agenda

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ToICS serializes a timeline to an iCalendar document so the upcoming-events
// window can be subscribed to from a calendar client. Day-only entries become
// all-day VEVENTs; timed entries get a one-hour default duration.
func ToICS(timeline Timeline, calendarName string) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//sync-project-tracker//agenda//RU")
	if calendarName != "" {
		cal.SetName(calendarName)
		cal.SetXWRCalName(calendarName)
	}

	for _, group := range timeline.Days {
		for i, event := range group.Events {
			ve := cal.AddEvent(icsUID(group, i, event))
			ve.SetSummary(event.Label)
			if event.Link != "" {
				ve.SetURL(event.Link)
			}
			if event.Kind == KindMeeting {
				ve.SetDescription("meeting")
			}

			if event.Time == "" {
				ve.SetAllDayStartAt(group.Day)
				ve.SetAllDayEndAt(group.Day.AddDate(0, 0, 1))
				continue
			}

			start := group.Day
			if t, err := parseMeetingTime(group.Day.Format(dayLayout)+"T"+event.Time+":00", group.Day.Location()); err == nil {
				start = t
			}
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(defaultEventDuration))
		}
	}

	return cal.Serialize()
}

const defaultEventDuration = time.Hour

func icsUID(group DayGroup, index int, event Event) string {
	if event.MeetingID != "" {
		return fmt.Sprintf("meeting-%s@sync-project-tracker", event.MeetingID)
	}
	return fmt.Sprintf("%s-%d@sync-project-tracker", group.Day.Format(dayLayout), index)
}
