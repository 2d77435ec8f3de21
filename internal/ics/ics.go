// Package ics exports calendar events as an iCalendar payload.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/fentz26/lifeorg/internal/models"
)

const prodID = "-//lifeorg//calendar export//EN"

// Export serializes the given events into a VCALENDAR document. Each
// event becomes one VEVENT; task placements carry their description so
// external calendars show the due date and urgency.
func Export(events []models.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetVersion("2.0")
	cal.SetMethod(ical.MethodPublish)

	for _, ev := range events {
		ve := cal.AddEvent(fmt.Sprintf("%s@lifeorg", ev.ID))
		ve.SetDtStampTime(now)
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
		ve.SetSummary(ev.Name)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
	}

	return cal.Serialize()
}
