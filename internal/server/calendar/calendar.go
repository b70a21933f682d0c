// Package calendar renders schedules as an iCalendar (RFC 5545) feed.
package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/dmitrijs2005/gophcal/internal/server/schedules"
	"github.com/emersion/go-ical"
)

const (
	ProductID = "-//gophcal//Schedules//EN"

	// MIMEType is the Content-Type of a rendered feed.
	MIMEType = ical.MIMEType
)

// UID returns the stable event UID of a schedule.
func UID(id int) string {
	return fmt.Sprintf("schedule-%d@%s", id, common.ServiceName)
}

// start parses a schedule date. A bare date becomes an all-day value.
func start(date string) (t time.Time, allDay, ok bool) {
	if d, err := time.Parse(time.DateOnly, date); err == nil {
		return d, true, true
	}
	if dt, err := time.Parse(time.RFC3339, date); err == nil {
		return dt.UTC(), false, true
	}
	return time.Time{}, false, false
}

// Build converts items to a calendar. Schedules whose date is neither
// YYYY-MM-DD nor RFC 3339 are skipped.
func Build(items []schedules.Schedule, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, s := range items {
		t, allDay, ok := start(s.Date)
		if !ok {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, UID(s.ID))
		event.Props.SetText(ical.PropSummary, s.Title)
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

		if allDay {
			event.Props.Add(&ical.Prop{
				Name:   ical.PropDateTimeStart,
				Params: ical.Params{"VALUE": []string{"DATE"}},
				Value:  t.Format("20060102"),
			})
		} else {
			event.Props.SetDateTime(ical.PropDateTimeStart, t)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	return cal
}

// emptyFeed is written when no schedule has a usable date. The ical
// encoder refuses a VCALENDAR without components.
const emptyFeed = "BEGIN:VCALENDAR\r\n" +
	"PRODID:" + ProductID + "\r\n" +
	"VERSION:2.0\r\n" +
	"END:VCALENDAR\r\n"

// Render writes the feed for items to w.
func Render(w io.Writer, items []schedules.Schedule, now time.Time) error {
	cal := Build(items, now)
	if len(cal.Children) == 0 {
		if _, err := io.WriteString(w, emptyFeed); err != nil {
			return fmt.Errorf("write calendar: %w", err)
		}
		return nil
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
