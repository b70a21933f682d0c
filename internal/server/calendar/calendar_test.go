package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcal/internal/server/schedules"
	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC)

func TestBuild_SkipsUnparseableDates(t *testing.T) {
	cal := Build([]schedules.Schedule{
		{ID: 1, UserID: 1, Title: "Meeting", Date: "2024-06-01"},
		{ID: 2, UserID: 1, Title: "Someday", Date: "next week"},
		{ID: 3, UserID: 1, Title: "Call", Date: "2024-06-02T09:30:00+02:00"},
	}, now)

	var uids []string
	for _, child := range cal.Children {
		require.Equal(t, ical.CompEvent, child.Name)
		uid, err := child.Props.Text(ical.PropUID)
		require.NoError(t, err)
		uids = append(uids, uid)
	}
	assert.Equal(t, []string{"schedule-1@gophcal", "schedule-3@gophcal"}, uids)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, []schedules.Schedule{
		{ID: 1, UserID: 1, Title: "Meeting", Date: "2024-06-01"},
		{ID: 3, UserID: 1, Title: "Call", Date: "2024-06-02T09:30:00+02:00"},
	}, now)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "PRODID:-//gophcal//Schedules//EN")
	assert.Contains(t, out, "VERSION:2.0")
	assert.Contains(t, out, "UID:schedule-1@gophcal")
	assert.Contains(t, out, "SUMMARY:Meeting")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240601")
	assert.Contains(t, out, "DTSTART:20240602T073000Z")
	assert.Contains(t, out, "DTSTAMP:20240530T080000Z")

	decoded, err := ical.NewDecoder(strings.NewReader(out)).Decode()
	require.NoError(t, err)

	events := 0
	for _, child := range decoded.Children {
		if child.Name == ical.CompEvent {
			events++
		}
	}
	assert.Equal(t, 2, events)
}

func TestRender_NoEvents(t *testing.T) {
	tests := map[string][]schedules.Schedule{
		"no schedules":      nil,
		"only bad dates":    {{ID: 7, UserID: 1, Title: "Someday", Date: "someday"}},
		"empty date string": {{ID: 8, UserID: 1, Title: "Blank", Date: ""}},
	}

	for name, items := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, items, now))
			assert.Equal(t,
				"BEGIN:VCALENDAR\r\nPRODID:-//gophcal//Schedules//EN\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n",
				buf.String())
		})
	}
}
