package calendar

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/emersion/go-ical"
)

// productID identifies meetlink as the producer of exported calendars.
const productID = "-//teemow//meetlink//EN"

// WriteICS writes the created meeting as a single-event iCalendar file so it
// can be shared with people outside the calendar. Times are written in UTC.
func WriteICS(w io.Writer, input MeetingInput, result *MeetingResult, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, result.EventID+"@google.com")
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, input.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, input.End.UTC())
	event.Props.SetText(ical.PropSummary, input.Summary)

	description := input.Description
	if result.MeetLink != "" {
		event.Props.SetText(ical.PropLocation, result.MeetLink)
		if description != "" {
			description += "\n\n"
		}
		description += "Join with Google Meet: " + result.MeetLink
	}
	if description != "" {
		event.Props.SetText(ical.PropDescription, description)
	}

	if result.HTMLLink != "" {
		u, err := url.Parse(result.HTMLLink)
		if err != nil {
			return fmt.Errorf("invalid event link %q: %w", result.HTMLLink, err)
		}
		event.Props.SetURI(ical.PropURL, u)
	}

	for _, email := range input.Attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.SetValueType(ical.ValueCalendarAddress)
		prop.Value = "mailto:" + email
		event.Props.Add(prop)
	}

	cal.Children = append(cal.Children, event.Component)

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode iCalendar: %w", err)
	}
	return nil
}
