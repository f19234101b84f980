package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	calendar "google.golang.org/api/calendar/v3"
)

const (
	// DefaultCalendarID is the authenticated user's primary calendar.
	DefaultCalendarID = "primary"

	// DefaultConferenceType requests a Google Meet conference.
	DefaultConferenceType = "hangoutsMeet"

	// DefaultTimeZone is used when the input names none.
	DefaultTimeZone = "UTC"

	// dateTimeLayout is the wall-clock form sent alongside an explicit time zone.
	dateTimeLayout = "2006-01-02T15:04:05"
)

// ErrInvalidMeeting is returned when a MeetingInput cannot produce an event.
var ErrInvalidMeeting = errors.New("invalid meeting")

// MeetingInput describes the event to create
type MeetingInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time

	// TimeZone is an IANA zone name. Start and End are expressed as wall
	// clock time in this zone.
	TimeZone string

	// RequestID identifies the conference-create request. A random UUID is
	// used when empty.
	RequestID string

	// ConferenceType is the conference solution key, hangoutsMeet by default.
	ConferenceType string

	Attendees []string
}

// MeetingResult is what the provider returned for the created event
type MeetingResult struct {
	EventID  string
	HTMLLink string

	// MeetLink is empty when the provider generated no meeting link.
	MeetLink string

	// ConferenceStatus is the create request status: "success", "pending" or "failure".
	ConferenceStatus string
}

// Validate checks that the input describes a creatable event.
func (in MeetingInput) Validate() error {
	if strings.TrimSpace(in.Summary) == "" {
		return fmt.Errorf("%w: summary is required", ErrInvalidMeeting)
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidMeeting)
	}
	if !in.End.After(in.Start) {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidMeeting,
			in.End.Format(time.RFC3339), in.Start.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation(in.timeZone()); err != nil {
		return fmt.Errorf("%w: unknown time zone %q", ErrInvalidMeeting, in.TimeZone)
	}
	return nil
}

func (in MeetingInput) timeZone() string {
	if in.TimeZone == "" {
		return DefaultTimeZone
	}
	return in.TimeZone
}

// toEvent builds the insert payload. It assumes Validate passed.
func (in MeetingInput) toEvent() *calendar.Event {
	tz := in.timeZone()
	loc, _ := time.LoadLocation(tz)

	requestID := in.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	conferenceType := in.ConferenceType
	if conferenceType == "" {
		conferenceType = DefaultConferenceType
	}

	event := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start: &calendar.EventDateTime{
			DateTime: in.Start.In(loc).Format(dateTimeLayout),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: in.End.In(loc).Format(dateTimeLayout),
			TimeZone: tz,
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: requestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: conferenceType,
				},
			},
		},
	}

	for _, email := range in.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{
			Email: email,
		})
	}

	return event
}

// toMeetingResult converts the inserted event
func toMeetingResult(event *calendar.Event) *MeetingResult {
	result := &MeetingResult{
		EventID:  event.Id,
		HTMLLink: event.HtmlLink,
		MeetLink: meetLink(event),
	}
	if cd := event.ConferenceData; cd != nil && cd.CreateRequest != nil && cd.CreateRequest.Status != nil {
		result.ConferenceStatus = cd.CreateRequest.Status.StatusCode
	}
	return result
}

// meetLink returns the hangout link, falling back to the first video entry
// point of the conference.
func meetLink(event *calendar.Event) string {
	if event.HangoutLink != "" {
		return event.HangoutLink
	}
	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return ""
}
