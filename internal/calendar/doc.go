// Package calendar creates Google Calendar events with an attached Google
// Meet conference.
//
// The client issues a single events.insert call with conferenceDataVersion=1
// and a conference-create request, then reports the generated meeting link:
//
//	client, err := calendar.NewClient(ctx, tokenSource)
//	if err != nil {
//	    return err
//	}
//
//	result, err := client.CreateMeeting(ctx, "primary", calendar.MeetingInput{
//	    Summary:  "Google Meet Meeting",
//	    Start:    start,
//	    End:      start.Add(time.Hour),
//	    TimeZone: "Asia/Kolkata",
//	})
//
// A response without a meeting link yields an empty MeetLink, not an error.
// WriteICS exports the created meeting as an iCalendar file.
package calendar
