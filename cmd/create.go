package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/teemow/meetlink/internal/calendar"
	"github.com/teemow/meetlink/internal/config"
	"github.com/teemow/meetlink/internal/google"
	"github.com/teemow/meetlink/internal/instrumentation"
	"github.com/teemow/meetlink/internal/logging"
)

const (
	defaultTitle    = "Google Meet Meeting"
	defaultTimeZone = "Asia/Kolkata"
)

// meetingTimeLayouts are accepted for --start and --end, read as wall clock
// time in --timezone.
var meetingTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

func newCreateCmd() *cobra.Command {
	var (
		flags          credentialFlags
		title          string
		description    string
		start          string
		end            string
		duration       time.Duration
		timeZone       string
		requestID      string
		conferenceType string
		attendees      []string
		calendarID     string
		icsFile        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a calendar event with a Google Meet link",
		Long: `Create one event on a Google Calendar with an auto-generated Google Meet
conference and print the meeting link.

Start and end are wall clock times in --timezone, for example
  meetlink create --start 2025-03-26T10:00 --end 2025-03-26T11:00 --timezone Asia/Kolkata

Without --start the event begins at the next full hour.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			startTime, endTime, err := parseMeetingTimes(start, end, duration, timeZone, time.Now())
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cmd, &flags, func(cfg *config.Config) {
				if cmd.Flags().Changed("calendar") {
					cfg.CalendarID = calendarID
				}
			})
			if err != nil {
				return err
			}
			defer a.close()

			ctx, span := instrumentation.StartSpan(cmd.Context(), "meetlink.create")
			defer func() { instrumentation.EndSpan(span, err) }()
			logger := logging.WithOperation(a.logger, "create")

			cred, err := a.manager.Credentials(ctx)
			if err != nil {
				logger.Error("failed to obtain credential", logging.Err(err), "trace_id", instrumentation.GetTraceID(ctx))
				if errors.Is(err, google.ErrCorruptCredential) || errors.Is(err, google.ErrReauthorizationRequired) {
					logger.Error("run 'meetlink auth --force' to authorize again", logging.Path(a.cfg.TokenFile))
				}
				return err
			}

			client, err := calendar.NewClient(ctx, a.manager.TokenSource(ctx, cred),
				calendar.WithEndpoint(a.cfg.CalendarEndpoint),
				calendar.WithLogger(logging.NewSlogAdapter(logging.WithService(logger, instrumentation.ServiceCalendar))),
				calendar.WithMetrics(a.provider.Metrics()))
			if err != nil {
				return err
			}

			input := calendar.MeetingInput{
				Summary:        title,
				Description:    description,
				Start:          startTime,
				End:            endTime,
				TimeZone:       timeZone,
				RequestID:      requestID,
				ConferenceType: conferenceType,
				Attendees:      attendees,
			}
			result, err := client.CreateMeeting(ctx, a.cfg.CalendarID, input)
			if err != nil {
				logger.Error("failed to create meeting", logging.Calendar(a.cfg.CalendarID), logging.Err(err),
					"trace_id", instrumentation.GetTraceID(ctx))
				return err
			}

			if icsFile != "" {
				if err := writeICSFile(icsFile, input, result); err != nil {
					return err
				}
				logger.Info("wrote iCalendar file", logging.Path(icsFile))
			}

			return printResult(cmd.OutOrStdout(), result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&title, "title", defaultTitle, "Event title")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	cmd.Flags().StringVar(&start, "start", "", "Start time, e.g. 2025-03-26T10:00 (default: next full hour)")
	cmd.Flags().StringVar(&end, "end", "", "End time, e.g. 2025-03-26T11:00 (default: start + --duration)")
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "Event length when --end is not given")
	cmd.Flags().StringVar(&timeZone, "timezone", defaultTimeZone, "IANA time zone of the event")
	cmd.Flags().StringVar(&requestID, "request-id", "", "Conference request id (default: random UUID)")
	cmd.Flags().StringVar(&conferenceType, "conference-type", calendar.DefaultConferenceType, "Conference solution type")
	cmd.Flags().StringSliceVar(&attendees, "attendee", nil, "Attendee email, repeatable")
	cmd.Flags().StringVar(&calendarID, "calendar", config.DefaultCalendarID, "Calendar id (env: MEETLINK_CALENDAR_ID)")
	cmd.Flags().StringVar(&icsFile, "ics", "", "Also write the created meeting to this iCalendar file")

	return cmd
}

// parseMeetingTimes resolves the --start/--end/--duration flags in the
// named zone. An empty start means the next full hour after now.
func parseMeetingTimes(start, end string, duration time.Duration, timeZone string, now time.Time) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown time zone %q: %w", timeZone, err)
	}

	var startTime time.Time
	if start == "" {
		local := now.In(loc)
		startTime = time.Date(local.Year(), local.Month(), local.Day(), local.Hour()+1, 0, 0, 0, loc)
	} else if startTime, err = parseWallClock(start, loc); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}

	var endTime time.Time
	if end == "" {
		if duration <= 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("--duration must be positive, got %s", duration)
		}
		endTime = startTime.Add(duration)
	} else if endTime, err = parseWallClock(end, loc); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
	}

	if !endTime.After(startTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is not after start %s",
			endTime.Format(meetingTimeLayouts[0]), startTime.Format(meetingTimeLayouts[0]))
	}

	return startTime, endTime, nil
}

func parseWallClock(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range meetingTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q does not match YYYY-MM-DDTHH:MM", value)
}

func writeICSFile(path string, input calendar.MeetingInput, result *calendar.MeetingResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create iCalendar file: %w", err)
	}
	if err := calendar.WriteICS(f, input, result, time.Now()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// printResult writes the single result line.
func printResult(w io.Writer, result *calendar.MeetingResult) error {
	var err error
	if result.MeetLink != "" {
		_, err = fmt.Fprintf(w, "Google Meet link: %s\n", result.MeetLink)
	} else {
		_, err = fmt.Fprintf(w, "No meeting link returned for event %s\n", result.EventID)
	}
	return err
}
