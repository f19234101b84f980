package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/meetlink/internal/instrumentation"
	"github.com/teemow/meetlink/internal/logging"
)

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	logger  logging.Logger
	metrics *instrumentation.Metrics

	apiOptions []option.ClientOption
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithEndpoint points the client at a different Calendar API base URL. It
// only applies to NewClient.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.apiOptions = append(c.apiOptions, option.WithEndpoint(endpoint))
		}
	}
}

// NewClient creates a Calendar client authenticated by ts.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...ClientOption) (*Client, error) {
	if ts == nil {
		return nil, errors.New("token source cannot be nil")
	}

	// Create HTTP client with the token
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = instrumentation.NewTransport(&http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		})
	}

	c := newClient(opts)
	svc, err := calendar.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(client)}, c.apiOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	c.svc = svc

	return c, nil
}

// NewClientWithService wraps an existing service, e.g. one pointed at a
// test endpoint.
func NewClientWithService(svc *calendar.Service, opts ...ClientOption) *Client {
	c := newClient(opts)
	c.svc = svc
	return c
}

func newClient(opts []ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDefault(c.logger)
	return c
}

// CreateMeeting inserts one event on calendarID with a conference-create
// request. A response without a meeting link is not an error; the returned
// MeetLink is empty then.
func (c *Client) CreateMeeting(ctx context.Context, calendarID string, input MeetingInput) (result *MeetingResult, err error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, "events.insert",
		instrumentation.NewSpanAttributeBuilder().WithCalendar(calendarID).Build()...)
	start := time.Now()
	defer func() {
		instrumentation.EndSpan(span, err)
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, "events.insert", instrumentation.StatusFor(err), time.Since(start))
	}()

	event := input.toEvent()
	created, err := c.svc.Events.Insert(calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	result = toMeetingResult(created)
	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().WithResource("event", result.EventID).Build()...)

	c.logger.Info("created event",
		logging.Operation("events.insert"),
		logging.Status(logging.StatusSuccess),
		logging.Calendar(calendarID),
		"event_id", result.EventID,
		"conference_request_id", event.ConferenceData.CreateRequest.RequestId,
		"conference_status", result.ConferenceStatus)
	if result.MeetLink == "" {
		c.logger.Warn("event has no meeting link", "event_id", result.EventID)
	}

	return result, nil
}
