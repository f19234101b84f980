// Package instrumentation provides OpenTelemetry metrics and tracing for meetlink.
//
// meetlink is a one-shot command, so instrumentation is off by default. When
// enabled it records:
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth Metrics:
//   - oauth_auth_total: Counter of interactive authorization attempts by result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// Spans are created for credential loading, refresh, interactive authorization
// and the calendar insert (google.<service>.<operation>). Outbound HTTP is
// traced through otelhttp.
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: Enable instrumentation (default: false)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - METRICS_TEXTFILE: With the prometheus exporter, write metrics in text
//     exposition format to this file on shutdown (node_exporter textfile collector)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_EXPORTER_OTLP_INSECURE: Use plain HTTP for OTLP (default: false)
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: meetlink)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, "insert", "success", time.Since(start))
package instrumentation
