package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/meetlink/internal/config"
	"github.com/teemow/meetlink/internal/google"
	"github.com/teemow/meetlink/internal/instrumentation"
	"github.com/teemow/meetlink/internal/logging"
)

// credentialFlags are shared by every command that touches the credential.
type credentialFlags struct {
	clientSecrets string
	tokenFile     string
	port          int
	noBrowser     bool
	authTimeout   time.Duration
	debug         bool
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.clientSecrets, "client-secrets", config.DefaultClientSecretsFile, "Google OAuth client secrets file (env: MEETLINK_CLIENT_SECRETS)")
	cmd.Flags().StringVar(&f.tokenFile, "token-file", "", "Credential file (env: MEETLINK_TOKEN_FILE, default: $XDG_DATA_HOME/meetlink/token.json)")
	cmd.Flags().IntVar(&f.port, "port", config.DefaultRedirectPort, "Loopback port for the OAuth redirect (env: MEETLINK_REDIRECT_PORT)")
	cmd.Flags().BoolVar(&f.noBrowser, "no-browser", false, "Print the consent URL instead of opening a browser")
	cmd.Flags().DurationVar(&f.authTimeout, "auth-timeout", 0, "Abort the interactive authorization after this long, 0 waits forever (env: MEETLINK_AUTH_TIMEOUT)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Enable debug logging")
}

// apply overrides cfg with the flags that were set explicitly. Env vars only
// apply if the flag was not set.
func (f *credentialFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("client-secrets") {
		cfg.ClientSecretsFile = f.clientSecrets
	}
	if cmd.Flags().Changed("token-file") {
		cfg.TokenFile = f.tokenFile
	}
	if cmd.Flags().Changed("port") {
		cfg.RedirectPort = f.port
	}
	if cmd.Flags().Changed("no-browser") {
		cfg.OpenBrowser = !f.noBrowser
	}
	if cmd.Flags().Changed("auth-timeout") {
		cfg.AuthTimeout = f.authTimeout
	}
}

// app bundles what a command needs after flag and env processing.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	provider *instrumentation.Provider
	manager  *google.Manager
}

// newApp loads .env, resolves the config and initializes logging,
// instrumentation and the credential manager.
func newApp(ctx context.Context, cmd *cobra.Command, flags *credentialFlags, customize func(*config.Config)) (*app, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	flags.apply(cmd, &cfg)
	if customize != nil {
		customize(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(cmd.ErrOrStderr(), flags.debug)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	if provider.Enabled() {
		logger.Debug("instrumentation enabled",
			"metrics_exporter", instrConfig.MetricsExporter,
			"tracing_exporter", instrConfig.TracingExporter)
	}

	manager := google.NewManager(cfg,
		google.WithLogger(logging.NewSlogAdapter(logging.WithService(logger, instrumentation.ServiceOAuth))),
		google.WithMetrics(provider.Metrics()),
		google.WithHTTPClient(&http.Client{Transport: instrumentation.NewTransport(nil)}),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		manager:  manager,
	}, nil
}

// close flushes telemetry. It runs on a fresh context so an interrupted run
// still writes its metrics.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.provider.Shutdown(ctx); err != nil {
		a.logger.Warn("error during instrumentation shutdown", logging.Err(err))
	}
}
