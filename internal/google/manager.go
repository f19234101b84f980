package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/meetlink/internal/config"
	"github.com/teemow/meetlink/internal/instrumentation"
	"github.com/teemow/meetlink/internal/logging"
)

// Manager owns the credential lifecycle for one run.
type Manager struct {
	cfg        config.Config
	store      Store
	authorizer Authorizer
	logger     logging.Logger
	metrics    *instrumentation.Metrics
	httpClient *http.Client
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore replaces the file store derived from the config.
func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithAuthorizer replaces the loopback authorizer.
func WithAuthorizer(a Authorizer) Option {
	return func(m *Manager) { m.authorizer = a }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithHTTPClient sets the client used for token endpoint calls.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// NewManager creates a Manager for cfg. Without options it stores the
// credential in cfg.TokenFile and authorizes through the loopback flow on
// cfg.RedirectPort.
func NewManager(cfg config.Config, opts ...Option) *Manager {
	m := &Manager{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	m.logger = logging.OrDefault(m.logger)
	if m.store == nil {
		m.store = NewFileStore(cfg.TokenFile)
	}
	if m.authorizer == nil {
		a := &LoopbackAuthorizer{
			Port:       cfg.RedirectPort,
			Prompt:     os.Stderr,
			HTTPClient: m.httpClient,
			Logger:     m.logger,
		}
		if cfg.OpenBrowser {
			a.OpenBrowser = OpenBrowser
		}
		m.authorizer = a
	}

	return m
}

// Credentials returns a usable credential. A valid stored credential is
// returned without any network call. An expired one with a refresh token is
// refreshed. Otherwise the interactive flow runs. Any new or refreshed
// credential is saved before it is returned.
func (m *Manager) Credentials(ctx context.Context) (cred *Credential, err error) {
	ctx, span := instrumentation.StartSpan(ctx, "oauth.credentials")
	defer func() { instrumentation.EndSpan(span, err) }()

	cred, err = m.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, ErrNoCredential):
		m.logger.Debug("no stored credential")
		cred = nil
	default:
		return nil, err
	}

	if cred.Valid() {
		m.logger.Debug("using stored credential", "expiry", cred.Expiry)
		return cred, nil
	}

	if cred.Expired() && cred.CanRefresh() {
		if err := m.refresh(ctx, cred); err != nil {
			return nil, err
		}
	} else {
		cred, err = m.authorize(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := m.store.Save(cred); err != nil {
		return nil, fmt.Errorf("failed to save credential: %w", err)
	}
	return cred, nil
}

// Authorize runs the interactive flow unconditionally and replaces whatever
// the store holds, including a corrupt file.
func (m *Manager) Authorize(ctx context.Context) (*Credential, error) {
	cred, err := m.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(cred); err != nil {
		return nil, fmt.Errorf("failed to save credential: %w", err)
	}
	return cred, nil
}

// TokenSource returns a token source for cred that saves any refreshed
// token back to the store.
func (m *Manager) TokenSource(ctx context.Context, cred *Credential) oauth2.TokenSource {
	ctx = m.withHTTPClient(ctx)
	return &persistingTokenSource{
		ctx:     ctx,
		base:    cred.OAuthConfig().TokenSource(ctx, cred.Token()),
		cred:    cred,
		store:   m.store,
		logger:  m.logger,
		metrics: m.metrics,
	}
}

func (m *Manager) refresh(ctx context.Context, cred *Credential) (err error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceOAuth, "refresh")
	start := time.Now()
	defer func() {
		instrumentation.EndSpan(span, err)
		m.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceOAuth, "refresh", instrumentation.StatusFor(err), time.Since(start))
	}()

	m.logger.Info("refreshing expired credential", "expiry", cred.Expiry)

	tok, err := cred.OAuthConfig().TokenSource(m.withHTTPClient(ctx), cred.Token()).Token()
	if err != nil {
		m.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return classifyRefreshError(err)
	}

	cred.update(tok)
	instrumentation.AddSpanEvent(span, "token.refreshed")
	m.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
	m.logger.Debug("credential refreshed", "access_token", logging.SanitizeToken(cred.AccessToken), "expiry", cred.Expiry)
	return nil
}

func (m *Manager) authorize(ctx context.Context) (cred *Credential, err error) {
	ctx, span := instrumentation.StartSpan(ctx, "oauth.authorize")
	defer func() {
		instrumentation.EndSpan(span, err)
		if err != nil {
			m.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		} else {
			m.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
		}
	}()

	conf, err := LoadClientSecrets(m.cfg.ClientSecretsFile, m.cfg.Scopes...)
	if err != nil {
		return nil, err
	}

	if m.cfg.AuthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.AuthTimeout)
		defer cancel()
	}

	m.logger.Info("starting interactive authorization", logging.Path(m.cfg.ClientSecretsFile))
	tok, err := m.authorizer.Authorize(m.withHTTPClient(ctx), conf)
	if err != nil {
		return nil, fmt.Errorf("interactive authorization failed: %w", err)
	}
	instrumentation.AddSpanEvent(span, "consent.granted")
	if tok.RefreshToken == "" {
		m.logger.Warn("provider issued no refresh token; the next expiry will require consent again")
	}

	return NewCredential(conf, tok), nil
}

func (m *Manager) withHTTPClient(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}

// classifyRefreshError marks provider rejections of the refresh token (4xx
// responses) as ErrReauthorizationRequired. Server errors and transport
// failures are returned as is; the refresh token may still be good.
func classifyRefreshError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) && isClientError(rErr.Response) {
		return fmt.Errorf("%w: %w", ErrReauthorizationRequired, err)
	}
	return fmt.Errorf("failed to refresh credential: %w", err)
}

func isClientError(resp *http.Response) bool {
	return resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500
}
