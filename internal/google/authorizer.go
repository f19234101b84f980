package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/teemow/meetlink/internal/logging"
)

// Authorizer runs an interactive authorization for conf and returns the
// issued token. Implementations block until the user completes consent or
// ctx is done.
type Authorizer interface {
	Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)

// Authorize calls f(ctx, conf).
func (f AuthorizerFunc) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	return f(ctx, conf)
}

// LoopbackAuthorizer performs the installed-application flow: it listens on
// a loopback port, sends the user to the consent page with PKCE and a random
// state, and exchanges the code delivered to the redirect.
type LoopbackAuthorizer struct {
	// Port is the loopback port. It must match a registered redirect URI.
	// 0 picks a free port.
	Port int

	// OpenBrowser is called with the consent URL. Nil only prints it.
	OpenBrowser func(url string) error

	// Prompt receives the human-readable instructions. Nil discards them.
	Prompt io.Writer

	// HTTPClient is used for the code exchange. Nil uses the oauth2 default.
	HTTPClient *http.Client

	Logger logging.Logger
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authorizer.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	logger := logging.OrDefault(a.Logger)

	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", a.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for OAuth redirect on port %d: %w", a.Port, err)
	}

	port := ln.Addr().(*net.TCPAddr).Port
	c := *conf
	c.RedirectURL = fmt.Sprintf("http://localhost:%d/", port)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deliver(results, callbackResult{err: fmt.Errorf("OAuth redirect listener failed: %w", err)})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if a.Prompt != nil {
		_, _ = fmt.Fprintf(a.Prompt, "Authorize meetlink by visiting this URL in your browser:\n\n%s\n\n", authURL)
	}
	if a.OpenBrowser != nil {
		if err := a.OpenBrowser(authURL); err != nil {
			logger.Warn("could not open browser", logging.Err(err))
		}
	}
	logger.Debug("waiting for OAuth redirect", "redirect_url", c.RedirectURL)

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization aborted: %w", ctx.Err())
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	if a.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.HTTPClient)
	}
	tok, err := c.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return tok, nil
}

// callbackHandler handles the provider redirect. Requests that carry neither
// a code nor an error (favicon and the like) are ignored. A redirect with the
// wrong state is rejected and the wait continues.
func callbackHandler(state string, results chan<- callbackResult, logger logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		code, errCode := q.Get("code"), q.Get("error")
		if code == "" && errCode == "" {
			http.NotFound(w, r)
			return
		}

		if q.Get("state") != state {
			logger.Warn("ignoring OAuth redirect", logging.Err(ErrStateMismatch))
			http.Error(w, "Authorization failed: "+ErrStateMismatch.Error(), http.StatusBadRequest)
			return
		}

		var res callbackResult
		if errCode != "" {
			res.err = fmt.Errorf("%w: %s", ErrAuthorizationDenied, errCode)
			http.Error(w, "Authorization failed: "+res.err.Error(), http.StatusBadRequest)
		} else {
			res.code = code
			_, _ = io.WriteString(w, "Authorization complete. You can close this window.\n")
		}
		deliver(results, res)
	})
}

// deliver hands the first result to the waiting caller and drops the rest.
func deliver(results chan<- callbackResult, res callbackResult) {
	select {
	case results <- res:
	default:
	}
}
