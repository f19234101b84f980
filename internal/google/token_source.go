package google

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/meetlink/internal/instrumentation"
	"github.com/teemow/meetlink/internal/logging"
)

// persistingTokenSource keeps the stored credential in step with refreshes
// the API client performs on its own.
type persistingTokenSource struct {
	ctx     context.Context
	base    oauth2.TokenSource
	cred    *Credential
	store   Store
	logger  logging.Logger
	metrics *instrumentation.Metrics

	mu sync.Mutex
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		s.metrics.RecordOAuthTokenRefresh(s.ctx, instrumentation.OAuthResultFailure)
		return nil, classifyRefreshError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tok.AccessToken == s.cred.AccessToken {
		return tok, nil
	}

	s.cred.update(tok)
	s.metrics.RecordOAuthTokenRefresh(s.ctx, instrumentation.OAuthResultSuccess)
	if err := s.store.Save(s.cred); err != nil {
		// The token itself is good; only the cache is stale.
		s.logger.Warn("failed to save refreshed credential", logging.Err(err))
	}
	return tok, nil
}
