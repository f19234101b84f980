package google

import (
	"time"

	"golang.org/x/oauth2"
)

// AuthorizedUserType is the credential type Google tooling uses for user
// (as opposed to service account) credentials.
const AuthorizedUserType = "authorized_user"

// Credential is the persisted token bundle. It follows the authorized_user
// JSON layout and adds the live access token, so a refresh needs nothing but
// the credential itself.
type Credential struct {
	Type         string    `json:"type"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret,omitempty"`
	TokenURI     string    `json:"token_uri"`
	Scopes       []string  `json:"scopes,omitempty"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

// NewCredential builds a Credential from the client config that issued tok.
func NewCredential(conf *oauth2.Config, tok *oauth2.Token) *Credential {
	c := &Credential{
		Type:         AuthorizedUserType,
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		TokenURI:     conf.Endpoint.TokenURL,
		Scopes:       append([]string(nil), conf.Scopes...),
	}
	c.update(tok)
	return c
}

// Token returns the oauth2 view of the credential.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// OAuthConfig returns the client config needed to refresh the credential.
func (c *Credential) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scopes:       c.Scopes,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.TokenURI,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Valid reports whether the access token can be used without a refresh.
func (c *Credential) Valid() bool {
	return c != nil && c.Token().Valid()
}

// Expired reports whether the credential carries an expiry that has passed.
func (c *Credential) Expired() bool {
	return c != nil && !c.Expiry.IsZero() && !c.Token().Valid()
}

// CanRefresh reports whether a silent refresh is possible.
func (c *Credential) CanRefresh() bool {
	return c != nil && c.RefreshToken != "" && c.ClientID != "" && c.TokenURI != ""
}

// update copies a freshly issued token into c. Google omits the refresh
// token on refresh responses, so an empty one keeps the current value.
func (c *Credential) update(tok *oauth2.Token) {
	c.AccessToken = tok.AccessToken
	c.TokenType = tok.TokenType
	c.Expiry = tok.Expiry
	if tok.RefreshToken != "" {
		c.RefreshToken = tok.RefreshToken
	}
}
