package twitter

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stake-plus/ideograph/src/logging"
	"github.com/stake-plus/ideograph/src/webclient"
)

const (
	authorizeURL = "https://twitter.com/i/oauth2/authorize"
	tokenURL     = "https://api.twitter.com/2/oauth2/token"

	// StateTTL bounds how long an issued state/verifier pair stays usable.
	StateTTL = 10 * time.Minute
)

// DefaultScopes covers timeline reads plus refresh tokens.
var DefaultScopes = []string{"tweet.read", "users.read", "offline.access"}

// Token is the pair returned by the token endpoint.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// PKCE is a generated state/verifier/challenge triple for one login.
type PKCE struct {
	State         string
	CodeVerifier  string
	CodeChallenge string
}

// NewPKCE generates a random state and code verifier and derives the
// S256 challenge.
func NewPKCE() (PKCE, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return PKCE{}, fmt.Errorf("pkce: %w", err)
	}
	verifier := base64.RawURLEncoding.EncodeToString(raw)
	return PKCE{
		State:         uuid.NewString(),
		CodeVerifier:  verifier,
		CodeChallenge: Challenge(verifier),
	}, nil
}

// Challenge derives the S256 code challenge for a verifier.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// OAuthClient drives the PKCE exchange against the X authorization server.
type OAuthClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	httpClient   *http.Client
}

func NewOAuthClient(clientID, clientSecret, redirectURI string) *OAuthClient {
	return &OAuthClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		tokenURL:     tokenURL,
		httpClient:   webclient.NewDefault(30 * time.Second),
	}
}

// WithTokenURL points the exchanger at a different token endpoint; used by tests.
func (o *OAuthClient) WithTokenURL(u string) *OAuthClient {
	o.tokenURL = u
	return o
}

// AuthorizeURL builds the redirect target carrying state and challenge.
func (o *OAuthClient) AuthorizeURL(p PKCE) string {
	q := url.Values{
		"response_type":         {"code"},
		"client_id":             {o.clientID},
		"redirect_uri":          {o.redirectURI},
		"scope":                 {strings.Join(DefaultScopes, " ")},
		"state":                 {p.State},
		"code_challenge":        {p.CodeChallenge},
		"code_challenge_method": {"S256"},
	}
	return authorizeURL + "?" + q.Encode()
}

// Exchange trades an authorization code plus its verifier for a token pair.
func (o *OAuthClient) Exchange(ctx context.Context, code, verifier string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {o.redirectURI},
		"client_id":     {o.clientID},
		"code_verifier": {verifier},
	}
	return o.tokenRequest(ctx, form)
}

// Refresh requests a new token pair. On failure the caller's old token
// remains valid until its declared expiry.
func (o *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {o.clientID},
	}
	return o.tokenRequest(ctx, form)
}

func (o *OAuthClient) tokenRequest(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", o.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if o.clientSecret != "" {
		req.SetBasicAuth(o.clientID, o.clientSecret)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, logging.Transport("oauth token endpoint: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, logging.Transport("oauth token endpoint: read: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, logging.Transport("oauth token endpoint: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, logging.Malformed("oauth token endpoint: decode: %v", err)
	}
	if tok.AccessToken == "" {
		return nil, logging.Malformed("oauth token endpoint: empty access_token")
	}
	return &tok, nil
}
