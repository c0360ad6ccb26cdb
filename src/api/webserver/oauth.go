package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/ideograph/src/logging"
	"github.com/stake-plus/ideograph/src/store"
	"github.com/stake-plus/ideograph/src/twitter"
)

// installationID keys the process-wide token record. The service manages
// a single installation; multi-tenant token storage is out of scope.
const installationID = "default"

type OAuth struct {
	states    store.StateStore
	tokens    store.TokenStore
	oauth     *twitter.OAuthClient
	jwtSecret []byte
}

func NewOAuth(d Deps) OAuth {
	return OAuth{
		states:    d.States,
		tokens:    d.Tokens,
		oauth:     d.OAuth,
		jwtSecret: []byte(d.Cfg.JWTSecret),
	}
}

// begin generates and persists a state/verifier pair. INIT state of the
// exchange.
func (o OAuth) begin(c *gin.Context) (twitter.PKCE, error) {
	p, err := twitter.NewPKCE()
	if err != nil {
		return twitter.PKCE{}, err
	}
	rec := store.StateRecord{
		CodeVerifier: p.CodeVerifier,
		ExpiresAt:    time.Now().Add(twitter.StateTTL),
	}
	if err := o.states.PutState(c.Request.Context(), p.State, rec, twitter.StateTTL); err != nil {
		return twitter.PKCE{}, err
	}
	return p, nil
}

// RequestToken answers with a 302 to the authorization URL.
func (o OAuth) RequestToken(c *gin.Context) {
	p, err := o.begin(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, o.oauth.AuthorizeURL(p))
}

// Init is the JSON variant of RequestToken.
func (o OAuth) Init(c *gin.Context) {
	p, err := o.begin(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":        o.oauth.AuthorizeURL(p),
		"state":      p.State,
		"expires_in": int(twitter.StateTTL.Seconds()),
	})
}

// Callback consumes the single-use state, exchanges the code, persists
// the token pair, and issues a session JWT when a secret is configured.
func (o OAuth) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		respondError(c, logging.Validation("code and state are required"))
		return
	}

	// State lookup happens before any token-endpoint call; an unknown
	// state never reaches the authorization server.
	rec, err := o.states.TakeState(c.Request.Context(), state)
	if err != nil {
		respondError(c, err)
		return
	}

	tok, err := o.oauth.Exchange(c.Request.Context(), code, rec.CodeVerifier)
	if err != nil {
		respondError(c, err)
		return
	}

	saved := store.TokenRecord{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}
	if err := o.tokens.SaveToken(c.Request.Context(), installationID, saved); err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"access_token":  tok.AccessToken,
		"refresh_token": tok.RefreshToken,
		"expires_in":    tok.ExpiresIn,
	}
	if len(o.jwtSecret) > 0 {
		if session, err := issueJWT(installationID, o.jwtSecret); err == nil {
			resp["token"] = session
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh rotates the stored token pair. On upstream failure the old
// record is left untouched and stays valid until its declared expiry.
func (o OAuth) Refresh(c *gin.Context) {
	rec, err := o.tokens.GetToken(c.Request.Context(), installationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if rec.RefreshToken == "" {
		respondError(c, logging.State("no refresh token stored"))
		return
	}

	tok, err := o.oauth.Refresh(c.Request.Context(), rec.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	saved := store.TokenRecord{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}
	if saved.RefreshToken == "" {
		saved.RefreshToken = rec.RefreshToken
	}
	if err := o.tokens.SaveToken(c.Request.Context(), installationID, saved); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tok.AccessToken})
}
