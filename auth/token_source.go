package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/transport"
)

const (
	sandboxTokenURL    = "https://api.sandbox.ebay.com/identity/v1/oauth2/token"
	productionTokenURL = "https://api.ebay.com/identity/v1/oauth2/token"

	ScopeSellInventory   = "https://api.ebay.com/oauth/api_scope/sell.inventory"
	ScopeSellAccount     = "https://api.ebay.com/oauth/api_scope/sell.account"
	ScopeSellFulfillment = "https://api.ebay.com/oauth/api_scope/sell.fulfillment"
)

const defaultRenewBefore = 5 * time.Minute

// Credentials are the application keys plus the long-lived refresh token
// granted during consent. They are passed in explicitly; nothing here is
// process-global.
type Credentials struct {
	AppID        string
	CertID       string
	RefreshToken string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.AppID) == "" {
		return fmt.Errorf("auth: app id is required")
	}
	if strings.TrimSpace(c.CertID) == "" {
		return fmt.Errorf("auth: cert id is required")
	}
	if strings.TrimSpace(c.RefreshToken) == "" {
		return fmt.Errorf("auth: refresh token is required")
	}
	return nil
}

type RefreshTokenSourceConfig struct {
	Credentials Credentials
	Sandbox     bool
	TokenURL    string
	Scopes      []string
	RenewBefore time.Duration
	Client      transport.HTTPDoer
	Now         func() time.Time
}

// RefreshTokenSource mints access tokens from the refresh-token grant. It
// renews before expiry and supports explicit invalidation so the caller can
// retry once after a remote 401.
type RefreshTokenSource struct {
	config RefreshTokenSourceConfig

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewRefreshTokenSource(cfg RefreshTokenSourceConfig) (*RefreshTokenSource, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.TokenURL) == "" {
		if cfg.Sandbox {
			cfg.TokenURL = sandboxTokenURL
		} else {
			cfg.TokenURL = productionTokenURL
		}
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{ScopeSellInventory, ScopeSellAccount}
	}
	if cfg.RenewBefore <= 0 {
		cfg.RenewBefore = defaultRenewBefore
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &RefreshTokenSource{config: cfg}, nil
}

// Token returns a cached access token while it is fresh, refreshing inside
// the renewal lead window.
func (s *RefreshTokenSource) Token(ctx context.Context) (string, error) {
	if s == nil {
		return "", fmt.Errorf("auth: token source is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.config.Now()
	if s.accessToken != "" && now.Add(s.config.RenewBefore).Before(s.expiresAt) {
		return s.accessToken, nil
	}

	token, expiresIn, err := s.requestToken(ctx)
	if err != nil {
		return "", err
	}
	s.accessToken = token
	s.expiresAt = now.Add(expiresIn)
	return token, nil
}

// Invalidate drops the cached token; the next Token call refreshes.
func (s *RefreshTokenSource) Invalidate() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.expiresAt = time.Time{}
}

func (s *RefreshTokenSource) requestToken(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.config.Credentials.RefreshToken)
	form.Set("scope", strings.Join(s.config.Scopes, " "))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, core.NewAuthError(err, "auth: build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basicCredentials(s.config.Credentials))

	res, err := s.config.Client.Do(req)
	if err != nil {
		return "", 0, core.NewAuthError(err, "auth: execute token request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", 0, core.NewAuthError(err, "auth: read token response")
	}
	if res.StatusCode != http.StatusOK {
		return "", 0, core.NewAuthError(
			fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body))),
			"auth: token refresh rejected",
		)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", 0, core.NewAuthError(err, "auth: decode token response")
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", 0, core.NewAuthError(fmt.Errorf("empty access_token"), "auth: token response missing access token")
	}
	expiresIn := time.Duration(payload.ExpiresIn) * time.Second
	if expiresIn <= 0 {
		expiresIn = 2 * time.Hour
	}
	return payload.AccessToken, expiresIn, nil
}

func basicCredentials(creds Credentials) string {
	pair := strings.TrimSpace(creds.AppID) + ":" + strings.TrimSpace(creds.CertID)
	return base64.StdEncoding.EncodeToString([]byte(pair))
}

var _ core.TokenSource = (*RefreshTokenSource)(nil)
