package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/transport"
)

const (
	sandboxAuthorizeURL    = "https://auth.sandbox.ebay.com/oauth2/authorize"
	productionAuthorizeURL = "https://auth.ebay.com/oauth2/authorize"
)

// ConsentGrant is the result of exchanging an authorization code: the
// refresh token is what gets stored in configuration for future runs.
type ConsentGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// ConsentURL builds the browser URL a seller visits to authorize the
// application for the given scopes.
func ConsentURL(creds Credentials, redirectName string, sandbox bool, scopes []string) (string, error) {
	if strings.TrimSpace(creds.AppID) == "" {
		return "", fmt.Errorf("auth: app id is required")
	}
	if strings.TrimSpace(redirectName) == "" {
		return "", fmt.Errorf("auth: redirect name is required")
	}
	if len(scopes) == 0 {
		scopes = []string{ScopeSellInventory, ScopeSellAccount, ScopeSellFulfillment}
	}
	base := productionAuthorizeURL
	if sandbox {
		base = sandboxAuthorizeURL
	}
	query := url.Values{}
	query.Set("client_id", strings.TrimSpace(creds.AppID))
	query.Set("redirect_uri", strings.TrimSpace(redirectName))
	query.Set("response_type", "code")
	query.Set("scope", strings.Join(scopes, " "))
	return base + "?" + query.Encode(), nil
}

// ExchangeAuthorizationCode trades a consent code for tokens. Codes arrive
// URL-encoded from the redirect and are decoded before the exchange.
func ExchangeAuthorizationCode(
	ctx context.Context,
	client transport.HTTPDoer,
	creds Credentials,
	redirectName string,
	sandbox bool,
	authorizationCode string,
) (ConsentGrant, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(creds.AppID) == "" || strings.TrimSpace(creds.CertID) == "" {
		return ConsentGrant{}, fmt.Errorf("auth: app id and cert id are required")
	}
	code, err := url.QueryUnescape(strings.TrimSpace(authorizationCode))
	if err != nil {
		return ConsentGrant{}, fmt.Errorf("auth: decode authorization code: %w", err)
	}
	if code == "" {
		return ConsentGrant{}, fmt.Errorf("auth: authorization code is required")
	}

	tokenURL := productionTokenURL
	if sandbox {
		tokenURL = sandboxTokenURL
	}
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", strings.TrimSpace(redirectName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return ConsentGrant{}, core.NewAuthError(err, "auth: build exchange request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basicCredentials(creds))

	res, err := client.Do(req)
	if err != nil {
		return ConsentGrant{}, core.NewAuthError(err, "auth: execute exchange request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return ConsentGrant{}, core.NewAuthError(err, "auth: read exchange response")
	}
	if res.StatusCode != http.StatusOK {
		return ConsentGrant{}, core.NewAuthError(
			fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body))),
			"auth: authorization code exchange rejected",
		)
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ConsentGrant{}, core.NewAuthError(err, "auth: decode exchange response")
	}
	return ConsentGrant{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    time.Duration(payload.ExpiresIn) * time.Second,
	}, nil
}
