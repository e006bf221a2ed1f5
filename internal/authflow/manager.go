// Package authflow manages the OAuth 2.0 device-code credential lifecycle
// against the Azure AD v1 endpoints used by Dataverse.
package authflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgsw/ideenboard/internal/tokenstore"
)

const (
	// Azure AD v1 endpoint paths. The v1 token endpoint takes the target
	// audience as a `resource` form parameter and reports the sign-in page
	// as `verification_url` (not `verification_uri`).
	deviceCodePath = "/oauth2/devicecode"
	tokenPath      = "/oauth2/token"

	defaultAuthority = "https://login.microsoftonline.com"
	defaultTenant    = "common"
	defaultTimeout   = 10 * time.Second

	// DefaultRefreshBuffer is subtracted from the token expiry so a token is
	// renewed before it actually lapses mid-request.
	DefaultRefreshBuffer = 5 * time.Minute

	// defaultInterval is used when the authorization server omits the poll
	// interval from its device-code response.
	defaultInterval = 5
)

// Config holds the settings of the credential lifecycle manager.
type Config struct {
	// Authority is the base URL of the authorization server. Defaults to the
	// Microsoft login endpoint; overridden in tests.
	Authority string

	// Tenant is the directory tenant, "common" for multi-tenant sign-in.
	Tenant string

	// ClientID is the public client identifier. No secret is involved in the
	// device-code grant.
	ClientID string

	// Resource is the Dataverse environment URL, used as the token audience.
	Resource string

	// RefreshBuffer overrides DefaultRefreshBuffer when positive.
	RefreshBuffer time.Duration
}

// Manager orchestrates device-code initiation, polling, refresh and logout.
//
// It holds no token state of its own: every entry point reloads the store, so
// a token refreshed by one worker process is visible to all others on their
// next request. The store is the only cross-process coordination mechanism.
type Manager struct {
	client        *http.Client
	store         tokenstore.Store
	logger        zerolog.Logger
	deviceCodeURL string
	tokenURL      string
	clientID      string
	resource      string
	refreshBuffer time.Duration
}

// NewManager creates a lifecycle manager over the given credential store.
func NewManager(cfg Config, store tokenstore.Store, logger zerolog.Logger) *Manager {
	authority := strings.TrimSuffix(cfg.Authority, "/")
	if authority == "" {
		authority = defaultAuthority
	}
	tenant := cfg.Tenant
	if tenant == "" {
		tenant = defaultTenant
	}
	buffer := cfg.RefreshBuffer
	if buffer <= 0 {
		buffer = DefaultRefreshBuffer
	}

	base := authority + "/" + tenant
	return &Manager{
		client:        &http.Client{Timeout: defaultTimeout},
		store:         store,
		logger:        logger,
		deviceCodeURL: base + deviceCodePath,
		tokenURL:      base + tokenPath,
		clientID:      cfg.ClientID,
		resource:      cfg.Resource,
		refreshBuffer: buffer,
	}
}

// tokenResponse covers both the success and error shapes of the token
// endpoint. Azure AD v1 returns numeric fields as JSON strings, hence
// json.Number.
type tokenResponse struct {
	AccessToken      string      `json:"access_token"`
	RefreshToken     string      `json:"refresh_token"`
	ExpiresIn        json.Number `json:"expires_in"`
	TokenType        string      `json:"token_type"`
	Error            string      `json:"error"`
	ErrorDescription string      `json:"error_description"`
}

// Initiate starts a device-code login attempt and returns the codes the user
// needs to complete it in a browser.
func (m *Manager) Initiate(ctx context.Context) (*DeviceAuthorization, error) {
	if m.resource == "" {
		return nil, ErrNotConfigured
	}

	data := url.Values{
		"client_id": {m.clientID},
		"resource":  {m.resource},
	}
	status, body, err := m.postForm(ctx, m.deviceCodeURL, data)
	if err != nil {
		return nil, fmt.Errorf("sending device code request: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("device code request failed: %d: %s", status, body)
	}

	var resp struct {
		UserCode        string      `json:"user_code"`
		DeviceCode      string      `json:"device_code"`
		VerificationURL string      `json:"verification_url"`
		ExpiresIn       json.Number `json:"expires_in"`
		Interval        json.Number `json:"interval"`
		Message         string      `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing device code response: %w", err)
	}

	return &DeviceAuthorization{
		UserCode:        resp.UserCode,
		DeviceCode:      resp.DeviceCode,
		VerificationURL: resp.VerificationURL,
		ExpiresIn:       numberToInt(resp.ExpiresIn, 0),
		Interval:        numberToInt(resp.Interval, defaultInterval),
		Message:         resp.Message,
	}, nil
}

// PollOnce performs a single device-code token request. The caller repeats
// the call at the server-advertised interval until a terminal status.
func (m *Manager) PollOnce(ctx context.Context, deviceCode string) PollResult {
	if m.resource == "" {
		return PollResult{Status: PollError, Err: ErrNotConfigured.Error()}
	}

	data := url.Values{
		"grant_type": {"device_code"},
		"client_id":  {m.clientID},
		"resource":   {m.resource},
		"code":       {deviceCode},
	}
	_, body, err := m.postForm(ctx, m.tokenURL, data)
	if err != nil {
		return PollResult{Status: PollError, Err: err.Error()}
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return PollResult{Status: PollError, Err: "malformed token response"}
	}

	switch resp.Error {
	case "":
		// fall through to the success path
	case "authorization_pending":
		return PollResult{Status: PollPending}
	case "expired_token":
		return PollResult{Status: PollExpired}
	default:
		msg := resp.ErrorDescription
		if msg == "" {
			msg = resp.Error
		}
		return PollResult{Status: PollError, Err: msg}
	}

	if resp.AccessToken == "" {
		return PollResult{Status: PollError, Err: "token endpoint returned neither token nor error"}
	}
	if _, err := m.save(ctx, &resp); err != nil {
		return PollResult{Status: PollError, Err: err.Error()}
	}
	return PollResult{Status: PollSuccess}
}

// ValidToken returns a bearer token that is good for at least the refresh
// buffer, refreshing the stored record when needed. It returns
// ErrNotAuthenticated when no record exists or the refresh failed; a failed
// refresh leaves the stale record in place so a later call can retry it.
func (m *Manager) ValidToken(ctx context.Context) (string, error) {
	creds, err := m.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if creds == nil {
		return "", ErrNotAuthenticated
	}
	if !m.stale(creds) {
		return creds.AccessToken, nil
	}

	refreshed, err := m.refresh(ctx, creds.RefreshToken)
	if err != nil {
		m.logger.Warn().Err(err).Msg("token refresh failed")
		return "", ErrNotAuthenticated
	}
	return refreshed.AccessToken, nil
}

// IsAuthenticated reports whether a credential record exists that is not
// within the refresh buffer of its expiry.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	creds, err := m.store.Load(ctx)
	if err != nil || creds == nil {
		return false
	}
	return !m.stale(creds)
}

// RemainingSeconds returns the time until the stored token expires, without
// applying the refresh buffer. Zero when no record exists or it has lapsed.
func (m *Manager) RemainingSeconds(ctx context.Context) int64 {
	creds, err := m.store.Load(ctx)
	if err != nil || creds == nil {
		return 0
	}
	remaining := (creds.ExpiresAt - time.Now().UnixMilli()) / 1000
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Logout deletes the credential record. It is unconditional and does not
// attempt to revoke the token upstream.
func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Clear(ctx)
}

func (m *Manager) stale(creds *tokenstore.Credentials) bool {
	return time.Now().UnixMilli() >= creds.ExpiresAt-m.refreshBuffer.Milliseconds()
}

func (m *Manager) refresh(ctx context.Context, refreshToken string) (*tokenstore.Credentials, error) {
	if refreshToken == "" {
		return nil, errors.New("no refresh token available")
	}

	data := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {m.clientID},
		"resource":      {m.resource},
		"refresh_token": {refreshToken},
	}
	status, body, err := m.postForm(ctx, m.tokenURL, data)
	if err != nil {
		return nil, fmt.Errorf("sending refresh request: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("refresh request failed: %d: %s", status, body)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing refresh response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, errors.New("refresh response missing access token")
	}
	return m.save(ctx, &resp)
}

// save replaces the credential record with the freshly-issued tokens.
func (m *Manager) save(ctx context.Context, resp *tokenResponse) (*tokenstore.Credentials, error) {
	expiresIn, err := resp.ExpiresIn.Int64()
	if err != nil {
		return nil, fmt.Errorf("parsing expires_in: %w", err)
	}
	creds := &tokenstore.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().UnixMilli() + expiresIn*1000,
	}
	if err := m.store.Save(ctx, creds); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}
	return creds, nil
}

func (m *Manager) postForm(ctx context.Context, endpoint string, data url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func numberToInt(n json.Number, fallback int) int {
	v, err := n.Int64()
	if err != nil {
		return fallback
	}
	return int(v)
}
