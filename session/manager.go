package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-bff/clients"
	"storefront-bff/models"

	"github.com/golang-jwt/jwt/v4"
)

// ErrSessionExpired is returned by Do when the upstream rejects the current
// credential. The session has already been cleared by the time callers see it.
var ErrSessionExpired = errors.New("session expired")

// ExpiredRedirect is where an expired session lands, unless it is suppressed
// because the client is already on an authentication page.
const ExpiredRedirect = "/login?expired=1"

// HomeRedirect is where a logout lands.
const HomeRedirect = "/"

var authPathPrefixes = []string{
	"/login",
	"/register",
	"/forgot-password",
	"/reset-password",
	"/verify-email",
}

// ExpiryRedirect returns the login redirect for an expired session, or the
// empty string when the client's current route is already part of the
// authentication flow (redirecting there again would loop).
func ExpiryRedirect(currentPath string) string {
	for _, prefix := range authPathPrefixes {
		if strings.HasPrefix(currentPath, prefix) {
			return ""
		}
	}
	return ExpiredRedirect
}

// Manager owns the session state for a single client: the principal record,
// its credential token, and their persisted copy. It attaches the credential
// to outgoing upstream requests and invalidates the session on rejection.
type Manager struct {
	store    Store
	api      *clients.GatewayClient
	clientID string

	user    *models.Principal
	token   string
	loading bool
}

func NewManager(store Store, api *clients.GatewayClient, clientID string) *Manager {
	return &Manager{
		store:    store,
		api:      api,
		clientID: clientID,
		loading:  true,
	}
}

// Initialize rehydrates the session from the store. Unreadable persisted
// state is discarded and the client starts logged out; this never fails the
// request. A persisted token that is already past its expiry is treated the
// same way so pages do not render as logged-in only to be bounced by the
// first upstream call.
func (m *Manager) Initialize(ctx context.Context) {
	defer func() { m.loading = false }()

	rec, err := m.store.Load(ctx, m.clientID)
	if err != nil {
		_ = m.store.Delete(ctx, m.clientID)
		return
	}
	if rec == nil || rec.Token == "" {
		return
	}
	if tokenExpired(rec.Token) {
		_ = m.store.Delete(ctx, m.clientID)
		return
	}

	user := rec.User
	m.token = rec.Token
	m.user = &user
}

// LoginResult is the outcome of a successful credential exchange. Navigation
// is left to the caller.
type LoginResult struct {
	User     *models.Principal
	Redirect string
}

type loginResponse struct {
	Token string           `json:"token"`
	User  models.Principal `json:"user"`
}

// Login exchanges credentials with the upstream API. On success the token and
// principal are persisted before the in-memory state is installed. On failure
// no state changes; credential rejections come back as *clients.APIError with
// the server's message.
func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	resp, err := m.api.PostJSON(ctx, "/auth/login", nil, payload)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	var body loginResponse
	if err := clients.DecodeJSON(resp, &body); err != nil {
		return nil, err
	}
	if body.Token == "" {
		return nil, fmt.Errorf("login response missing token")
	}

	rec := &Record{Token: body.Token, User: body.User}
	if err := m.store.Save(ctx, m.clientID, rec); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	user := body.User
	m.token = body.Token
	m.user = &user

	return &LoginResult{
		User:     m.user,
		Redirect: models.DashboardPath(user.Role),
	}, nil
}

// Logout clears the persisted and in-memory session. It is safe to call when
// already logged out; a store failure still leaves the client logged out.
func (m *Manager) Logout(ctx context.Context) string {
	m.clear(ctx)
	return HomeRedirect
}

func (m *Manager) clear(ctx context.Context) {
	_ = m.store.Delete(ctx, m.clientID)
	m.user = nil
	m.token = ""
}

// Do issues an authorized upstream request. A 401 reply while a principal is
// logged in expires the session exactly like Logout and returns
// ErrSessionExpired. A 401 while logged out is passed through untouched, so
// public pages that legitimately see 401s are unaffected.
func (m *Manager) Do(ctx context.Context, method, path string, query url.Values, headers http.Header, body io.Reader) (*http.Response, error) {
	if headers == nil {
		headers = http.Header{}
	}
	if m.token != "" {
		headers.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.api.Do(ctx, method, path, query, headers, body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && m.IsAuthenticated() {
		resp.Body.Close()
		m.clear(ctx)
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// PostJSON issues an authorized JSON POST through Do.
func (m *Manager) PostJSON(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	return m.Do(ctx, http.MethodPost, path, nil, headers, bytes.NewReader(data))
}

func (m *Manager) Loading() bool { return m.loading }

// User returns the current principal, or nil when logged out.
func (m *Manager) User() *models.Principal { return m.user }

func (m *Manager) IsAuthenticated() bool { return m.user != nil }

func (m *Manager) role() models.Role {
	if m.user == nil {
		return ""
	}
	return m.user.Role
}

func (m *Manager) IsAdmin() bool     { return m.role() == models.RoleAdmin }
func (m *Manager) IsManager() bool   { return m.role() == models.RoleManager }
func (m *Manager) IsStaff() bool     { return m.role() == models.RoleStaff }
func (m *Manager) IsAuditor() bool   { return m.role() == models.RoleAuditor }
func (m *Manager) IsMember() bool    { return m.role() == models.RoleMember }
func (m *Manager) IsVolunteer() bool { return m.role() == models.RoleVolunteer }

// HasAdminAccess reports whether the principal may enter the back office.
func (m *Manager) HasAdminAccess() bool { return m.role().HasAdminAccess() }

// DashboardPath returns the role-specific landing page for the current
// principal. Logged-out clients get the default dashboard.
func (m *Manager) DashboardPath() string {
	return models.DashboardPath(m.role())
}

// tokenExpired reports whether a persisted JWT is already past its expiry.
// Opaque (non-JWT) tokens and tokens without an exp claim are kept; the
// upstream 401 path handles those.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(time.Now().Unix(), false)
}
