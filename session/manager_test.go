package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-bff/clients"
	"storefront-bff/models"
)

// --- Mocks ---

type MockStore struct{ mock.Mock }

func (m *MockStore) Load(ctx context.Context, clientID string) (*Record, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, clientID string, rec *Record) error {
	args := m.Called(ctx, clientID, rec)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// --- Helpers ---

func newUpstream(t *testing.T, handler http.HandlerFunc) *clients.GatewayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return clients.NewGatewayClient(srv.URL, 2*time.Second)
}

func loginUpstream(t *testing.T, token string, user models.Principal) *clients.GatewayClient {
	return newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": token,
			"user":  user,
		})
	})
}

func expiredJWT(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// --- Tests ---

func TestLoginRoutesByRole(t *testing.T) {
	cases := []struct {
		role     models.Role
		redirect string
	}{
		{models.RoleAdmin, "/admin"},
		{models.RoleManager, "/manager"},
		{models.RoleStaff, "/staff"},
		{models.RoleAuditor, "/auditor"},
		{models.RoleVolunteer, "/volunteer"},
		{models.RoleMember, "/dashboard"},
		{models.RoleUser, "/dashboard"},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			user := models.Principal{ID: "u1", Email: "a@b.com", Role: tc.role}
			api := loginUpstream(t, "t1", user)
			m := NewManager(NewMemoryStore(), api, "client-1")
			m.Initialize(context.Background())

			result, err := m.Login(context.Background(), "a@b.com", "x")

			require.NoError(t, err)
			assert.True(t, m.IsAuthenticated())
			assert.Equal(t, tc.redirect, result.Redirect)
			assert.Equal(t, tc.redirect, m.DashboardPath())
		})
	}
}

func TestLoginFailure(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
	})
	store := NewMemoryStore()
	m := NewManager(store, api, "client-1")
	m.Initialize(context.Background())

	result, err := m.Login(context.Background(), "a@b.com", "wrong")

	require.Error(t, err)
	assert.Nil(t, result)

	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid email or password", apiErr.Message)

	// No state mutation on failure
	assert.False(t, m.IsAuthenticated())
	rec, loadErr := store.Load(context.Background(), "client-1")
	require.NoError(t, loadErr)
	assert.Nil(t, rec)
}

func TestLoginPersistsBeforeInstall(t *testing.T) {
	user := models.Principal{ID: "u1", Email: "a@b.com", Role: models.RoleMember}
	api := loginUpstream(t, "t1", user)

	store := new(MockStore)
	store.On("Load", mock.Anything, "client-1").Return(nil, nil).Once()
	store.On("Save", mock.Anything, "client-1", mock.Anything).Return(assert.AnError).Once()

	m := NewManager(store, api, "client-1")
	m.Initialize(context.Background())

	_, err := m.Login(context.Background(), "a@b.com", "x")

	require.Error(t, err)
	assert.False(t, m.IsAuthenticated())
	store.AssertExpectations(t)
}

func TestLogoutIdempotent(t *testing.T) {
	user := models.Principal{ID: "u1", Email: "a@b.com", Role: models.RoleMember}
	api := loginUpstream(t, "t1", user)
	store := NewMemoryStore()
	m := NewManager(store, api, "client-1")
	m.Initialize(context.Background())

	_, err := m.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.True(t, m.IsAuthenticated())

	assert.Equal(t, HomeRedirect, m.Logout(context.Background()))
	assert.False(t, m.IsAuthenticated())

	assert.Equal(t, HomeRedirect, m.Logout(context.Background()))
	assert.False(t, m.IsAuthenticated())

	rec, err := store.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestInitializeRoundTrip(t *testing.T) {
	user := models.Principal{
		ID:            "u1",
		Email:         "a@b.com",
		FirstName:     "Ada",
		LastName:      "Byron",
		Role:          models.RoleAuditor,
		EmailVerified: true,
	}
	api := loginUpstream(t, "t1", user)
	store := NewMemoryStore()

	first := NewManager(store, api, "client-1")
	first.Initialize(context.Background())
	_, err := first.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)

	// A fresh manager over the same store sees the identical principal.
	second := NewManager(store, api, "client-1")
	assert.True(t, second.Loading())
	second.Initialize(context.Background())
	assert.False(t, second.Loading())

	require.True(t, second.IsAuthenticated())
	assert.Equal(t, user, *second.User())
	assert.Equal(t, "/auditor", second.DashboardPath())
}

func TestInitializeCorruptedState(t *testing.T) {
	store := new(MockStore)
	store.On("Load", mock.Anything, "client-1").Return(nil, assert.AnError).Once()
	store.On("Delete", mock.Anything, "client-1").Return(nil).Once()

	m := NewManager(store, nil, "client-1")
	m.Initialize(context.Background())

	assert.False(t, m.IsAuthenticated())
	assert.False(t, m.Loading())
	store.AssertExpectations(t)
}

func TestInitializeExpiredToken(t *testing.T) {
	store := NewMemoryStore()
	rec := &Record{
		Token: expiredJWT(t),
		User:  models.Principal{ID: "u1", Role: models.RoleAdmin},
	}
	require.NoError(t, store.Save(context.Background(), "client-1", rec))

	m := NewManager(store, nil, "client-1")
	m.Initialize(context.Background())

	assert.False(t, m.IsAuthenticated())
	stored, err := store.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestInitializeKeepsOpaqueToken(t *testing.T) {
	store := NewMemoryStore()
	rec := &Record{
		Token: "opaque-session-token",
		User:  models.Principal{ID: "u1", Role: models.RoleMember},
	}
	require.NoError(t, store.Save(context.Background(), "client-1", rec))

	m := NewManager(store, nil, "client-1")
	m.Initialize(context.Background())

	assert.True(t, m.IsAuthenticated())
}

func TestDoAttachesCredential(t *testing.T) {
	var gotAuth string
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "t1",
				"user":  models.Principal{ID: "u1", Role: models.RoleMember},
			})
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	m := NewManager(NewMemoryStore(), api, "client-1")
	m.Initialize(context.Background())
	_, err := m.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)

	resp, err := m.Do(context.Background(), http.MethodGet, "/orders", nil, nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer t1", gotAuth)
}

func TestDoExpiresSessionOn401(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "t1",
				"user":  models.Principal{ID: "u1", Role: models.RoleMember},
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	store := NewMemoryStore()
	m := NewManager(store, api, "client-1")
	m.Initialize(context.Background())
	_, err := m.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)

	_, err = m.Do(context.Background(), http.MethodGet, "/orders", nil, nil, nil)

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, m.IsAuthenticated())

	rec, loadErr := store.Load(context.Background(), "client-1")
	require.NoError(t, loadErr)
	assert.Nil(t, rec)
}

func TestDo401WhileLoggedOutIsNotExpiry(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	m := NewManager(NewMemoryStore(), api, "client-1")
	m.Initialize(context.Background())

	resp, err := m.Do(context.Background(), http.MethodGet, "/events", nil, nil, nil)

	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiryRedirect(t *testing.T) {
	cases := []struct {
		current string
		want    string
	}{
		{"/cart", ExpiredRedirect},
		{"/admin/reports", ExpiredRedirect},
		{"", ExpiredRedirect},
		{"/login", ""},
		{"/login?next=/cart", ""},
		{"/register", ""},
		{"/forgot-password", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExpiryRedirect(tc.current), "current=%q", tc.current)
	}
}

func TestRolePredicates(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		api := loginUpstream(t, "t1", models.Principal{ID: "u1", Role: models.RoleAdmin})
		m := NewManager(NewMemoryStore(), api, "client-1")
		m.Initialize(context.Background())
		_, err := m.Login(context.Background(), "a@b.com", "x")
		require.NoError(t, err)

		assert.True(t, m.IsAdmin())
		assert.False(t, m.IsManager())
		assert.True(t, m.HasAdminAccess())
	})

	t.Run("staff has no admin access", func(t *testing.T) {
		api := loginUpstream(t, "t1", models.Principal{ID: "u1", Role: models.RoleStaff})
		m := NewManager(NewMemoryStore(), api, "client-1")
		m.Initialize(context.Background())
		_, err := m.Login(context.Background(), "a@b.com", "x")
		require.NoError(t, err)

		assert.True(t, m.IsStaff())
		assert.False(t, m.HasAdminAccess())
	})

	t.Run("logged out", func(t *testing.T) {
		m := NewManager(NewMemoryStore(), nil, "client-1")
		m.Initialize(context.Background())

		assert.False(t, m.HasAdminAccess())
		assert.Equal(t, "/dashboard", m.DashboardPath())
	})
}
