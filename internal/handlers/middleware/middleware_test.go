package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecobayanihan/config"
	"ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTx struct{}

func (fakeTx) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

func (fakeTx) DB(ctx context.Context) *gorm.DB { return nil }

// fakeSessions uses the session id itself as the cookie token.
type fakeSessions struct {
	sessions map[string]types.Session
}

func (f *fakeSessions) Load(ctx context.Context, token string) *types.Session {
	if session, ok := f.sessions[token]; ok {
		return &session
	}
	return types.NewSession(uuid.NewString(), time.Now())
}

func (f *fakeSessions) Save(ctx context.Context, session *types.Session) (string, error) {
	session.MarkClean()
	f.sessions[session.ID] = *session
	return session.ID, nil
}

func (f *fakeSessions) Destroy(ctx context.Context, session *types.Session) error {
	delete(f.sessions, session.ID)
	session.MarkDestroyed()
	return nil
}

func (f *fakeSessions) TTL() time.Duration { return time.Hour }

type fakeParticipants struct {
	repositories.ParticipantRepository
	byEmail map[string]*models.Participant
}

func (f *fakeParticipants) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Participant, error) {
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeStaff struct {
	repositories.StaffAccountRepository
	byID map[uuid.UUID]*models.StaffAccount
}

func (f *fakeStaff) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.StaffAccount, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type testClock struct {
	now time.Time
}

type harness struct {
	app      *fiber.App
	sessions *fakeSessions
	staff    *models.StaffAccount
	clock    *testClock
}

func newHarness() *harness {
	staff := &models.StaffAccount{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		Username:      "admin",
		IsStaff:       true,
		IsActive:      true,
	}
	participant := &models.Participant{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		Email:         "test@example.com",
	}

	h := &harness{
		sessions: &fakeSessions{sessions: make(map[string]types.Session)},
		staff:    staff,
		clock:    &testClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
	}

	m := &Middleware{
		sessions:        h.sessions,
		participantRepo: &fakeParticipants{byEmail: map[string]*models.Participant{participant.Email: participant}},
		staffRepo:       &fakeStaff{byID: map[uuid.UUID]*models.StaffAccount{staff.ID: staff}},
		tx:              fakeTx{},
		Config:          config.Config{Environment: "development", AdminIdleTimeoutSeconds: 300},
		now:             func() time.Time { return h.clock.now },
		log:             logger.New("middleware_test"),
	}

	app := fiber.New()
	app.Use(m.TraceID())
	app.Use(m.Session())
	app.Use(m.AdminIdleTimeout())
	app.Use(m.ResolveParticipant())

	app.Get("/trace", func(c *fiber.Ctx) error {
		return c.SendString(GetTraceID(c))
	})
	app.Get("/touch", func(c *fiber.Ctx) error {
		GetSession(c).SetRegistrationSuccess(types.RegistrationSuccess{Name: "x"}, time.Now())
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		session := GetSession(c)
		if err := h.sessions.Destroy(c.UserContext(), session); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/points-history", m.RequireParticipant(), func(c *fiber.Ctx) error {
		return c.SendString(GetParticipant(c).Email)
	})
	app.Get("/custom-admin", m.RequireStaff(), func(c *fiber.Ctx) error {
		return c.SendString(GetStaff(c).Username)
	})
	app.Get("/admin-login", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h.app = app
	return h
}

func (h *harness) staffSession(lastActivity time.Time) string {
	session := types.NewSession(uuid.NewString(), lastActivity)
	session.SignInStaff(h.staff.ID, h.staff.Username, lastActivity)
	session.MarkClean()
	h.sessions.sessions[session.ID] = *session
	return session.ID
}

func (h *harness) participantSession(email string) string {
	session := types.NewSession(uuid.NewString(), h.clock.now)
	session.SignInParticipant(uuid.New(), email, h.clock.now)
	session.MarkClean()
	h.sessions.sessions[session.ID] = *session
	return session.ID
}

func (h *harness) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: services.SESSION_COOKIE_NAME, Value: token})
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == services.SESSION_COOKIE_NAME {
			return cookie
		}
	}
	return nil
}

func TestTraceID(t *testing.T) {
	h := newHarness()

	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set(TraceIDHeader, "trace-123")
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get(TraceIDHeader))

	resp = h.get(t, "/trace", "")
	assert.NotEmpty(t, resp.Header.Get(TraceIDHeader))
}

func TestSession_OnlyPersistedWhenChanged(t *testing.T) {
	h := newHarness()

	resp := h.get(t, "/trace", "")
	assert.Nil(t, sessionCookie(resp))
	assert.Empty(t, h.sessions.sessions)

	resp = h.get(t, "/touch", "")
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Contains(t, h.sessions.sessions, cookie.Value)
}

func TestSession_DestroyClearsCookie(t *testing.T) {
	h := newHarness()
	token := h.participantSession("test@example.com")

	resp := h.get(t, "/logout", token)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.NotContains(t, h.sessions.sessions, token)
}

func TestRequireParticipant(t *testing.T) {
	h := newHarness()

	resp := h.get(t, "/points-history", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = h.get(t, "/points-history", h.participantSession("gone@example.com"))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = h.get(t, "/points-history", h.participantSession("test@example.com"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireStaff(t *testing.T) {
	h := newHarness()

	resp := h.get(t, "/custom-admin", h.participantSession("test@example.com"))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = h.get(t, "/custom-admin", h.staffSession(h.clock.now))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireStaff_DeactivatedAccount(t *testing.T) {
	h := newHarness()
	token := h.staffSession(h.clock.now)
	h.staff.IsActive = false

	resp := h.get(t, "/custom-admin", token)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, h.sessions.sessions, token)
}

func TestAdminIdleTimeout(t *testing.T) {
	tests := []struct {
		name       string
		idle       time.Duration
		wantStatus int
		wantKept   bool
	}{
		{"active at 299 seconds", 299 * time.Second, fiber.StatusOK, true},
		{"expired at 300 seconds", 300 * time.Second, fiber.StatusUnauthorized, false},
		{"expired long after", time.Hour, fiber.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			token := h.staffSession(h.clock.now.Add(-tt.idle))

			resp := h.get(t, "/custom-admin", token)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			_, kept := h.sessions.sessions[token]
			assert.Equal(t, tt.wantKept, kept)

			if !tt.wantKept {
				body := make([]byte, 256)
				n, _ := resp.Body.Read(body)
				assert.True(t, strings.Contains(string(body[:n]), "/admin-login"))
			}
		})
	}
}

func TestAdminIdleTimeout_PathCaseDoesNotBypass(t *testing.T) {
	for _, path := range []string{"/Custom-Admin", "/CUSTOM-ADMIN"} {
		t.Run(path, func(t *testing.T) {
			h := newHarness()
			token := h.staffSession(h.clock.now.Add(-time.Hour))

			resp := h.get(t, path, token)

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.NotContains(t, h.sessions.sessions, token)
		})
	}
}

func TestAdminIdleTimeout_RefreshesActivity(t *testing.T) {
	h := newHarness()
	token := h.staffSession(h.clock.now.Add(-200 * time.Second))

	resp := h.get(t, "/custom-admin", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored := h.sessions.sessions[token]
	require.NotNil(t, stored.AdminLastActivity)
	assert.Equal(t, h.clock.now, *stored.AdminLastActivity)
}

func TestAdminIdleTimeout_IgnoresOtherPaths(t *testing.T) {
	h := newHarness()
	token := h.staffSession(h.clock.now.Add(-time.Hour))

	resp := h.get(t, "/admin-login", token)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, h.sessions.sessions, token)
}

func TestIsAdminPath(t *testing.T) {
	assert.True(t, isAdminPath("/custom-admin"))
	assert.True(t, isAdminPath("/custom-admin/events/1"))
	assert.True(t, isAdminPath("/admin"))
	assert.True(t, isAdminPath("/admin/participants"))
	assert.True(t, isAdminPath("/Custom-Admin"))
	assert.True(t, isAdminPath("/ADMIN/participants"))
	assert.True(t, isAdminPath("/custom-admin/"))
	assert.False(t, isAdminPath("/admin-login"))
	assert.False(t, isAdminPath("/ADMIN-LOGIN"))
	assert.False(t, isAdminPath("/admin-logout"))
	assert.False(t, isAdminPath("/select-event"))
}
