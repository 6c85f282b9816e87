package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marianfedorco24/api/internal/common"
	"github.com/marianfedorco24/api/internal/dbx"
	"github.com/marianfedorco24/api/internal/logging"
	"github.com/marianfedorco24/api/internal/server/config"
	"github.com/marianfedorco24/api/internal/server/models"
	"github.com/marianfedorco24/api/internal/server/services"
	cachesrepo "github.com/marianfedorco24/api/internal/server/repositories/caches"
	pendingrepo "github.com/marianfedorco24/api/internal/server/repositories/pendingsignups"
	sessionsrepo "github.com/marianfedorco24/api/internal/server/repositories/sessions"
	usersrepo "github.com/marianfedorco24/api/internal/server/repositories/users"
)

/**************
 * FAKES
 **************/

// memStore backs every repository with in-process maps so the full HTTP
// flows run end to end without Postgres.
type memStore struct {
	mu sync.Mutex

	usersByID  map[string]models.User
	sessions   map[string]models.Session
	pendings   map[string]models.PendingSignup
	classes    []models.CachedClass
	mealsByDay map[string]models.CachedMeal
}

func newMemStore() *memStore {
	return &memStore{
		usersByID:  make(map[string]models.User),
		sessions:   make(map[string]models.Session),
		pendings:   make(map[string]models.PendingSignup),
		mealsByDay: make(map[string]models.CachedMeal),
	}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *memStore) Users(dbx.DBTX) usersrepo.Repository              { return (*memUsers)(m) }
func (m *memStore) Sessions(dbx.DBTX) sessionsrepo.Repository        { return (*memSessions)(m) }
func (m *memStore) PendingSignups(dbx.DBTX) pendingrepo.Repository   { return (*memPendings)(m) }
func (m *memStore) Caches(dbx.DBTX) cachesrepo.Repository            { return (*memCaches)(m) }

type memUsers memStore

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	cp.CreatedAt = time.Now()
	m.usersByID[cp.ID] = cp
	return &cp, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.usersByID[id]; ok {
		return &u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.usersByID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.usersByID {
		if u.ExternalID.Valid && u.ExternalID.String == externalID {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usersByID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = sql.NullString{String: hash, Valid: true}
	m.usersByID[id] = u
	return nil
}

func (m *memUsers) UpdateExternalID(ctx context.Context, id string, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usersByID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.ExternalID = sql.NullString{String: externalID, Valid: true}
	m.usersByID[id] = u
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.usersByID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.usersByID, id)
	return nil
}

type memSessions memStore

func (m *memSessions) Create(ctx context.Context, userID string, token string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = models.Session{Token: token, UserID: userID, Expires: expires}
	return nil
}

func (m *memSessions) Find(ctx context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		return &s, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memSessions) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memSessions) DeleteAllForUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

type memPendings memStore

func (m *memPendings) Upsert(ctx context.Context, p *models.PendingSignup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, old := range m.pendings {
		if old.Email == p.Email {
			delete(m.pendings, token)
		}
	}
	m.pendings[p.Token] = *p
	return nil
}

func (m *memPendings) Find(ctx context.Context, token string) (*models.PendingSignup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pendings[token]; ok {
		return &p, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memPendings) IncrementAttempts(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pendings[token]
	if !ok {
		return common.ErrorNotFound
	}
	p.Attempts++
	m.pendings[token] = p
	return nil
}

func (m *memPendings) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pendings, token)
	return nil
}

type memCaches memStore

func (m *memCaches) NextClass(ctx context.Context, after time.Time) (*models.CachedClass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.CachedClass
	for i := range m.classes {
		c := m.classes[i]
		if c.StartsAt.After(after) && (best == nil || c.StartsAt.Before(best.StartsAt)) {
			best = &c
		}
	}
	if best == nil {
		return nil, common.ErrorNotFound
	}
	return best, nil
}

func (m *memCaches) InsertClasses(ctx context.Context, classes []models.CachedClass) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes = append(m.classes, classes...)
	return nil
}

func (m *memCaches) MealForDay(ctx context.Context, day time.Time) (*models.CachedMeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meal, ok := m.mealsByDay[day.Format("2006-01-02")]; ok {
		return &meal, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memCaches) UpsertMeal(ctx context.Context, meal *models.CachedMeal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mealsByDay[meal.Day.Format("2006-01-02")] = *meal
	return nil
}

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *captureSender) SendVerificationCode(ctx context.Context, to string, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codes == nil {
		c.codes = make(map[string]string)
	}
	c.codes[to] = code
	return nil
}

func (c *captureSender) codeFor(to string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[to]
}

/**************
 * HARNESS
 **************/

type harness struct {
	ts     *httptest.Server
	store  *memStore
	sender *captureSender
	cfg    *config.Config
}

// newHarness spins up the full boundary over in-memory stores. The sqlmock
// handle only serves transaction begin/commit/rollback; all data access
// goes through the memStore.
func newHarness(t *testing.T, mutate func(cfg *config.Config)) *harness {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 64; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SignupVerification = false
	cfg.CacheAPIKey = "cache-key"
	if mutate != nil {
		mutate(cfg)
	}

	store := newMemStore()
	sender := &captureSender{}

	logger := logging.NewSlogLogger(newDiscardSlog())
	sessions := services.NewSessionService(db, store, cfg)
	users := services.NewUserService(db, store, sessions, sender, cfg)
	caches := services.NewCacheService(db, store, nil, nil)

	srv := New(cfg, logger, users, sessions, caches, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &harness{ts: ts, store: store, sender: sender, cfg: cfg}
}

func (h *harness) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, h.ts.URL+path, buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := h.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (h *harness) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	resp := h.do(t, "POST", "/auth/login", map[string]any{"email": email, "password": password})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d", resp.StatusCode)
	}
	c := cookieByName(resp, sessionCookieName)
	if c == nil || c.Value == "" {
		t.Fatalf("login returned no session cookie")
	}
	return c
}

/**************
 * TESTS
 **************/

func TestSignupDirect_CreatesAccountAndSession(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", resp.StatusCode)
	}

	c := cookieByName(resp, sessionCookieName)
	if c == nil || c.Value == "" {
		t.Fatalf("no session cookie")
	}
	if !c.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if c.Secure {
		t.Fatalf("dev cookies must not be Secure")
	}

	// The cookie authenticates immediately.
	me := h.do(t, "GET", "/me", nil, c)
	if me.StatusCode != http.StatusOK {
		t.Fatalf("/me status %d", me.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(me.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["email"] != "a@b.cz" {
		t.Fatalf("unexpected /me body: %v", body)
	}
}

func TestSignupDirect_Conflict(t *testing.T) {
	h := newHarness(t, nil)

	if resp := h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first signup: %d", resp.StatusCode)
	}
	resp := h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "other1"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("want 409, got %d", resp.StatusCode)
	}
}

func TestSignup_FieldValidation(t *testing.T) {
	h := newHarness(t, nil)

	if resp := h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz"}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing password: want 400, got %d", resp.StatusCode)
	}
	if resp := h.do(t, "POST", "/auth/signup", map[string]any{"email": "nope", "password": "secret"}); resp.StatusCode != http.StatusNotAcceptable {
		t.Fatalf("bad email: want 406, got %d", resp.StatusCode)
	}
	if resp := h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "abc"}); resp.StatusCode != http.StatusNotAcceptable {
		t.Fatalf("short password: want 406, got %d", resp.StatusCode)
	}
}

func TestSignupVerified_FullFlow(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.SignupVerification = true })

	resp := h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status %d", resp.StatusCode)
	}

	signup := cookieByName(resp, signupCookieName)
	if signup == nil || signup.Value == "" {
		t.Fatalf("no signup cookie")
	}
	if signup.MaxAge != signupCookieMaxAge {
		t.Fatalf("signup cookie MaxAge: %d", signup.MaxAge)
	}
	if cookieByName(resp, sessionCookieName) != nil {
		t.Fatalf("no session may be issued before confirmation")
	}

	code := h.sender.codeFor("a@b.cz")
	if len(code) != 6 {
		t.Fatalf("mailed code: %q", code)
	}

	confirm := h.do(t, "POST", "/auth/verify-code", map[string]any{"code": code}, signup)
	if confirm.StatusCode != http.StatusOK {
		t.Fatalf("confirm status %d", confirm.StatusCode)
	}
	session := cookieByName(confirm, sessionCookieName)
	if session == nil || session.Value == "" {
		t.Fatalf("no session cookie after confirmation")
	}
	if cleared := cookieByName(confirm, signupCookieName); cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("signup cookie must be cleared, got %+v", cleared)
	}

	if me := h.do(t, "GET", "/me", nil, session); me.StatusCode != http.StatusOK {
		t.Fatalf("/me status %d", me.StatusCode)
	}
}

func TestVerifyCode_WrongCodeThenLockout(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.SignupVerification = true })

	resp := h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"})
	signup := cookieByName(resp, signupCookieName)
	if signup == nil {
		t.Fatalf("no signup cookie")
	}
	right := h.sender.codeFor("a@b.cz")
	wrong := "000000"
	if wrong == right {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		r := h.do(t, "POST", "/auth/verify-code", map[string]any{"code": wrong}, signup)
		if r.StatusCode != http.StatusForbidden {
			t.Fatalf("attempt %d: want 403, got %d", i+1, r.StatusCode)
		}
	}

	// Budget exhausted: even the right code is rejected.
	r := h.do(t, "POST", "/auth/verify-code", map[string]any{"code": right}, signup)
	if r.StatusCode != http.StatusRequestTimeout {
		t.Fatalf("want 408, got %d", r.StatusCode)
	}

	// Row is gone now.
	r = h.do(t, "POST", "/auth/verify-code", map[string]any{"code": right}, signup)
	if r.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", r.StatusCode)
	}
}

func TestVerifyCode_NoCookie(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.SignupVerification = true })

	resp := h.do(t, "POST", "/auth/verify-code", map[string]any{"code": "123456"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}

func TestLogin_CookieLifetimes(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"})

	plain := h.do(t, "POST", "/auth/login", map[string]any{"email": "a@b.cz", "password": "secret"})
	c := cookieByName(plain, sessionCookieName)
	if c == nil {
		t.Fatalf("no cookie")
	}
	if !c.Expires.IsZero() || c.MaxAge != 0 {
		t.Fatalf("plain login must issue a browser-session cookie, got %+v", c)
	}

	remembered := h.do(t, "POST", "/auth/login", map[string]any{"email": "a@b.cz", "password": "secret", "remember": true})
	c = cookieByName(remembered, sessionCookieName)
	if c == nil || c.Expires.IsZero() {
		t.Fatalf("remembered login must carry an expiry, got %+v", c)
	}
	if until := time.Until(c.Expires); until < 29*24*time.Hour {
		t.Fatalf("remembered expiry too short: %v", until)
	}
}

func TestLogin_Failures(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"})

	if resp := h.do(t, "POST", "/auth/login", map[string]any{"email": "a@b.cz", "password": "wrong1"}); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: want 401, got %d", resp.StatusCode)
	}
	if resp := h.do(t, "POST", "/auth/login", map[string]any{"email": "ghost@b.cz", "password": "secret"}); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown email: want 401, got %d", resp.StatusCode)
	}
	if resp := h.do(t, "POST", "/auth/login", map[string]any{"email": "a@b.cz"}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing password: want 400, got %d", resp.StatusCode)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"})
	c := h.login(t, "a@b.cz", "secret")

	out := h.do(t, "POST", "/auth/logout", nil, c)
	if out.StatusCode != http.StatusOK {
		t.Fatalf("logout status %d", out.StatusCode)
	}
	if cleared := cookieByName(out, sessionCookieName); cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("session cookie must be cleared, got %+v", cleared)
	}

	// The token is dead server-side, not just in the browser.
	if me := h.do(t, "GET", "/me", nil, c); me.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked session: want 401, got %d", me.StatusCode)
	}
}

func TestMe_SessionHandling(t *testing.T) {
	h := newHarness(t, nil)

	if resp := h.do(t, "GET", "/me", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("no cookie: want 400, got %d", resp.StatusCode)
	}

	resp := h.do(t, "GET", "/me", nil, &http.Cookie{Name: sessionCookieName, Value: "forged"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("forged cookie: want 401, got %d", resp.StatusCode)
	}
	if cleared := cookieByName(resp, sessionCookieName); cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("invalid cookie must be cleared on 401, got %+v", cleared)
	}
}

func TestChangePassword_RevokesEverySession(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"})

	first := h.login(t, "a@b.cz", "secret")
	second := h.login(t, "a@b.cz", "secret")

	resp := h.do(t, "POST", "/auth/change-password", map[string]any{"new_password": "newsecret"}, first)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("change-password status %d", resp.StatusCode)
	}

	if me := h.do(t, "GET", "/me", nil, second); me.StatusCode != http.StatusUnauthorized {
		t.Fatalf("other session must be revoked: want 401, got %d", me.StatusCode)
	}

	if resp := h.do(t, "POST", "/auth/login", map[string]any{"email": "a@b.cz", "password": "secret"}); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("old password must stop working: want 401, got %d", resp.StatusCode)
	}
	h.login(t, "a@b.cz", "newsecret")
}

func TestDeleteAccount(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, "POST", "/auth/signup", map[string]any{"email": "a@b.cz", "password": "secret"})
	c := h.login(t, "a@b.cz", "secret")

	resp := h.do(t, "POST", "/auth/delete-account", nil, c)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", resp.StatusCode)
	}

	if resp := h.do(t, "POST", "/auth/login", map[string]any{"email": "a@b.cz", "password": "secret"}); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("deleted account must not log in: want 401, got %d", resp.StatusCode)
	}
}

func TestCacheEndpoints_APIKey(t *testing.T) {
	h := newHarness(t, nil)
	h.store.classes = []models.CachedClass{
		{ID: 1, Subject: "math", Classroom: "A1", StartsAt: time.Now().Add(time.Hour)},
	}
	h.store.mealsByDay[time.Now().Truncate(24*time.Hour).Format("2006-01-02")] = models.CachedMeal{
		Name: "gulas", Soup: "cesnecka",
	}

	req, _ := http.NewRequest("GET", h.ts.URL+"/schedule/next-class", nil)
	resp, err := h.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing key: want 401, got %d", resp.StatusCode)
	}

	for path, field := range map[string]string{
		"/schedule/next-class": "subject",
		"/meals/today":         "name",
	} {
		req, _ := http.NewRequest("GET", h.ts.URL+path, nil)
		req.Header.Set("x-api-key", "cache-key")
		resp, err := h.ts.Client().Do(req)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || body[field] == "" {
			t.Fatalf("%s: status %d body %v", path, resp.StatusCode, body)
		}
	}
}

func TestRateLimit_Login(t *testing.T) {
	h := newHarness(t, nil)

	var last *http.Response
	for i := 0; i < 11; i++ {
		last = h.do(t, "POST", "/auth/login", map[string]any{"email": "a@b.cz", "password": "secret"})
	}
	if last.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", last.StatusCode)
	}
	if last.Header.Get("Retry-After") == "" {
		t.Fatalf("429 must carry Retry-After")
	}
}

func TestMethodGuard(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, "GET", "/auth/login", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Allow") != "POST" {
		t.Fatalf("Allow header: %q", resp.Header.Get("Allow"))
	}
}

func TestResponseHeaders(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, "GET", "/me", nil)
	if resp.Header.Get("Cache-Control") != "no-store" {
		t.Fatalf("Cache-Control: %q", resp.Header.Get("Cache-Control"))
	}
	if resp.Header.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("Referrer-Policy: %q", resp.Header.Get("Referrer-Policy"))
	}
}

// newDiscardSlog returns a logger that drops everything; handler tests
// assert on responses, not log lines.
func newDiscardSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
