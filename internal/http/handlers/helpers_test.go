package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gmart/internal/cache"
	"gmart/internal/config"
	"gmart/internal/http/handlers"
	applog "gmart/internal/log"
	"gmart/internal/repos"
	"gmart/internal/services"
)

type harness struct {
	t   *testing.T
	app *fiber.App
	db  *sqlx.DB
	st  services.Stores
}

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		Backend:      config.BackendSQLite,
		DBDSN:        ":memory:",
		TemplatesDir: "../../../web/templates",
		StaticDir:    "../../../web/static",
		CacheTTL:     time.Minute,
		RateLimit:    1000,
		LoginLimit:   100,
	}
}

// newHarness wires the full storefront over a fresh seeded database.
func newHarness(t *testing.T, tweak ...func(*config.Config)) *harness {
	t.Helper()
	cfg := testConfig()
	for _, f := range tweak {
		f(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := repos.NewStores(db)
	app := handlers.NewApp(cfg, handlers.NewDeps(st, cache.NewMemory(), cfg))
	return &harness{t: t, app: app, db: db, st: st}
}

// observe routes the app logger into an in-memory sink for the test.
func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(zap.NewNop()) })
	return logs
}

func (h *harness) signIn(email string) string {
	h.t.Helper()
	s, err := h.st.Auth.SignIn(context.Background(), email, "Passw0rd!")
	require.NoError(h.t, err)
	return s.Token
}

// csrf fetches a page so the csrf middleware issues a token cookie.
func (h *harness) csrf() string {
	h.t.Helper()
	resp := h.get("/contact", "")
	tok := cookie(resp, "csrf_")
	require.NotEmpty(h.t, tok, "csrf token missing")
	return tok
}

func (h *harness) do(req *http.Request) *http.Response {
	h.t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	return resp
}

func (h *harness) get(path, sid string) *http.Response {
	h.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return h.do(req)
}

// post submits a form with a valid csrf token unless form already sets one.
func (h *harness) post(path, sid string, form url.Values) *http.Response {
	h.t.Helper()
	tok := h.csrf()
	if form == nil {
		form = url.Values{}
	}
	if _, ok := form["csrf"]; !ok {
		form.Set("csrf", tok)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return h.do(req)
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func actionField(a string) zap.Field { return zap.String("action", a) }
