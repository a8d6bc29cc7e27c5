package app

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/namsos-athenaeum/athenaeum/config"
	"github.com/namsos-athenaeum/athenaeum/internal/models"
	"github.com/namsos-athenaeum/athenaeum/internal/repository"
	"github.com/namsos-athenaeum/athenaeum/pkg/accesslog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, verifyURL string) *config.Config {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "css", "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "favicon.ico"), []byte("ico"), 0o644))

	return &config.Config{
		Mode: models.ModeDevelopment,
		Server: config.ServerConfig{
			Port:            config.DefaultPort,
			StaticDir:       static,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Log:       config.LogConfig{Level: "info", Dir: t.TempDir()},
		AccessLog: config.AccessLogConfig{MaxFiles: 2},
		Mail:      config.MailConfig{Host: "localhost", Port: 2525, Timeout: time.Second},
		Recaptcha: config.RecaptchaConfig{
			SecretKey: "secret",
			SiteKey:   "site-key",
			VerifyURL: verifyURL,
			Timeout:   time.Second,
		},
		Venue: config.VenueConfig{TimeZone: "Europe/Oslo", Resources: []string{"Storsalen", "Peisestua"}},
	}
}

func newTestApp(t *testing.T, verifyURL string) (*App, *config.Config) {
	t.Helper()
	cfg := testConfig(t, verifyURL)
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, cfg
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func TestApp_HealthAndPages(t *testing.T) {
	a, _ := newTestApp(t, "http://127.0.0.1:1")

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/kontaktskjema", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-sitekey="site-key"`)
}

func TestApp_StaticAssets(t *testing.T) {
	a, _ := newTestApp(t, "http://127.0.0.1:1")

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/css/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/finnes-ikke", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApp_ShippedPublicDir(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Server.StaticDir = filepath.Join("..", "..", "public")
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x00\x00\x01\x00"), "icon resource header")

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/css/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_DevelopmentSubmission(t *testing.T) {
	remoteIP := make(chan string, 1)
	verify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		remoteIP <- r.PostForm.Get("remoteip")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer verify.Close()

	a, cfg := newTestApp(t, verify.URL)

	form := url.Values{
		"navn":                 {"Kari Nordmann"},
		"epost":                {"kari@example.no"},
		"tlf":                  {"41234567"},
		"dato":                 {time.Now().AddDate(0, 1, 0).Format("2006-01-02")},
		"lokaler":              {"Storsalen"},
		"formaal":              {"Konfirmasjon"},
		"g-recaptcha-response": {"token"},
	}
	req := httptest.NewRequest(http.MethodPost, "/skjema", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.5")
	req.RemoteAddr = "127.0.0.1:40000"

	rec := serve(a, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-accepted="true"`)
	assert.Equal(t, "203.0.113.5", <-remoteIP)

	data, err := os.ReadFile(filepath.Join(cfg.Log.Dir, repository.DevelopmentLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Navn: Kari Nordmann")
	assert.Contains(t, string(data), "Lokaler: Storsalen")
}

func TestApp_MissingTokenIsRejected(t *testing.T) {
	a, cfg := newTestApp(t, "http://127.0.0.1:1")

	form := url.Values{"navn": {"Kari"}, "lokaler": {"Storsalen"}}
	req := httptest.NewRequest(http.MethodPost, "/skjema", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := serve(a, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vennligst fullfør reCAPTCHA-verifiseringen")

	data, err := os.ReadFile(filepath.Join(cfg.Log.Dir, repository.ErrorLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Message: Vennligst fullfør reCAPTCHA-verifiseringen")
}

func TestApp_AccessLogWritten(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/priser", nil)
	req.Header.Set(echo.HeaderXForwardedFor, "198.51.100.1")
	serve(a, req)
	a.Close()

	data, err := os.ReadFile(filepath.Join(cfg.Log.Dir, accesslog.FileName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "198.51.100.1 ["))
	assert.Contains(t, string(data), `"GET /priser HTTP/1.1" 200`)
}
