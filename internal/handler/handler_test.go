package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/namsos-athenaeum/athenaeum/internal/dto"
	"github.com/namsos-athenaeum/athenaeum/internal/models"
	"github.com/namsos-athenaeum/athenaeum/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock SubmissionService ---

type mockSubmissionService struct {
	submitFn func(ctx context.Context, req *models.BookingRequest) (*models.Decision, error)
}

func (m *mockSubmissionService) Submit(ctx context.Context, req *models.BookingRequest) (*models.Decision, error) {
	return m.submitFn(ctx, req)
}

func postForm(values url.Values) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/skjema", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.9")
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func validForm() url.Values {
	return url.Values{
		"navn":                 {"Kari Nordmann"},
		"epost":                {"kari@example.no"},
		"tlf":                  {"41234567"},
		"dato":                 {"2030-05-17"},
		"lokaler":              {"Storsalen", "Peisestua"},
		"formaal":              {"Konfirmasjon"},
		"g-recaptcha-response": {"token-abc"},
	}
}

// --- Tests ---

func TestSubmit_Handler_Accepted(t *testing.T) {
	var got *models.BookingRequest
	svc := &mockSubmissionService{
		submitFn: func(ctx context.Context, req *models.BookingRequest) (*models.Decision, error) {
			got = req
			return &models.Decision{Accepted: true, Message: service.MessageSent}, nil
		},
	}
	rec, c := postForm(validForm())

	err := NewSubmissionHandler(svc).Submit(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-accepted="true"`)
	assert.Contains(t, rec.Body.String(), service.MessageSent)

	require.NotNil(t, got)
	assert.Equal(t, "Kari Nordmann", got.Name)
	assert.Equal(t, []string{"Storsalen", "Peisestua"}, got.Resources)
	assert.Equal(t, "token-abc", got.VerificationToken)
	assert.Equal(t, "203.0.113.9", got.RemoteIP)
}

func TestSubmit_Handler_RejectedStillOK(t *testing.T) {
	svc := &mockSubmissionService{
		submitFn: func(ctx context.Context, req *models.BookingRequest) (*models.Decision, error) {
			return &models.Decision{Accepted: false, Message: "Telefonnummer har feil format"}, nil
		},
	}
	rec, c := postForm(validForm())

	err := NewSubmissionHandler(svc).Submit(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-accepted="false"`)
	assert.Contains(t, rec.Body.String(), "Telefonnummer har feil format")
}

func TestSubmit_Handler_NoResourcesBecomesSentinel(t *testing.T) {
	var got *models.BookingRequest
	svc := &mockSubmissionService{
		submitFn: func(ctx context.Context, req *models.BookingRequest) (*models.Decision, error) {
			got = req
			return &models.Decision{Accepted: false, Message: "Du må velge et lokale"}, nil
		},
	}
	form := validForm()
	form.Del("lokaler")
	_, c := postForm(form)

	require.NoError(t, NewSubmissionHandler(svc).Submit(c))
	assert.Equal(t, []string{models.NoResourceSelected}, got.Resources)
}

func TestSubmit_Handler_UnsupportedMode(t *testing.T) {
	svc := &mockSubmissionService{
		submitFn: func(ctx context.Context, req *models.BookingRequest) (*models.Decision, error) {
			return nil, fmt.Errorf("%w: %q", service.ErrUnsupportedMode, "staging")
		},
	}
	_, c := postForm(validForm())

	err := NewSubmissionHandler(svc).Submit(c)

	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusInternalServerError, he.Code)
}

func TestPages_Render(t *testing.T) {
	e := echo.New()
	NewPageHandler("site-key-123", []string{"Storsalen"}).RegisterRoutes(e)

	for _, path := range []string{"/", "/kalender", "/vilkaar", "/lokalene", "/priser", "/kontaktskjema"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType), path)
	}
}

func TestContactForm_HasSiteKeyAndResources(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/kontaktskjema", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewPageHandler("site-key-123", []string{"Storsalen", "Kjøkkenet"}).ContactForm(c)

	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `data-sitekey="site-key-123"`)
	assert.Contains(t, rec.Body.String(), `value="Kjøkkenet"`)
}

func TestHealth_Handler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewPageHandler("", nil).Health(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
