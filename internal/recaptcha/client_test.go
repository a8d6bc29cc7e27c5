package recaptcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestVerify_Success(t *testing.T) {
	var gotSecret, gotToken, gotIP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		gotSecret = r.PostForm.Get("secret")
		gotToken = r.PostForm.Get("response")
		gotIP = r.PostForm.Get("remoteip")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"hostname":"athenaeum.no"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "server-secret", time.Second, zap.NewNop())

	assert.True(t, c.Verify(context.Background(), "client-token", "10.0.0.1"))
	assert.Equal(t, "server-secret", gotSecret)
	assert.Equal(t, "client-token", gotToken)
	assert.Equal(t, "10.0.0.1", gotIP)
}

func TestVerify_ProviderSaysNo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s", time.Second, zap.NewNop())

	assert.False(t, c.Verify(context.Background(), "bad", ""))
}

func TestVerify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s", time.Second, zap.NewNop())

	assert.False(t, c.Verify(context.Background(), "token", ""))
}

func TestVerify_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s", time.Second, zap.NewNop())

	assert.False(t, c.Verify(context.Background(), "token", ""))
}

func TestVerify_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s", 20*time.Millisecond, zap.NewNop())

	assert.False(t, c.Verify(context.Background(), "token", ""))
}

func TestVerify_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, "s", time.Second, zap.NewNop())

	assert.False(t, c.Verify(context.Background(), "token", ""))
}
