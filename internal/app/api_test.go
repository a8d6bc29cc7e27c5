//go:build api

package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server: ATHENAEUM_URL=http://localhost:8888 go test -tags api ./internal/app/
func baseURL() string {
	if u := os.Getenv("ATHENAEUM_URL"); u != "" {
		return strings.TrimSuffix(u, "/")
	}
	return "http://localhost:8888"
}

var client = &http.Client{Timeout: 10 * time.Second}

func waitForServer(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL() + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("server at %s not ready", baseURL())
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestAPI_FullFlow(t *testing.T) {
	waitForServer(t)

	t.Run("Step1_Health", func(t *testing.T) {
		t.Log(" STEP 1: GET /health")

		resp, err := client.Get(baseURL() + "/health")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var health map[string]string
		require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &health))
		assert.Equal(t, map[string]string{"status": "ok"}, health)
	})

	t.Run("Step2_Pages", func(t *testing.T) {
		for _, path := range []string{"/", "/kalender", "/vilkaar", "/lokalene", "/priser", "/kontaktskjema"} {
			t.Logf(" STEP 2: GET %s", path)

			resp, err := client.Get(baseURL() + path)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
			assert.Contains(t, body(t, resp), "Namsos Athenæum", path)
		}
	})

	t.Run("Step3_SubmissionWithoutTokenIsRejected", func(t *testing.T) {
		t.Log(" STEP 3: POST /skjema without g-recaptcha-response")

		form := url.Values{
			"navn":    {"API Test"},
			"epost":   {"api@example.no"},
			"tlf":     {"41234567"},
			"dato":    {time.Now().AddDate(0, 1, 0).Format("2006-01-02")},
			"lokaler": {"Storsalen"},
			"formaal": {"Test"},
		}
		resp, err := client.PostForm(baseURL()+"/skjema", form)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		page := body(t, resp)
		assert.Contains(t, page, `data-accepted="false"`)
		assert.Contains(t, page, "Vennligst fullfør reCAPTCHA-verifiseringen")
	})
}
