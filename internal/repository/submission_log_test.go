package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/namsos-athenaeum/athenaeum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 10, 19, 10, 30, 0, 123000000, time.UTC)

func sampleRequest() *models.BookingRequest {
	return &models.BookingRequest{
		Name:      "Kari Nordmann",
		Email:     "kari@example.no",
		Phone:     "47012345",
		Date:      "2026-11-01",
		Resources: []string{"Storsalen"},
		Purpose:   "Konfirmasjon",
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

func TestAppend_Rejected(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log := NewFileSubmissionLog(dir)

	err := log.Append(context.Background(), &models.OutcomeEntry{
		Outcome:   models.OutcomeRejected,
		Timestamp: at,
		Request:   sampleRequest(),
		Message:   "Telefonnummer har feil format",
	})
	require.NoError(t, err)

	lines := readLines(t, filepath.Join(dir, ErrorLogFile))
	require.Len(t, lines, 1)
	assert.Equal(t,
		"2026-10-19T10:30:00.123Z - Navn: Kari Nordmann, Epost: kari@example.no, Telefon: 47012345, "+
			"Dato: 2026-11-01, Lokaler: Storsalen, Formål: Konfirmasjon, Message: Telefonnummer har feil format",
		lines[0])
}

func TestAppend_OutcomeSelectsFile(t *testing.T) {
	dir := t.TempDir()
	log := NewFileSubmissionLog(dir)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, &models.OutcomeEntry{Outcome: models.OutcomeAccepted, Timestamp: at, Request: sampleRequest()}))
	require.NoError(t, log.Append(ctx, &models.OutcomeEntry{Outcome: models.OutcomeDevelopment, Timestamp: at, Request: sampleRequest()}))
	require.NoError(t, log.Append(ctx, &models.OutcomeEntry{Outcome: models.OutcomeDevelopment, Timestamp: at, Request: sampleRequest()}))

	success := readLines(t, filepath.Join(dir, SuccessLogFile))
	dev := readLines(t, filepath.Join(dir, DevelopmentLogFile))

	assert.Len(t, success, 1)
	assert.Len(t, dev, 2)
	assert.NotContains(t, success[0], "Message:")
	assert.NoFileExists(t, filepath.Join(dir, ErrorLogFile))
}

func TestAppend_UnknownOutcome(t *testing.T) {
	log := NewFileSubmissionLog(t.TempDir())

	err := log.Append(context.Background(), &models.OutcomeEntry{Outcome: "other", Timestamp: at, Request: sampleRequest()})
	assert.Error(t, err)
}

func TestAppend_DirIsAFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "logs")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	log := NewFileSubmissionLog(blocker)
	err := log.Append(context.Background(), &models.OutcomeEntry{Outcome: models.OutcomeAccepted, Timestamp: at, Request: sampleRequest()})

	assert.Error(t, err)
}

func TestAppend_ConcurrentLinesStayWhole(t *testing.T) {
	dir := t.TempDir()
	log := NewFileSubmissionLog(dir)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = log.Append(context.Background(), &models.OutcomeEntry{
				Outcome:   models.OutcomeAccepted,
				Timestamp: at,
				Request:   sampleRequest(),
			})
		}()
	}
	wg.Wait()

	lines := readLines(t, filepath.Join(dir, SuccessLogFile))
	require.Len(t, lines, 50)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "2026-10-19T10:30:00.123Z - Navn: Kari Nordmann"))
		assert.True(t, strings.HasSuffix(l, "Formål: Konfirmasjon"))
	}
}
