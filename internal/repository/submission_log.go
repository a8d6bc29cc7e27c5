package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/namsos-athenaeum/athenaeum/internal/models"
)

const (
	ErrorLogFile       = "form-submissions-error.txt"
	SuccessLogFile     = "form-submissions-success.txt"
	DevelopmentLogFile = "form-submissions.txt"
)

// SubmissionLog is the append-only record of decided submissions.
type SubmissionLog interface {
	Append(ctx context.Context, entry *models.OutcomeEntry) error
}

type fileSubmissionLog struct {
	dir   string
	files map[models.Outcome]string
}

func NewFileSubmissionLog(dir string) SubmissionLog {
	return &fileSubmissionLog{
		dir: dir,
		files: map[models.Outcome]string{
			models.OutcomeRejected:    ErrorLogFile,
			models.OutcomeAccepted:    SuccessLogFile,
			models.OutcomeDevelopment: DevelopmentLogFile,
		},
	}
}

// Append writes the entry's line with one write on an O_APPEND descriptor, so
// concurrent submissions interleave per line.
func (l *fileSubmissionLog) Append(ctx context.Context, entry *models.OutcomeEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := l.files[entry.Outcome]
	if !ok {
		return fmt.Errorf("no submission log for outcome %q", entry.Outcome)
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(l.dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	if _, err := f.WriteString(entry.Line()); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return f.Close()
}
