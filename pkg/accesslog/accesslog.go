// Package accesslog writes one line per HTTP request to a file that is rotated
// once a day and pruned to a fixed number of old files.
package accesslog

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const FileName = "access.log"

// clfTime is the common log format timestamp.
const clfTime = "02/Jan/2006:15:04:05 -0700"

type Config struct {
	Dir      string
	MaxFiles int
	Compress bool
	Interval time.Duration
}

type Entry struct {
	ForwardedFor   string
	Time           time.Time
	Method         string
	URI            string
	Proto          string
	Status         int
	ContentLength  string
	Latency        time.Duration
	Referer        string
	AcceptLanguage string
	UserAgent      string
}

// Line formats e as
// xff [date] "METHOD url HTTP/x.y" status length ms "referer" "accept-language" "user-agent".
func (e Entry) Line() string {
	proto := e.Proto
	if len(proto) > 5 && proto[:5] == "HTTP/" {
		proto = proto[5:]
	}
	return fmt.Sprintf("%s [%s] \"%s %s HTTP/%s\" %d %s %s ms \"%s\" \"%s\" \"%s\"\n",
		dash(e.ForwardedFor),
		e.Time.UTC().Format(clfTime),
		e.Method, e.URI, proto,
		e.Status,
		dash(e.ContentLength),
		strconv.FormatFloat(float64(e.Latency.Microseconds())/1000, 'f', 3, 64),
		dash(e.Referer),
		dash(e.AcceptLanguage),
		dash(e.UserAgent),
	)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type Writer struct {
	mu   sync.Mutex
	out  *lumberjack.Logger
	stop chan struct{}
	done chan struct{}
}

// New opens Dir/access.log and starts the rotation ticker.
func New(cfg Config) *Writer {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	w := &Writer{
		out: &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, FileName),
			MaxBackups: cfg.MaxFiles,
			Compress:   cfg.Compress,
			LocalTime:  true,
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go w.rotateEvery(cfg.Interval)
	return w
}

func (w *Writer) rotateEvery(interval time.Duration) {
	defer close(w.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = w.Rotate()
		case <-w.stop:
			return
		}
	}
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Write(p)
}

func (w *Writer) WriteEntry(e Entry) error {
	_, err := io.WriteString(w, e.Line())
	return err
}

func (w *Writer) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Rotate()
}

// Close stops the ticker and closes the current file. It must be called once.
func (w *Writer) Close() error {
	close(w.stop)
	<-w.done
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Close()
}
