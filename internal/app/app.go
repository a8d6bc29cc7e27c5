package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/namsos-athenaeum/athenaeum/config"
	"github.com/namsos-athenaeum/athenaeum/internal/handler"
	"github.com/namsos-athenaeum/athenaeum/internal/mailer"
	"github.com/namsos-athenaeum/athenaeum/internal/middleware"
	"github.com/namsos-athenaeum/athenaeum/internal/recaptcha"
	"github.com/namsos-athenaeum/athenaeum/internal/repository"
	"github.com/namsos-athenaeum/athenaeum/internal/service"
	"github.com/namsos-athenaeum/athenaeum/internal/validator"
	"github.com/namsos-athenaeum/athenaeum/pkg/accesslog"
	"github.com/namsos-athenaeum/athenaeum/pkg/rabbitmq"
	"go.uber.org/zap"
)

const bodyLimit = "64K"

type App struct {
	cfg       *config.Config
	log       *zap.Logger
	echo      *echo.Echo
	access    *accesslog.Writer
	publisher *rabbitmq.Publisher
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	svc, err := a.initService()
	if err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}

	a.access = accesslog.New(accesslog.Config{
		Dir:      cfg.Log.Dir,
		MaxFiles: cfg.AccessLog.MaxFiles,
		Compress: cfg.AccessLog.Compress,
	})

	a.initServer(svc)
	return a, nil
}

func (a *App) initService() (service.SubmissionService, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("venue time zone: %w", err)
	}

	v, err := validator.NewBookingValidator(validator.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("booking validator: %w", err)
	}

	deps := service.Deps{
		Validator: v,
		Verifier:  recaptcha.NewClient(a.cfg.Recaptcha.VerifyURL, a.cfg.Recaptcha.SecretKey, a.cfg.Recaptcha.Timeout, a.log),
		Dispatcher: mailer.NewSMTPDispatcher(mailer.SMTPConfig{
			Host:     a.cfg.Mail.Host,
			Port:     a.cfg.Mail.Port,
			Username: a.cfg.Mail.Username,
			Password: a.cfg.Mail.Password,
			Timeout:  a.cfg.Mail.Timeout,
		}),
		Log:    repository.NewFileSubmissionLog(a.cfg.Log.Dir),
		Logger: a.log,
	}

	if a.cfg.AMQPURL != "" {
		pub, err := rabbitmq.NewPublisher(a.cfg.AMQPURL)
		if err != nil {
			a.log.Warn("outcome feed disabled", zap.Error(err))
		} else {
			a.publisher = pub
			deps.Publisher = pub
		}
	}

	return service.NewSubmissionService(service.Config{
		Mode: a.cfg.Mode,
		Envelope: mailer.Envelope{
			SenderName:    a.cfg.Mail.SenderName,
			SenderAddress: a.cfg.Mail.Username,
			Recipient:     a.cfg.Mail.To,
			Subject:       a.cfg.Mail.Subject,
		},
	}, deps), nil
}

func (a *App) initServer(svc service.SubmissionService) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = echo.ExtractIPFromXFFHeader()
	e.HTTPErrorHandler = middleware.ErrorHandler(a.log)
	e.Server.ReadTimeout = a.cfg.Server.ReadTimeout
	e.Server.WriteTimeout = a.cfg.Server.WriteTimeout

	e.Use(echoMw.RequestIDWithConfig(echoMw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLog(a.log.Named("http"), a.access))
	e.Use(echoMw.Recover())
	e.Use(echoMw.BodyLimit(bodyLimit))

	static := a.cfg.Server.StaticDir
	e.File("/favicon.ico", filepath.Join(static, "favicon.ico"))
	e.Static("/css", filepath.Join(static, "css"))
	e.Static("/", static)

	handler.NewPageHandler(a.cfg.Recaptcha.SiteKey, a.cfg.Venue.Resources).RegisterRoutes(e)
	handler.NewSubmissionHandler(svc).RegisterRoutes(e)

	a.echo = e
}

func (a *App) Handler() http.Handler {
	return a.echo
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server starting",
			zap.String("addr", a.cfg.Addr()),
			zap.String("mode", string(a.cfg.Mode)),
		)
		if err := a.echo.Start(a.cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-errCh:
		a.Close()
		return err
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		a.Close()
		return fmt.Errorf("http server shutdown: %w", err)
	}
	a.log.Info("HTTP server stopped")

	a.Close()
	a.log.Info("app stopped")
	return nil
}

// Close releases the access log and the outcome feed connection.
func (a *App) Close() {
	if err := a.access.Close(); err != nil {
		a.log.Warn("close access log", zap.Error(err))
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
}
