package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/namsos-athenaeum/athenaeum/internal/mailer"
	"github.com/namsos-athenaeum/athenaeum/internal/models"
	"github.com/namsos-athenaeum/athenaeum/internal/recaptcha"
	"github.com/namsos-athenaeum/athenaeum/internal/repository"
	"github.com/namsos-athenaeum/athenaeum/internal/validator"
	"go.uber.org/zap"
)

const MessageSent = "Forespørsel er sendt! Vi tar kontakt med deg så snart som mulig."

var ErrUnsupportedMode = errors.New("unsupported deployment mode")

type SubmissionService interface {
	Submit(ctx context.Context, req *models.BookingRequest) (*models.Decision, error)
}

type FieldValidator interface {
	Validate(req *models.BookingRequest) error
}

// OutcomePublisher fans decided submissions out to the outcome feed.
type OutcomePublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Config struct {
	Mode     models.Mode
	Envelope mailer.Envelope
}

// Deps are the collaborators of the submission flow. Publisher and Now are optional.
type Deps struct {
	Validator  FieldValidator
	Verifier   recaptcha.Verifier
	Dispatcher mailer.Dispatcher
	Log        repository.SubmissionLog
	Publisher  OutcomePublisher
	Logger     *zap.Logger
	Now        func() time.Time
}

type submissionService struct {
	cfg        Config
	validator  FieldValidator
	verifier   recaptcha.Verifier
	dispatcher mailer.Dispatcher
	subLog     repository.SubmissionLog
	publisher  OutcomePublisher
	log        *zap.Logger
	now        func() time.Time
}

func NewSubmissionService(cfg Config, deps Deps) SubmissionService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &submissionService{
		cfg:        cfg,
		validator:  deps.Validator,
		verifier:   deps.Verifier,
		dispatcher: deps.Dispatcher,
		subLog:     deps.Log,
		publisher:  deps.Publisher,
		log:        log.Named("submission"),
		now:        now,
	}
}

// Submit runs one submission to a decision. The only error returned is for a
// deployment mode the service cannot act on; everything else is a Decision.
// Processing is not cancelled when the requester goes away.
func (s *submissionService) Submit(ctx context.Context, req *models.BookingRequest) (*models.Decision, error) {
	ctx = context.WithoutCancel(ctx)

	stage, rejection, err := s.check(ctx, req)
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		s.record(ctx, models.OutcomeRejected, stage, req, rejection.Message)
		return s.decide(false, rejection.Message, stage), nil
	}

	switch s.cfg.Mode {
	case models.ModeProduction:
		return s.dispatch(ctx, req), nil
	case models.ModeDevelopment:
		s.logMail(req)
		s.record(ctx, models.OutcomeDevelopment, stage, req, "")
		return s.decide(true, MessageSent, stage), nil
	default:
		s.log.Warn("unknown environment on submission", zap.String("mode", string(s.cfg.Mode)))
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, s.cfg.Mode)
	}
}

// check walks token presence, verification and the form fields in that order.
// It returns the stage reached and the first rejection, if any.
func (s *submissionService) check(ctx context.Context, req *models.BookingRequest) (models.Stage, *validator.FieldError, error) {
	if req.VerificationToken == "" {
		return models.StageReceived, validator.ErrTokenMissing, nil
	}

	if !s.verifier.Verify(ctx, req.VerificationToken, req.RemoteIP) {
		return models.StageTokenChecked, validator.ErrVerificationFailed, nil
	}

	if err := s.validator.Validate(req); err != nil {
		var fe *validator.FieldError
		if errors.As(err, &fe) {
			return models.StageVerified, fe, nil
		}
		return models.StageVerified, nil, fmt.Errorf("validate submission: %w", err)
	}

	return models.StageFieldsValidated, nil, nil
}

func (s *submissionService) dispatch(ctx context.Context, req *models.BookingRequest) *models.Decision {
	stage := models.StageFieldsValidated

	session, err := s.dispatcher.Connect(ctx)
	if err != nil {
		s.log.Error("mail relay not usable", zap.Error(err))
		return s.decide(false, err.Error(), stage)
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.log.Warn("failed to close mail relay session", zap.Error(err))
		}
	}()

	s.record(ctx, models.OutcomeAccepted, stage, req, "")

	msg := mailer.NewBookingMessage(s.cfg.Envelope, req)
	if err := session.Send(ctx, msg); err != nil {
		s.log.Error("failed to send booking mail", zap.String("reply_to", msg.ReplyTo), zap.Error(err))
		return s.decide(false, err.Error(), stage)
	}

	s.log.Info("booking mail sent", zap.String("reply_to", msg.ReplyTo))
	return s.decide(true, MessageSent, stage)
}

// record is best effort: failures go to the operator log and never reach the requester.
func (s *submissionService) record(ctx context.Context, outcome models.Outcome, stage models.Stage, req *models.BookingRequest, message string) {
	entry := &models.OutcomeEntry{
		Outcome:   outcome,
		Timestamp: s.now(),
		Request:   req,
		Message:   message,
	}

	if err := s.subLog.Append(ctx, entry); err != nil {
		s.log.Error("error writing to submission log", zap.String("outcome", string(outcome)), zap.Error(err))
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, "submission."+string(outcome), models.NewOutcomeEvent(entry, stage)); err != nil {
			s.log.Warn("failed to publish outcome", zap.String("outcome", string(outcome)), zap.Error(err))
		}
	}
}

func (s *submissionService) logMail(req *models.BookingRequest) {
	msg := mailer.NewBookingMessage(s.cfg.Envelope, req)
	s.log.Info("development mode, mail not sent",
		zap.String("from", msg.FromName+" <"+msg.FromAddress+">"),
		zap.String("to", msg.To),
		zap.String("reply_to", msg.ReplyTo),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.TextBody),
	)
}

func (s *submissionService) decide(accepted bool, message string, stage models.Stage) *models.Decision {
	return &models.Decision{
		Accepted: accepted,
		Message:  message,
		Stage:    stage,
		At:       s.now(),
	}
}
