package validator

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/namsos-athenaeum/athenaeum/internal/models"
)

var (
	emailRegex = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
		"[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?" +
		"(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	phoneRegex = regexp.MustCompile(`^[479]\d{7}$`)

	dateLayouts = []string{"2006-01-02", time.RFC3339}
)

const (
	tagEmail    = "venue_email"
	tagPhone    = "no_mobile"
	tagNotPast  = "not_past"
	tagResource = "resource_selected"
)

func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidPhone accepts Norwegian mobile numbers: eight digits starting with 4, 7 or 9.
func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ParseDate reads a form date. Bare dates are interpreted in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	t, _, ok := parseDate(s, loc)
	return t, ok
}

func parseDate(s string, loc *time.Location) (time.Time, string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, layout, true
		}
	}
	return time.Time{}, "", false
}

// ValidDate reports whether s parses and is not in the past. A bare date is
// compared by calendar day in loc, so today is accepted; a date-time must not
// be before now.
func ValidDate(s string, now time.Time, loc *time.Location) bool {
	d, layout, ok := parseDate(s, loc)
	if !ok {
		return false
	}
	if layout == time.RFC3339 {
		return !d.Before(now)
	}
	return !startOfDay(d, loc).Before(startOfDay(now, loc))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

type BookingValidator struct {
	validate *validator.Validate
	now      func() time.Time
	loc      *time.Location
}

type Option func(*BookingValidator)

func WithClock(now func() time.Time) Option {
	return func(v *BookingValidator) { v.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(v *BookingValidator) { v.loc = loc }
}

func NewBookingValidator(opts ...Option) (*BookingValidator, error) {
	bv := &BookingValidator{
		validate: validator.New(),
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(bv)
	}

	rules := map[string]validator.Func{
		tagEmail:    func(fl validator.FieldLevel) bool { return ValidEmail(fl.Field().String()) },
		tagPhone:    func(fl validator.FieldLevel) bool { return ValidPhone(fl.Field().String()) },
		tagNotPast:  func(fl validator.FieldLevel) bool { return ValidDate(fl.Field().String(), bv.now(), bv.loc) },
		tagResource: validateResourceSelected,
	}
	for tag, fn := range rules {
		if err := bv.validate.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %q validator: %w", tag, err)
		}
	}

	return bv, nil
}

func validateResourceSelected(fl validator.FieldLevel) bool {
	label := fl.Field().String()
	return label != "" && label != models.NoResourceSelected
}

type fieldCheck struct {
	value any
	tag   string
	err   *FieldError
}

// Validate checks the form fields in order and returns the first failing
// *FieldError. Verification is the orchestrator's job and is not checked here.
func (v *BookingValidator) Validate(req *models.BookingRequest) error {
	checks := []fieldCheck{
		{req.Name, "required", ErrNameMissing},
		{req.Email, tagEmail, ErrEmailFormat},
		{req.Phone, tagPhone, ErrPhoneFormat},
		{req.Date, "required," + tagNotPast, ErrDateInvalid},
		{req.Purpose, "required", ErrPurposeMissing},
		{req.ResourceLabel(), tagResource, ErrNoResource},
	}

	for _, c := range checks {
		err := v.validate.Var(c.value, c.tag)
		if err == nil {
			continue
		}
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return c.err
		}
		return fmt.Errorf("validate %s: %w", c.err.Field, err)
	}
	return nil
}
