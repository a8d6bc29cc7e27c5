package validator

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/namsos-athenaeum/athenaeum/internal/models"
)

func TestBookingValidatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4711)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	v := newTestValidator(t)

	properties.Property("eight digit numbers are valid only with a 4, 7 or 9 prefix", prop.ForAll(
		func(n int) bool {
			phone := fmt.Sprintf("%08d", n)
			want := phone[0] == '4' || phone[0] == '7' || phone[0] == '9'
			return ValidPhone(phone) == want
		},
		gen.IntRange(0, 99999999),
	))

	properties.Property("phone numbers outside the pattern yield the phone message", prop.ForAll(
		func(phone string) bool {
			if ValidPhone(phone) {
				return true
			}
			req := validRequest()
			req.Phone = phone
			return v.Validate(req) == ErrPhoneFormat
		},
		gen.NumString(),
	))

	properties.Property("mobile numbers from the pattern are accepted", prop.ForAll(
		func(phone string) bool {
			req := validRequest()
			req.Phone = phone
			return v.Validate(req) == nil
		},
		gen.RegexMatch(`^[479][0-9]{7}$`),
	))

	properties.Property("dates before today are rejected even when all else is valid", prop.ForAll(
		func(daysAgo int) bool {
			req := validRequest()
			req.Date = fixedAt.AddDate(0, 0, -daysAgo).Format("2006-01-02")
			return v.Validate(req) == ErrDateInvalid
		},
		gen.IntRange(1, 3650),
	))

	properties.Property("today and later dates pass", prop.ForAll(
		func(daysAhead int) bool {
			req := validRequest()
			req.Date = fixedAt.AddDate(0, 0, daysAhead).Format("2006-01-02")
			return v.Validate(req) == nil
		},
		gen.IntRange(0, 3650),
	))

	properties.Property("the no-resource sentinel always rejects", prop.ForAll(
		func(name, purpose string) bool {
			req := validRequest()
			req.Name = "N" + name
			req.Purpose = "P" + purpose
			req.Resources = []string{models.NoResourceSelected}
			return v.Validate(req) == ErrNoResource
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("any other selection passes", prop.ForAll(
		func(resource string) bool {
			req := validRequest()
			req.Resources = []string{"R" + resource}
			return v.Validate(req) == nil
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
