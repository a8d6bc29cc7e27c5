package dto

import (
	"strings"

	"github.com/namsos-athenaeum/athenaeum/internal/models"
)

// SubmissionForm mirrors the fields posted by the booking form.
type SubmissionForm struct {
	Name           string   `form:"navn"`
	Email          string   `form:"epost"`
	Phone          string   `form:"tlf"`
	Date           string   `form:"dato"`
	Resources      []string `form:"lokaler"`
	Purpose        string   `form:"formaal"`
	RecaptchaToken string   `form:"g-recaptcha-response"`
}

// ToBookingRequest copies the form verbatim. Blank resource values are dropped
// and an empty selection becomes the NoResourceSelected sentinel.
func (f *SubmissionForm) ToBookingRequest(remoteIP string) *models.BookingRequest {
	resources := make([]string, 0, len(f.Resources))
	for _, r := range f.Resources {
		if strings.TrimSpace(r) == "" {
			continue
		}
		resources = append(resources, r)
	}
	if len(resources) == 0 {
		resources = []string{models.NoResourceSelected}
	}

	return &models.BookingRequest{
		Name:              f.Name,
		Email:             f.Email,
		Phone:             f.Phone,
		Date:              f.Date,
		Resources:         resources,
		Purpose:           f.Purpose,
		VerificationToken: f.RecaptchaToken,
		RemoteIP:          remoteIP,
	}
}
