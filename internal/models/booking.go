package models

import (
	"strings"
	"time"
)

// NoResourceSelected stands in for an empty "lokaler" selection.
const NoResourceSelected = "Ingen lokaler valgt"

type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

func (m Mode) Supported() bool {
	return m == ModeProduction || m == ModeDevelopment
}

// BookingRequest is one form submission. It lives for a single request.
type BookingRequest struct {
	Name              string
	Email             string
	Phone             string
	Date              string
	Resources         []string
	Purpose           string
	VerificationToken string
	RemoteIP          string
}

// ResourceLabel joins the selected resources the way they are shown in logs and mails.
func (r *BookingRequest) ResourceLabel() string {
	if len(r.Resources) == 0 {
		return NoResourceSelected
	}
	return strings.Join(r.Resources, ",")
}

// Stage is the last step a submission reached before it was decided.
type Stage string

const (
	StageReceived        Stage = "received"
	StageTokenChecked    Stage = "token_checked"
	StageVerified        Stage = "verified"
	StageFieldsValidated Stage = "fields_validated"
)

type Decision struct {
	Accepted bool
	Message  string
	Stage    Stage
	At       time.Time
}
