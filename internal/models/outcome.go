package models

import (
	"fmt"
	"time"
)

type Outcome string

const (
	OutcomeRejected    Outcome = "rejected"
	OutcomeAccepted    Outcome = "accepted"
	OutcomeDevelopment Outcome = "development"
)

// OutcomeEntry is what gets written to the submission logs.
type OutcomeEntry struct {
	Outcome   Outcome
	Timestamp time.Time
	Request   *BookingRequest
	Message   string
}

// Line renders the entry as a single log line including the trailing newline.
// Acceptance lines carry no message.
func (e *OutcomeEntry) Line() string {
	r := e.Request
	line := fmt.Sprintf("%s - Navn: %s, Epost: %s, Telefon: %s, Dato: %s, Lokaler: %s, Formål: %s",
		e.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		r.Name, r.Email, r.Phone, r.Date, r.ResourceLabel(), r.Purpose)
	if e.Outcome == OutcomeRejected {
		line += ", Message: " + e.Message
	}
	return line + "\n"
}

// OutcomeEvent is the JSON body published on the submissions exchange.
type OutcomeEvent struct {
	Outcome   Outcome   `json:"outcome"`
	Stage     Stage     `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Resources []string  `json:"resources"`
	Purpose   string    `json:"purpose"`
	Message   string    `json:"message,omitempty"`
}

func NewOutcomeEvent(e *OutcomeEntry, stage Stage) OutcomeEvent {
	r := e.Request
	return OutcomeEvent{
		Outcome:   e.Outcome,
		Stage:     stage,
		Timestamp: e.Timestamp.UTC(),
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Date:      r.Date,
		Resources: r.Resources,
		Purpose:   r.Purpose,
		Message:   e.Message,
	}
}
