package intake

import (
	"time"

	"github.com/markdave123-py/Uncouple/internal/core/eligibility"
	"github.com/markdave123-py/Uncouple/internal/models"
)

// Session carries one applicant's progress through screening and intake.
// Payment state is not held here; it is read from the payment store on each
// request. A session is created when the applicant enters the flow and ended on
// submission or logout; nothing about it lives in package state.
type Session struct {
	UserID        string
	StartedAt     time.Time
	Questionnaire *eligibility.Questionnaire
	Wizard        *Wizard

	eligibility *eligibility.Result
	ended       bool
}

// NewSession starts a session prefilled with the stored profile, if any.
func NewSession(userID string, profile *models.Profile) *Session {
	var rec models.FormRecord
	if profile != nil {
		rec = profile.Record
	}
	return &Session{
		UserID:        userID,
		StartedAt:     time.Now(),
		Questionnaire: eligibility.New(nil),
		Wizard:        NewWizard(rec),
	}
}

// RecordEligibility stores the screening result.
func (s *Session) RecordEligibility(r eligibility.Result) { s.eligibility = &r }

// Eligibility returns the screening result once recorded.
func (s *Session) Eligibility() (eligibility.Result, bool) {
	if s.eligibility == nil {
		return eligibility.Result{}, false
	}
	return *s.eligibility, true
}

// End tears the session down. Further use starts from an empty wizard.
func (s *Session) End() {
	s.Questionnaire = eligibility.New(nil)
	s.Wizard = NewWizard(models.FormRecord{})
	s.eligibility = nil
	s.ended = true
}

// Ended reports whether End has been called.
func (s *Session) Ended() bool { return s.ended }
