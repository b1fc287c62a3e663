package services

import (
	"errors"
	"testing"

	"github.com/markdave123-py/Uncouple/internal/core/eligibility"
	"github.com/markdave123-py/Uncouple/internal/core/intake"
)

func TestEligibilityAssess(t *testing.T) {
	svc := NewEligibilityService()
	if len(svc.Questions()) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(svc.Questions()))
	}

	_, err := svc.Assess(map[string]string{eligibility.QuestionResidency: "maybe"})
	var verr *intake.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields[eligibility.QuestionResidency]; !ok {
		t.Fatalf("residency should be flagged: %v", verr.Fields)
	}
	if _, ok := verr.Fields[eligibility.QuestionMarriageLength]; !ok {
		t.Fatalf("missing duration should be flagged: %v", verr.Fields)
	}

	res, err := svc.Assess(map[string]string{
		eligibility.QuestionResidency:      "yes",
		eligibility.QuestionMarriageLength: "5-10 years",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEligible || res.EligibilityPercentage != 100 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestEligibilityAssessTrimsAnswers(t *testing.T) {
	svc := NewEligibilityService()
	res, err := svc.Assess(map[string]string{
		eligibility.QuestionResidency:      "yes ",
		eligibility.QuestionMarriageLength: " 5-10 years",
		eligibility.QuestionChildAgreement: "   ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEligible || res.EligibilityPercentage != 100 {
		t.Fatalf("padded answers should score like clean ones, got %+v", res)
	}
}
