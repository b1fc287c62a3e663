package eligibility

import (
	"context"
	"testing"
)

func TestAssessNonResident(t *testing.T) {
	res := Assess(map[string]string{
		QuestionResidency:      "no",
		QuestionMarriageLength: "5-10 years",
	})
	if res.IsEligible {
		t.Fatal("non-resident must not be eligible")
	}
	if res.EligibilityPercentage >= 100 {
		t.Fatalf("expected percentage below 100, got %d", res.EligibilityPercentage)
	}
	if res.EligibilityPercentage != 67 {
		t.Fatalf("expected 67%%, got %d", res.EligibilityPercentage)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != "You must be a resident of New York State to file for divorce here" {
		t.Fatalf("unexpected warnings %v", res.Warnings)
	}
	if res.Recommendation.Tier != TierContested {
		t.Fatalf("expected contested tier, got %s", res.Recommendation.Tier)
	}
}

func TestAssessEligible(t *testing.T) {
	res := Assess(map[string]string{
		QuestionResidency:      "yes",
		QuestionMarriageLength: "More than 20 years",
		QuestionChildAgreement: "yes",
	})
	if !res.IsEligible || res.EligibilityPercentage != 100 {
		t.Fatalf("expected fully eligible, got %+v", res)
	}
	if len(res.Recommendations) != 1 {
		t.Fatalf("expected the long-marriage recommendation, got %v", res.Recommendations)
	}
	if res.Recommendation.Tier != TierEligible {
		t.Fatalf("expected eligible tier, got %s", res.Recommendation.Tier)
	}
}

func TestAssessChildDisagreement(t *testing.T) {
	res := Assess(map[string]string{
		QuestionResidency:      "yes",
		QuestionMarriageLength: "1-5 years",
		QuestionChildAgreement: "no",
	})
	if !res.IsEligible {
		t.Fatal("child disagreement alone does not block eligibility")
	}
	if res.EligibilityPercentage != 67 {
		t.Fatalf("expected 67%%, got %d", res.EligibilityPercentage)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected the custody warning, got %v", res.Warnings)
	}
}

func TestAssessShortMarriage(t *testing.T) {
	res := Assess(map[string]string{
		QuestionResidency:      "yes",
		QuestionMarriageLength: DurationUnderOneYear,
	})
	if res.IsEligible {
		t.Fatal("marriages under a year are not eligible")
	}
	found := false
	for _, r := range res.Recommendations {
		if r == "Very short marriages may be eligible for annulment instead of divorce" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing annulment recommendation: %v", res.Recommendations)
	}
}

func TestQuestionnaireFlow(t *testing.T) {
	q := New(nil)

	if q.Next() {
		t.Fatal("must not advance past an unanswered required question")
	}
	if q.Error(QuestionResidency) == "" {
		t.Fatal("expected an inline error for residency")
	}

	if q.Answer("maybe") {
		t.Fatal("yes-no question accepted an invalid answer")
	}
	if q.Index() != 0 || q.State() != Collecting {
		t.Fatal("invalid answer must not change state")
	}

	if !q.Answer("yes") || !q.Next() {
		t.Fatal("valid answer should advance")
	}
	if q.Error(QuestionResidency) != "" {
		t.Fatal("error should clear after a valid answer")
	}

	q.Previous()
	if q.Index() != 0 {
		t.Fatalf("expected index 0 after previous, got %d", q.Index())
	}
	q.Previous()
	if q.Index() != 0 {
		t.Fatal("previous on the first question must be a no-op")
	}
	q.Next()

	if q.Answer("Forever") {
		t.Fatal("multiple choice accepted an unknown option")
	}
	if !q.Answer("10-20 years") || !q.Next() {
		t.Fatal("valid option should advance")
	}

	// Optional question may be skipped.
	if !q.Next() {
		t.Fatal("optional question should not block")
	}
	if q.State() != Completing {
		t.Fatalf("expected completing state, got %s", q.State())
	}

	var steps []int
	res, err := q.Complete(context.Background(), func(_ string, p int) { steps = append(steps, p) })
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(steps) != len(CompletionSteps) || steps[len(steps)-1] != 100 {
		t.Fatalf("unexpected progress steps %v", steps)
	}
	if q.State() != Done || !res.IsEligible || res.EligibilityPercentage != 100 {
		t.Fatalf("unexpected final state %s / %+v", q.State(), res)
	}
	if got, ok := q.Result(); !ok || got.EligibilityPercentage != res.EligibilityPercentage {
		t.Fatal("result should be retained after completion")
	}
	if _, err := q.Complete(context.Background(), nil); err != ErrNotCompleting {
		t.Fatalf("expected ErrNotCompleting, got %v", err)
	}
}

func TestQuestionnaireTrimsAnswers(t *testing.T) {
	q := New(nil)
	for _, a := range []string{" yes", "1-5 years", "  "} {
		if !q.Answer(a) || !q.Next() {
			t.Fatalf("answer %q should be accepted", a)
		}
	}
	answers := q.Answers()
	if answers[QuestionResidency] != "yes" {
		t.Fatalf("residency stored as %q", answers[QuestionResidency])
	}
	if _, ok := answers[QuestionChildAgreement]; ok {
		t.Fatal("a blank optional answer should not be stored")
	}

	res, err := q.Complete(context.Background(), nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.IsEligible || res.EligibilityPercentage != 100 || !res.Criteria[QuestionChildAgreement] {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestAssessTrimsAnswers(t *testing.T) {
	res := Assess(map[string]string{
		QuestionResidency:      "yes ",
		QuestionMarriageLength: "5-10 years",
		QuestionChildAgreement: " ",
	})
	if !res.IsEligible || res.EligibilityPercentage != 100 {
		t.Fatalf("padded answers should count, got %+v", res)
	}
}
