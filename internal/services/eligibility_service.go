package services

import (
	"github.com/markdave123-py/Uncouple/internal/core/eligibility"
	"github.com/markdave123-py/Uncouple/internal/core/intake"
)

// EligibilityService scores the screening questionnaire.
type EligibilityService struct {
	questions []eligibility.Question
}

func NewEligibilityService() *EligibilityService {
	return &EligibilityService{questions: eligibility.DefaultQuestions()}
}

func (s *EligibilityService) Questions() []eligibility.Question {
	return s.questions
}

// Assess validates each answer against its question and scores the set.
// Invalid answers are reported the same way as intake fields.
func (s *EligibilityService) Assess(answers map[string]string) (eligibility.Result, error) {
	errs := map[string]string{}
	for _, q := range s.questions {
		if err := q.Check(answers[q.ID]); err != nil {
			errs[q.ID] = err.Error()
		}
	}
	if len(errs) > 0 {
		return eligibility.Result{}, &intake.ValidationError{Fields: errs}
	}
	return eligibility.Assess(answers), nil
}
