package eligibility

import (
	"fmt"
	"strings"
)

// QuestionType selects how a question is answered.
type QuestionType string

const (
	TypeYesNo          QuestionType = "yes-no"
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeText           QuestionType = "text"
)

// Question ids used by the assessment.
const (
	QuestionResidency      = "residency"
	QuestionMarriageLength = "marriage_duration"
	QuestionChildAgreement = "child_agreement"
	DurationUnderOneYear   = "Less than 1 year"

	answerYes = "yes"
	answerNo  = "no"
)

// Question is one screening question.
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`

	// Validate is an optional extra check on a non-empty answer.
	Validate func(string) error `json:"-"`
}

// DefaultQuestions returns the screening questions in order.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:       QuestionResidency,
			Text:     "Do you or your spouse currently live in New York State?",
			Type:     TypeYesNo,
			Required: true,
		},
		{
			ID:   QuestionMarriageLength,
			Text: "How long have you been married?",
			Type: TypeMultipleChoice,
			Options: []string{
				DurationUnderOneYear,
				"1-5 years",
				"5-10 years",
				"10-20 years",
				"More than 20 years",
			},
			Required: true,
		},
		{
			ID:       QuestionChildAgreement,
			Text:     "If you have children, do you both agree on custody and support arrangements?",
			Type:     TypeYesNo,
			Required: false,
		},
	}
}

// Check validates a single answer against the question.
func (q Question) Check(answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		if q.Required {
			return fmt.Errorf("an answer is required")
		}
		return nil
	}
	switch q.Type {
	case TypeYesNo:
		if answer != answerYes && answer != answerNo {
			return fmt.Errorf("answer must be yes or no")
		}
	case TypeMultipleChoice:
		if !contains(q.Options, answer) {
			return fmt.Errorf("answer must be one of the listed options")
		}
	}
	if q.Validate != nil {
		return q.Validate(answer)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
