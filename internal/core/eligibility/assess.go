package eligibility

import (
	"math"
	"strings"
)

// Tier is the overall recommendation bucket.
type Tier string

const (
	TierEligible  Tier = "eligible"
	TierPartial   Tier = "partial"
	TierContested Tier = "contested"
)

// partialThreshold is the percentage at which an ineligible applicant is
// still steered toward a consultation rather than a contested filing.
const partialThreshold = 75

// Recommendation is the headline advice shown with a result.
type Recommendation struct {
	Tier    Tier   `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Result is the outcome of the screening.
type Result struct {
	IsEligible            bool            `json:"isEligible"`
	EligibilityPercentage int             `json:"eligibilityPercentage"`
	Criteria              map[string]bool `json:"criteria"`
	Warnings              []string        `json:"warnings"`
	Recommendations       []string        `json:"recommendations"`
	Recommendation        Recommendation  `json:"recommendation"`
}

// Assess scores a set of answers keyed by question id. Residency and
// marriage length are mandatory; an unanswered child-agreement question
// counts as met.
func Assess(answers map[string]string) Result {
	answers = normalize(answers)
	duration := answers[QuestionMarriageLength]
	child, childAnswered := answers[QuestionChildAgreement]
	if child == "" {
		childAnswered = false
	}

	criteria := map[string]bool{
		QuestionResidency:      answers[QuestionResidency] == answerYes,
		QuestionMarriageLength: duration != "" && duration != DurationUnderOneYear,
		QuestionChildAgreement: child == answerYes || !childAnswered,
	}

	met := 0
	for _, ok := range criteria {
		if ok {
			met++
		}
	}

	res := Result{
		IsEligible:            criteria[QuestionResidency] && criteria[QuestionMarriageLength],
		EligibilityPercentage: int(math.Round(float64(met) / float64(len(criteria)) * 100)),
		Criteria:              criteria,
		Warnings:              []string{},
		Recommendations:       []string{},
	}

	if !criteria[QuestionResidency] {
		res.Warnings = append(res.Warnings, "You must be a resident of New York State to file for divorce here")
		res.Recommendations = append(res.Recommendations, "Consider filing in your current state of residence")
	}
	if !criteria[QuestionMarriageLength] {
		res.Warnings = append(res.Warnings, "You must be married for at least 1 year to file for divorce in New York")
		res.Recommendations = append(res.Recommendations, "Wait until you have been married for at least 1 year before proceeding")
	}
	if child == answerNo {
		res.Warnings = append(res.Warnings, "Disagreements about child custody may require mediation or legal assistance")
		res.Recommendations = append(res.Recommendations, "Consider working with a mediator to resolve custody disagreements")
	}
	switch duration {
	case "10-20 years", "More than 20 years":
		res.Recommendations = append(res.Recommendations, "Long-term marriages may have complex asset division - consider consulting with a financial advisor")
	case DurationUnderOneYear:
		res.Recommendations = append(res.Recommendations, "Very short marriages may be eligible for annulment instead of divorce")
	}

	res.Recommendation = recommend(res)
	return res
}

func recommend(r Result) Recommendation {
	switch {
	case r.IsEligible:
		return Recommendation{
			Tier:    TierEligible,
			Title:   "You are eligible for uncontested divorce",
			Message: "Based on your responses, you meet all the criteria for an uncontested divorce in New York State.",
			Action:  "Continue to Process Overview",
		}
	case r.EligibilityPercentage >= partialThreshold:
		return Recommendation{
			Tier:    TierPartial,
			Title:   "You may be eligible with some considerations",
			Message: "You meet most criteria but may need to address some issues before proceeding.",
			Action:  "Schedule Legal Consultation",
		}
	default:
		return Recommendation{
			Tier:    TierContested,
			Title:   "Contested divorce may be more appropriate",
			Message: "Based on your answers, you may need to consider a contested divorce or consult with an attorney.",
			Action:  "Schedule Legal Consultation",
		}
	}
}

// normalize trims every answer and drops the blank ones.
func normalize(answers map[string]string) map[string]string {
	out := make(map[string]string, len(answers))
	for id, v := range answers {
		if v = strings.TrimSpace(v); v != "" {
			out[id] = v
		}
	}
	return out
}
