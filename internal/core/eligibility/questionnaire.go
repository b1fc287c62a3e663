package eligibility

import (
	"context"
	"errors"
	"strings"
	"time"
)

// State is the phase of a questionnaire run.
type State int

const (
	Collecting State = iota
	Completing
	Done
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Completing:
		return "completing"
	case Done:
		return "done"
	}
	return "unknown"
}

// CompletionSteps are shown while results are prepared.
var CompletionSteps = []string{
	"Analyzing your responses...",
	"Checking eligibility criteria...",
	"Generating personalized report...",
	"Preparing recommendations...",
	"Finalizing results...",
}

// ErrNotCompleting is returned by Complete outside the completing phase.
var ErrNotCompleting = errors.New("questionnaire is not ready to complete")

// Questionnaire walks an applicant through the screening questions. It is
// owned by one session and is not safe for concurrent use.
type Questionnaire struct {
	questions []Question
	answers   map[string]string
	errs      map[string]string
	index     int
	state     State
	progress  int
	result    *Result

	// StepDelay is the pause between completion steps.
	StepDelay time.Duration
}

// New starts a questionnaire over qs, or the default questions when qs is
// empty.
func New(qs []Question) *Questionnaire {
	if len(qs) == 0 {
		qs = DefaultQuestions()
	}
	return &Questionnaire{
		questions: qs,
		answers:   make(map[string]string),
		errs:      make(map[string]string),
	}
}

func (q *Questionnaire) State() State { return q.state }
func (q *Questionnaire) Index() int { return q.index }
func (q *Questionnaire) Progress() int { return q.progress }
func (q *Questionnaire) Questions() []Question { return q.questions }

// Current returns the question being answered.
func (q *Questionnaire) Current() Question { return q.questions[q.index] }

// Answers returns a copy of the recorded answers.
func (q *Questionnaire) Answers() map[string]string {
	out := make(map[string]string, len(q.answers))
	for k, v := range q.answers {
		out[k] = v
	}
	return out
}

// Error returns the inline error recorded for question id, if any.
func (q *Questionnaire) Error(id string) string { return q.errs[id] }

// Answer records the trimmed value for the current question. An invalid value leaves
// the state unchanged, records an inline error and returns false.
func (q *Questionnaire) Answer(value string) bool {
	if q.state != Collecting {
		return false
	}
	cur := q.Current()
	value = strings.TrimSpace(value)
	if err := cur.Check(value); err != nil {
		q.errs[cur.ID] = err.Error()
		return false
	}
	delete(q.errs, cur.ID)
	if value == "" {
		delete(q.answers, cur.ID)
	} else {
		q.answers[cur.ID] = value
	}
	return true
}

// Next moves to the following question, or into the completing phase after
// the last one. It refuses to advance past an unanswered required question.
func (q *Questionnaire) Next() bool {
	if q.state != Collecting {
		return false
	}
	cur := q.Current()
	if err := cur.Check(q.answers[cur.ID]); err != nil {
		q.errs[cur.ID] = err.Error()
		return false
	}
	if q.index == len(q.questions)-1 {
		q.state = Completing
		q.progress = 0
		return true
	}
	q.index++
	return true
}

// Previous moves back one question. It is a no-op on the first question.
func (q *Questionnaire) Previous() {
	if q.state == Collecting && q.index > 0 {
		q.index--
	}
}

// Complete runs the completion steps, reporting each through onStep when
// it is non-nil, and returns the assessed result.
func (q *Questionnaire) Complete(ctx context.Context, onStep func(label string, progress int)) (Result, error) {
	if q.state != Completing {
		return Result{}, ErrNotCompleting
	}
	for i, label := range CompletionSteps {
		if q.StepDelay > 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(q.StepDelay):
			}
		}
		q.progress = (i + 1) * 100 / len(CompletionSteps)
		if onStep != nil {
			onStep(label, q.progress)
		}
	}
	res := Assess(q.answers)
	q.result = &res
	q.state = Done
	return res, nil
}

// Result returns the assessment once the questionnaire is done.
func (q *Questionnaire) Result() (Result, bool) {
	if q.result == nil {
		return Result{}, false
	}
	return *q.result, true
}
