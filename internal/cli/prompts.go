package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/markdave123-py/Uncouple/internal/core/eligibility"
	"github.com/markdave123-py/Uncouple/internal/core/intake"
	"github.com/markdave123-py/Uncouple/internal/models"
)

const noChoice = "(none)"

// askQuestion prompts for one screening question.
func askQuestion(q eligibility.Question, current string) (string, error) {
	var answer string
	var prompt survey.Prompt

	switch q.Type {
	case eligibility.TypeYesNo:
		options := []string{"yes", "no"}
		if !q.Required {
			options = append(options, "skip")
		}
		sel := &survey.Select{Message: q.Text, Options: options}
		if current != "" {
			sel.Default = current
		}
		prompt = sel
	case eligibility.TypeMultipleChoice:
		sel := &survey.Select{Message: q.Text, Options: q.Options}
		if current != "" {
			sel.Default = current
		}
		prompt = sel
	default:
		prompt = &survey.Input{Message: q.Text, Default: current}
	}

	err := survey.AskOne(prompt, &answer, survey.WithValidator(func(val interface{}) error {
		s := answerString(val)
		if s == "skip" {
			s = ""
		}
		return q.Check(s)
	}))
	if err != nil {
		return "", err
	}
	if answer == "skip" {
		answer = ""
	}
	return answer, nil
}

// askField prompts for one intake field, validating with the same rules as
// the web wizard.
func askField(f models.Field, rec models.FormRecord) (any, error) {
	if f.IsBool() {
		var yes bool
		err := survey.AskOne(&survey.Confirm{Message: f.Label, Default: f.Bool(rec)}, &yes)
		return yes, err
	}

	var value string
	help := ""
	if !f.Required {
		help = "Optional, press Enter to leave blank"
	}

	var prompt survey.Prompt
	if f.Kind == models.KindChoice && len(f.Options) > 0 {
		options := f.Options
		if !f.Required {
			options = append([]string{noChoice}, options...)
		}
		sel := &survey.Select{Message: f.Label, Options: options, Help: help}
		if cur := f.String(rec); cur != "" {
			sel.Default = cur
		}
		prompt = sel
	} else {
		prompt = &survey.Input{Message: f.Label, Default: f.String(rec), Help: help}
	}

	err := survey.AskOne(prompt, &value, survey.WithValidator(func(val interface{}) error {
		candidate := rec
		s := strings.TrimSpace(answerString(val))
		if s == noChoice {
			s = ""
		}
		if f.Kind == models.KindPhone {
			s = intake.FormatPhone(s)
		}
		if err := f.Set(&candidate, s); err != nil {
			return err
		}
		if msg := intake.CheckField(f, candidate); msg != "" {
			return errors.New(msg)
		}
		return nil
	}))
	if value == noChoice {
		value = ""
	}
	return strings.TrimSpace(value), err
}

func answerString(val interface{}) string {
	switch v := val.(type) {
	case string:
		return v
	case survey.OptionAnswer:
		return v.Value
	default:
		return fmt.Sprint(v)
	}
}

// fileSaver keeps the intake record in a local JSON file.
type fileSaver struct {
	path string
}

var _ intake.ProfileSaver = (*fileSaver)(nil)

func (s *fileSaver) SaveBasicInfo(_ context.Context, _ string, basic models.FormRecord) error {
	rec, err := readRecord(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return writeRecord(s.path, rec.WithBasicInfo(basic))
}

func (s *fileSaver) SaveProfile(_ context.Context, _ string, rec models.FormRecord) error {
	return writeRecord(s.path, rec)
}
