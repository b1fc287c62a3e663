package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/Uncouple/internal/core/eligibility"
	"github.com/markdave123-py/Uncouple/internal/core/intake"
	"github.com/markdave123-py/Uncouple/internal/models"
)

func newEligibilityCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "eligibility",
		Short: "Check whether an uncontested divorce fits your situation",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(titleStyle.Render("Uncouple eligibility check"))

			q := eligibility.New(nil)
			q.StepDelay = delay
			res, err := runQuestionnaire(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(renderResult(res))
			return nil
		},
	}

	cmd.Flags().DurationVar(&delay, "step-delay", 400*time.Millisecond, "Pause between assessment steps")
	return cmd
}

// runQuestionnaire asks every question and then runs the assessment steps.
func runQuestionnaire(ctx context.Context, q *eligibility.Questionnaire) (eligibility.Result, error) {
	for q.State() == eligibility.Collecting {
		cur := q.Current()
		fmt.Println(mutedStyle.Render(fmt.Sprintf("Question %d of %d", q.Index()+1, len(q.Questions()))))
		answer, err := askQuestion(cur, q.Answers()[cur.ID])
		if err != nil {
			return eligibility.Result{}, err
		}
		if !q.Answer(answer) || !q.Next() {
			fmt.Println(errorStyle.Render(q.Error(cur.ID)))
		}
	}

	return q.Complete(ctx, func(label string, progress int) {
		fmt.Printf("%s %3d%% %s\n", progressBar(progress, 20), progress, label)
	})
}

func newIntakeCmd() *cobra.Command {
	var (
		out    string
		screen bool
	)

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Fill in the six intake sections and save them as JSON",
		Long: `Walk through the intake sections and save the record for "uncouple render".
An existing file is used to prefill the answers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			saver := &fileSaver{path: out}
			var profile *models.Profile
			if prev, err := readRecord(out); err == nil {
				profile = &models.Profile{Record: prev}
			}
			sess := intake.NewSession("", profile)
			defer sess.End()

			if screen {
				fmt.Println(titleStyle.Render("Uncouple eligibility check"))
				sess.Questionnaire.StepDelay = 0
				res, err := runQuestionnaire(cmd.Context(), sess.Questionnaire)
				if err != nil {
					return err
				}
				sess.RecordEligibility(res)
				fmt.Println(renderResult(res))
				if !res.IsEligible {
					return errors.New("the eligibility check found blocking issues; intake stopped")
				}
			}

			w := sess.Wizard
			fmt.Println(titleStyle.Render("Uncouple intake"))
			for {
				step := w.Step()
				fmt.Println(sectionStyle.Render(fmt.Sprintf("Step %d of %d: %s", int(step), models.SectionCount, step)))

				if err := askSection(w, step); err != nil {
					return err
				}

				if step == models.SectionBasicInfo && !w.ChatUnlocked() {
					if err := w.SaveBasicInfo(cmd.Context(), saver, ""); err != nil {
						if reportValidation(err) {
							continue
						}
						return err
					}
					fmt.Println(successStyle.Render("✓ basic information saved"))
				}

				if step == models.SectionCount {
					break
				}
				w.Next()
			}

			for {
				err := w.Submit(cmd.Context(), saver, "")
				if err == nil {
					break
				}
				if !reportValidation(err) {
					return err
				}
				// revisit the first section with a problem
				if err := fixInvalid(w, err); err != nil {
					return err
				}
			}
			fmt.Println(successStyle.Render("✓ intake saved to " + out))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "record.json", "Where to save the intake record")
	cmd.Flags().BoolVar(&screen, "screen", false, "Run the eligibility check before the intake sections")
	return cmd
}

// askSection prompts for every visible field of a section. Visibility is
// re-evaluated after each answer so conditional fields appear as soon as
// their controlling question is answered.
func askSection(w *intake.Wizard, s models.Section) error {
	asked := map[string]bool{}
	for {
		var next *models.Field
		for _, f := range w.VisibleFields(s) {
			if !asked[f.Name] {
				next = &f
				break
			}
		}
		if next == nil {
			return nil
		}
		asked[next.Name] = true
		v, err := askField(*next, w.Record())
		if err != nil {
			return err
		}
		if err := w.Set(next.Name, v); err != nil {
			return err
		}
	}
}

func reportValidation(err error) bool {
	var verr *intake.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for name, msg := range verr.Fields {
		label := name
		if f, ok := models.FieldByName(name); ok {
			label = f.Label
		}
		fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s: %s", label, msg)))
	}
	return true
}

func fixInvalid(w *intake.Wizard, err error) error {
	var verr *intake.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	for _, f := range models.Fields {
		if _, bad := verr.Fields[f.Name]; !bad {
			continue
		}
		v, err := askField(f, w.Record())
		if err != nil {
			return err
		}
		if err := w.Set(f.Name, v); err != nil {
			return err
		}
	}
	return nil
}
