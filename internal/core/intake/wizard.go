package intake

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Uncouple/internal/models"
)

// ProfileSaver persists wizard data for a user.
type ProfileSaver interface {
	SaveBasicInfo(ctx context.Context, userID string, basic models.FormRecord) error
	SaveProfile(ctx context.Context, userID string, rec models.FormRecord) error
}

// Stage is where the applicant is in the overall flow.
type Stage int

const (
	StageIntake Stage = iota
	StagePayment
)

// Wizard is the six-section intake form. It tracks the current section,
// which fields the user has visited, and whether the assistant chat has
// been unlocked by saving the basic information.
type Wizard struct {
	record       models.FormRecord
	touched      map[string]bool
	step         models.Section
	stage        Stage
	chatUnlocked bool
}

// NewWizard starts a wizard prefilled with rec, typically the stored
// profile.
func NewWizard(rec models.FormRecord) *Wizard {
	return &Wizard{
		record:  rec,
		touched: make(map[string]bool),
		step:    models.SectionBasicInfo,
	}
}

func (w *Wizard) Record() models.FormRecord { return w.record }
func (w *Wizard) Step() models.Section { return w.step }
func (w *Wizard) Stage() Stage { return w.stage }
func (w *Wizard) ChatUnlocked() bool { return w.chatUnlocked }

// Set assigns value to the named field and marks it touched. Phone numbers
// are normalised as they are entered.
func (w *Wizard) Set(name string, value any) error {
	f, ok := models.FieldByName(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	if s, isStr := value.(string); isStr && f.Kind == models.KindPhone {
		value = FormatPhone(s)
	}
	if err := f.Set(&w.record, value); err != nil {
		return err
	}
	w.touched[name] = true
	return nil
}

// Touch marks a field as visited without changing it.
func (w *Wizard) Touch(name string) { w.touched[name] = true }

// Touched reports whether the user has visited the field.
func (w *Wizard) Touched(name string) bool { return w.touched[name] }

// Errors returns the inline messages of touched fields that are visible
// and invalid.
func (w *Wizard) Errors() map[string]string {
	names := make([]string, 0, len(w.touched))
	for n := range w.touched {
		names = append(names, n)
	}
	return CheckTouched(w.record, names)
}

// VisibleFields returns the fields shown in a section for the current data.
func (w *Wizard) VisibleFields(s models.Section) []models.Field {
	var out []models.Field
	for _, f := range models.SectionFields(s) {
		if f.Visible(w.record) {
			out = append(out, f)
		}
	}
	return out
}

// Next moves to the following section; no-op on the last one.
func (w *Wizard) Next() {
	if w.step < models.SectionCount {
		w.step++
	}
}

// Previous moves to the preceding section; no-op on the first one.
func (w *Wizard) Previous() {
	if w.step > models.SectionBasicInfo {
		w.step--
	}
}

// SaveBasicInfo validates and persists the basic-information section only.
// On success the assistant chat is unlocked.
func (w *Wizard) SaveBasicInfo(ctx context.Context, saver ProfileSaver, userID string) error {
	if err := w.require(models.SectionFields(models.SectionBasicInfo)); err != nil {
		return err
	}
	if err := saver.SaveBasicInfo(ctx, userID, w.record.BasicInfo()); err != nil {
		return fmt.Errorf("save basic info: %w", err)
	}
	w.chatUnlocked = true
	return nil
}

// Submit validates the whole record, persists it and moves the applicant
// on to payment.
func (w *Wizard) Submit(ctx context.Context, saver ProfileSaver, userID string) error {
	if err := w.require(models.Fields); err != nil {
		return err
	}
	if err := saver.SaveProfile(ctx, userID, w.record); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	w.stage = StagePayment
	return nil
}

func (w *Wizard) require(fields []models.Field) error {
	errs := Check(w.record, fields)
	if len(errs) == 0 {
		return nil
	}
	for name := range errs {
		w.touched[name] = true
	}
	return &ValidationError{Fields: errs}
}
