package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/markdave123-py/Uncouple/internal/core/eligibility"
	"github.com/markdave123-py/Uncouple/internal/models"
)

type recordingSaver struct {
	basic   *models.FormRecord
	full    *models.FormRecord
	failure error
}

func (s *recordingSaver) SaveBasicInfo(_ context.Context, _ string, b models.FormRecord) error {
	if s.failure != nil {
		return s.failure
	}
	s.basic = &b
	return nil
}

func (s *recordingSaver) SaveProfile(_ context.Context, _ string, r models.FormRecord) error {
	if s.failure != nil {
		return s.failure
	}
	s.full = &r
	return nil
}

func fillBasic(t *testing.T, w *Wizard) {
	t.Helper()
	values := map[string]any{
		"yourFullName":           "Jane Doe",
		"yourAddress":            "12 Main St, Albany, NY",
		"yourEmail":              "jane@example.com",
		"yourPhone":              "518-555-0101",
		"spouseFullName":         "John Doe",
		"spouseLastKnownAddress": "99 River Rd, Troy, NY",
	}
	for k, v := range values {
		if err := w.Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"51":                "51",
		"5185":              "(518) 5",
		"518555":            "(518) 555",
		"5185550101":        "(518) 555-0101",
		"+1 (518) 555-0101": "(151) 855-5010",
		"518.555.0101 x22":  "(518) 555-0101",
	}
	for in, want := range cases {
		if got := FormatPhone(in); got != want {
			t.Errorf("FormatPhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNavigationBounds(t *testing.T) {
	w := NewWizard(models.FormRecord{})
	w.Previous()
	if w.Step() != models.SectionBasicInfo {
		t.Fatal("previous on section 1 must be a no-op")
	}
	for i := 0; i < 10; i++ {
		w.Next()
	}
	if w.Step() != models.SectionFiling {
		t.Fatalf("expected last section, got %v", w.Step())
	}
	w.Previous()
	if w.Step() != models.SectionNameChange {
		t.Fatalf("expected section 5, got %v", w.Step())
	}
}

func TestErrorsOnlyForTouchedFields(t *testing.T) {
	w := NewWizard(models.FormRecord{})
	if len(w.Errors()) != 0 {
		t.Fatal("untouched fields must not report errors")
	}
	w.Touch("yourFullName")
	if err := w.Set("yourEmail", "not-an-email"); err != nil {
		t.Fatalf("set: %v", err)
	}
	errs := w.Errors()
	if errs["yourFullName"] != MsgRequired || errs["yourEmail"] != MsgEmail {
		t.Fatalf("unexpected errors %v", errs)
	}
	if _, ok := errs["yourAddress"]; ok {
		t.Fatal("untouched address should not be reported")
	}
}

func TestConditionalFields(t *testing.T) {
	w := NewWizard(models.FormRecord{})
	w.Touch("bankAccountDetails")
	if len(w.Errors()) != 0 {
		t.Fatal("hidden field must not be validated")
	}
	hidden := len(w.VisibleFields(models.SectionProperty))
	if err := w.Set("includeSpousalSupport", true); err != nil {
		t.Fatal(err)
	}
	if got := len(w.VisibleFields(models.SectionProperty)); got != hidden+2 {
		t.Fatalf("expected amount and duration to appear, got %d fields (was %d)", got, hidden)
	}
	if err := w.Set("spousalSupportAmount", "-20"); err != nil {
		t.Fatal(err)
	}
	if w.Errors()["spousalSupportAmount"] != MsgAmount {
		t.Fatalf("negative amount should be rejected, got %v", w.Errors())
	}
	if err := w.Set("spousalSupportAmount", "$1,250.50"); err != nil {
		t.Fatal(err)
	}
	if msg, bad := w.Errors()["spousalSupportAmount"]; bad {
		t.Fatalf("valid amount rejected: %s", msg)
	}

	r := w.Record()
	r.LivedInNY2Years = false
	if CheckField(models.AlternativeRoute, r) != MsgRequired {
		t.Fatal("alternative route is required when residency is under two years")
	}
	r.LivedInNY2Years = true
	if CheckField(models.AlternativeRoute, r) != "" {
		t.Fatal("alternative route is hidden for two-year residents")
	}
}

func TestSaveBasicInfo(t *testing.T) {
	w := NewWizard(models.FormRecord{})
	saver := &recordingSaver{}

	err := w.SaveBasicInfo(context.Background(), saver, "user-1")
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 6 {
		t.Fatalf("expected 6 missing fields, got %v", err)
	}
	if !w.Touched("yourPhone") {
		t.Fatal("missing fields should be marked touched")
	}
	if w.ChatUnlocked() {
		t.Fatal("chat must stay locked until basic info is saved")
	}

	fillBasic(t, w)
	if err := w.Set("marriageCity", "Albany"); err != nil {
		t.Fatal(err)
	}
	if err := w.SaveBasicInfo(context.Background(), saver, "user-1"); err != nil {
		t.Fatalf("save basic: %v", err)
	}
	if !w.ChatUnlocked() {
		t.Fatal("chat should unlock after saving basic info")
	}
	if saver.basic.YourPhone != "(518) 555-0101" {
		t.Fatalf("phone not normalised: %q", saver.basic.YourPhone)
	}
	if saver.basic.MarriageCity != "" {
		t.Fatal("only the basic section may be saved")
	}
}

func TestSubmit(t *testing.T) {
	w := NewWizard(models.FormRecord{})
	fillBasic(t, w)
	saver := &recordingSaver{}

	if err := w.Submit(context.Background(), saver, "user-1"); err == nil {
		t.Fatal("submission without marriage details must fail")
	}
	if w.Stage() != StageIntake {
		t.Fatal("failed submission must not advance")
	}

	for k, v := range map[string]any{
		"marriageDate":          "2015-06-20",
		"marriageCity":          "Albany",
		"marriageState":         "NY",
		"livedInNY2Years":       true,
		"marriageBreakdownDate": "2023-02-01",
	} {
		if err := w.Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := w.Submit(context.Background(), saver, "user-1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if w.Stage() != StagePayment || saver.full == nil || saver.full.MarriageCity != "Albany" {
		t.Fatal("submission should persist the full record and move to payment")
	}

	saver.failure = errors.New("db down")
	if err := w.Submit(context.Background(), saver, "user-1"); err == nil {
		t.Fatal("store failures must surface")
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession("user-1", &models.Profile{Record: models.FormRecord{YourFullName: "Jane Doe"}})
	if s.Wizard.Record().YourFullName != "Jane Doe" {
		t.Fatal("session should prefill from the profile")
	}
	s.RecordEligibility(eligibility.Assess(map[string]string{"residency": "yes", "marriage_duration": "1-5 years"}))
	if r, ok := s.Eligibility(); !ok || !r.IsEligible {
		t.Fatal("session should keep the eligibility result")
	}
	s.End()
	if _, ok := s.Eligibility(); ok || s.Wizard.Record().YourFullName != "" || !s.Ended() {
		t.Fatal("end should clear all session state")
	}
}
