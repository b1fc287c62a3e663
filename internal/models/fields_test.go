package models

import "testing"

func TestFieldsCoverRecord(t *testing.T) {
	if len(Fields) != 35 {
		t.Fatalf("expected 35 fields, got %d", len(Fields))
	}
	seen := map[string]bool{}
	for _, f := range Fields {
		if seen[f.Name] {
			t.Fatalf("duplicate field %s", f.Name)
		}
		seen[f.Name] = true
		if f.Controller != "" {
			ctrl, ok := FieldByName(f.Controller)
			if !ok || !ctrl.IsBool() {
				t.Fatalf("%s: controller %q is not a boolean field", f.Name, f.Controller)
			}
		}
	}
}

func TestFieldSetAndVisibility(t *testing.T) {
	var r FormRecord
	if err := SharedBankAccounts.Set(&r, "yes"); err != nil {
		t.Fatalf("set bool: %v", err)
	}
	if !r.SharedBankAccounts {
		t.Fatal("expected sharedBankAccounts to be true")
	}
	if !BankAccountDetails.Visible(r) {
		t.Fatal("bank account details should be visible once shared accounts is set")
	}
	if AlternativeRoute.Visible(FormRecord{LivedInNY2Years: true}) {
		t.Fatal("alternative route should be hidden for two-year residents")
	}
	if err := YourFullName.Set(&r, 42); err == nil {
		t.Fatal("expected error assigning a number to a text field")
	}
	if err := YourFullName.Set(&r, "Jane Doe"); err != nil || YourFullName.Value(r) != "Jane Doe" {
		t.Fatalf("unexpected text set result: %v %v", err, YourFullName.Value(r))
	}
}

func TestBasicInfoRoundTrip(t *testing.T) {
	full := FormRecord{YourFullName: "A", SpousePhone: "(212) 555-0100", MarriageCity: "Albany"}
	basic := full.BasicInfo()
	if basic.MarriageCity != "" {
		t.Fatal("basic info must not carry marriage fields")
	}
	merged := FormRecord{MarriageCity: "Buffalo"}.WithBasicInfo(basic)
	if merged.YourFullName != "A" || merged.MarriageCity != "Buffalo" {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}
