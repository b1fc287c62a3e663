package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markdave123-py/Uncouple/internal/core/eligibility"
	"github.com/markdave123-py/Uncouple/internal/models"
)

func TestRenderResultShowsAdvice(t *testing.T) {
	res := eligibility.Assess(map[string]string{
		eligibility.QuestionResidency:      "no",
		eligibility.QuestionMarriageLength: "10-20 years",
	})
	out := renderResult(res)
	for _, want := range []string{res.Recommendation.Title, "67%", "resident", "advisor"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(40, 10); got != "[████░░░░░░]" {
		t.Fatalf("got %s", got)
	}
	if got := progressBar(100, 4); got != "[████]" {
		t.Fatalf("got %s", got)
	}
}

func TestRecordFileSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	s := &fileSaver{path: path}

	full := models.FormRecord{YourFullName: "Jane Doe", MarriageCity: "Albany"}
	if err := s.SaveProfile(context.Background(), "", full); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveBasicInfo(context.Background(), "", models.FormRecord{YourFullName: "Jane Smith", MarriageCity: "ignored"}); err != nil {
		t.Fatal(err)
	}
	got, err := readRecord(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.YourFullName != "Jane Smith" || got.MarriageCity != "Albany" {
		t.Fatalf("unexpected record %+v", got)
	}
}
