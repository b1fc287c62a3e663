package services

import (
	"context"
	"path/filepath"
	"testing"

	db "github.com/markdave123-py/Uncouple/internal/core/database"
	"github.com/markdave123-py/Uncouple/internal/models"
)

func newStore(t *testing.T) *db.SQLiteClient {
	t.Helper()
	s, err := db.NewSQLiteClient(filepath.Join(t.TempDir(), "uncouple.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord() models.FormRecord {
	return models.FormRecord{
		YourFullName:           "Jane Doe",
		YourAddress:            "12 Main St, Albany, NY",
		YourEmail:              "jane@example.com",
		YourPhone:              "5185550101",
		SpouseFullName:         "John Doe",
		SpouseLastKnownAddress: "99 River Rd, Troy, NY",
		MarriageDate:           "2015-06-20",
		MarriageCity:           "Albany",
		MarriageState:          "NY",
		LivedInNY2Years:        true,
		FilingNoFault:          true,
	}
}

func TestProfileSaveBasicInfoMerges(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewProfileService(store)

	if rec, err := svc.Record(ctx, "u1"); err != nil || rec != (models.FormRecord{}) {
		t.Fatalf("new user should have an empty record, got %+v %v", rec, err)
	}
	if err := svc.SaveProfile(ctx, "u1", sampleRecord()); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	basic := sampleRecord().BasicInfo()
	basic.YourFullName = "Jane Smith"
	basic.SpousePhone = "518 555 0199"
	basic.MarriageCity = "ignored"
	if err := svc.SaveBasicInfo(ctx, "u1", basic); err != nil {
		t.Fatalf("save basic: %v", err)
	}

	rec, err := svc.Record(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.YourFullName != "Jane Smith" || rec.MarriageCity != "Albany" || !rec.LivedInNY2Years {
		t.Fatalf("basic info should merge onto the stored record: %+v", rec)
	}
	if rec.YourPhone != "(518) 555-0101" || rec.SpousePhone != "(518) 555-0199" {
		t.Fatalf("phones not normalised: %q %q", rec.YourPhone, rec.SpousePhone)
	}
}

func TestUserServiceAssignsRoles(t *testing.T) {
	ctx := context.Background()
	users := NewUserService(newStore(t), " Admin@Example.com ")

	member := &models.User{Email: "jane@example.com", PasswordHash: "h"}
	admin := &models.User{Email: "ADMIN@example.com", PasswordHash: "h"}
	for _, u := range []*models.User{member, admin} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create %s: %v", u.Email, err)
		}
	}

	got, err := users.GetByEmail(ctx, "admin@example.com")
	if err != nil || got == nil || got.Role != models.UserRoleAdmin {
		t.Fatalf("expected stored admin role, got %+v %v", got, err)
	}
	got, _ = users.GetByEmail(ctx, "jane@example.com")
	if got == nil || got.Role != models.UserRoleMember {
		t.Fatalf("expected member role, got %+v", got)
	}
}
