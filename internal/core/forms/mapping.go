package forms

import (
	"regexp"
	"sort"
	"strings"

	"github.com/markdave123-py/Uncouple/internal/models"
)

// Placeholder binds a template token such as "<<Plaintiff_Name>>" to the
// record field that fills it.
type Placeholder struct {
	Token string
	Field models.Field
}

// Mapping is the ordered placeholder table of one form.
type Mapping []Placeholder

func ph(name string, f models.Field) Placeholder {
	return Placeholder{Token: "<<" + name + ">>", Field: f}
}

var (
	parties = Mapping{
		ph("Plaintiff_Name", models.YourFullName),
		ph("Defendant_Name", models.SpouseFullName),
		ph("Plaintiff_Address", models.YourAddress),
		ph("Defendant_Address", models.SpouseLastKnownAddress),
	}
	contact = Mapping{
		ph("Plaintiff_Email", models.YourEmail),
		ph("Plaintiff_Phone", models.YourPhone),
	}
	marriage = Mapping{
		ph("Marriage_Date", models.MarriageDate),
		ph("Marriage_City", models.MarriageCity),
		ph("Marriage_State", models.MarriageState),
	}
	grounds = Mapping{
		ph("Ceremony_Type", models.CeremonyType),
		ph("Marriage_Breakdown_Date", models.MarriageBreakdownDate),
		ph("Filing_No_Fault", models.FilingNoFault),
		ph("Lived_In_NY_2_Years", models.LivedInNY2Years),
		ph("Alternative_Route", models.AlternativeRoute),
	}
	finances = Mapping{
		ph("Shared_Bank_Accounts", models.SharedBankAccounts),
		ph("Bank_Account_Details", models.BankAccountDetails),
		ph("Shared_Property_Vehicles", models.SharedPropertyVehicles),
		ph("Property_Vehicle_Details", models.PropertyVehicleDetails),
		ph("Include_Spousal_Support", models.IncludeSpousalSupport),
		ph("Spousal_Support_Amount", models.SpousalSupportAmount),
		ph("Spousal_Support_Duration", models.SpousalSupportDuration),
	}
	settlement = Mapping{
		ph("Has_Settlement_Agreement", models.HasSettlementAgreement),
	}
	names = Mapping{
		ph("Want_To_Revert_Name", models.WantToRevertName),
		ph("Your_Former_Name", models.YourFormerName),
		ph("Spouse_Want_To_Revert", models.SpouseWantToRevert),
		ph("Spouse_Former_Name", models.SpouseFormerName),
	}
)

func join(parts ...Mapping) Mapping {
	var m Mapping
	for _, p := range parts {
		m = append(m, p...)
	}
	return m
}

// Mappings holds the placeholder table of every form in the catalog.
var Mappings = map[FormID]Mapping{
	UD1:  join(parties, contact, marriage, grounds),
	UD2:  join(parties, contact, marriage, grounds, settlement, finances),
	UD6:  join(parties, marriage, Mapping{ph("Service_Date", models.MarriageBreakdownDate)}),
	UD9:  join(parties, contact, marriage, finances),
	UD10: join(parties, marriage, Mapping{ph("Marriage_Breakdown_Date", models.MarriageBreakdownDate)}, settlement, finances),
	UD11: join(parties, marriage, Mapping{
		ph("Ceremony_Type", models.CeremonyType),
		ph("Marriage_Breakdown_Date", models.MarriageBreakdownDate),
		ph("Filing_No_Fault", models.FilingNoFault),
	}, settlement, finances, names),
}

var alternativeRoutes = map[string]string{
	models.RouteMarriageInNY:      "Marriage took place in NY",
	models.RouteGroundsOccurredNY: "Grounds for divorce occurred in NY",
	models.RouteBothConsent:       "Both parties consent to NY jurisdiction",
}

// FormatValue renders a record field for insertion into a court form.
// Booleans become Yes/No, date fields are spelled out, and ceremony and
// residency codes are expanded to their labels. Anything else is returned
// unchanged, with unset text as "".
func FormatValue(f models.Field, r models.FormRecord) string {
	if f.IsBool() {
		if f.Bool(r) {
			return "Yes"
		}
		return "No"
	}

	v := f.String(r)
	if strings.Contains(f.Name, "Date") && v != "" {
		if t, ok := models.ParseDate(v); ok {
			return t.Format(models.DisplayDate)
		}
		return v
	}

	switch f.Name {
	case models.CeremonyType.Name:
		switch v {
		case models.CeremonyCivil:
			return "Civil Ceremony"
		case models.CeremonyReligious:
			return "Religious Ceremony"
		}
	case models.AlternativeRoute.Name:
		if label, ok := alternativeRoutes[v]; ok {
			return label
		}
	}
	return v
}

// Substitute replaces every placeholder of form id in text with the
// formatted record value. Unknown forms leave text untouched, as do tokens
// the form does not map.
func Substitute(text string, r models.FormRecord, id FormID) string {
	m := Mappings[id]
	if len(m) == 0 || !strings.Contains(text, "<<") {
		return text
	}
	pairs := make([]string, 0, 2*len(m))
	for _, p := range m {
		pairs = append(pairs, p.Token, FormatValue(p.Field, r))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

var tokenRE = regexp.MustCompile(`<<[A-Za-z0-9_]+>>`)

// UnresolvedPlaceholders lists the distinct tokens still present in text.
func UnresolvedPlaceholders(text string) []string {
	found := tokenRE.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(found))
	var out []string
	for _, tok := range found {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
