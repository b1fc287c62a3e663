package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Section is one page of the intake wizard.
type Section int

const (
	SectionBasicInfo Section = iota + 1
	SectionMarriage
	SectionResidency
	SectionProperty
	SectionNameChange
	SectionFiling
)

// SectionCount is the number of wizard sections.
const SectionCount = 6

var sectionTitles = map[Section]string{
	SectionBasicInfo:  "Basic Information",
	SectionMarriage:   "Marriage Information",
	SectionResidency:  "Residency & Grounds",
	SectionProperty:   "Property & Support",
	SectionNameChange: "Name Change",
	SectionFiling:     "Filing Preferences",
}

func (s Section) String() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return fmt.Sprintf("Section(%d)", int(s))
}

// FieldKind drives formatting and validation of a field's value.
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindPhone
	KindDate
	KindChoice
	KindAmount
	KindFile
	KindBool
)

// Field describes one FormRecord field. Accessors are bound to the struct
// member, so tables that reference Field values are checked by the compiler.
type Field struct {
	Name     string
	Label    string
	Section  Section
	Kind     FieldKind
	Required bool
	Options  []string

	// Controller names the boolean field that reveals this one. The field is
	// visible when the controller equals ShowWhen.
	Controller string
	ShowWhen   bool

	str     func(*FormRecord) *string
	flag    func(*FormRecord) *bool
	visible func(*FormRecord) bool
}

func textField(name, label string, s Section, k FieldKind, p func(*FormRecord) *string) Field {
	return Field{Name: name, Label: label, Section: s, Kind: k, str: p}
}

func boolField(name, label string, s Section, p func(*FormRecord) *bool) Field {
	return Field{Name: name, Label: label, Section: s, Kind: KindBool, flag: p}
}

func (f Field) required() Field {
	f.Required = true
	return f
}

func (f Field) options(opts ...string) Field {
	f.Options = opts
	return f
}

func (f Field) shownWhen(ctrl Field, want bool) Field {
	f.Controller = ctrl.Name
	f.ShowWhen = want
	get := ctrl.flag
	f.visible = func(r *FormRecord) bool { return *get(r) == want }
	return f
}

// IsBool reports whether the field holds a boolean.
func (f Field) IsBool() bool { return f.flag != nil }

// Value returns the field's value in r: a bool for boolean fields, a string
// otherwise.
func (f Field) Value(r FormRecord) any {
	if f.flag != nil {
		return *f.flag(&r)
	}
	return *f.str(&r)
}

// String returns a text field's raw value, or "true"/"false" for booleans.
func (f Field) String(r FormRecord) string {
	if f.flag != nil {
		return strconv.FormatBool(*f.flag(&r))
	}
	return *f.str(&r)
}

// Bool returns a boolean field's value; false for text fields.
func (f Field) Bool(r FormRecord) bool {
	if f.flag == nil {
		return false
	}
	return *f.flag(&r)
}

// IsEmpty reports whether a text field is blank. Booleans are never empty.
func (f Field) IsEmpty(r FormRecord) bool {
	if f.flag != nil {
		return false
	}
	return strings.TrimSpace(*f.str(&r)) == ""
}

// Visible reports whether the field is shown for r.
func (f Field) Visible(r FormRecord) bool {
	if f.visible == nil {
		return true
	}
	return f.visible(&r)
}

// Set assigns v to the field on r. Booleans accept bool or a "true"/"false"/
// "yes"/"no" string; text fields accept strings.
func (f Field) Set(r *FormRecord, v any) error {
	if f.flag != nil {
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		*f.flag(r) = b
		return nil
	}
	switch t := v.(type) {
	case string:
		*f.str(r) = t
	case nil:
		*f.str(r) = ""
	default:
		return fmt.Errorf("%s: expected text, got %T", f.Name, v)
	}
	return nil
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case nil:
		return false, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "on":
			return true, nil
		case "false", "no", "n", "0", "off", "":
			return false, nil
		}
		return false, fmt.Errorf("not a boolean: %q", t)
	}
	return false, fmt.Errorf("expected boolean, got %T", v)
}

var (
	YourFullName = textField("yourFullName", "Your full legal name", SectionBasicInfo, KindText,
		func(r *FormRecord) *string { return &r.YourFullName }).required()
	YourAddress = textField("yourAddress", "Your current address", SectionBasicInfo, KindText,
		func(r *FormRecord) *string { return &r.YourAddress }).required()
	YourEmail = textField("yourEmail", "Your email", SectionBasicInfo, KindEmail,
		func(r *FormRecord) *string { return &r.YourEmail }).required()
	YourPhone = textField("yourPhone", "Your phone number", SectionBasicInfo, KindPhone,
		func(r *FormRecord) *string { return &r.YourPhone }).required()
	SpouseFullName = textField("spouseFullName", "Spouse's full legal name", SectionBasicInfo, KindText,
		func(r *FormRecord) *string { return &r.SpouseFullName }).required()
	SpouseLastKnownAddress = textField("spouseLastKnownAddress", "Spouse's last known address", SectionBasicInfo, KindText,
		func(r *FormRecord) *string { return &r.SpouseLastKnownAddress }).required()
	SpousePhone = textField("spousePhone", "Spouse's phone number", SectionBasicInfo, KindPhone,
		func(r *FormRecord) *string { return &r.SpousePhone })

	MarriageDate = textField("marriageDate", "Date of marriage", SectionMarriage, KindDate,
		func(r *FormRecord) *string { return &r.MarriageDate }).required()
	MarriageCity = textField("marriageCity", "City of marriage", SectionMarriage, KindText,
		func(r *FormRecord) *string { return &r.MarriageCity }).required()
	MarriageState = textField("marriageState", "State of marriage", SectionMarriage, KindText,
		func(r *FormRecord) *string { return &r.MarriageState }).required()
	CeremonyType = textField("ceremonyType", "Type of ceremony", SectionMarriage, KindChoice,
		func(r *FormRecord) *string { return &r.CeremonyType }).options(CeremonyCivil, CeremonyReligious)
	NameChange = boolField("nameChange", "Did either spouse change their name at marriage?", SectionMarriage,
		func(r *FormRecord) *bool { return &r.NameChange })
	WhoChangedName = textField("whoChangedName", "Who changed their name?", SectionMarriage, KindChoice,
		func(r *FormRecord) *string { return &r.WhoChangedName }).options(ChangedByYou, ChangedBySpouse).shownWhen(NameChange, true)
	FormerName = textField("formerName", "Former name", SectionMarriage, KindText,
		func(r *FormRecord) *string { return &r.FormerName }).required().shownWhen(NameChange, true)

	LivedInNY2Years = boolField("livedInNY2Years", "Have you or your spouse lived in New York for 2+ years?", SectionResidency,
		func(r *FormRecord) *bool { return &r.LivedInNY2Years })
	AlternativeRoute = textField("alternativeRoute", "Alternative residency basis", SectionResidency, KindChoice,
		func(r *FormRecord) *string { return &r.AlternativeRoute }).
		options(RouteMarriageInNY, RouteGroundsOccurredNY, RouteBothConsent).required().shownWhen(LivedInNY2Years, false)
	MarriageBreakdownDate = textField("marriageBreakdownDate", "Date the marriage broke down", SectionResidency, KindDate,
		func(r *FormRecord) *string { return &r.MarriageBreakdownDate }).required()
	FilingNoFault = boolField("filingNoFault", "Filing on no-fault grounds (irretrievable breakdown)?", SectionResidency,
		func(r *FormRecord) *bool { return &r.FilingNoFault })

	HasSettlementAgreement = boolField("hasSettlementAgreement", "Do you have a signed settlement agreement?", SectionProperty,
		func(r *FormRecord) *bool { return &r.HasSettlementAgreement })
	SettlementAgreementFile = textField("settlementAgreementFile", "Settlement agreement file", SectionProperty, KindFile,
		func(r *FormRecord) *string { return &r.SettlementAgreementFile }).shownWhen(HasSettlementAgreement, true)
	SharedBankAccounts = boolField("sharedBankAccounts", "Do you share bank accounts?", SectionProperty,
		func(r *FormRecord) *bool { return &r.SharedBankAccounts })
	BankAccountDetails = textField("bankAccountDetails", "Bank account details", SectionProperty, KindText,
		func(r *FormRecord) *string { return &r.BankAccountDetails }).shownWhen(SharedBankAccounts, true)
	SharedPropertyVehicles = boolField("sharedPropertyVehicles", "Do you share property or vehicles?", SectionProperty,
		func(r *FormRecord) *bool { return &r.SharedPropertyVehicles })
	PropertyVehicleDetails = textField("propertyVehicleDetails", "Property and vehicle details", SectionProperty, KindText,
		func(r *FormRecord) *string { return &r.PropertyVehicleDetails }).shownWhen(SharedPropertyVehicles, true)
	IncludeSpousalSupport = boolField("includeSpousalSupport", "Include spousal support?", SectionProperty,
		func(r *FormRecord) *bool { return &r.IncludeSpousalSupport })
	SpousalSupportAmount = textField("spousalSupportAmount", "Monthly support amount", SectionProperty, KindAmount,
		func(r *FormRecord) *string { return &r.SpousalSupportAmount }).shownWhen(IncludeSpousalSupport, true)
	SpousalSupportDuration = textField("spousalSupportDuration", "Support duration", SectionProperty, KindText,
		func(r *FormRecord) *string { return &r.SpousalSupportDuration }).shownWhen(IncludeSpousalSupport, true)

	WantToRevertName = boolField("wantToRevertName", "Do you want to resume a former name?", SectionNameChange,
		func(r *FormRecord) *bool { return &r.WantToRevertName })
	YourFormerName = textField("yourFormerName", "Your former name", SectionNameChange, KindText,
		func(r *FormRecord) *string { return &r.YourFormerName }).shownWhen(WantToRevertName, true)
	SpouseWantToRevert = boolField("spouseWantToRevert", "Does your spouse want to resume a former name?", SectionNameChange,
		func(r *FormRecord) *bool { return &r.SpouseWantToRevert })
	SpouseFormerName = textField("spouseFormerName", "Spouse's former name", SectionNameChange, KindText,
		func(r *FormRecord) *string { return &r.SpouseFormerName }).shownWhen(SpouseWantToRevert, true)

	CanPayFilingFees = boolField("canPayFilingFees", "Can you pay the court filing fees?", SectionFiling,
		func(r *FormRecord) *bool { return &r.CanPayFilingFees })
	NeedFeeWaiver = boolField("needFeeWaiver", "Do you need a fee waiver?", SectionFiling,
		func(r *FormRecord) *bool { return &r.NeedFeeWaiver })
	HasPrinterScanner = boolField("hasPrinterScanner", "Do you have access to a printer and scanner?", SectionFiling,
		func(r *FormRecord) *bool { return &r.HasPrinterScanner })
	WantLegalReview = boolField("wantLegalReview", "Would you like an attorney to review your forms?", SectionFiling,
		func(r *FormRecord) *bool { return &r.WantLegalReview })
)

// Fields lists every FormRecord field in wizard order.
var Fields = []Field{
	YourFullName, YourAddress, YourEmail, YourPhone, SpouseFullName, SpouseLastKnownAddress, SpousePhone,
	MarriageDate, MarriageCity, MarriageState, CeremonyType, NameChange, WhoChangedName, FormerName,
	LivedInNY2Years, AlternativeRoute, MarriageBreakdownDate, FilingNoFault,
	HasSettlementAgreement, SettlementAgreementFile, SharedBankAccounts, BankAccountDetails,
	SharedPropertyVehicles, PropertyVehicleDetails, IncludeSpousalSupport, SpousalSupportAmount, SpousalSupportDuration,
	WantToRevertName, YourFormerName, SpouseWantToRevert, SpouseFormerName,
	CanPayFilingFees, NeedFeeWaiver, HasPrinterScanner, WantLegalReview,
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// FieldByName looks up a field by its JSON name.
func FieldByName(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// SectionFields returns the fields of one wizard section in order.
func SectionFields(s Section) []Field {
	var out []Field
	for _, f := range Fields {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out
}
