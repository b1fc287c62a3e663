package models

// FormRecord is the applicant's intake data. It is filled in by the intake
// wizard, persisted as the user's profile and read by the form generator.
// Optional text fields default to "" and booleans to false.
type FormRecord struct {
	// Basic information
	YourFullName           string `json:"yourFullName"`
	YourAddress            string `json:"yourAddress"`
	YourEmail              string `json:"yourEmail"`
	YourPhone              string `json:"yourPhone"`
	SpouseFullName         string `json:"spouseFullName"`
	SpouseLastKnownAddress string `json:"spouseLastKnownAddress"`
	SpousePhone            string `json:"spousePhone"`

	// Marriage
	MarriageDate   string `json:"marriageDate"`
	MarriageCity   string `json:"marriageCity"`
	MarriageState  string `json:"marriageState"`
	CeremonyType   string `json:"ceremonyType"` // "", Civil, Religious
	NameChange     bool   `json:"nameChange"`
	WhoChangedName string `json:"whoChangedName"` // "", You, Spouse
	FormerName     string `json:"formerName"`

	// Residency and grounds
	LivedInNY2Years       bool   `json:"livedInNY2Years"`
	AlternativeRoute      string `json:"alternativeRoute"`
	MarriageBreakdownDate string `json:"marriageBreakdownDate"`
	FilingNoFault         bool   `json:"filingNoFault"`

	// Property and support
	HasSettlementAgreement  bool   `json:"hasSettlementAgreement"`
	SettlementAgreementFile string `json:"settlementAgreementFile"`
	SharedBankAccounts      bool   `json:"sharedBankAccounts"`
	BankAccountDetails      string `json:"bankAccountDetails"`
	SharedPropertyVehicles  bool   `json:"sharedPropertyVehicles"`
	PropertyVehicleDetails  string `json:"propertyVehicleDetails"`
	IncludeSpousalSupport   bool   `json:"includeSpousalSupport"`
	SpousalSupportAmount    string `json:"spousalSupportAmount"`
	SpousalSupportDuration  string `json:"spousalSupportDuration"`

	// Name change after divorce
	WantToRevertName   bool   `json:"wantToRevertName"`
	YourFormerName     string `json:"yourFormerName"`
	SpouseWantToRevert bool   `json:"spouseWantToRevert"`
	SpouseFormerName   string `json:"spouseFormerName"`

	// Filing logistics
	CanPayFilingFees  bool `json:"canPayFilingFees"`
	NeedFeeWaiver     bool `json:"needFeeWaiver"`
	HasPrinterScanner bool `json:"hasPrinterScanner"`
	WantLegalReview   bool `json:"wantLegalReview"`
}

// Ceremony and alternative residency codes stored on a FormRecord.
const (
	CeremonyCivil     = "Civil"
	CeremonyReligious = "Religious"

	ChangedByYou    = "You"
	ChangedBySpouse = "Spouse"

	RouteMarriageInNY      = "marriage_in_ny"
	RouteGroundsOccurredNY = "grounds_occurred_ny"
	RouteBothConsent       = "both_parties_consent"
)

// BasicInfo returns a copy of r holding only the basic-information section.
func (r FormRecord) BasicInfo() FormRecord {
	return FormRecord{
		YourFullName:           r.YourFullName,
		YourAddress:            r.YourAddress,
		YourEmail:              r.YourEmail,
		YourPhone:              r.YourPhone,
		SpouseFullName:         r.SpouseFullName,
		SpouseLastKnownAddress: r.SpouseLastKnownAddress,
		SpousePhone:            r.SpousePhone,
	}
}

// WithBasicInfo returns r with its basic-information section replaced by b's.
func (r FormRecord) WithBasicInfo(b FormRecord) FormRecord {
	r.YourFullName = b.YourFullName
	r.YourAddress = b.YourAddress
	r.YourEmail = b.YourEmail
	r.YourPhone = b.YourPhone
	r.SpouseFullName = b.SpouseFullName
	r.SpouseLastKnownAddress = b.SpouseLastKnownAddress
	r.SpousePhone = b.SpousePhone
	return r
}
