package forms

import (
	"errors"
	"fmt"
)

// FormID identifies a New York uncontested divorce form.
type FormID string

const (
	UD1  FormID = "UD-1"
	UD2  FormID = "UD-2"
	UD6  FormID = "UD-6"
	UD9  FormID = "UD-9"
	UD10 FormID = "UD-10"
	UD11 FormID = "UD-11"
)

// ErrUnknownForm is returned for form ids outside the catalog.
var ErrUnknownForm = errors.New("unknown form")

// FormInfo describes one form of the filing packet.
type FormInfo struct {
	ID           FormID `json:"id"`
	FormNumber   string `json:"formNumber"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	TemplateFile string `json:"templateFile"`
	Title        string `json:"-"`
}

// Catalog lists the packet in generation order.
var Catalog = []FormInfo{
	{
		ID: UD1, FormNumber: "UD-1", Name: "Summons with Notice",
		Description:  "Official notice to your spouse about the divorce proceedings",
		TemplateFile: "UD-1 - Summons Template.docx",
		Title:        "SUMMONS WITH NOTICE",
	},
	{
		ID: UD2, FormNumber: "UD-2", Name: "Verified Complaint for Divorce",
		Description:  "The main divorce petition explaining the grounds for divorce",
		TemplateFile: "UD-2 - Verified Complaint.docx",
		Title:        "VERIFIED COMPLAINT FOR DIVORCE",
	},
	{
		ID: UD6, FormNumber: "UD-6", Name: "Affidavit of Service",
		Description:  "Proof that your spouse was properly served with the divorce papers",
		TemplateFile: "UD-6 - Affidavit of Service.docx",
		Title:        "AFFIDAVIT OF SERVICE",
	},
	{
		ID: UD9, FormNumber: "UD-9", Name: "Financial Disclosure Affidavit",
		Description:  "Financial disclosure form showing assets and liabilities",
		TemplateFile: "UD-9 - Financial Disclosure Affidavit.docx",
		Title:        "FINANCIAL DISCLOSURE AFFIDAVIT",
	},
	{
		ID: UD10, FormNumber: "UD-10", Name: "Settlement Agreement",
		Description:  "Agreement between spouses on property division and other matters",
		TemplateFile: "UD-10 - Settlement Agreement.docx",
		Title:        "SETTLEMENT AGREEMENT",
	},
	{
		ID: UD11, FormNumber: "UD-11", Name: "Judgment of Divorce",
		Description:  "Final court order granting the divorce",
		TemplateFile: "UD-11 - Judgment of Divorce.docx",
		Title:        "JUDGMENT OF DIVORCE",
	},
}

// FormOrder returns the form ids in generation order.
func FormOrder() []FormID {
	ids := make([]FormID, len(Catalog))
	for i, f := range Catalog {
		ids[i] = f.ID
	}
	return ids
}

// Lookup returns the catalog entry for id.
func Lookup(id FormID) (FormInfo, error) {
	for _, f := range Catalog {
		if f.ID == id {
			return f, nil
		}
	}
	return FormInfo{}, fmt.Errorf("%w: %q", ErrUnknownForm, id)
}

// OutputName is the download name of a filled form, e.g. "UD-1_filled.docx".
func OutputName(id FormID, ext string) string {
	return fmt.Sprintf("%s_filled.%s", id, ext)
}
