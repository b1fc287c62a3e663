package forms

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Built-in form bodies. They are used when no template directory or bucket
// is configured, and as the text written by "uncouple templates seed".
var builtinBodies = map[FormID]string{
	UD1: `TO: <<Defendant_Name>>
Defendant's Address: <<Defendant_Address>>

You are hereby summoned to answer the complaint in this action and to serve a copy of your answer, or, if the complaint is not served with this summons, to serve a notice of appearance, on the plaintiff within 20 days after the service of this summons.

NOTICE: The nature of this action is to dissolve the marriage between the parties, on the grounds of DRL §170 subd. 7 (irretrievable breakdown). No-fault grounds: <<Filing_No_Fault>>.

The parties were married on <<Marriage_Date>> in <<Marriage_City>>, <<Marriage_State>> in a <<Ceremony_Type>>.
The relationship broke down irretrievably as of <<Marriage_Breakdown_Date>>.
Either party resided in New York for two continuous years: <<Lived_In_NY_2_Years>>
Other basis for New York residency: <<Alternative_Route>>

Plaintiff: <<Plaintiff_Name>>
Plaintiff's Address: <<Plaintiff_Address>>
Email: <<Plaintiff_Email>>
Phone: <<Plaintiff_Phone>>`,

	UD2: `Plaintiff: <<Plaintiff_Name>>
Defendant: <<Defendant_Name>>

1. Plaintiff resides at <<Plaintiff_Address>> and may be reached at <<Plaintiff_Email>>, <<Plaintiff_Phone>>.
2. Defendant resides at <<Defendant_Address>>.
3. The parties were married on <<Marriage_Date>> in <<Marriage_City>>, <<Marriage_State>>. The marriage was performed in a <<Ceremony_Type>>.
4. Residency for two continuous years: <<Lived_In_NY_2_Years>>. Other residency basis: <<Alternative_Route>>.
5. The relationship between the parties has broken down irretrievably for a period of at least six months, since <<Marriage_Breakdown_Date>>. No-fault grounds: <<Filing_No_Fault>>.
6. Written settlement agreement: <<Has_Settlement_Agreement>>.
7. Shared bank accounts: <<Shared_Bank_Accounts>>. Details: <<Bank_Account_Details>>
8. Shared property or vehicles: <<Shared_Property_Vehicles>>. Details: <<Property_Vehicle_Details>>
9. Spousal support requested: <<Include_Spousal_Support>>. Amount: <<Spousal_Support_Amount>>. Duration: <<Spousal_Support_Duration>>.

WHEREFORE, Plaintiff demands judgment dissolving the marriage between the parties.`,

	UD6: `I, <<Plaintiff_Name>>, being duly sworn, depose and say:

1. I am the plaintiff in this action and reside at <<Plaintiff_Address>>.
2. On <<Service_Date>>, I caused the Summons with Notice and Verified Complaint for Divorce to be served upon <<Defendant_Name>>.
3. The defendant was served at <<Defendant_Address>>.
4. The defendant is my spouse, married on <<Marriage_Date>> in <<Marriage_City>>, <<Marriage_State>>.`,

	UD9: `I, <<Plaintiff_Name>>, being duly sworn, depose and say:

1. I reside at <<Plaintiff_Address>>.
2. My contact information is <<Plaintiff_Email>>, <<Plaintiff_Phone>>.
3. I was married to <<Defendant_Name>>, who resides at <<Defendant_Address>>, on <<Marriage_Date>> in <<Marriage_City>>, <<Marriage_State>>.

FINANCIAL INFORMATION:
- Shared Bank Accounts: <<Shared_Bank_Accounts>>
- Bank Account Details: <<Bank_Account_Details>>
- Shared Property/Vehicles: <<Shared_Property_Vehicles>>
- Property/Vehicle Details: <<Property_Vehicle_Details>>
- Spousal Support: <<Include_Spousal_Support>>
- Support Amount: <<Spousal_Support_Amount>>
- Support Duration: <<Spousal_Support_Duration>>

I declare under penalty of perjury that the foregoing is true and correct.`,

	UD10: `This agreement is made between <<Plaintiff_Name>> ("Plaintiff"), residing at <<Plaintiff_Address>>, and <<Defendant_Name>> ("Defendant"), residing at <<Defendant_Address>>.

The parties were married on <<Marriage_Date>> in <<Marriage_City>>, <<Marriage_State>>, and the marriage broke down irretrievably on <<Marriage_Breakdown_Date>>.
Prior written agreement between the parties: <<Has_Settlement_Agreement>>

1. PROPERTY DIVISION:
   - Shared Bank Accounts: <<Shared_Bank_Accounts>>
   - Bank Account Details: <<Bank_Account_Details>>
   - Shared Property/Vehicles: <<Shared_Property_Vehicles>>
   - Property/Vehicle Details: <<Property_Vehicle_Details>>

2. SPOUSAL SUPPORT:
   - Include Spousal Support: <<Include_Spousal_Support>>
   - Amount: <<Spousal_Support_Amount>>
   - Duration: <<Spousal_Support_Duration>>`,

	UD11: `IT IS ORDERED AND ADJUDGED that:

1. The marriage between <<Plaintiff_Name>>, residing at <<Plaintiff_Address>>, and <<Defendant_Name>>, residing at <<Defendant_Address>>, is hereby dissolved.
2. The parties were married on <<Marriage_Date>> in <<Marriage_City>>, <<Marriage_State>> in a <<Ceremony_Type>>.
3. The relationship broke down irretrievably on <<Marriage_Breakdown_Date>>. No-fault grounds: <<Filing_No_Fault>>.
4. Settlement agreement incorporated: <<Has_Settlement_Agreement>>.
5. Shared bank accounts: <<Shared_Bank_Accounts>> (<<Bank_Account_Details>>). Shared property or vehicles: <<Shared_Property_Vehicles>> (<<Property_Vehicle_Details>>).
6. Spousal support: <<Include_Spousal_Support>>. Amount: <<Spousal_Support_Amount>>. Duration: <<Spousal_Support_Duration>>.
7. Plaintiff may resume use of a prior surname: <<Want_To_Revert_Name>> <<Your_Former_Name>>
8. Defendant may resume use of a prior surname: <<Spouse_Want_To_Revert>> <<Spouse_Former_Name>>

This judgment is effective immediately.`,
}

// BuiltinText returns the title and body of the built-in template for id.
func BuiltinText(id FormID) (string, error) {
	info, err := Lookup(id)
	if err != nil {
		return "", err
	}
	return info.Title + "\n\n" + builtinBodies[id], nil
}

// BuiltinDocx synthesises a DOCX template for id from its built-in text.
func BuiltinDocx(id FormID) ([]byte, error) {
	text, err := BuiltinText(id)
	if err != nil {
		return nil, err
	}
	return BuildDocx(strings.Split(text, "\n"))
}

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentTail = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr></w:body></w:document>`
)

// BuildDocx writes a minimal DOCX package with one paragraph per line. The
// first line is set in bold as the document title.
func BuildDocx(lines []string) ([]byte, error) {
	var body strings.Builder
	body.WriteString(documentHead)
	for i, line := range lines {
		body.WriteString("<w:p>")
		if i == 0 {
			body.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/></w:rPr>`)
		} else {
			body.WriteString("<w:r>")
		}
		body.WriteString(`<w:t xml:space="preserve">`)
		if err := xml.EscapeText(&body, []byte(line)); err != nil {
			return nil, err
		}
		body.WriteString("</w:t></w:r></w:p>")
	}
	body.WriteString(documentTail)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{mainDocumentPart, body.String()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
