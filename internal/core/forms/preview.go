package forms

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var titleKeywords = []string{"SUMMONS", "COMPLAINT", "AFFIDAVIT", "JUDGMENT", "AGREEMENT", "DISCLOSURE"}

func isTitleLine(line string) bool {
	if len(line) > 3 && strings.ToUpper(line) == line && strings.ToLower(line) != line {
		return true
	}
	for _, k := range titleKeywords {
		if strings.Contains(line, k) {
			return true
		}
	}
	return false
}

// PreviewPDF lays out plain document text on US Letter pages. Title lines
// are set in bold; long lines wrap.
func PreviewPDF(text string) ([]byte, error) {
	const (
		margin   = 50.0
		fontSize = 12.0
	)

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			pdf.Ln(fontSize * 1.2)
			continue
		}
		size := fontSize
		style := ""
		if isTitleLine(line) {
			size = fontSize + 2
			style = "B"
		}
		pdf.SetFont("Helvetica", style, size)
		pdf.MultiCell(0, size*1.2, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
