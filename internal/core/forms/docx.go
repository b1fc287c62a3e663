package forms

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

// ErrInvalidTemplate is returned when template bytes are not a DOCX package.
var ErrInvalidTemplate = errors.New("invalid docx template")

const mainDocumentPart = "word/document.xml"

var (
	paragraphRE = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	textNodeRE  = regexp.MustCompile(`(?s)(<w:t(?:\s[^>]*)?>)(.*?)(</w:t>)`)
)

// isTextPart reports whether a package entry carries document text.
func isTextPart(name string) bool {
	if name == mainDocumentPart || name == "word/footnotes.xml" || name == "word/endnotes.xml" {
		return true
	}
	if !strings.HasPrefix(name, "word/") || !strings.HasSuffix(name, ".xml") {
		return false
	}
	base := strings.TrimPrefix(name, "word/")
	return strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")
}

// fillDocx rewrites the text parts of a DOCX package with replace and
// returns the new package. Other entries are copied through unchanged.
func fillDocx(tmpl []byte, replace func(string) string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(tmpl), int64(len(tmpl)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	var hasMain bool
	for _, f := range zr.File {
		if f.Name == mainDocumentPart {
			hasMain = true
			break
		}
	}
	if !hasMain {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidTemplate, mainDocumentPart)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if !isTextPart(f.Name) {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := io.WriteString(w, fillPartXML(string(raw), replace)); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}

// fillPartXML applies replace to the visible text of every paragraph.
func fillPartXML(doc string, replace func(string) string) string {
	if !strings.Contains(doc, "&lt;&lt;") && !strings.Contains(doc, "<<") {
		return doc
	}
	return paragraphRE.ReplaceAllStringFunc(doc, func(p string) string {
		return fillParagraph(p, replace)
	})
}

// fillParagraph replaces tokens inside each w:t node. Word often splits a
// token across several runs; when that happens the paragraph text is merged
// into its first text node so the token can be matched.
func fillParagraph(p string, replace func(string) string) string {
	locs := textNodeRE.FindAllStringSubmatchIndex(p, -1)
	if len(locs) == 0 {
		return p
	}

	orig := make([]string, len(locs))
	texts := make([]string, len(locs))
	changed := false
	for i, l := range locs {
		orig[i] = html.UnescapeString(p[l[4]:l[5]])
		texts[i] = replace(orig[i])
		if texts[i] != orig[i] {
			changed = true
		}
	}

	joined := strings.Join(texts, "")
	if strings.Contains(joined, "<<") {
		if merged := replace(joined); merged != joined {
			texts = make([]string, len(locs))
			texts[0] = merged
			changed = true
		}
	}
	if !changed {
		return p
	}

	var b strings.Builder
	last := 0
	for i, l := range locs {
		b.WriteString(p[last:l[2]])
		b.WriteString(preserveSpace(p[l[2]:l[3]]))
		_ = xml.EscapeText(&b, []byte(texts[i]))
		b.WriteString(p[l[6]:l[7]])
		last = l[1]
	}
	b.WriteString(p[last:])
	return b.String()
}

func preserveSpace(open string) string {
	if strings.Contains(open, "xml:space") {
		return open
	}
	return strings.Replace(open, "<w:t", `<w:t xml:space="preserve"`, 1)
}

// docxText returns the plain paragraph text of a DOCX package, one line per
// paragraph. It is used when docconv cannot read the package.
func docxText(pkg []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	for _, f := range zr.File {
		if f.Name != mainDocumentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		var lines []string
		for _, p := range paragraphRE.FindAllString(string(raw), -1) {
			var sb strings.Builder
			for _, m := range textNodeRE.FindAllStringSubmatch(p, -1) {
				sb.WriteString(html.UnescapeString(m[2]))
			}
			lines = append(lines, sb.String())
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", fmt.Errorf("%w: missing %s", ErrInvalidTemplate, mainDocumentPart)
}
