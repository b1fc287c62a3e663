package forms

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/Uncouple/internal/models"
)

// Content types of generated documents.
const (
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePDF  = "application/pdf"
	ContentTypeZip  = "application/zip"
)

// RenderedDocument is one filled form, produced per request and never stored.
type RenderedDocument struct {
	FormID      FormID
	FileName    string
	ContentType string
	Content     []byte
	Text        string
}

// Generator fills court-form templates from a FormRecord.
type Generator struct {
	templates    TemplateSource
	converter    Converter
	warnUnmapped bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithConverter sets the PDF converter used by Convert.
func WithConverter(c Converter) Option {
	return func(g *Generator) { g.converter = c }
}

// WithUnmappedWarnings logs tokens left in a generated document.
func WithUnmappedWarnings(on bool) Option {
	return func(g *Generator) { g.warnUnmapped = on }
}

func NewGenerator(src TemplateSource, opts ...Option) *Generator {
	g := &Generator{templates: src}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateOne fills the template of form id with rec. It fails with a
// *TemplateNotFoundError when the form has no template, including ids
// outside the catalog, which also match ErrUnknownForm.
func (g *Generator) GenerateOne(ctx context.Context, id FormID, rec models.FormRecord) (*RenderedDocument, error) {
	info, err := Lookup(id)
	if err != nil {
		return nil, &TemplateNotFoundError{FormID: id, Err: err}
	}

	tmpl, err := g.templates.Template(ctx, info)
	if err != nil {
		return nil, err
	}

	out, err := fillDocx(tmpl, func(s string) string { return Substitute(s, rec, id) })
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", id, err)
	}

	text := extractText(out)
	if g.warnUnmapped {
		if left := UnresolvedPlaceholders(text); len(left) > 0 {
			log.Printf("WARN: %s has unmapped placeholders: %s", id, strings.Join(left, ", "))
		}
	}

	return &RenderedDocument{
		FormID:      id,
		FileName:    OutputName(id, "docx"),
		ContentType: ContentTypeDocx,
		Content:     out,
		Text:        text,
	}, nil
}

// GenerateAll fills every catalog form in order. Forms that fail are logged
// and left out, so the result may be shorter than the catalog.
func (g *Generator) GenerateAll(ctx context.Context, rec models.FormRecord) []RenderedDocument {
	docs := make([]RenderedDocument, 0, len(Catalog))
	for _, id := range FormOrder() {
		if err := ctx.Err(); err != nil {
			log.Printf("forms: generation stopped before %s: %v", id, err)
			break
		}
		doc, err := g.GenerateOne(ctx, id, rec)
		if err != nil {
			log.Printf("forms: skipping %s: %v", id, err)
			continue
		}
		docs = append(docs, *doc)
	}
	return docs
}

// Convert returns doc as a PDF. When no converter is configured or the
// conversion fails, doc is returned unchanged.
func (g *Generator) Convert(ctx context.Context, doc RenderedDocument) RenderedDocument {
	if g.converter == nil || doc.ContentType == ContentTypePDF {
		return doc
	}
	start := time.Now()
	pdf, err := g.converter.ToPDF(ctx, doc.FileName, doc.Content)
	if err != nil {
		log.Printf("forms: pdf conversion of %s failed, serving docx: %v", doc.FormID, err)
		return doc
	}
	log.Printf("forms: converted %s to pdf in %s", doc.FormID, time.Since(start).Round(time.Millisecond))

	doc.FileName = OutputName(doc.FormID, "pdf")
	doc.ContentType = ContentTypePDF
	doc.Content = pdf
	return doc
}

// ConvertAll converts each document, keeping the original where conversion
// fails.
func (g *Generator) ConvertAll(ctx context.Context, docs []RenderedDocument) []RenderedDocument {
	out := make([]RenderedDocument, len(docs))
	for i, d := range docs {
		out[i] = g.Convert(ctx, d)
	}
	return out
}

// Bundle packs docs into a ZIP archive, one entry per document named by its
// file name.
func Bundle(docs []RenderedDocument) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, d := range docs {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     d.FileName,
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", d.FileName, err)
		}
		if _, err := w.Write(d.Content); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", d.FileName, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}

// BundleName is the download name of an archive, e.g. "divorce_forms.pdf.zip".
func BundleName(caseName, format string) string {
	return fmt.Sprintf("%s_forms.%s.zip", caseName, format)
}

func extractText(pkg []byte) string {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(pkg))
	if err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	fallback, ferr := docxText(pkg)
	if ferr != nil {
		log.Printf("forms: text extraction failed: %v", ferr)
		return ""
	}
	return fallback
}
