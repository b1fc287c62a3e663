package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/core/forms"
	"github.com/markdave123-py/Uncouple/internal/models"
)

var (
	ErrPaymentRequired = errors.New("payment required")
	ErrNoProfile       = errors.New("no saved intake data")
	ErrNoDocuments     = errors.New("no documents could be generated")
	ErrUnknownFormat   = errors.New("format must be docx or pdf")
)

// Output formats.
const (
	FormatDocx = "docx"
	FormatPDF  = "pdf"
)

// DocumentService renders a user's court forms from their saved profile.
type DocumentService struct {
	db             core.DbClient
	gen            *forms.Generator
	requirePayment bool
}

func NewDocumentService(db core.DbClient, gen *forms.Generator, requirePayment bool) *DocumentService {
	return &DocumentService{db: db, gen: gen, requirePayment: requirePayment}
}

// Archive is a ZIP of filled forms ready for download.
type Archive struct {
	Name    string
	Content []byte
	Count   int
}

// Bundle fills every form and packs them into one archive.
func (s *DocumentService) Bundle(ctx context.Context, userID, format string) (*Archive, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	rec, err := s.record(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.BundleRecord(ctx, rec, format)
}

// BundleSubmitted fills every form from a record sent with the request
// rather than the stored profile.
func (s *DocumentService) BundleSubmitted(ctx context.Context, userID string, rec models.FormRecord, format string) (*Archive, error) {
	if err := s.checkPaid(ctx, userID); err != nil {
		return nil, err
	}
	return s.BundleRecord(ctx, rec, format)
}

// BundleRecord fills every form from rec without touching the store.
func (s *DocumentService) BundleRecord(ctx context.Context, rec models.FormRecord, format string) (*Archive, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	docs := s.gen.GenerateAll(ctx, rec)
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if format == FormatPDF {
		docs = s.gen.ConvertAll(ctx, docs)
	}
	zipped, err := forms.Bundle(docs)
	if err != nil {
		return nil, fmt.Errorf("bundle forms: %w", err)
	}
	return &Archive{Name: forms.BundleName("divorce", format), Content: zipped, Count: len(docs)}, nil
}

// One fills a single form. For pdf the result may still be a DOCX when no
// converter is available.
func (s *DocumentService) One(ctx context.Context, userID string, id forms.FormID, format string) (*forms.RenderedDocument, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	rec, err := s.record(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc, err := s.gen.GenerateOne(ctx, id, rec)
	if err != nil {
		return nil, err
	}
	if format == FormatPDF {
		out := s.gen.Convert(ctx, *doc)
		doc = &out
	}
	return doc, nil
}

// Preview returns the plain text of a filled form.
func (s *DocumentService) Preview(ctx context.Context, userID string, id forms.FormID) (string, error) {
	doc, err := s.One(ctx, userID, id, FormatDocx)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// PreviewPDF renders the preview text of a filled form as a PDF.
func (s *DocumentService) PreviewPDF(ctx context.Context, userID string, id forms.FormID) ([]byte, error) {
	text, err := s.Preview(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return forms.PreviewPDF(text)
}

// Catalog lists the forms the service can fill.
func (s *DocumentService) Catalog() []forms.FormInfo {
	return forms.Catalog
}

func (s *DocumentService) checkPaid(ctx context.Context, userID string) error {
	if !s.requirePayment {
		return nil
	}
	paid, err := s.db.HasPaid(ctx, userID)
	if err != nil {
		return fmt.Errorf("check payment: %w", err)
	}
	if !paid {
		return ErrPaymentRequired
	}
	return nil
}

func (s *DocumentService) record(ctx context.Context, userID string) (models.FormRecord, error) {
	if err := s.checkPaid(ctx, userID); err != nil {
		return models.FormRecord{}, err
	}
	p, err := s.db.GetProfile(ctx, userID)
	if err != nil {
		return models.FormRecord{}, fmt.Errorf("get profile: %w", err)
	}
	if p == nil {
		return models.FormRecord{}, ErrNoProfile
	}
	return p.Record, nil
}

func checkFormat(format string) error {
	if format != FormatDocx && format != FormatPDF {
		return ErrUnknownFormat
	}
	return nil
}
