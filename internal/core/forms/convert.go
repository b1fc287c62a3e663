package forms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrConverterUnavailable is returned when no conversion binary is installed.
var ErrConverterUnavailable = errors.New("document converter unavailable")

// Converter turns a DOCX document into a PDF.
type Converter interface {
	ToPDF(ctx context.Context, name string, docx []byte) ([]byte, error)
}

// SofficeConverter converts with a headless LibreOffice.
type SofficeConverter struct {
	Binary  string
	Timeout time.Duration
}

// NewSofficeConverter returns a converter for binary, defaulting to the
// soffice executable on PATH.
func NewSofficeConverter(binary string) *SofficeConverter {
	if binary == "" {
		binary = "soffice"
	}
	return &SofficeConverter{Binary: binary, Timeout: 2 * time.Minute}
}

func (c *SofficeConverter) ToPDF(ctx context.Context, name string, docx []byte) ([]byte, error) {
	bin, err := exec.LookPath(c.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConverterUnavailable, err)
	}

	dir, err := os.MkdirTemp("", "uncouple-convert-*")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	in := filepath.Join(dir, base+".docx")
	if err := os.WriteFile(in, docx, 0o600); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", dir, in)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("soffice: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	pdf, err := os.ReadFile(filepath.Join(dir, base+".pdf"))
	if err != nil {
		return nil, fmt.Errorf("read converted pdf: %w", err)
	}
	return pdf, nil
}
