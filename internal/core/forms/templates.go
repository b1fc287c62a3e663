package forms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/markdave123-py/Uncouple/internal/core"
)

// TemplateNotFoundError reports a form whose template could not be loaded.
type TemplateNotFoundError struct {
	FormID   FormID
	Location string
	Err      error
}

func (e *TemplateNotFoundError) Error() string {
	msg := fmt.Sprintf("template not found for form %s", e.FormID)
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TemplateNotFoundError) Unwrap() error { return e.Err }

// TemplateSource loads the DOCX template of a form.
type TemplateSource interface {
	Template(ctx context.Context, info FormInfo) ([]byte, error)
}

// DirSource reads templates from a local directory using the catalog file
// names.
type DirSource struct {
	Dir string
}

func (s DirSource) Template(_ context.Context, info FormInfo) ([]byte, error) {
	p := filepath.Join(s.Dir, info.TemplateFile)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &TemplateNotFoundError{FormID: info.ID, Location: p}
		}
		return nil, fmt.Errorf("read template %s: %w", p, err)
	}
	return data, nil
}

// ObjectSource reads templates from object storage under Prefix.
type ObjectSource struct {
	Client core.ObjectClient
	Bucket string
	Prefix string
}

func (s ObjectSource) Template(ctx context.Context, info FormInfo) ([]byte, error) {
	key := path.Join(s.Prefix, info.TemplateFile)
	data, err := s.Client.GetFile(ctx, s.Bucket, key)
	if err != nil {
		if errors.Is(err, core.ErrObjectNotFound) {
			return nil, &TemplateNotFoundError{FormID: info.ID, Location: "s3://" + s.Bucket + "/" + key}
		}
		return nil, fmt.Errorf("fetch template %s: %w", key, err)
	}
	return data, nil
}

// BuiltinSource synthesises templates from the built-in form text.
type BuiltinSource struct{}

func (BuiltinSource) Template(_ context.Context, info FormInfo) ([]byte, error) {
	if _, ok := builtinBodies[info.ID]; !ok {
		return nil, &TemplateNotFoundError{FormID: info.ID, Location: "builtin"}
	}
	return BuiltinDocx(info.ID)
}

// ChainSource tries each source in turn and moves on only when a template is
// missing.
type ChainSource []TemplateSource

func (c ChainSource) Template(ctx context.Context, info FormInfo) ([]byte, error) {
	var last error = &TemplateNotFoundError{FormID: info.ID}
	for _, s := range c {
		data, err := s.Template(ctx, info)
		if err == nil {
			return data, nil
		}
		var nf *TemplateNotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		last = err
	}
	return nil, last
}

// SeedTemplates writes the built-in templates to dir under their catalog
// names and returns the paths written.
func SeedTemplates(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	var written []string
	for _, info := range Catalog {
		data, err := BuiltinDocx(info.ID)
		if err != nil {
			return written, fmt.Errorf("build %s: %w", info.ID, err)
		}
		p := filepath.Join(dir, info.TemplateFile)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", p, err)
		}
		written = append(written, p)
	}
	return written, nil
}
