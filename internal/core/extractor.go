package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DocumentExtractor extracts text from uploaded guidance documents.
type DocumentExtractor interface {
	// ExtractText returns a channel of non-empty text lines. The contentType
	// hint selects the parsing strategy.
	ExtractText(ctx context.Context, g *errgroup.Group, r []byte, contentType string) (<-chan string, error)
}
