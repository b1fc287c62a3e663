package ingestion_engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"code.sajari.com/docconv"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Uncouple/internal/core"
)

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

func NewDocconvExtractor(useReadability bool, maxFragLen int) *DocconvExtractor {
	if maxFragLen <= 0 {
		maxFragLen = 2000
	}
	return &DocconvExtractor{useReadability: useReadability, maxFragLen: maxFragLen}
}

// ExtractText runs extraction as a stage of g. Each non-empty line becomes
// one or more fragments of at most maxFragLen bytes.
func (e *DocconvExtractor) ExtractText(ctx context.Context, g *errgroup.Group, r []byte, contentType string) (<-chan string, error) {
	if len(r) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	out := make(chan string, 32)

	g.Go(func() error {
		defer close(out)

		text, err := e.convert(r, contentType)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("WARN: docconv extracted no text for content type %q", contentType)
			return nil
		}

		sc := bufio.NewScanner(strings.NewReader(text))
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			for _, frag := range splitFragments(line, e.maxFragLen) {
				select {
				case out <- frag:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return sc.Err()
	})

	return out, nil
}

func (e *DocconvExtractor) convert(r []byte, contentType string) (string, error) {
	mime := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if mime == "" || mime == "text/plain" || mime == "text/markdown" {
		return string(r), nil
	}
	res, err := docconv.Convert(bytes.NewReader(r), mime, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv %s: %w", mime, err)
	}
	return res.Body, nil
}

func splitFragments(line string, max int) []string {
	if len(line) <= max {
		return []string{line}
	}
	var out []string
	for len(line) > max {
		cut := max
		if i := strings.LastIndexByte(line[:max], ' '); i > max/2 {
			cut = i
		}
		out = append(out, strings.TrimSpace(line[:cut]))
		line = strings.TrimSpace(line[cut:])
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
