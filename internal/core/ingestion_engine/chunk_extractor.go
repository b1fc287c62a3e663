package ingestion_engine

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// streamChunk groups fragments into chunks of roughly targetTokens, seeding
// each new chunk with the last overlapTokens worth of fragments from the
// previous one.
func streamChunk(
	ctx context.Context,
	g *errgroup.Group,
	frags <-chan string,
	targetTokens int,
	overlapTokens int,
) <-chan chunk {
	out := make(chan chunk, 8)

	g.Go(func() error {
		defer close(out)

		var (
			buf    []string
			tokSum int
			pos    int
			fresh  bool // buf holds fragments not yet emitted
		)

		emit := func() error {
			ch := chunk{Pos: pos, Text: strings.Join(buf, "\n"), TokenCnt: tokSum}
			select {
			case out <- ch:
			case <-ctx.Done():
				return ctx.Err()
			}
			pos++
			buf, tokSum = overlapTail(buf, overlapTokens)
			fresh = false
			return nil
		}

		for frag := range frags {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf = append(buf, frag)
			tokSum += approxTokens(frag)
			fresh = true
			if tokSum >= targetTokens {
				if err := emit(); err != nil {
					return err
				}
			}
		}

		if fresh {
			return emit()
		}
		return nil
	})

	return out
}

// overlapTail keeps the trailing fragments of buf whose tokens add up to at
// least overlap, and returns them with their token count.
func overlapTail(buf []string, overlap int) ([]string, int) {
	if overlap <= 0 {
		return nil, 0
	}
	start, sum := len(buf), 0
	for start > 0 && sum < overlap {
		start--
		sum += approxTokens(buf[start])
	}
	if start == 0 {
		// the whole chunk would be repeated
		return nil, 0
	}
	tail := append([]string(nil), buf[start:]...)
	return tail, sum
}

// approxTokens estimates tokens as four characters each.
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}
