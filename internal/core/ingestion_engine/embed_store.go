package ingestion_engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/markdave123-py/Uncouple/internal/models"
)

// embedAndPersist consumes chunks, embeds them in batches and writes each
// batch to the database.
func (i *KnowledgeIngestor) embedAndPersist(ctx context.Context, docID string, in <-chan chunk, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 16
	}
	batch := make([]chunk, 0, batchSize)
	written := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		texts := make([]string, len(batch))
		for k := range batch {
			texts[k] = batch[k].Text
		}

		vecs, err := i.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed: %w", err)
		}
		if len(vecs) != len(batch) {
			return fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), len(batch))
		}

		rows := make([]models.KnowledgeChunk, len(batch))
		for k := range batch {
			rows[k] = models.KnowledgeChunk{
				ID:         uuid.NewString(),
				DocumentID: docID,
				Text:       batch[k].Text,
				Embedding:  vecs[k],
				Position:   batch[k].Pos,
				TokenCount: batch[k].TokenCnt,
			}
		}
		if err := i.db.InsertKnowledgeChunks(ctx, rows); err != nil {
			return fmt.Errorf("insert chunks: %w", err)
		}
		written += len(rows)
		batch = batch[:0]
		return nil
	}

	for c := range in {
		batch = append(batch, c)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}
