package ingestion_engine

import (
	"github.com/markdave123-py/Uncouple/internal/core"
)

// IngestConfig tunes the streaming pipeline.
//
// TargetTokens:   approximate tokens per chunk (e.g., 400).
// OverlapTokens:  tokens carried from the end of one chunk into the next.
// BatchSize:      how many chunks to embed/write in one batch.
// MaxFragmentLen: long lines are split into fragments of at most this many bytes.
type IngestConfig struct {
	TargetTokens   int
	OverlapTokens  int
	BatchSize      int
	MaxFragmentLen int
}

// DefaultIngestConfig suits short legal guidance documents.
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{TargetTokens: 400, OverlapTokens: 40, BatchSize: 32, MaxFragmentLen: 2000}
}

// chunk is the internal representation passed through the pipeline.
type chunk struct {
	Pos      int
	Text     string
	TokenCnt int
}

// KnowledgeIngestor turns uploaded guidance documents into embedded chunks
// the assistant can retrieve:
//
// db:        persistence for documents and chunks.
// obj:       object storage holding uploads; nil when only local files are used.
// embedder:  embedding provider.
// extractor: text extraction.
// jobs:      in-memory queue of document IDs.
type KnowledgeIngestor struct {
	db        core.DbClient
	obj       core.ObjectClient
	embedder  core.EmbeddingProvider
	extractor core.DocumentExtractor
	cfg       *IngestConfig
	jobs      chan string
}

// DocconvExtractor implements core.DocumentExtractor using sajari/docconv,
// reading plain text directly.
type DocconvExtractor struct {
	useReadability bool
	maxFragLen     int
}
