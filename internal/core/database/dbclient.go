package db

import (
	"context"
	"math"
	"strings"

	"github.com/markdave123-py/Uncouple/internal/config"
	"github.com/markdave123-py/Uncouple/internal/core"
)

const sqliteScheme = "sqlite://"

// NewDbClient opens the store named by cfg.DatabaseURL: a "sqlite://path"
// URL selects the SQLite file store, anything else is handed to Postgres.
func NewDbClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if path, ok := strings.CutPrefix(cfg.DatabaseURL, sqliteScheme); ok {
		return NewSQLiteClient(path)
	}
	return NewDatabaseClient(ctx, cfg)
}

// CosineSimilarity of two vectors; 0 when either is empty, zero or the
// lengths differ.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
