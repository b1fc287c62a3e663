package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/models"
)

var _ core.DbClient = (*SQLiteClient)(nil)

// SQLiteClient is the single-file store used for local runs and tests.
// Embeddings are kept as JSON and ranked in process.
type SQLiteClient struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    first_name    TEXT NOT NULL DEFAULT '',
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'member',
    created_at    DATETIME NOT NULL,
    updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id    TEXT PRIMARY KEY,
    record     TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_sessions (
    user_id    TEXT PRIMARY KEY,
    messages   TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
    session_id   TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL,
    status       TEXT NOT NULL,
    amount_total INTEGER NOT NULL DEFAULT 0,
    currency     TEXT NOT NULL DEFAULT 'usd',
    created_at   DATETIME NOT NULL,
    updated_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS knowledge_documents (
    id           TEXT PRIMARY KEY,
    file_name    TEXT NOT NULL,
    storage_url  TEXT NOT NULL,
    content_type TEXT NOT NULL,
    status       TEXT NOT NULL,
    uploaded_by  TEXT NOT NULL DEFAULT '',
    created_at   DATETIME NOT NULL,
    updated_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS knowledge_chunks (
    id             TEXT PRIMARY KEY,
    document_id    TEXT NOT NULL REFERENCES knowledge_documents(id) ON DELETE CASCADE,
    position       INTEGER NOT NULL,
    text           TEXT NOT NULL,
    embedding_json TEXT,
    token_count    INTEGER NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL
);
`

// NewSQLiteClient opens (creating if needed) the database file at path and
// applies the schema.
func NewSQLiteClient(path string) (*SQLiteClient, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=3000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteClient{db: db}, nil
}

func (c *SQLiteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *SQLiteClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.UserRoleMember
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.FirstName, user.Email, user.PasswordHash, user.Role, now, now)
	return err
}

func (c *SQLiteClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := c.db.QueryRowContext(ctx,
		`SELECT id, first_name, email, password_hash, role, created_at, updated_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.FirstName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (c *SQLiteClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		p   models.Profile
		raw string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT user_id, record, created_at, updated_at FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &raw, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &p.Record); err != nil {
		return nil, fmt.Errorf("decode profile record: %w", err)
	}
	return &p, nil
}

func (c *SQLiteClient) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return errors.New("nil profile")
	}
	raw, err := json.Marshal(profile.Record)
	if err != nil {
		return fmt.Errorf("encode profile record: %w", err)
	}
	now := time.Now().UTC()
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, record, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		profile.UserID, string(raw), now, now)
	return err
}

func (c *SQLiteClient) GetChatSession(ctx context.Context, userID string) (*models.ChatSession, error) {
	var (
		s   models.ChatSession
		raw string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT user_id, messages, updated_at FROM chat_sessions WHERE user_id = ?`, userID).
		Scan(&s.UserID, &raw, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query chat session: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &s.Messages); err != nil {
		return nil, fmt.Errorf("decode chat messages: %w", err)
	}
	return &s, nil
}

func (c *SQLiteClient) UpsertChatSession(ctx context.Context, session *models.ChatSession) error {
	if session == nil {
		return errors.New("nil chat session")
	}
	msgs := session.Messages
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode chat messages: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (user_id, messages, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET messages = excluded.messages, updated_at = excluded.updated_at`,
		session.UserID, string(raw), time.Now().UTC())
	return err
}

func (c *SQLiteClient) DeleteChatSession(ctx context.Context, userID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE user_id = ?`, userID)
	return err
}

func (c *SQLiteClient) UpsertPayment(ctx context.Context, p *models.Payment) error {
	if p == nil {
		return errors.New("nil payment")
	}
	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO payments (session_id, user_id, status, amount_total, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			status = excluded.status,
			amount_total = excluded.amount_total,
			currency = excluded.currency,
			updated_at = excluded.updated_at`,
		p.SessionID, p.UserID, p.Status, p.AmountTotal, p.Currency, now, now)
	return err
}

func (c *SQLiteClient) HasPaid(ctx context.Context, userID string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM payments WHERE user_id = ? AND status = ?`, userID, models.PaymentPaid).Scan(&n)
	return n > 0, err
}

func (c *SQLiteClient) CreateKnowledgeDocument(ctx context.Context, doc *models.KnowledgeDocument) error {
	if doc == nil {
		return errors.New("nil document")
	}
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO knowledge_documents (id, file_name, storage_url, content_type, status, uploaded_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.FileName, doc.StorageURL, doc.ContentType, doc.Status, doc.UploadedBy, now, now)
	return err
}

const knowledgeDocColumns = `id, file_name, storage_url, content_type, status, uploaded_by, created_at, updated_at`

func (c *SQLiteClient) GetKnowledgeDocumentByID(ctx context.Context, id string) (*models.KnowledgeDocument, error) {
	var d models.KnowledgeDocument
	err := c.db.QueryRowContext(ctx,
		`SELECT `+knowledgeDocColumns+` FROM knowledge_documents WHERE id = ?`, id).
		Scan(&d.ID, &d.FileName, &d.StorageURL, &d.ContentType, &d.Status, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query knowledge document: %w", err)
	}
	return &d, nil
}

func (c *SQLiteClient) ListKnowledgeDocuments(ctx context.Context) ([]models.KnowledgeDocument, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+knowledgeDocColumns+` FROM knowledge_documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.KnowledgeDocument
	for rows.Next() {
		var d models.KnowledgeDocument
		if err := rows.Scan(&d.ID, &d.FileName, &d.StorageURL, &d.ContentType, &d.Status, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *SQLiteClient) UpdateKnowledgeDocumentStatus(ctx context.Context, id string, status string) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE knowledge_documents SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("knowledge document not found: %s", id)
	}
	return nil
}

func (c *SQLiteClient) InsertKnowledgeChunks(ctx context.Context, chunks []models.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO knowledge_chunks (id, document_id, position, text, embedding_json, token_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range chunks {
		ch := &chunks[i]
		if ch.ID == "" {
			ch.ID = uuid.NewString()
		}
		emb, err := json.Marshal(ch.Embedding)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode embedding: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, ch.ID, ch.DocumentID, ch.Position, ch.Text, string(emb), ch.TokenCount, now); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (c *SQLiteClient) SearchKnowledgeChunks(ctx context.Context, queryVec []float32, limit int) ([]models.KnowledgeChunk, error) {
	if limit <= 0 || len(queryVec) == 0 {
		return nil, nil
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT kc.id, kc.document_id, kc.position, kc.text, kc.embedding_json, kc.token_count, kc.created_at
		FROM knowledge_chunks kc
		JOIN knowledge_documents kd ON kd.id = kc.document_id
		WHERE kd.status = ? AND kc.embedding_json IS NOT NULL`, models.KnowledgeReady)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type scored struct {
		chunk models.KnowledgeChunk
		score float32
	}
	var all []scored
	for rows.Next() {
		var (
			ch  models.KnowledgeChunk
			raw string
		)
		if err := rows.Scan(&ch.ID, &ch.DocumentID, &ch.Position, &ch.Text, &raw, &ch.TokenCount, &ch.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &ch.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding of chunk %s: %w", ch.ID, err)
		}
		all = append(all, scored{chunk: ch, score: CosineSimilarity(queryVec, ch.Embedding)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]models.KnowledgeChunk, len(all))
	for i := range all {
		out[i] = all[i].chunk
	}
	return out, nil
}
