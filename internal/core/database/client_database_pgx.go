package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/Uncouple/internal/config"
	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/models"
)

var _ core.DbClient = (*DatabaseClient)(nil)

// DatabaseClient is the Postgres store. Knowledge chunk embeddings live in
// a pgvector column.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dsn := cfg.DatabaseURL
	if cfg.SslCertPath != "" {
		if _, err := os.Stat(cfg.SslCertPath); err != nil {
			return nil, fmt.Errorf("ssl cert not accessible at %q: %w", cfg.SslCertPath, err)
		}
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		q := u.Query()
		q.Set("sslmode", "verify-ca")
		q.Set("sslrootcert", cfg.SslCertPath)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.UserRoleMember
	}
	const q = `
		INSERT INTO users (id, first_name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`
	_, err := c.db.ExecContext(ctx, q, user.ID, user.FirstName, user.Email, user.PasswordHash, user.Role)
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, first_name, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.FirstName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Profiles

func (c *DatabaseClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	const q = `
		SELECT user_id, record, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`
	var (
		p   models.Profile
		raw []byte
	)
	err := c.db.QueryRowContext(ctx, q, userID).Scan(&p.UserID, &raw, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &p.Record); err != nil {
		return nil, fmt.Errorf("decode profile record: %w", err)
	}
	return &p, nil
}

func (c *DatabaseClient) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return errors.New("nil profile")
	}
	raw, err := json.Marshal(profile.Record)
	if err != nil {
		return fmt.Errorf("encode profile record: %w", err)
	}
	const q = `
		INSERT INTO profiles (user_id, record, created_at, updated_at)
		VALUES ($1, $2::jsonb, now(), now())
		ON CONFLICT (user_id) DO UPDATE
		SET record = EXCLUDED.record, updated_at = now()
	`
	_, err = c.db.ExecContext(ctx, q, profile.UserID, string(raw))
	return err
}

// Chat sessions

func (c *DatabaseClient) GetChatSession(ctx context.Context, userID string) (*models.ChatSession, error) {
	const q = `SELECT user_id, messages, updated_at FROM chat_sessions WHERE user_id = $1`
	var (
		s   models.ChatSession
		raw []byte
	)
	err := c.db.QueryRowContext(ctx, q, userID).Scan(&s.UserID, &raw, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.Messages); err != nil {
		return nil, fmt.Errorf("decode chat messages: %w", err)
	}
	return &s, nil
}

func (c *DatabaseClient) UpsertChatSession(ctx context.Context, session *models.ChatSession) error {
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
	const q = `
		INSERT INTO chat_sessions (user_id, messages, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (user_id) DO UPDATE
		SET messages = EXCLUDED.messages, updated_at = now()
	`
	_, err = c.db.ExecContext(ctx, q, session.UserID, string(raw))
	return err
}

func (c *DatabaseClient) DeleteChatSession(ctx context.Context, userID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE user_id = $1`, userID)
	return err
}

// Payments

func (c *DatabaseClient) UpsertPayment(ctx context.Context, p *models.Payment) error {
	if p == nil {
		return errors.New("nil payment")
	}
	const q = `
		INSERT INTO payments (session_id, user_id, status, amount_total, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (session_id) DO UPDATE
		SET status = EXCLUDED.status,
		    amount_total = EXCLUDED.amount_total,
		    currency = EXCLUDED.currency,
		    updated_at = now()
	`
	_, err := c.db.ExecContext(ctx, q, p.SessionID, p.UserID, p.Status, p.AmountTotal, p.Currency)
	return err
}

func (c *DatabaseClient) HasPaid(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := c.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE user_id = $1 AND status = $2)`,
		userID, models.PaymentPaid).Scan(&ok)
	return ok, err
}

// Knowledge documents

func (c *DatabaseClient) CreateKnowledgeDocument(ctx context.Context, doc *models.KnowledgeDocument) error {
	if doc == nil {
		return errors.New("nil document")
	}
	const q = `
		INSERT INTO knowledge_documents
			(id, file_name, storage_url, content_type, status, uploaded_by, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, now(), now())
	`
	_, err := c.db.ExecContext(ctx, q,
		doc.ID, doc.FileName, doc.StorageURL, doc.ContentType, doc.Status, doc.UploadedBy)
	return err
}

func (c *DatabaseClient) GetKnowledgeDocumentByID(ctx context.Context, id string) (*models.KnowledgeDocument, error) {
	const q = `
		SELECT id, file_name, storage_url, content_type, status, uploaded_by, created_at, updated_at
		FROM knowledge_documents
		WHERE id = $1
	`
	var d models.KnowledgeDocument
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.FileName, &d.StorageURL, &d.ContentType, &d.Status, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) ListKnowledgeDocuments(ctx context.Context) ([]models.KnowledgeDocument, error) {
	const q = `
		SELECT id, file_name, storage_url, content_type, status, uploaded_by, created_at, updated_at
		FROM knowledge_documents
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.KnowledgeDocument
	for rows.Next() {
		var d models.KnowledgeDocument
		if err := rows.Scan(
			&d.ID, &d.FileName, &d.StorageURL, &d.ContentType, &d.Status, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateKnowledgeDocumentStatus(ctx context.Context, id string, status string) error {
	const q = `
		UPDATE knowledge_documents
		SET status = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("knowledge document not found: %s", id)
	}
	return nil
}

// Knowledge chunks

// InsertKnowledgeChunks inserts chunks in a single transaction.
func (c *DatabaseClient) InsertKnowledgeChunks(ctx context.Context, chunks []models.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO knowledge_chunks
			(id, document_id, position, text, embedding, token_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		if ch.ID == "" {
			ch.ID = uuid.NewString()
		}
		vec := pgvector.NewVector(ch.Embedding)
		if _, err := stmt.ExecContext(ctx,
			ch.ID, ch.DocumentID, ch.Position, ch.Text, vec, ch.TokenCount,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SearchKnowledgeChunks returns the limit chunks closest to queryVec by
// cosine distance, across all ready documents.
func (c *DatabaseClient) SearchKnowledgeChunks(ctx context.Context, queryVec []float32, limit int) ([]models.KnowledgeChunk, error) {
	const q = `
		SELECT kc.id, kc.document_id, kc.position, kc.text, kc.embedding, kc.token_count
		FROM knowledge_chunks kc
		JOIN knowledge_documents kd ON kd.id = kc.document_id
		WHERE kd.status = $3 AND kc.embedding IS NOT NULL
		ORDER BY kc.embedding <=> $1
		LIMIT $2
	`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, vec, limit, models.KnowledgeReady)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.KnowledgeChunk
	for rows.Next() {
		var (
			ch  models.KnowledgeChunk
			emb pgvector.Vector
		)
		if err := rows.Scan(&ch.ID, &ch.DocumentID, &ch.Position, &ch.Text, &emb, &ch.TokenCount); err != nil {
			return nil, err
		}
		ch.Embedding = emb.Slice()
		out = append(out, ch)
	}
	return out, rows.Err()
}
