package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/securedesk/policysearch/config"
	internalErrors "github.com/securedesk/policysearch/internal/errors"
	"github.com/securedesk/policysearch/model"
)

const documentColumns = "id, name, description, category, tags, content, document_type, created_by, created_at, updated_at, is_active"

// PostgresStore is a Store backed by PostgreSQL via database/sql and lib/pq.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool, verifies it with a ping, and
// ensures the documents table exists.
func NewPostgresStore(cfg config.PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id            SERIAL PRIMARY KEY,
	name          TEXT        NOT NULL,
	description   TEXT        NOT NULL DEFAULT '',
	category      TEXT        NOT NULL DEFAULT '',
	tags          TEXT[]      NOT NULL DEFAULT '{}',
	content       TEXT        NOT NULL DEFAULT '',
	document_type TEXT        NOT NULL DEFAULT 'policy',
	created_by    TEXT        NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	is_active     BOOLEAN     NOT NULL DEFAULT TRUE
)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensuring documents schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// List returns documents matching the filter, ordered by ascending ID.
func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]model.Document, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("document_type = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
	}

	query := "SELECT " + documentColumns + " FROM documents"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// ActiveDocuments returns every active document, ordered by ascending ID.
func (s *PostgresStore) ActiveDocuments(ctx context.Context) ([]model.Document, error) {
	return s.List(ctx, ListFilter{ActiveOnly: true})
}

// Get returns a single document by ID.
func (s *PostgresStore) Get(ctx context.Context, id uint) (model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1", int64(id))
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, internalErrors.NewDocumentNotFoundError(id)
		}
		return model.Document{}, err
	}
	return doc, nil
}

// Create stores a new document, assigning its ID and timestamps.
func (s *PostgresStore) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	if err := validateDocument(doc); err != nil {
		return model.Document{}, err
	}

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
INSERT INTO documents (name, description, category, tags, content, document_type, created_by, created_at, updated_at, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`,
		doc.Name, doc.Description, doc.Category, pq.Array(doc.Tags), doc.Content,
		doc.Type, doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt, doc.Active,
	).Scan(&doc.ID)
	if err != nil {
		return model.Document{}, fmt.Errorf("creating document: %w", err)
	}
	return doc, nil
}

// Update replaces a document's mutable fields and bumps UpdatedAt.
func (s *PostgresStore) Update(ctx context.Context, doc model.Document) (model.Document, error) {
	if err := validateDocument(doc); err != nil {
		return model.Document{}, err
	}
	doc.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
UPDATE documents
SET name = $1, description = $2, category = $3, tags = $4, content = $5,
    document_type = $6, updated_at = $7, is_active = $8
WHERE id = $9`,
		doc.Name, doc.Description, doc.Category, pq.Array(doc.Tags), doc.Content,
		doc.Type, doc.UpdatedAt, doc.Active, int64(doc.ID),
	)
	if err != nil {
		return model.Document{}, fmt.Errorf("updating document %d: %w", doc.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Document{}, fmt.Errorf("checking update of document %d: %w", doc.ID, err)
	}
	if affected == 0 {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(doc.ID)
	}
	return s.Get(ctx, doc.ID)
}

// Delete soft-deletes a document by marking it inactive.
func (s *PostgresStore) Delete(ctx context.Context, id uint) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET is_active = FALSE, updated_at = $1 WHERE id = $2",
		time.Now().UTC(), int64(id))
	if err != nil {
		return fmt.Errorf("deleting document %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete of document %d: %w", id, err)
	}
	if affected == 0 {
		return internalErrors.NewDocumentNotFoundError(id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row scanner) (model.Document, error) {
	var (
		doc  model.Document
		id   int64
		tags pq.StringArray
	)
	err := row.Scan(&id, &doc.Name, &doc.Description, &doc.Category, &tags,
		&doc.Content, &doc.Type, &doc.CreatedBy, &doc.CreatedAt, &doc.UpdatedAt, &doc.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, err
		}
		return model.Document{}, fmt.Errorf("scanning document row: %w", err)
	}
	doc.ID = uint(id)
	doc.Tags = []string(tags)
	return doc, nil
}
