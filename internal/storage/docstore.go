package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLExecutor is the subset of *sql.DB used by DocStore
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DocStore is the "remote" backend: a Postgres document table where the
// server assigns ids (gen_random_uuid) and timestamps (now()).
// The table is created by migrations/000001_create_documents.
type DocStore struct {
	db SQLExecutor
}

// NewDocStore creates a remote backend over an open database
func NewDocStore(db SQLExecutor) *DocStore {
	return &DocStore{db: db}
}

func (s *DocStore) Name() string { return "remote" }

// List returns the collection newest first
func (s *DocStore) List(ctx context.Context, collection string) ([]Document, error) {
	query := `
		SELECT id, data, created_at, updated_at
		FROM documents WHERE collection = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var id string
		var data []byte
		var createdAt time.Time
		var updatedAt sql.NullTime
		if err := rows.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		doc, err := decodeRow(id, data, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Insert stores the document and returns it with the server-assigned id and createdAt
func (s *DocStore) Insert(ctx context.Context, collection string, doc Document) (Document, error) {
	data, err := json.Marshal(doc.withoutMeta())
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, data)
		VALUES ($1, $2::jsonb)
		RETURNING id, created_at
	`
	var id string
	var createdAt time.Time
	if err := s.db.QueryRowContext(ctx, query, collection, string(data)).Scan(&id, &createdAt); err != nil {
		return nil, err
	}

	stored := doc.withoutMeta()
	stored[FieldID] = id
	stored[FieldCreatedAt] = createdAt.UTC()
	return stored, nil
}

// Patch shallow-merges fields into the stored document (jsonb ||)
func (s *DocStore) Patch(ctx context.Context, collection, id string, fields Document) error {
	if !validDocumentID(id) {
		return ErrNotFound
	}
	data, err := json.Marshal(fields.withoutMeta())
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	query := `
		UPDATE documents SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2
	`
	result, err := s.db.ExecContext(ctx, query, collection, id, string(data))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes the document; an absent id is a no-op
func (s *DocStore) Remove(ctx context.Context, collection, id string) error {
	if !validDocumentID(id) {
		return nil
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = $1 AND id = $2", collection, id)
	return err
}

func decodeRow(id string, data []byte, createdAt time.Time, updatedAt sql.NullTime) (Document, error) {
	doc := Document{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
	}
	doc[FieldID] = id
	doc[FieldCreatedAt] = createdAt.UTC()
	if updatedAt.Valid {
		doc[FieldUpdatedAt] = updatedAt.Time.UTC()
	}
	return doc, nil
}

// ids are uuid columns; anything else can never match a row
func validDocumentID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
