package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// DocumentStore implements shared.DocumentStore on the attendance_documents
// table. Run the migrator before first use.
type DocumentStore struct {
	conn *Connection
}

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(conn *Connection) *DocumentStore {
	return &DocumentStore{conn: conn}
}

// Load decodes the named document into dst. A missing row leaves dst untouched.
func (s *DocumentStore) Load(ctx context.Context, name string, dst any) error {
	query := `
		SELECT body
		FROM attendance_documents
		WHERE name = $1
	`

	var body []byte
	if err := s.conn.QueryRow(ctx, query, name).Scan(&body); err != nil {
		if isNoRows(err) {
			return nil
		}
		return shared.WrapError("storage", "Load", shared.ErrStorage,
			fmt.Sprintf("cannot read document %q", name), err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return shared.WrapError("storage", "Load", shared.ErrCorruptDocument,
			fmt.Sprintf("document %q", name), err)
	}
	return nil
}

// Save replaces the named document with the encoding of src.
func (s *DocumentStore) Save(ctx context.Context, name string, src any) error {
	body, err := json.Marshal(src)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrWriteFailed,
			fmt.Sprintf("cannot encode document %q", name), err)
	}

	query := `
		INSERT INTO attendance_documents (name, body, updated_at)
		VALUES ($1, $2::json, NOW())
		ON CONFLICT (name) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := s.conn.Exec(ctx, query, name, string(body)); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrWriteFailed,
			fmt.Sprintf("document %q", name), err)
	}
	return nil
}
