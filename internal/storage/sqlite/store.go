// Package sqlite persists loaded campaign data in a SQLite content database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/pccdata/internal/pcc/record"
	sqlitemigrate "github.com/louisbranch/pccdata/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/pccdata/internal/platform/timeouts"
	"github.com/louisbranch/pccdata/internal/storage"
	"github.com/louisbranch/pccdata/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides SQLite-backed content persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a content SQLite store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=%d&_synchronous=NORMAL", cleanPath, timeouts.SQLiteBusyMillis())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
//
// Close is nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveImport persists one load in a single transaction and returns the new
// import.
func (s *Store) SaveImport(ctx context.Context, input storage.ImportInput) (storage.Import, error) {
	if err := ctx.Err(); err != nil {
		return storage.Import{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Import{}, fmt.Errorf("storage is not configured")
	}
	input.SourcePath = strings.TrimSpace(input.SourcePath)
	if input.SourcePath == "" {
		return storage.Import{}, fmt.Errorf("source path is required")
	}
	if input.CreatedAt.IsZero() {
		input.CreatedAt = time.Now().UTC()
	}

	importKey := uuid.NewString()
	recordCount := 0
	for _, list := range input.Lists {
		recordCount += len(list.Records)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Import{}, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO imports (import_key, source_path, text_count, record_count, created_at)
VALUES (?, ?, ?, ?, ?)
`, importKey, input.SourcePath, len(input.Texts), recordCount, toMillis(input.CreatedAt))
	if err != nil {
		return storage.Import{}, fmt.Errorf("insert import: %w", err)
	}
	importID, err := res.LastInsertId()
	if err != nil {
		return storage.Import{}, fmt.Errorf("read import id: %w", err)
	}

	for _, text := range input.Texts {
		if strings.TrimSpace(text.Tag) == "" {
			return storage.Import{}, fmt.Errorf("text entry tag is required")
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO text_entries (import_id, tag, kind, value) VALUES (?, ?, ?, ?)
`, importID, text.Tag, text.Kind, text.Value); err != nil {
			return storage.Import{}, fmt.Errorf("insert text %s: %w", text.Tag, err)
		}
	}

	for _, list := range input.Lists {
		if err := insertList(ctx, tx, importID, list); err != nil {
			return storage.Import{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Import{}, fmt.Errorf("commit import: %w", err)
	}
	return storage.Import{
		ID:          importID,
		Key:         importKey,
		SourcePath:  input.SourcePath,
		TextCount:   len(input.Texts),
		RecordCount: recordCount,
		CreatedAt:   fromMillis(toMillis(input.CreatedAt)),
	}, nil
}

func insertList(ctx context.Context, tx *sql.Tx, importID int64, list storage.ListEntry) error {
	if strings.TrimSpace(list.Tag) == "" {
		return fmt.Errorf("list entry tag is required")
	}
	recordStmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (import_id, tag, ident, position) VALUES (?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer recordStmt.Close()
	attrStmt, err := tx.PrepareContext(ctx, `
INSERT INTO record_attributes (import_id, tag, ident, seq, attr_key, attr_value) VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare attribute insert: %w", err)
	}
	defer attrStmt.Close()

	for position, rec := range list.Records {
		if _, err := recordStmt.ExecContext(ctx, importID, list.Tag, rec.ID, position); err != nil {
			return fmt.Errorf("insert %s record %s: %w", list.Tag, rec.ID, err)
		}
		for seq, attr := range rec.Attributes {
			if _, err := attrStmt.ExecContext(ctx, importID, list.Tag, rec.ID, seq, attr.Key, attr.Value); err != nil {
				return fmt.Errorf("insert %s record %s attribute %d: %w", list.Tag, rec.ID, seq, err)
			}
		}
	}
	return nil
}

// GetImport returns one import by id.
func (s *Store) GetImport(ctx context.Context, id int64) (storage.Import, error) {
	if err := ctx.Err(); err != nil {
		return storage.Import{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Import{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, import_key, source_path, text_count, record_count, created_at
FROM imports
WHERE id = ?
`, id)
	return scanImport(row)
}

// GetImportByKey returns one import by its random key.
func (s *Store) GetImportByKey(ctx context.Context, key string) (storage.Import, error) {
	if err := ctx.Err(); err != nil {
		return storage.Import{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Import{}, fmt.Errorf("storage is not configured")
	}
	if _, err := uuid.Parse(key); err != nil {
		return storage.Import{}, fmt.Errorf("invalid import key %q: %w", key, err)
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, import_key, source_path, text_count, record_count, created_at
FROM imports
WHERE import_key = ?
`, key)
	return scanImport(row)
}

// LatestImport returns the most recent import.
func (s *Store) LatestImport(ctx context.Context) (storage.Import, error) {
	if err := ctx.Err(); err != nil {
		return storage.Import{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Import{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, import_key, source_path, text_count, record_count, created_at
FROM imports
ORDER BY id DESC
LIMIT 1
`)
	return scanImport(row)
}

func scanImport(row *sql.Row) (storage.Import, error) {
	var imp storage.Import
	var createdAt int64
	if err := row.Scan(&imp.ID, &imp.Key, &imp.SourcePath, &imp.TextCount, &imp.RecordCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Import{}, storage.ErrNotFound
		}
		return storage.Import{}, fmt.Errorf("scan import: %w", err)
	}
	imp.CreatedAt = fromMillis(createdAt)
	return imp, nil
}

// GetText returns the text stored for a scalar directive.
func (s *Store) GetText(ctx context.Context, importID int64, tag string) (storage.TextEntry, error) {
	if err := ctx.Err(); err != nil {
		return storage.TextEntry{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.TextEntry{}, fmt.Errorf("storage is not configured")
	}
	var entry storage.TextEntry
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT tag, kind, value FROM text_entries WHERE import_id = ? AND tag = ?
`, importID, tag).Scan(&entry.Tag, &entry.Kind, &entry.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.TextEntry{}, storage.ErrNotFound
		}
		return storage.TextEntry{}, fmt.Errorf("get text %s: %w", tag, err)
	}
	return entry, nil
}

// ListRecords returns the records of a list directive in load order.
func (s *Store) ListRecords(ctx context.Context, importID int64, tag string) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT r.ident, a.attr_key, a.attr_value
FROM records r
LEFT JOIN record_attributes a
	ON a.import_id = r.import_id AND a.tag = r.tag AND a.ident = r.ident
WHERE r.import_id = ? AND r.tag = ?
ORDER BY r.position, a.seq
`, importID, tag)
	if err != nil {
		return nil, fmt.Errorf("list records %s: %w", tag, err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var ident string
		var key, value sql.NullString
		if err := rows.Scan(&ident, &key, &value); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if len(records) == 0 || records[len(records)-1].ID != ident {
			records = append(records, record.Record{ID: ident, Attributes: []record.Attribute{}})
		}
		if key.Valid {
			last := &records[len(records)-1]
			last.Attributes = append(last.Attributes, record.Attribute{Key: key.String, Value: value.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

var _ storage.ContentStore = (*Store)(nil)
