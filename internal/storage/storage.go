package storage

import (
	"context"
	"time"

	"github.com/louisbranch/pccdata/internal/pcc/record"
	apperrors "github.com/louisbranch/pccdata/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// TextEntry is one scalar directive with its accumulated text.
type TextEntry struct {
	Tag   string
	Kind  string
	Value string
}

// ListEntry is one list directive with its records in load order.
type ListEntry struct {
	Tag     string
	Records []record.Record
}

// ImportInput is the content of one load to persist.
type ImportInput struct {
	SourcePath string
	Texts      []TextEntry
	Lists      []ListEntry
	CreatedAt  time.Time
}

// Import describes one persisted load.
type Import struct {
	ID          int64
	// Key is a random identifier that stays stable when the database is
	// copied or merged elsewhere.
	Key         string
	SourcePath  string
	TextCount   int
	RecordCount int
	CreatedAt   time.Time
}

// ContentStore persists loaded dictionaries and reads them back.
type ContentStore interface {
	SaveImport(ctx context.Context, input ImportInput) (Import, error)
	GetImport(ctx context.Context, id int64) (Import, error)
	GetImportByKey(ctx context.Context, key string) (Import, error)
	LatestImport(ctx context.Context) (Import, error)
	GetText(ctx context.Context, importID int64, tag string) (TextEntry, error)
	ListRecords(ctx context.Context, importID int64, tag string) ([]record.Record, error)
}
