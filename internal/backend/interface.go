// Package backend selects and constructs the persistence gateway from
// configuration: the flat JSON file (primary) or the SQLite database.
package backend

import (
	"context"

	"wallet/internal/core"
	"wallet/internal/storage"
)

// Gateway is the durable-snapshot contract every backend provides. Save
// writes a complete replacement of the stored state; Load restores it,
// returning an empty snapshot when nothing was stored yet.
type Gateway interface {
	Save(ctx context.Context, snap core.Snapshot) error
	Load(ctx context.Context) (core.Snapshot, error)
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result bundles a constructed gateway with its optional cleanup.
type Result struct {
	Gateway Gateway
	Cleanup CleanupFunc
}

// Type identifies a backend implementation.
type Type string

const (
	JSONBackend   Type = "json"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a gateway.
type Config struct {
	Type Type

	// JSON backend
	DataFile string
	Variant  storage.Variant

	// SQLite backend
	SQLiteDBPath string
}
