// Package store persists submitted policies and processed documents.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/insurawise/internal/config"
	"github.com/sells-group/insurawise/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = eris.New("store: not found")

// PolicyFilter narrows ListPolicies.
type PolicyFilter struct {
	VehicleType string `json:"vehicle_type,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

// DocumentFilter narrows ListDocuments.
type DocumentFilter struct {
	Category model.Category `json:"category,omitempty"`
	Status   model.Status   `json:"status,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// Store defines persistence for policies and documents. Save methods assign
// an ID and timestamp when they are empty.
type Store interface {
	// Policies
	SavePolicy(ctx context.Context, p *model.Policy) error
	ListPolicies(ctx context.Context, filter PolicyFilter) ([]model.Policy, error)

	// Documents
	SaveDocument(ctx context.Context, d *model.Document) error
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the configured backend and migrates it.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

const defaultLimit = 100

func limitOf(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return n
}
