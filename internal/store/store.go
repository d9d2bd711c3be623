// Package store persists generated company profiles and industry mappings.
// Both record types are upserted whole: a new generation run fully replaces
// the previous row for the same company.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/fusionlabs/profilegen/internal/config"
	"github.com/fusionlabs/profilegen/internal/model"
)

// Store defines the persistence interface for the fusion pipeline.
// Get methods return (nil, nil) when no row exists for the company.
type Store interface {
	UpsertProfile(ctx context.Context, profile *model.CompanyProfile) error
	GetProfile(ctx context.Context, companyName string) (*model.CompanyProfile, error)

	UpsertIndustryMapping(ctx context.Context, mapping *model.IndustryMapping) error
	GetIndustryMapping(ctx context.Context, companyName string) (*model.IndustryMapping, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store for the configured driver.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	}
	return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
}
