package domain

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence: the business profile
// records and lender catalog the core consumes, plus submitted applications.
type Repository interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *BusinessProfile) error
	GetProfile(ctx context.Context, profileID string) (*BusinessProfile, error)

	// Lender catalog operations
	SaveOffer(ctx context.Context, offer *LenderOffer) error
	GetOffer(ctx context.Context, offerID string) (*LenderOffer, error)
	ListOffers(ctx context.Context) ([]*LenderOffer, error)

	// Application operations
	SaveApplication(ctx context.Context, app *Application) error
	GetApplication(ctx context.Context, appID string) (*Application, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// SeedDemoData inserts demo profiles and offers when the catalog is empty.
	SeedDemoData bool
}
