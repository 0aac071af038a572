// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if cfg.SeedDemoData {
		if err := repo.seedDemoData(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveProfile stores a business profile, replacing any existing record with
// the same ID.
func (r *SQLRepository) SaveProfile(ctx context.Context, p *domain.BusinessProfile) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: profile ID is required", ErrInvalidInput)
	}

	cashflow := 0
	if p.CashflowPositive {
		cashflow = 1
	}

	query := `
		INSERT INTO profiles (
			id, voen, company_name, company_age, monthly_revenue, net_profit,
			tax_debt, sector, employee_count, cashflow_positive,
			owner_name, email, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			voen = excluded.voen,
			company_name = excluded.company_name,
			company_age = excluded.company_age,
			monthly_revenue = excluded.monthly_revenue,
			net_profit = excluded.net_profit,
			tax_debt = excluded.tax_debt,
			sector = excluded.sector,
			employee_count = excluded.employee_count,
			cashflow_positive = excluded.cashflow_positive,
			owner_name = excluded.owner_name,
			email = excluded.email,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		p.ID, p.VOEN, p.CompanyName, p.CompanyAge,
		p.MonthlyRevenue, p.NetProfit, p.TaxDebt,
		p.Sector, p.EmployeeCount, cashflow,
		p.OwnerName, p.Email, now, now,
	)
	return err
}

// GetProfile retrieves a business profile by ID.
func (r *SQLRepository) GetProfile(ctx context.Context, profileID string) (*domain.BusinessProfile, error) {
	if profileID == "" {
		return nil, fmt.Errorf("%w: profileID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, voen, company_name, company_age, monthly_revenue, net_profit,
			   tax_debt, sector, employee_count, cashflow_positive,
			   owner_name, email
		FROM profiles
		WHERE id = ?
	`

	var p domain.BusinessProfile
	var cashflow int

	err := r.db.QueryRowContext(ctx, r.rebind(query), profileID).Scan(
		&p.ID, &p.VOEN, &p.CompanyName, &p.CompanyAge,
		&p.MonthlyRevenue, &p.NetProfit, &p.TaxDebt,
		&p.Sector, &p.EmployeeCount, &cashflow,
		&p.OwnerName, &p.Email,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.CashflowPositive = cashflow == 1
	return &p, nil
}

// SaveOffer stores a lender offer. Products are stored inline as JSON; the
// catalog is small and always read whole.
func (r *SQLRepository) SaveOffer(ctx context.Context, offer *domain.LenderOffer) error {
	if offer == nil || offer.ID == "" {
		return fmt.Errorf("%w: offer ID is required", ErrInvalidInput)
	}

	products, _ := json.Marshal(offer.Products)

	query := `
		INSERT INTO offers (
			id, name, minimum_score, interest_rate_range, max_amount, products, policy, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			minimum_score = excluded.minimum_score,
			interest_rate_range = excluded.interest_rate_range,
			max_amount = excluded.max_amount,
			products = excluded.products,
			policy = excluded.policy
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		offer.ID, offer.Name, offer.MinimumScore, offer.InterestRateRange,
		offer.MaxAmount, string(products), offer.Policy, time.Now().UTC(),
	)
	return err
}

// GetOffer retrieves a lender offer by ID.
func (r *SQLRepository) GetOffer(ctx context.Context, offerID string) (*domain.LenderOffer, error) {
	if offerID == "" {
		return nil, fmt.Errorf("%w: offerID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, name, minimum_score, interest_rate_range, max_amount, products, policy
		FROM offers
		WHERE id = ?
	`

	var offer domain.LenderOffer
	var products string

	err := r.db.QueryRowContext(ctx, r.rebind(query), offerID).Scan(
		&offer.ID, &offer.Name, &offer.MinimumScore, &offer.InterestRateRange,
		&offer.MaxAmount, &products, &offer.Policy,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(products), &offer.Products); err != nil {
		return nil, fmt.Errorf("failed to parse products for offer %s: %w", offer.ID, err)
	}

	return &offer, nil
}

// ListOffers retrieves the full lender catalog ordered by name.
func (r *SQLRepository) ListOffers(ctx context.Context) ([]*domain.LenderOffer, error) {
	query := `
		SELECT id, name, minimum_score, interest_rate_range, max_amount, products, policy
		FROM offers
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*domain.LenderOffer
	for rows.Next() {
		var offer domain.LenderOffer
		var products string

		if err := rows.Scan(
			&offer.ID, &offer.Name, &offer.MinimumScore, &offer.InterestRateRange,
			&offer.MaxAmount, &products, &offer.Policy,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(products), &offer.Products); err != nil {
			return nil, fmt.Errorf("failed to parse products for offer %s: %w", offer.ID, err)
		}
		offers = append(offers, &offer)
	}

	return offers, rows.Err()
}

// SaveApplication stores a submitted loan application.
func (r *SQLRepository) SaveApplication(ctx context.Context, app *domain.Application) error {
	if app == nil || app.ID == "" {
		return fmt.Errorf("%w: application ID is required", ErrInvalidInput)
	}

	query := `
		INSERT INTO applications (
			id, profile_id, offer_id, product_id, amount, term_months,
			interest_rate, monthly_payment, score_at_approval, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		app.ID, app.ProfileID, app.OfferID, app.ProductID,
		app.Amount, app.TermMonths, app.InterestRate,
		app.MonthlyPayment, app.ScoreAtApproval, app.CreatedAt,
	)
	return err
}

// GetApplication retrieves a submitted application by ID.
func (r *SQLRepository) GetApplication(ctx context.Context, appID string) (*domain.Application, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: appID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, profile_id, offer_id, product_id, amount, term_months,
			   interest_rate, monthly_payment, score_at_approval, created_at
		FROM applications
		WHERE id = ?
	`

	var app domain.Application

	err := r.db.QueryRowContext(ctx, r.rebind(query), appID).Scan(
		&app.ID, &app.ProfileID, &app.OfferID, &app.ProductID,
		&app.Amount, &app.TermMonths, &app.InterestRate,
		&app.MonthlyPayment, &app.ScoreAtApproval, &app.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &app, nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
