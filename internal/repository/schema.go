package repository

// Schema definitions for the Lendly database.
// Compatible with both SQLite and PostgreSQL.

const schemaProfiles = `
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    voen TEXT NOT NULL,
    company_name TEXT NOT NULL,
    company_age REAL NOT NULL,
    monthly_revenue REAL NOT NULL,
    net_profit REAL NOT NULL,
    tax_debt REAL NOT NULL DEFAULT 0,
    sector TEXT NOT NULL,
    employee_count INTEGER NOT NULL DEFAULT 0,
    cashflow_positive INTEGER NOT NULL DEFAULT 0,
    owner_name TEXT,
    email TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_voen ON profiles(voen);
CREATE INDEX IF NOT EXISTS idx_profiles_sector ON profiles(sector);
`

const schemaOffers = `
CREATE TABLE IF NOT EXISTS offers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    minimum_score REAL NOT NULL,
    interest_rate_range TEXT NOT NULL,
    max_amount REAL NOT NULL,
    products TEXT NOT NULL,
    policy TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_offers_minimum_score ON offers(minimum_score);
`

const schemaApplications = `
CREATE TABLE IF NOT EXISTS applications (
    id TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL,
    offer_id TEXT NOT NULL,
    product_id TEXT NOT NULL,
    amount REAL NOT NULL,
    term_months INTEGER NOT NULL,
    interest_rate REAL NOT NULL,
    monthly_payment REAL NOT NULL,
    score_at_approval REAL NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_applications_profile ON applications(profile_id);
CREATE INDEX IF NOT EXISTS idx_applications_offer ON applications(offer_id);
CREATE INDEX IF NOT EXISTS idx_applications_created ON applications(created_at);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaProfiles,
		schemaOffers,
		schemaApplications,
	}
}
