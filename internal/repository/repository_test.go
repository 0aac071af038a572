package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

func newTestRepo(t *testing.T, seed bool) domain.Repository {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "lendly-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpPath) })

	repo, err := New(domain.RepositoryConfig{
		Driver:       "sqlite",
		SQLitePath:   tmpPath,
		SeedDemoData: seed,
	})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestSQLiteRepository(t *testing.T) {
	repo := newTestRepo(t, false)
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		if err := repo.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("SaveAndGetProfile", func(t *testing.T) {
		p := &domain.BusinessProfile{
			ID:               "prof-001",
			VOEN:             "5556667778",
			CompanyName:      "Gəncə Tikinti MMC",
			CompanyAge:       4,
			MonthlyRevenue:   35000,
			NetProfit:        6000,
			TaxDebt:          0,
			Sector:           "Tikinti",
			EmployeeCount:    18,
			CashflowPositive: true,
			OwnerName:        "Orxan Quliyev",
			Email:            "orxan@gtikinti.az",
		}

		if err := repo.SaveProfile(ctx, p); err != nil {
			t.Fatalf("SaveProfile failed: %v", err)
		}

		got, err := repo.GetProfile(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if got.CompanyName != p.CompanyName {
			t.Errorf("expected company name %s, got %s", p.CompanyName, got.CompanyName)
		}
		if got.MonthlyRevenue != p.MonthlyRevenue {
			t.Errorf("expected revenue %.2f, got %.2f", p.MonthlyRevenue, got.MonthlyRevenue)
		}
		if !got.CashflowPositive {
			t.Error("expected positive cashflow to round-trip")
		}
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		p := &domain.BusinessProfile{
			ID:             "prof-001",
			VOEN:           "5556667778",
			CompanyName:    "Gəncə Tikinti MMC",
			CompanyAge:     4,
			MonthlyRevenue: 42000,
			Sector:         "Tikinti",
		}
		if err := repo.SaveProfile(ctx, p); err != nil {
			t.Fatalf("SaveProfile failed: %v", err)
		}

		got, err := repo.GetProfile(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if got.MonthlyRevenue != 42000 {
			t.Errorf("expected updated revenue 42000, got %.2f", got.MonthlyRevenue)
		}
	})

	t.Run("GetProfileNotFound", func(t *testing.T) {
		if _, err := repo.GetProfile(ctx, "no-such-profile"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SaveProfileInvalidInput", func(t *testing.T) {
		if err := repo.SaveProfile(ctx, &domain.BusinessProfile{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("SaveAndGetOffer", func(t *testing.T) {
		offer := &domain.LenderOffer{
			ID:                "bokt-test",
			Name:              "Test BOKT",
			MinimumScore:      3.0,
			InterestRateRange: "20-26%",
			MaxAmount:         30000,
			Products: []domain.CreditProduct{
				{ID: "p1", Name: "Kredit A", MinAmount: 1000, MaxAmount: 30000, MinTerm: 6, MaxTerm: 18, InterestRate: 22},
			},
			Policy: `tax_debt == 0.0`,
		}

		if err := repo.SaveOffer(ctx, offer); err != nil {
			t.Fatalf("SaveOffer failed: %v", err)
		}

		got, err := repo.GetOffer(ctx, offer.ID)
		if err != nil {
			t.Fatalf("GetOffer failed: %v", err)
		}
		if got.MinimumScore != 3.0 {
			t.Errorf("expected minimum score 3.0, got %.2f", got.MinimumScore)
		}
		if len(got.Products) != 1 || got.Products[0].ID != "p1" {
			t.Errorf("products did not round-trip: %+v", got.Products)
		}
		if got.Policy != offer.Policy {
			t.Errorf("expected policy %q, got %q", offer.Policy, got.Policy)
		}
	})

	t.Run("ListOffers", func(t *testing.T) {
		offers, err := repo.ListOffers(ctx)
		if err != nil {
			t.Fatalf("ListOffers failed: %v", err)
		}
		if len(offers) != 1 {
			t.Errorf("expected 1 offer, got %d", len(offers))
		}
	})

	t.Run("SaveAndGetApplication", func(t *testing.T) {
		app := &domain.Application{
			ID:              "app-001",
			ProfileID:       "prof-001",
			OfferID:         "bokt-test",
			ProductID:       "p1",
			Amount:          12000,
			TermMonths:      12,
			InterestRate:    22,
			MonthlyPayment:  1220,
			ScoreAtApproval: 4.1,
			CreatedAt:       time.Now().UTC(),
		}

		if err := repo.SaveApplication(ctx, app); err != nil {
			t.Fatalf("SaveApplication failed: %v", err)
		}

		got, err := repo.GetApplication(ctx, app.ID)
		if err != nil {
			t.Fatalf("GetApplication failed: %v", err)
		}
		if got.MonthlyPayment != 1220 {
			t.Errorf("expected monthly payment 1220, got %.2f", got.MonthlyPayment)
		}
		if got.ScoreAtApproval != 4.1 {
			t.Errorf("expected score 4.1, got %.2f", got.ScoreAtApproval)
		}
	})

	t.Run("GetApplicationNotFound", func(t *testing.T) {
		if _, err := repo.GetApplication(ctx, "no-such-app"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSeedDemoData(t *testing.T) {
	repo := newTestRepo(t, true)
	ctx := context.Background()

	offers, err := repo.ListOffers(ctx)
	if err != nil {
		t.Fatalf("ListOffers failed: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected 2 seeded offers, got %d", len(offers))
	}

	p, err := repo.GetProfile(ctx, "demo-tech")
	if err != nil {
		t.Fatalf("expected seeded demo profile: %v", err)
	}
	if p.Sector != "IT" {
		t.Errorf("unexpected sector %q", p.Sector)
	}
}
