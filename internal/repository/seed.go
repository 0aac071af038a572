package repository

import (
	"context"
	"fmt"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// seedDemoData inserts a small demo catalog and a few profiles so a fresh
// instance is usable immediately. Runs only when the offers table is empty.
func (r *SQLRepository) seedDemoData(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM offers").Scan(&count); err != nil {
		return fmt.Errorf("failed to check offer catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, offer := range demoOffers() {
		if err := r.SaveOffer(ctx, offer); err != nil {
			return fmt.Errorf("failed to seed offer %s: %w", offer.ID, err)
		}
	}
	for _, profile := range demoProfiles() {
		if err := r.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to seed profile %s: %w", profile.ID, err)
		}
	}
	return nil
}

func demoOffers() []*domain.LenderOffer {
	return []*domain.LenderOffer{
		{
			ID:                "bokt-azerkredit",
			Name:              "AzərKredit BOKT",
			MinimumScore:      3.5,
			InterestRateRange: "18-24%",
			MaxAmount:         50000,
			Products: []domain.CreditProduct{
				{ID: "working-capital", Name: "Dövriyyə Krediti", MinAmount: 5000, MaxAmount: 50000, MinTerm: 6, MaxTerm: 24, InterestRate: 20},
				{ID: "equipment", Name: "Avadanlıq Krediti", MinAmount: 10000, MaxAmount: 50000, MinTerm: 12, MaxTerm: 36, InterestRate: 18},
			},
		},
		{
			ID:                "bokt-mikromaliyye",
			Name:              "MikroMaliyyə BOKT",
			MinimumScore:      2.5,
			InterestRateRange: "22-28%",
			MaxAmount:         20000,
			Products: []domain.CreditProduct{
				{ID: "micro-loan", Name: "Mikro Kredit", MinAmount: 1000, MaxAmount: 20000, MinTerm: 3, MaxTerm: 18, InterestRate: 25},
			},
			Policy: `company_age >= 1.0 && monthly_revenue >= 3000.0`,
		},
	}
}

func demoProfiles() []*domain.BusinessProfile {
	return []*domain.BusinessProfile{
		{
			ID:               "demo-tech",
			VOEN:             "1234567890",
			CompanyName:      "Bakı Tech MMC",
			CompanyAge:       5,
			MonthlyRevenue:   60000,
			NetProfit:        12000,
			TaxDebt:          0,
			Sector:           "IT",
			EmployeeCount:    25,
			CashflowPositive: true,
			OwnerName:        "Leyla Məmmədova",
			Email:            "leyla@bakutech.az",
		},
		{
			ID:               "demo-restoran",
			VOEN:             "0987654321",
			CompanyName:      "Şirvan Restoran MMC",
			CompanyAge:       1.5,
			MonthlyRevenue:   9000,
			NetProfit:        800,
			TaxDebt:          2500,
			Sector:           "Restoran",
			EmployeeCount:    6,
			CashflowPositive: false,
			OwnerName:        "Rəşad Əliyev",
			Email:            "rashad@sirvan.az",
		},
	}
}
