// Package domain defines the core interfaces and types for Lendly.
package domain

// BusinessProfile is the small/medium business (KOBI) record being scored.
// Profiles are read-only inputs to the scoring pipeline, owned by the
// profile provider.
type BusinessProfile struct {
	ID               string  `json:"id"`
	VOEN             string  `json:"voen"`
	CompanyName      string  `json:"company_name"`
	CompanyAge       float64 `json:"company_age"` // years
	MonthlyRevenue   float64 `json:"monthly_revenue"`
	NetProfit        float64 `json:"net_profit"`
	TaxDebt          float64 `json:"tax_debt"`
	Sector           string  `json:"sector"`
	EmployeeCount    int     `json:"employee_count"`
	CashflowPositive bool    `json:"cashflow_positive"`
	OwnerName        string  `json:"owner_name"`
	Email            string  `json:"email"`
}
