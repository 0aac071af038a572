// Package scoring implements the deterministic rule-based credit scorer and
// the blended scoring pipeline.
package scoring

import (
	"fmt"
	"math"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// Criterion keys. One shared table backs both the plain scorer and the
// blended pipeline so weights cannot drift between them.
const (
	CriterionAge          = "age"
	CriterionRevenue      = "revenue"
	CriterionProfit       = "profit"
	CriterionTaxDebt      = "taxDebt"
	CriterionSectorRisk   = "sectorRisk"
	CriterionEmployees    = "employees"
	CriterionCashflow     = "cashflow"
	CriterionLoanCapacity = "loanCapacity"
)

// Criterion is one weighted scoring factor.
type Criterion struct {
	Key    string
	Label  string
	Weight int // percentage of the total score
}

// MaxScore is the criterion's share of the 5-point scale.
func (c Criterion) MaxScore() float64 {
	return float64(c.Weight) / 100 * 5
}

// Criteria is the fixed, ordered table of the eight scoring criteria.
// The weights sum to exactly 100.
var Criteria = []Criterion{
	{Key: CriterionAge, Label: "Company Age", Weight: 15},
	{Key: CriterionRevenue, Label: "Monthly Revenue", Weight: 20},
	{Key: CriterionProfit, Label: "Net Profit", Weight: 15},
	{Key: CriterionTaxDebt, Label: "Tax Debt", Weight: 15},
	{Key: CriterionSectorRisk, Label: "Sector Risk", Weight: 10},
	{Key: CriterionEmployees, Label: "Employee Count", Weight: 5},
	{Key: CriterionCashflow, Label: "Cashflow", Weight: 5},
	{Key: CriterionLoanCapacity, Label: "Loan Capacity", Weight: 15},
}

// sectorRisk maps sector categories to a risk multiplier. IT carries the
// least risk, construction the most. Unknown sectors take the mid value.
var sectorRisk = map[string]float64{
	"IT":         1.0,
	"Ticarət":    0.7,
	"İstehsalat": 0.6,
	"Restoran":   0.5,
	"Tikinti":    0.3,
}

const defaultSectorRisk = 0.5

// loanCapacityRatio derives the assumed serviceable loan capacity from
// monthly revenue. Intentionally distinct from the 50% amount-to-revenue
// eligibility cap used by the matcher.
const loanCapacityRatio = 0.3

// contribution computes a criterion's score contribution for a profile.
func contribution(c Criterion, p *domain.BusinessProfile) float64 {
	max := c.MaxScore()

	switch c.Key {
	case CriterionAge:
		return math.Min(p.CompanyAge/5, 1) * max

	case CriterionRevenue:
		switch {
		case p.MonthlyRevenue >= 50000:
			return max
		case p.MonthlyRevenue >= 20000:
			return max * 0.7
		case p.MonthlyRevenue >= 10000:
			return max * 0.4
		default:
			return max * 0.2
		}

	case CriterionProfit:
		switch {
		case p.NetProfit > 5000:
			return max
		case p.NetProfit > 0:
			return max * 2 / 3
		default:
			return 0
		}

	case CriterionTaxDebt:
		// Hard penalty: any debt zeroes the criterion.
		if p.TaxDebt == 0 {
			return max
		}
		return 0

	case CriterionSectorRisk:
		risk, ok := sectorRisk[p.Sector]
		if !ok {
			risk = defaultSectorRisk
		}
		return risk * max

	case CriterionEmployees:
		switch {
		case p.EmployeeCount >= 10:
			return max
		case p.EmployeeCount >= 5:
			return max * 0.6
		default:
			return max * 0.2
		}

	case CriterionCashflow:
		if p.CashflowPositive {
			return max
		}
		return 0

	case CriterionLoanCapacity:
		capacity := p.MonthlyRevenue * loanCapacityRatio
		switch {
		case capacity >= 15000:
			return max
		case capacity >= 5000:
			return max * 2 / 3
		default:
			return max / 3
		}
	}

	return 0
}

// templateExplanation produces the non-advisory explanation for a criterion.
func templateExplanation(c Criterion, p *domain.BusinessProfile) string {
	switch c.Key {
	case CriterionAge:
		if p.CompanyAge < 2 {
			return fmt.Sprintf("The company is %.0f year(s) old; young companies carry higher risk", p.CompanyAge)
		}
		return fmt.Sprintf("The company has %.0f years of operating history", p.CompanyAge)
	case CriterionRevenue:
		return fmt.Sprintf("Monthly revenue: %.0f AZN", p.MonthlyRevenue)
	case CriterionProfit:
		if p.NetProfit > 0 {
			return fmt.Sprintf("Profitability is positive (%.0f AZN)", p.NetProfit)
		}
		return "The business is operating at a loss"
	case CriterionTaxDebt:
		if p.TaxDebt == 0 {
			return "No outstanding tax debt"
		}
		return fmt.Sprintf("Outstanding tax debt of %.0f AZN", p.TaxDebt)
	case CriterionSectorRisk:
		return fmt.Sprintf("Sector: %s", p.Sector)
	case CriterionEmployees:
		return fmt.Sprintf("%d employees", p.EmployeeCount)
	case CriterionCashflow:
		if p.CashflowPositive {
			return "Cashflow is positive"
		}
		return "Cashflow is negative"
	case CriterionLoanCapacity:
		return fmt.Sprintf("Estimated loan capacity: %.0f AZN", p.MonthlyRevenue*loanCapacityRatio)
	}
	return ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
