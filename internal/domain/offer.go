package domain

import "time"

// LenderOffer is a microfinance lending institution (BOKT) offering one or
// more credit products. Offers are read-only catalog data.
type LenderOffer struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	MinimumScore      float64         `json:"minimum_score"`
	InterestRateRange string          `json:"interest_rate_range"`
	MaxAmount         float64         `json:"max_amount"`
	Products          []CreditProduct `json:"credit_products"`

	// Policy is an optional CEL expression evaluated against the applicant
	// profile. An empty policy imposes no extra constraint.
	Policy string `json:"policy,omitempty"`
}

// CreditProduct is a specific loan instrument belonging to a LenderOffer.
type CreditProduct struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MinAmount    float64 `json:"min_amount"`
	MaxAmount    float64 `json:"max_amount"`
	MinTerm      int     `json:"min_term"` // months
	MaxTerm      int     `json:"max_term"` // months
	InterestRate float64 `json:"interest_rate"` // percentage
}

// Product returns the product with the given ID, or nil.
func (o *LenderOffer) Product(id string) *CreditProduct {
	for i := range o.Products {
		if o.Products[i].ID == id {
			return &o.Products[i]
		}
	}
	return nil
}

// EligibilityDecision is the matcher's verdict for one profile against one
// offer. Eligible decisions carry a single affirmation string in Reasons;
// ineligible decisions carry every violated constraint.
type EligibilityDecision struct {
	Eligible bool     `json:"eligible"`
	Message  string   `json:"message"`
	Reasons  []string `json:"reasons"`
}

// Application is a submitted loan application against a specific offer and
// product. Created only when the applicant was eligible.
type Application struct {
	ID              string    `json:"id"`
	ProfileID       string    `json:"profile_id"`
	OfferID         string    `json:"offer_id"`
	ProductID       string    `json:"product_id"`
	Amount          float64   `json:"amount"`
	TermMonths      int       `json:"term_months"`
	InterestRate    float64   `json:"interest_rate"`
	MonthlyPayment  float64   `json:"monthly_payment"`
	ScoreAtApproval float64   `json:"score_at_approval"`
	CreatedAt       time.Time `json:"created_at"`
}
