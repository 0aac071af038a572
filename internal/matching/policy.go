// Package matching decides whether a business profile qualifies for a lender
// offer: threshold checks, affordability ratios, and optional per-offer CEL
// policy expressions.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// PolicyEngine compiles and evaluates per-offer eligibility policies written
// in CEL. Policies run against profile variables and must produce a bool.
type PolicyEngine struct {
	mu       sync.RWMutex
	env      *cel.Env
	programs map[string]cel.Program
}

// NewPolicyEngine creates the policy engine with the profile variables every
// policy expression can reference.
func NewPolicyEngine() (*PolicyEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("company_age", cel.DoubleType),
		cel.Variable("monthly_revenue", cel.DoubleType),
		cel.Variable("net_profit", cel.DoubleType),
		cel.Variable("tax_debt", cel.DoubleType),
		cel.Variable("sector", cel.StringType),
		cel.Variable("employee_count", cel.IntType),
		cel.Variable("cashflow_positive", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &PolicyEngine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Load compiles the policies of the given offers and swaps them in
// atomically. Offers without a policy are skipped. A policy that fails to
// compile rejects the whole load; a half-loaded catalog is worse than a
// stale one.
func (e *PolicyEngine) Load(offers []*domain.LenderOffer) error {
	programs := make(map[string]cel.Program)
	for _, offer := range offers {
		if offer.Policy == "" {
			continue
		}
		program, err := e.compile(offer.ID, offer.Policy)
		if err != nil {
			return err
		}
		programs[offer.ID] = program
	}

	e.mu.Lock()
	e.programs = programs
	e.mu.Unlock()

	return nil
}

// Evaluate runs the policy of the given offer against the profile. Offers
// without a loaded policy pass. A runtime evaluation error is logged and
// treated as a pass so a broken policy cannot take an offer off the market.
func (e *PolicyEngine) Evaluate(ctx context.Context, offerID string, p *domain.BusinessProfile) bool {
	e.mu.RLock()
	program, ok := e.programs[offerID]
	e.mu.RUnlock()
	if !ok {
		return true
	}

	out, _, err := program.ContextEval(ctx, map[string]any{
		"company_age":       p.CompanyAge,
		"monthly_revenue":   p.MonthlyRevenue,
		"net_profit":        p.NetProfit,
		"tax_debt":          p.TaxDebt,
		"sector":            p.Sector,
		"employee_count":    p.EmployeeCount,
		"cashflow_positive": p.CashflowPositive,
	})
	if err != nil {
		slog.Warn("policy evaluation failed, treating as pass",
			"offer_id", offerID,
			"error", err)
		return true
	}

	pass, ok := out.Value().(bool)
	if !ok {
		slog.Warn("policy produced a non-bool value, treating as pass",
			"offer_id", offerID)
		return true
	}
	return pass
}

func (e *PolicyEngine) compile(offerID, expression string) (cel.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile policy for offer %s: %w", offerID, issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("policy for offer %s: expression must return bool, got %s", offerID, ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for offer %s: %w", offerID, err)
	}
	return program, nil
}
