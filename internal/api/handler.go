package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SherlockH0olms/Lendly/internal/domain"
	"github.com/SherlockH0olms/Lendly/internal/matching"
	"github.com/SherlockH0olms/Lendly/internal/repository"
	"github.com/SherlockH0olms/Lendly/internal/scoring"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	repo     domain.Repository
	store    domain.Store
	bus      domain.EventBus
	pipeline *scoring.Pipeline
	matcher  *matching.Matcher
	version  string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, store domain.Store, bus domain.EventBus, pipeline *scoring.Pipeline, matcher *matching.Matcher, version string) *Handler {
	return &Handler{
		repo:     repo,
		store:    store,
		bus:      bus,
		pipeline: pipeline,
		matcher:  matcher,
		version:  version,
	}
}

// CreateProfile handles POST /profiles.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if p.VOEN == "" || p.CompanyName == "" || p.Sector == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "voen, company_name, and sector are required",
		})
		return
	}
	if p.CompanyAge < 0 || p.MonthlyRevenue < 0 || p.TaxDebt < 0 || p.EmployeeCount < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "company_age, monthly_revenue, tax_debt, and employee_count must not be negative",
		})
		return
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	if err := h.repo.SaveProfile(r.Context(), &p); err != nil {
		slog.Error("failed to save profile", "profile_id", p.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save profile",
		})
		return
	}

	writeJSON(w, http.StatusCreated, &p)
}

// GetProfile handles GET /profiles/{id}.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "id")

	p, err := h.repo.GetProfile(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "profile not found",
			})
			return
		}
		slog.Error("failed to get profile", "profile_id", profileID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get profile",
		})
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// ScoreRequest is the request body for POST /score/calculate.
type ScoreRequest struct {
	ProfileID string `json:"profile_id"`
}

// ScoreResponse is the response for POST /score/calculate.
type ScoreResponse struct {
	ProfileID   string                     `json:"profile_id"`
	CompanyName string                     `json:"company_name"`
	Cached      bool                       `json:"cached"`
	Result      *domain.EnhancedScoreResult `json:"result"`
}

// CalculateScore handles POST /score/calculate.
func (h *Handler) CalculateScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}
	if req.ProfileID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "profile_id is required",
		})
		return
	}

	result, err := h.pipeline.ComputeScore(r.Context(), req.ProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "profile not found",
			})
			return
		}
		slog.Error("score computation failed", "profile_id", req.ProfileID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "score computation failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, ScoreResponse{
		ProfileID:   result.ProfileID,
		CompanyName: result.CompanyName,
		Cached:      result.Cached,
		Result:      result.Score,
	})
}

// OfferView is a catalog entry, optionally annotated with an eligibility
// decision when the request names a profile.
type OfferView struct {
	*domain.LenderOffer
	Eligibility *domain.EligibilityDecision `json:"eligibility,omitempty"`
}

// ListOffers handles GET /offers. With ?minScore= the catalog is filtered to
// offers the given score already clears. With ?profile_id= (and optional
// &amount=) each offer carries the matcher's decision for that profile.
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offers, err := h.repo.ListOffers(ctx)
	if err != nil {
		slog.Error("failed to list offers", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list offers",
		})
		return
	}

	if raw := r.URL.Query().Get("minScore"); raw != "" {
		var minScore float64
		if err := json.Unmarshal([]byte(raw), &minScore); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "minScore must be a number",
			})
			return
		}
		filtered := offers[:0]
		for _, offer := range offers {
			if offer.MinimumScore <= minScore {
				filtered = append(filtered, offer)
			}
		}
		offers = filtered
	}

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		views := make([]OfferView, len(offers))
		for i, offer := range offers {
			views[i] = OfferView{LenderOffer: offer}
		}
		writeJSON(w, http.StatusOK, map[string]any{"offers": views})
		return
	}

	var amount float64
	if raw := r.URL.Query().Get("amount"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &amount); err != nil || amount < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "amount must be a non-negative number",
			})
			return
		}
	}

	profile, err := h.repo.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "profile not found",
			})
			return
		}
		slog.Error("failed to get profile", "profile_id", profileID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get profile",
		})
		return
	}

	result, err := h.pipeline.ComputeScore(ctx, profileID)
	if err != nil {
		slog.Error("score computation failed", "profile_id", profileID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "score computation failed",
		})
		return
	}

	views := make([]OfferView, len(offers))
	for i, offer := range offers {
		views[i] = OfferView{
			LenderOffer: offer,
			Eligibility: h.matcher.Match(ctx, profile, result.Score.TotalScore, offer, amount),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"offers": views,
		"score":  result.Score.TotalScore,
	})
}

// ApplyRequest is the request body for POST /offers/apply.
type ApplyRequest struct {
	ProfileID  string  `json:"profile_id"`
	OfferID    string  `json:"offer_id"`
	ProductID  string  `json:"product_id"`
	Amount     float64 `json:"amount"`
	TermMonths int     `json:"term_months"`
}

// ApplyResponse is the response for POST /offers/apply.
type ApplyResponse struct {
	Application *domain.Application         `json:"application,omitempty"`
	Decision    *domain.EligibilityDecision `json:"decision"`
}

// Apply handles POST /offers/apply. An application is persisted only when
// the matcher finds the profile eligible; otherwise the decision is returned
// with 422 and nothing is stored.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.ProfileID == "" || req.OfferID == "" || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "profile_id, offer_id, and product_id are required",
		})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "amount must be positive",
		})
		return
	}
	if req.TermMonths <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "term_months must be positive",
		})
		return
	}

	profile, err := h.repo.GetProfile(ctx, req.ProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "profile not found",
			})
			return
		}
		slog.Error("failed to get profile", "profile_id", req.ProfileID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get profile",
		})
		return
	}

	offer, err := h.repo.GetOffer(ctx, req.OfferID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "offer not found",
			})
			return
		}
		slog.Error("failed to get offer", "offer_id", req.OfferID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get offer",
		})
		return
	}

	product := offer.Product(req.ProductID)
	if product == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown product for this offer",
		})
		return
	}
	if req.Amount < product.MinAmount || req.Amount > product.MaxAmount {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "amount is outside the product range",
		})
		return
	}
	if req.TermMonths < product.MinTerm || req.TermMonths > product.MaxTerm {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "term_months is outside the product range",
		})
		return
	}

	result, err := h.pipeline.ComputeScore(ctx, req.ProfileID)
	if err != nil {
		slog.Error("score computation failed", "profile_id", req.ProfileID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "score computation failed",
		})
		return
	}

	decision := h.matcher.Match(ctx, profile, result.Score.TotalScore, offer, req.Amount)
	if !decision.Eligible {
		writeJSON(w, http.StatusUnprocessableEntity, ApplyResponse{Decision: decision})
		return
	}

	app := &domain.Application{
		ID:              uuid.New().String(),
		ProfileID:       req.ProfileID,
		OfferID:         req.OfferID,
		ProductID:       req.ProductID,
		Amount:          req.Amount,
		TermMonths:      req.TermMonths,
		InterestRate:    product.InterestRate,
		MonthlyPayment:  matching.MonthlyPayment(req.Amount, product.InterestRate, req.TermMonths),
		ScoreAtApproval: result.Score.TotalScore,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.repo.SaveApplication(ctx, app); err != nil {
		slog.Error("failed to save application", "application_id", app.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save application",
		})
		return
	}

	h.publishSubmitted(r, app)

	writeJSON(w, http.StatusCreated, ApplyResponse{
		Application: app,
		Decision:    decision,
	})
}

func (h *Handler) publishSubmitted(r *http.Request, app *domain.Application) {
	if h.bus == nil {
		return
	}

	payload, err := json.Marshal(domain.ApplicationSubmittedEvent{
		ApplicationID: app.ID,
		ProfileID:     app.ProfileID,
		OfferID:       app.OfferID,
		Amount:        app.Amount,
	})
	if err != nil {
		return
	}

	if err := h.bus.Publish(r.Context(), domain.TopicApplicationSubmitted, payload); err != nil {
		slog.Warn("failed to publish application event",
			"application_id", app.ID,
			"error", err,
		)
	}
}

// GetApplication handles GET /applications/{id}.
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "id")

	app, err := h.repo.GetApplication(r.Context(), appID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "application not found",
			})
			return
		}
		slog.Error("failed to get application", "application_id", appID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get application",
		})
		return
	}

	writeJSON(w, http.StatusOK, app)
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
