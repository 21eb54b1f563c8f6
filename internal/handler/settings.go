package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/shopspring/decimal"
)

// SettingsStore defines the database methods needed by settings handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type SettingsStore interface {
	GetBusinessSettings(ctx context.Context) (database.BusinessSetting, error)
	CreateBusinessSettings(ctx context.Context, arg database.CreateBusinessSettingsParams) (database.BusinessSetting, error)
	UpdateBusinessSettings(ctx context.Context, arg database.UpdateBusinessSettingsParams) (database.BusinessSetting, error)
}

// SettingsHandler handles the admin business settings endpoints. There
// is a single settings row; PUT creates it on first save.
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers settings endpoints on the given Chi router.
// Expected to be mounted inside the authenticated subrouter: /admin/settings
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

type settingsRequest struct {
	Name              string  `json:"name"`
	Phone             *string `json:"phone"`
	Email             *string `json:"email"`
	Address           *string `json:"address"`
	Tagline           *string `json:"tagline"`
	Description       *string `json:"description"`
	GoogleReviewsURL  *string `json:"google_reviews_url"`
	GoogleRating      *string `json:"google_rating"`
	GoogleReviewCount *int32  `json:"google_review_count"`
}

// Get handles GET /admin/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetBusinessSettings(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "business settings not configured"})
			return
		}
		log.Printf("ERROR: get business settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

// Update handles PUT /admin/settings. Creates the row when none exists
// yet, otherwise replaces it.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	var rating pgtype.Numeric
	if req.GoogleRating != nil {
		d, err := decimal.NewFromString(*req.GoogleRating)
		if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(5)) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "google_rating must be between 0 and 5"})
			return
		}
		if err := rating.Scan(d.String()); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid google_rating"})
			return
		}
	}

	var reviewCount pgtype.Int4
	if req.GoogleReviewCount != nil {
		if *req.GoogleReviewCount < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "google_review_count must not be negative"})
			return
		}
		reviewCount = pgtype.Int4{Int32: *req.GoogleReviewCount, Valid: true}
	}

	params := database.UpdateBusinessSettingsParams{
		Name:              req.Name,
		Phone:             textFromPtr(req.Phone),
		Email:             textFromPtr(req.Email),
		Address:           textFromPtr(req.Address),
		Tagline:           textFromPtr(req.Tagline),
		Description:       textFromPtr(req.Description),
		GoogleReviewsUrl:  textFromPtr(req.GoogleReviewsURL),
		GoogleRating:      rating,
		GoogleReviewCount: reviewCount,
	}

	settings, err := h.store.UpdateBusinessSettings(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			settings, err = h.store.CreateBusinessSettings(r.Context(), database.CreateBusinessSettingsParams(params))
			if err != nil {
				log.Printf("ERROR: create business settings: %v", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}
			writeJSON(w, http.StatusCreated, toSettingsResponse(settings))
			return
		}
		log.Printf("ERROR: update business settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}
