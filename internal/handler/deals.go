package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/shopspring/decimal"
)

// DealStore defines the database methods needed by daily deal handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type DealStore interface {
	ListDeals(ctx context.Context) ([]database.DailyDeal, error)
	CreateDeal(ctx context.Context, arg database.CreateDealParams) (database.DailyDeal, error)
	UpdateDeal(ctx context.Context, arg database.UpdateDealParams) (database.DailyDeal, error)
	SetDealActive(ctx context.Context, arg database.SetDealActiveParams) (database.DailyDeal, error)
	DeleteDeal(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// DealHandler handles the admin daily deal endpoints.
type DealHandler struct {
	store DealStore
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(store DealStore) *DealHandler {
	return &DealHandler{store: store}
}

// RegisterRoutes registers deal endpoints on the given Chi router.
// Expected to be mounted inside the authenticated subrouter: /admin/deals
func (h *DealHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/active", h.SetActive)
	r.Delete("/{id}", h.Delete)
}

type dealRequest struct {
	Title              string     `json:"title"`
	TitleEn            *string    `json:"title_en"`
	Description        *string    `json:"description"`
	DescriptionEn      *string    `json:"description_en"`
	DiscountPercentage *string    `json:"discount_percentage"`
	DiscountAmount     *string    `json:"discount_amount"`
	MenuItemID         *uuid.UUID `json:"menu_item_id"`
	IsActive           *bool      `json:"is_active"`
	ValidFrom          *time.Time `json:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// List handles GET /admin/deals, including inactive and expired deals.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	deals, err := h.store.ListDeals(r.Context())
	if err != nil {
		log.Printf("ERROR: list deals: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]dealResponse, len(deals))
	for i, d := range deals {
		resp[i] = toDealResponse(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /admin/deals.
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, errMsg := dealParamsFromRequest(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	deal, err := h.store.CreateDeal(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: create deal: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toDealResponse(deal))
}

// Update handles PUT /admin/deals/{id}.
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid deal ID"})
		return
	}

	var req dealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, errMsg := dealParamsFromRequest(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	deal, err := h.store.UpdateDeal(r.Context(), database.UpdateDealParams{
		ID:                 id,
		Title:              params.Title,
		TitleEn:            params.TitleEn,
		Description:        params.Description,
		DescriptionEn:      params.DescriptionEn,
		DiscountPercentage: params.DiscountPercentage,
		DiscountAmount:     params.DiscountAmount,
		MenuItemID:         params.MenuItemID,
		IsActive:           params.IsActive,
		ValidFrom:          params.ValidFrom,
		ValidUntil:         params.ValidUntil,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "deal not found"})
			return
		}
		log.Printf("ERROR: update deal: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toDealResponse(deal))
}

// SetActive handles PATCH /admin/deals/{id}/active.
func (h *DealHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid deal ID"})
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.IsActive == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "is_active is required"})
		return
	}

	deal, err := h.store.SetDealActive(r.Context(), database.SetDealActiveParams{
		ID:       id,
		IsActive: *req.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "deal not found"})
			return
		}
		log.Printf("ERROR: set deal active: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toDealResponse(deal))
}

// Delete handles DELETE /admin/deals/{id}.
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid deal ID"})
		return
	}

	if _, err := h.store.DeleteDeal(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "deal not found"})
			return
		}
		log.Printf("ERROR: delete deal: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func dealParamsFromRequest(req dealRequest) (database.CreateDealParams, string) {
	var params database.CreateDealParams

	if req.Title == "" {
		return params, "title is required"
	}
	if req.DiscountPercentage == nil && req.DiscountAmount == nil {
		return params, "discount_percentage or discount_amount is required"
	}

	params.Title = req.Title
	params.TitleEn = textFromPtr(req.TitleEn)
	params.Description = textFromPtr(req.Description)
	params.DescriptionEn = textFromPtr(req.DescriptionEn)

	if req.DiscountPercentage != nil {
		pct, err := decimal.NewFromString(*req.DiscountPercentage)
		if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return params, "discount_percentage must be between 0 and 100"
		}
		var n pgtype.Numeric
		if err := n.Scan(pct.String()); err != nil {
			return params, "invalid discount_percentage"
		}
		params.DiscountPercentage = n
	}
	if req.DiscountAmount != nil {
		amt, err := decimal.NewFromString(*req.DiscountAmount)
		if err != nil || amt.IsNegative() {
			return params, "discount_amount must not be negative"
		}
		var n pgtype.Numeric
		if err := n.Scan(amt.StringFixed(2)); err != nil {
			return params, "invalid discount_amount"
		}
		params.DiscountAmount = n
	}
	if req.MenuItemID != nil {
		params.MenuItemID = pgtype.UUID{Bytes: *req.MenuItemID, Valid: true}
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	params.ValidFrom = time.Now()
	if req.ValidFrom != nil {
		params.ValidFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		if !req.ValidUntil.After(params.ValidFrom) {
			return params, "valid_until must be after valid_from"
		}
		params.ValidUntil = pgtype.Timestamptz{Time: *req.ValidUntil, Valid: true}
	}

	return params, ""
}
