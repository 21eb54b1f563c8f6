package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruokapaikka/api/internal/cache"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/shopspring/decimal"
)

// MenuStore defines the database methods needed by admin menu handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	SetMenuItemAvailability(ctx context.Context, arg database.SetMenuItemAvailabilityParams) (database.MenuItem, error)
	SetMenuItemPopularity(ctx context.Context, arg database.SetMenuItemPopularityParams) (database.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// MenuHandler handles the admin menu item endpoints. Every mutation
// invalidates the public menu cache.
type MenuHandler struct {
	store MenuStore
	cache *cache.MenuCache
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore, menuCache *cache.MenuCache) *MenuHandler {
	return &MenuHandler{store: store, cache: menuCache}
}

// RegisterRoutes registers admin menu endpoints on the given Chi router.
// Expected to be mounted inside the authenticated subrouter: /admin/menu-items
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/availability", h.SetAvailability)
	r.Patch("/{id}/popularity", h.SetPopularity)
	r.Delete("/{id}", h.Delete)
}

// --- Request types ---

type menuItemRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Name          string     `json:"name"`
	NameEn        *string    `json:"name_en"`
	Description   *string    `json:"description"`
	DescriptionEn *string    `json:"description_en"`
	Price         string     `json:"price"`
	ImageURL      *string    `json:"image_url"`
	IsAvailable   *bool      `json:"is_available"`
	IsPopular     *bool      `json:"is_popular"`
	DisplayOrder  int32      `json:"display_order"`
}

type setAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

type setPopularityRequest struct {
	IsPopular *bool `json:"is_popular"`
}

// --- Handlers ---

// List handles GET /admin/menu-items, including unavailable items.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponses(items))
}

// Get handles GET /admin/menu-items/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: get menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Create handles POST /admin/menu-items.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, errMsg := menuItemParamsFromRequest(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	item, err := h.store.CreateMenuItem(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: create menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.cache.InvalidateMenuList(r.Context())
	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

// Update handles PUT /admin/menu-items/{id}. Full replacement; the admin
// form always submits every field.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, errMsg := menuItemParamsFromRequest(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	item, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		ID:            id,
		CategoryID:    params.CategoryID,
		Name:          params.Name,
		NameEn:        params.NameEn,
		Description:   params.Description,
		DescriptionEn: params.DescriptionEn,
		Price:         params.Price,
		ImageUrl:      params.ImageUrl,
		IsAvailable:   params.IsAvailable,
		IsPopular:     params.IsPopular,
		DisplayOrder:  params.DisplayOrder,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: update menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.cache.InvalidateMenuList(r.Context())
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// SetAvailability handles PATCH /admin/menu-items/{id}/availability.
func (h *MenuHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req setAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.IsAvailable == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "is_available is required"})
		return
	}

	item, err := h.store.SetMenuItemAvailability(r.Context(), database.SetMenuItemAvailabilityParams{
		ID:          id,
		IsAvailable: *req.IsAvailable,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: set menu item availability: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.cache.InvalidateMenuList(r.Context())
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// SetPopularity handles PATCH /admin/menu-items/{id}/popularity.
func (h *MenuHandler) SetPopularity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req setPopularityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.IsPopular == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "is_popular is required"})
		return
	}

	item, err := h.store.SetMenuItemPopularity(r.Context(), database.SetMenuItemPopularityParams{
		ID:        id,
		IsPopular: *req.IsPopular,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: set menu item popularity: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.cache.InvalidateMenuList(r.Context())
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Delete handles DELETE /admin/menu-items/{id}.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	if _, err := h.store.DeleteMenuItem(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: delete menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.cache.InvalidateMenuList(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func menuItemParamsFromRequest(req menuItemRequest) (database.CreateMenuItemParams, string) {
	var params database.CreateMenuItemParams

	if req.Name == "" {
		return params, "name is required"
	}
	if req.Price == "" {
		return params, "price is required"
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return params, "invalid price format"
	}
	if price.IsNegative() {
		return params, "price must not be negative"
	}

	params.Name = req.Name
	var n pgtype.Numeric
	if err := n.Scan(price.StringFixed(2)); err != nil {
		return params, "invalid price format"
	}
	params.Price = n
	params.DisplayOrder = req.DisplayOrder

	if req.CategoryID != nil {
		params.CategoryID = pgtype.UUID{Bytes: *req.CategoryID, Valid: true}
	}
	params.NameEn = textFromPtr(req.NameEn)
	params.Description = textFromPtr(req.Description)
	params.DescriptionEn = textFromPtr(req.DescriptionEn)
	params.ImageUrl = textFromPtr(req.ImageURL)

	// New items default to available, not popular
	params.IsAvailable = true
	if req.IsAvailable != nil {
		params.IsAvailable = *req.IsAvailable
	}
	if req.IsPopular != nil {
		params.IsPopular = *req.IsPopular
	}

	return params, ""
}

func textFromPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
