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
	"github.com/ruokapaikka/api/internal/database"
)

// ReviewStore defines the database methods needed by review handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReviewStore interface {
	ListReviews(ctx context.Context) ([]database.GoogleReview, error)
	CreateReview(ctx context.Context, arg database.CreateReviewParams) (database.GoogleReview, error)
	UpdateReview(ctx context.Context, arg database.UpdateReviewParams) (database.GoogleReview, error)
	SetReviewVisibility(ctx context.Context, arg database.SetReviewVisibilityParams) (database.GoogleReview, error)
	DeleteReview(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ReviewHandler handles the admin review curation endpoints. Reviews
// are entered by staff from the Google listing; there is no API import.
type ReviewHandler struct {
	store ReviewStore
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(store ReviewStore) *ReviewHandler {
	return &ReviewHandler{store: store}
}

// RegisterRoutes registers review endpoints on the given Chi router.
// Expected to be mounted inside the authenticated subrouter: /admin/reviews
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/visibility", h.SetVisibility)
	r.Delete("/{id}", h.Delete)
}

type reviewRequest struct {
	AuthorName      string  `json:"author_name"`
	Rating          int32   `json:"rating"`
	Text            *string `json:"text"`
	TimeDescription *string `json:"time_description"`
	IsVisible       *bool   `json:"is_visible"`
}

type setVisibilityRequest struct {
	IsVisible *bool `json:"is_visible"`
}

// List handles GET /admin/reviews, including hidden reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.store.ListReviews(r.Context())
	if err != nil {
		log.Printf("ERROR: list reviews: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		resp[i] = toReviewResponse(rv)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /admin/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if errMsg := validateReview(req); errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	// New reviews default to visible
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	review, err := h.store.CreateReview(r.Context(), database.CreateReviewParams{
		AuthorName:      req.AuthorName,
		Rating:          req.Rating,
		Text:            textFromPtr(req.Text),
		TimeDescription: textFromPtr(req.TimeDescription),
		IsVisible:       visible,
	})
	if err != nil {
		log.Printf("ERROR: create review: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toReviewResponse(review))
}

// Update handles PUT /admin/reviews/{id}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid review ID"})
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if errMsg := validateReview(req); errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	review, err := h.store.UpdateReview(r.Context(), database.UpdateReviewParams{
		ID:              id,
		AuthorName:      req.AuthorName,
		Rating:          req.Rating,
		Text:            textFromPtr(req.Text),
		TimeDescription: textFromPtr(req.TimeDescription),
		IsVisible:       visible,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "review not found"})
			return
		}
		log.Printf("ERROR: update review: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toReviewResponse(review))
}

// SetVisibility handles PATCH /admin/reviews/{id}/visibility.
func (h *ReviewHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid review ID"})
		return
	}

	var req setVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.IsVisible == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "is_visible is required"})
		return
	}

	review, err := h.store.SetReviewVisibility(r.Context(), database.SetReviewVisibilityParams{
		ID:        id,
		IsVisible: *req.IsVisible,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "review not found"})
			return
		}
		log.Printf("ERROR: set review visibility: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toReviewResponse(review))
}

// Delete handles DELETE /admin/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid review ID"})
		return
	}

	if _, err := h.store.DeleteReview(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "review not found"})
			return
		}
		log.Printf("ERROR: delete review: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validateReview(req reviewRequest) string {
	if req.AuthorName == "" {
		return "author_name is required"
	}
	if req.Rating < 1 || req.Rating > 5 {
		return "rating must be between 1 and 5"
	}
	return ""
}
