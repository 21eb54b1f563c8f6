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
	"github.com/ruokapaikka/api/internal/availability"
	"github.com/ruokapaikka/api/internal/cache"
	"github.com/ruokapaikka/api/internal/database"
)

// PublicStore defines the database methods needed by the public
// storefront handlers. Satisfied by *database.Queries.
type PublicStore interface {
	ListAvailableMenuItems(ctx context.Context) ([]database.MenuItem, error)
	ListAvailableMenuItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]database.MenuItem, error)
	ListCategories(ctx context.Context) ([]database.MenuCategory, error)
	ListActiveDeals(ctx context.Context) ([]database.DailyDeal, error)
	ListVisibleReviews(ctx context.Context) ([]database.GoogleReview, error)
	ListOpeningHours(ctx context.Context) ([]database.OpeningHour, error)
	GetBusinessSettings(ctx context.Context) (database.BusinessSetting, error)
}

// PublicHandler serves the unauthenticated storefront reads.
type PublicHandler struct {
	store PublicStore
	cache *cache.MenuCache
	now   func() time.Time
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(store PublicStore, menuCache *cache.MenuCache) *PublicHandler {
	return &PublicHandler{store: store, cache: menuCache, now: time.Now}
}

// RegisterRoutes registers public endpoints on the given Chi router.
func (h *PublicHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.ListMenu)
	r.Get("/categories", h.ListCategories)
	r.Get("/deals", h.ListDeals)
	r.Get("/reviews", h.ListReviews)
	r.Get("/hours", h.ListHours)
	r.Get("/status", h.Status)
	r.Get("/settings", h.GetSettings)
}

// --- Response types ---

type menuItemResponse struct {
	ID            uuid.UUID `json:"id"`
	CategoryID    *string   `json:"category_id"`
	Name          string    `json:"name"`
	NameEn        *string   `json:"name_en"`
	Description   *string   `json:"description"`
	DescriptionEn *string   `json:"description_en"`
	Price         string    `json:"price"`
	ImageURL      *string   `json:"image_url"`
	IsAvailable   bool      `json:"is_available"`
	IsPopular     bool      `json:"is_popular"`
	DisplayOrder  int32     `json:"display_order"`
}

type categoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	NameEn       *string   `json:"name_en"`
	DisplayOrder int32     `json:"display_order"`
}

type dealResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	TitleEn            *string    `json:"title_en"`
	Description        *string    `json:"description"`
	DescriptionEn      *string    `json:"description_en"`
	DiscountPercentage *string    `json:"discount_percentage"`
	DiscountAmount     *string    `json:"discount_amount"`
	MenuItemID         *string    `json:"menu_item_id"`
	IsActive           bool       `json:"is_active"`
	ValidFrom          time.Time  `json:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until"`
}

type reviewResponse struct {
	ID              uuid.UUID `json:"id"`
	AuthorName      string    `json:"author_name"`
	Rating          int32     `json:"rating"`
	Text            *string   `json:"text"`
	TimeDescription *string   `json:"time_description"`
	IsVisible       bool      `json:"is_visible"`
}

type openingHourResponse struct {
	DayOfWeek int32  `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

type statusResponse struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	IsClosed  bool    `json:"is_closed"`
}

type settingsResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Phone             *string   `json:"phone"`
	Email             *string   `json:"email"`
	Address           *string   `json:"address"`
	Tagline           *string   `json:"tagline"`
	Description       *string   `json:"description"`
	GoogleReviewsURL  *string   `json:"google_reviews_url"`
	GoogleRating      *string   `json:"google_rating"`
	GoogleReviewCount *int32    `json:"google_review_count"`
}

// --- Handlers ---

// ListMenu handles GET /menu. The unfiltered list is served from Redis
// when warm; the per-category variant always hits the database because
// its hit rate does not justify a key per category.
func (h *PublicHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	if s := r.URL.Query().Get("category"); s != "" {
		categoryID, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
			return
		}
		items, err := h.store.ListAvailableMenuItemsByCategory(r.Context(), categoryID)
		if err != nil {
			log.Printf("ERROR: list menu items by category: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, toMenuItemResponses(items))
		return
	}

	if data, ok := h.cache.GetMenuList(r.Context()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data) //nolint:errcheck
		return
	}

	items, err := h.store.ListAvailableMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toMenuItemResponses(items)
	if data, err := json.Marshal(resp); err == nil {
		h.cache.SetMenuList(r.Context(), data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCategories handles GET /categories.
func (h *PublicHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		log.Printf("ERROR: list categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListDeals handles GET /deals, returning only deals active right now.
func (h *PublicHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := h.store.ListActiveDeals(r.Context())
	if err != nil {
		log.Printf("ERROR: list active deals: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]dealResponse, len(deals))
	for i, d := range deals {
		resp[i] = toDealResponse(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListReviews handles GET /reviews, returning only visible reviews.
func (h *PublicHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.store.ListVisibleReviews(r.Context())
	if err != nil {
		log.Printf("ERROR: list visible reviews: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		resp[i] = toReviewResponse(rv)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListHours handles GET /hours.
func (h *PublicHandler) ListHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.store.ListOpeningHours(r.Context())
	if err != nil {
		log.Printf("ERROR: list opening hours: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]openingHourResponse, len(hours))
	for i, oh := range hours {
		resp[i] = openingHourResponse{
			DayOfWeek: oh.DayOfWeek,
			OpenTime:  oh.OpenTime,
			CloseTime: oh.CloseTime,
			IsClosed:  oh.IsClosed,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Status handles GET /status: whether the restaurant is open right now,
// plus today's window so the storefront can render "opens at".
func (h *PublicHandler) Status(w http.ResponseWriter, r *http.Request) {
	hours, err := h.store.ListOpeningHours(r.Context())
	if err != nil {
		log.Printf("ERROR: list opening hours for status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	now := h.now()
	today := availability.TodayHours(hours, now)

	resp := statusResponse{IsOpen: availability.IsOpen(hours, now)}
	if today == nil {
		resp.IsClosed = true
	} else {
		resp.IsClosed = today.IsClosed
		if today.OpenTime != "" {
			resp.OpenTime = &today.OpenTime
		}
		if today.CloseTime != "" {
			resp.CloseTime = &today.CloseTime
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSettings handles GET /settings.
func (h *PublicHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
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

// --- Mapping helpers ---

func toMenuItemResponses(items []database.MenuItem) []menuItemResponse {
	resp := make([]menuItemResponse, len(items))
	for i, item := range items {
		resp[i] = toMenuItemResponse(item)
	}
	return resp
}

func toMenuItemResponse(item database.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Price:        numericToString(item.Price),
		IsAvailable:  item.IsAvailable,
		IsPopular:    item.IsPopular,
		DisplayOrder: item.DisplayOrder,
	}
	if item.CategoryID.Valid {
		s := uuid.UUID(item.CategoryID.Bytes).String()
		resp.CategoryID = &s
	}
	resp.NameEn = textPtr(item.NameEn)
	resp.Description = textPtr(item.Description)
	resp.DescriptionEn = textPtr(item.DescriptionEn)
	resp.ImageURL = textPtr(item.ImageUrl)
	return resp
}

func toCategoryResponse(c database.MenuCategory) categoryResponse {
	return categoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		NameEn:       textPtr(c.NameEn),
		DisplayOrder: c.DisplayOrder,
	}
}

func toDealResponse(d database.DailyDeal) dealResponse {
	resp := dealResponse{
		ID:            d.ID,
		Title:         d.Title,
		TitleEn:       textPtr(d.TitleEn),
		Description:   textPtr(d.Description),
		DescriptionEn: textPtr(d.DescriptionEn),
		IsActive:      d.IsActive,
		ValidFrom:     d.ValidFrom,
	}
	if d.DiscountPercentage.Valid {
		s := numericToString(d.DiscountPercentage)
		resp.DiscountPercentage = &s
	}
	if d.DiscountAmount.Valid {
		s := numericToString(d.DiscountAmount)
		resp.DiscountAmount = &s
	}
	if d.MenuItemID.Valid {
		s := uuid.UUID(d.MenuItemID.Bytes).String()
		resp.MenuItemID = &s
	}
	if d.ValidUntil.Valid {
		resp.ValidUntil = &d.ValidUntil.Time
	}
	return resp
}

func toReviewResponse(r database.GoogleReview) reviewResponse {
	return reviewResponse{
		ID:              r.ID,
		AuthorName:      r.AuthorName,
		Rating:          r.Rating,
		Text:            textPtr(r.Text),
		TimeDescription: textPtr(r.TimeDescription),
		IsVisible:       r.IsVisible,
	}
}

func toSettingsResponse(s database.BusinessSetting) settingsResponse {
	resp := settingsResponse{
		ID:               s.ID,
		Name:             s.Name,
		Phone:            textPtr(s.Phone),
		Email:            textPtr(s.Email),
		Address:          textPtr(s.Address),
		Tagline:          textPtr(s.Tagline),
		Description:      textPtr(s.Description),
		GoogleReviewsURL: textPtr(s.GoogleReviewsUrl),
	}
	if s.GoogleRating.Valid {
		rating := numericToString(s.GoogleRating)
		resp.GoogleRating = &rating
	}
	if s.GoogleReviewCount.Valid {
		resp.GoogleReviewCount = &s.GoogleReviewCount.Int32
	}
	return resp
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}
