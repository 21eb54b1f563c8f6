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
	"github.com/ruokapaikka/api/internal/cart"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/ruokapaikka/api/internal/enum"
	"github.com/ruokapaikka/api/internal/service"
	"github.com/ruokapaikka/api/internal/ws"
	"github.com/shopspring/decimal"
)

const sessionCookieName = "cart_session"

// CartMenuStore looks up menu items when lines are added.
// Satisfied by *database.Queries; narrow interface for testability.
type CartMenuStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
}

// CheckoutService turns a cart into a persisted order.
// Satisfied by *service.OrderService.
type CheckoutService interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error)
}

// CartHandler handles the storefront cart and checkout endpoints. The
// cart itself lives server-side; the browser only carries a session
// cookie.
type CartHandler struct {
	carts    *cart.Store
	menu     CartMenuStore
	checkout CheckoutService
	hub      Broadcaster
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *cart.Store, menu CartMenuStore, checkout CheckoutService, hub Broadcaster) *CartHandler {
	return &CartHandler{carts: carts, menu: menu, checkout: checkout, hub: hub}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// These are public storefront routes, no authentication.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.Get)
	r.Delete("/cart", h.Clear)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/{menuItemID}", h.UpdateItem)
	r.Delete("/cart/items/{menuItemID}", h.RemoveItem)
	r.Post("/checkout", h.Checkout)
}

// --- Request / Response types ---

type addItemRequest struct {
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	Quantity       int32     `json:"quantity"`
	SpecialRequest string    `json:"special_request"`
}

type updateItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type cartLineResponse struct {
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	Name           string    `json:"name"`
	UnitPrice      string    `json:"unit_price"`
	Quantity       int32     `json:"quantity"`
	SpecialRequest string    `json:"special_request,omitempty"`
	LineTotal      string    `json:"line_total"`
}

type cartResponse struct {
	Items       []cartLineResponse `json:"items"`
	TotalItems  int32              `json:"total_items"`
	TotalAmount string             `json:"total_amount"`
}

type checkoutRequest struct {
	CustomerName        string `json:"customer_name"`
	CustomerPhone       string `json:"customer_phone"`
	CustomerEmail       string `json:"customer_email"`
	SpecialInstructions string `json:"special_instructions"`
}

type checkoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
}

// --- Handlers ---

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	c := h.carts.Get(sessionID)
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	c := h.carts.Get(sessionID)
	c.Clear()
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// AddItem handles POST /cart/items. The menu item is fetched fresh so
// unavailable or deleted items can never enter the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.MenuItemID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu_item_id is required"})
		return
	}

	item, err := h.menu.GetMenuItem(r.Context(), req.MenuItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: get menu item for cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if !item.IsAvailable {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "menu item is not available"})
		return
	}

	sessionID := h.sessionID(w, r)
	c := h.carts.Get(sessionID)
	c.AddItem(item, req.Quantity, req.SpecialRequest)

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// UpdateItem handles PATCH /cart/items/{menuItemID}. Quantity zero or
// below removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := uuid.Parse(chi.URLParam(r, "menuItemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sessionID := h.sessionID(w, r)
	c := h.carts.Get(sessionID)
	c.UpdateQuantity(menuItemID, req.Quantity)

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// RemoveItem handles DELETE /cart/items/{menuItemID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := uuid.Parse(chi.URLParam(r, "menuItemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	sessionID := h.sessionID(w, r)
	c := h.carts.Get(sessionID)
	c.RemoveItem(menuItemID)

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// Checkout handles POST /checkout. On success the cart session is
// destroyed, so a retry of the same request starts from an empty cart
// instead of duplicating the order.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sessionID := h.sessionID(w, r)
	c := h.carts.Get(sessionID)

	if c.IsEmpty() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cart is empty"})
		return
	}

	result, err := h.checkout.Checkout(r.Context(), service.CheckoutRequest{
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		CustomerEmail:       req.CustomerEmail,
		SpecialInstructions: req.SpecialInstructions,
		Lines:               c.Lines(),
	})
	if err != nil {
		var verrs service.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
			return
		}
		if errors.Is(err, service.ErrEmptyCart) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cart is empty"})
			return
		}
		log.Printf("ERROR: checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.carts.Delete(sessionID)
	h.broadcastOrderCreated(result.Order)

	writeJSON(w, http.StatusCreated, checkoutResponse{
		OrderID:     result.Order.ID,
		Status:      result.Order.Status,
		TotalAmount: numericToString(result.Order.TotalAmount),
	})
}

// --- Helpers ---

// sessionID reads the session cookie, minting a new session (and
// setting the cookie) when it is missing or malformed.
func (h *CartHandler) sessionID(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id
		}
	}

	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int(cart.DefaultTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *CartHandler) broadcastOrderCreated(o database.Order) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(orderEventPayload{OrderID: o.ID, Status: o.Status})
	if err != nil {
		return
	}
	h.hub.Broadcast(ws.Event{Type: enum.EventOrderCreated, Payload: payload})
}

func toCartResponse(c *cart.Cart) cartResponse {
	lines := c.Lines()
	resp := cartResponse{
		Items:       make([]cartLineResponse, len(lines)),
		TotalItems:  c.TotalItems(),
		TotalAmount: c.TotalAmount().StringFixed(2),
	}
	for i, line := range lines {
		unit, err := decimal.NewFromString(numericToString(line.MenuItem.Price))
		if err != nil {
			unit = decimal.Zero
		}
		resp.Items[i] = cartLineResponse{
			MenuItemID:     line.MenuItem.ID,
			Name:           line.MenuItem.Name,
			UnitPrice:      unit.StringFixed(2),
			Quantity:       line.Quantity,
			SpecialRequest: line.SpecialRequest,
			LineTotal:      unit.Mul(decimal.NewFromInt32(line.Quantity)).StringFixed(2),
		}
	}
	return resp
}
