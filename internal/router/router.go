// Package router wires handlers, middleware, and the websocket hub into
// the HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ruokapaikka/api/internal/handler"
	"github.com/ruokapaikka/api/internal/middleware"
	"github.com/ruokapaikka/api/internal/ws"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Public     *handler.PublicHandler
	Cart       *handler.CartHandler
	Orders     *handler.OrderHandler
	Menu       *handler.MenuHandler
	Categories *handler.CategoryHandler
	Deals      *handler.DealHandler
	Reviews    *handler.ReviewHandler
	Settings   *handler.SettingsHandler
	Hours      *handler.HoursHandler
}

// New builds the Chi router. Storefront routes are public; everything
// under /admin requires a valid access token.
func New(h Handlers, hub *ws.Hub, jwtSecret string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	h.Auth.RegisterRoutes(r)
	h.Public.RegisterRoutes(r)
	h.Cart.RegisterRoutes(r)

	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, jwtSecret, w, r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Route("/orders", h.Orders.RegisterRoutes)
		r.Route("/menu-items", h.Menu.RegisterRoutes)
		r.Route("/categories", h.Categories.RegisterRoutes)
		r.Route("/deals", h.Deals.RegisterRoutes)
		r.Route("/reviews", h.Reviews.RegisterRoutes)
		r.Route("/settings", h.Settings.RegisterRoutes)
		r.Route("/hours", h.Hours.RegisterRoutes)
	})

	return r
}
