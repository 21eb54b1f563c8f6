package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/ruokapaikka/api/internal/service"
)

// HoursStore defines the database methods needed by opening hours
// handlers. Satisfied by *database.Queries (and its WithTx variant).
type HoursStore interface {
	ListOpeningHours(ctx context.Context) ([]database.OpeningHour, error)
	UpsertOpeningHours(ctx context.Context, arg database.UpsertOpeningHoursParams) (database.OpeningHour, error)
}

// NewHoursStore creates an HoursStore from a DBTX (pool or tx).
type NewHoursStore func(db database.DBTX) HoursStore

// HoursHandler handles the admin opening hours endpoints. The weekly
// schedule is replaced as a whole so the storefront never sees a
// half-written week.
type HoursHandler struct {
	store    HoursStore
	pool     service.TxBeginner
	newStore NewHoursStore
}

// NewHoursHandler creates a new HoursHandler.
func NewHoursHandler(store HoursStore, pool service.TxBeginner, newStore NewHoursStore) *HoursHandler {
	return &HoursHandler{store: store, pool: pool, newStore: newStore}
}

// RegisterRoutes registers hours endpoints on the given Chi router.
// Expected to be mounted inside the authenticated subrouter: /admin/hours
func (h *HoursHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/", h.Update)
}

type openingHourRequest struct {
	DayOfWeek int32  `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

// List handles GET /admin/hours.
func (h *HoursHandler) List(w http.ResponseWriter, r *http.Request) {
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

// Update handles PUT /admin/hours. The request carries the full week;
// all seven rows are upserted in one transaction.
func (h *HoursHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req []openingHourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if errMsg := validateWeek(req); errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("ERROR: begin tx for hours update: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	store := h.newStore(tx)
	updated := make([]openingHourResponse, len(req))
	for i, day := range req {
		oh, err := store.UpsertOpeningHours(r.Context(), database.UpsertOpeningHoursParams{
			DayOfWeek: day.DayOfWeek,
			OpenTime:  day.OpenTime,
			CloseTime: day.CloseTime,
			IsClosed:  day.IsClosed,
		})
		if err != nil {
			log.Printf("ERROR: upsert opening hours: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		updated[i] = openingHourResponse{
			DayOfWeek: oh.DayOfWeek,
			OpenTime:  oh.OpenTime,
			CloseTime: oh.CloseTime,
			IsClosed:  oh.IsClosed,
		}
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("ERROR: commit hours update: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func validateWeek(week []openingHourRequest) string {
	if len(week) == 0 {
		return "week must not be empty"
	}

	seen := map[int32]bool{}
	for _, day := range week {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return fmt.Sprintf("day_of_week %d is out of range", day.DayOfWeek)
		}
		if seen[day.DayOfWeek] {
			return fmt.Sprintf("duplicate day_of_week %d", day.DayOfWeek)
		}
		seen[day.DayOfWeek] = true

		if day.IsClosed {
			continue
		}
		if !isClockTime(day.OpenTime) {
			return fmt.Sprintf("open_time %q is not a valid HH:MM time", day.OpenTime)
		}
		if !isClockTime(day.CloseTime) {
			return fmt.Sprintf("close_time %q is not a valid HH:MM time", day.CloseTime)
		}
		if day.CloseTime <= day.OpenTime {
			return fmt.Sprintf("close_time must be after open_time for day %d", day.DayOfWeek)
		}
	}
	return ""
}

// isClockTime accepts zero-padded "HH:MM" only; the padding keeps string
// comparison equivalent to time comparison.
func isClockTime(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return false
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return false
	}
	return true
}
