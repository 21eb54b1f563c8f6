package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/ruokapaikka/api/internal/handler"
)

// --- Mock store ---

type mockCategoryStore struct {
	categories map[uuid.UUID]database.MenuCategory
}

func newMockCategoryStore() *mockCategoryStore {
	return &mockCategoryStore{categories: make(map[uuid.UUID]database.MenuCategory)}
}

func (m *mockCategoryStore) ListCategories(_ context.Context) ([]database.MenuCategory, error) {
	var result []database.MenuCategory
	for _, c := range m.categories {
		result = append(result, c)
	}
	return result, nil
}

func (m *mockCategoryStore) CreateCategory(_ context.Context, arg database.CreateCategoryParams) (database.MenuCategory, error) {
	c := database.MenuCategory{
		ID:           uuid.New(),
		Name:         arg.Name,
		NameEn:       arg.NameEn,
		DisplayOrder: arg.DisplayOrder,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) UpdateCategory(_ context.Context, arg database.UpdateCategoryParams) (database.MenuCategory, error) {
	c, ok := m.categories[arg.ID]
	if !ok {
		return database.MenuCategory{}, pgx.ErrNoRows
	}
	c.Name = arg.Name
	c.NameEn = arg.NameEn
	c.DisplayOrder = arg.DisplayOrder
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) DeleteCategory(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, ok := m.categories[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.categories, id)
	return id, nil
}

func setupCategoryRouter(store *mockCategoryStore) *chi.Mux {
	h := handler.NewCategoryHandler(store, nil)
	r := chi.NewRouter()
	r.Route("/admin/categories", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestCategoryList_Empty(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "GET", "/admin/categories/", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 0 {
		t.Errorf("expected empty list, got %d items", len(resp))
	}
}

func TestCategoryCreate_Valid(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "POST", "/admin/categories/", map[string]interface{}{
		"name":          "Pizzat",
		"name_en":       "Pizzas",
		"display_order": 2,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["name"] != "Pizzat" {
		t.Errorf("name: got %v, want Pizzat", resp["name"])
	}
	if resp["name_en"] != "Pizzas" {
		t.Errorf("name_en: got %v, want Pizzas", resp["name_en"])
	}
	// JSON numbers decode as float64
	if resp["display_order"] != float64(2) {
		t.Errorf("display_order: got %v, want 2", resp["display_order"])
	}
}

func TestCategoryCreate_MissingName(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "POST", "/admin/categories/", map[string]interface{}{
		"display_order": 1,
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["error"] != "name is required" {
		t.Errorf("error: got %v, want 'name is required'", resp["error"])
	}
}

func TestCategoryUpdate_Valid(t *testing.T) {
	store := newMockCategoryStore()
	id := uuid.New()
	store.categories[id] = database.MenuCategory{ID: id, Name: "Lounas", DisplayOrder: 1}
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "PUT", "/admin/categories/"+id.String(), map[string]interface{}{
		"name":          "Lounaslista",
		"display_order": 3,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["name"] != "Lounaslista" {
		t.Errorf("name: got %v, want Lounaslista", resp["name"])
	}
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "PUT", "/admin/categories/"+uuid.NewString(), map[string]interface{}{
		"name": "Ghost",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCategoryDelete_Valid(t *testing.T) {
	store := newMockCategoryStore()
	id := uuid.New()
	store.categories[id] = database.MenuCategory{ID: id, Name: "Lounas"}
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "DELETE", "/admin/categories/"+id.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if _, ok := store.categories[id]; ok {
		t.Error("category still present after delete")
	}
}

func TestCategoryDelete_InvalidID(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "DELETE", "/admin/categories/not-a-uuid", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
