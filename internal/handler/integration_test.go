//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ruokapaikka/api/internal/cart"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/ruokapaikka/api/internal/handler"
	"github.com/ruokapaikka/api/internal/router"
	"github.com/ruokapaikka/api/internal/service"
	"github.com/ruokapaikka/api/internal/ws"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// TestIntegrationFlow exercises the storefront-to-admin lifecycle against
// a real PostgreSQL database: admin login, menu setup, cart, checkout,
// and the order status progression.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()

	pgContainer, connStr, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	runMigrations(t, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	queries := database.New(pool)
	hub := ws.NewHub()
	// NOTE: hub.Run() goroutine leaks on test exit; Hub has no shutdown
	// mechanism. Acceptable for tests.
	go hub.Run()

	const jwtSecret = "integration-test-secret"
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.CheckoutStore {
		return database.New(db)
	})
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(queries, jwtSecret),
		Public:     handler.NewPublicHandler(queries, nil),
		Cart:       handler.NewCartHandler(cart.NewStore(0), queries, orderService, hub),
		Orders:     handler.NewOrderHandler(queries, hub),
		Menu:       handler.NewMenuHandler(queries, nil),
		Categories: handler.NewCategoryHandler(queries, nil),
		Deals:      handler.NewDealHandler(queries),
		Reviews:    handler.NewReviewHandler(queries),
		Settings:   handler.NewSettingsHandler(queries),
		Hours: handler.NewHoursHandler(queries, pool, func(db database.DBTX) handler.HoursStore {
			return database.New(db)
		}),
	}

	r := router.New(handlers, hub, jwtSecret)
	server := httptest.NewServer(r)
	defer server.Close()

	// --- 1. Create admin user (manual DB insert to bootstrap) ---
	createAdminUser(t, ctx, pool)

	// --- 2. Login ---
	token := login(t, server, "admin@test.fi", "password123")

	// --- 3. Create category and menu items through the admin API ---
	categoryResp := adminPost(t, server, token, "/admin/categories/", map[string]interface{}{
		"name": "Keitot",
	})
	categoryID := categoryResp["id"].(string)

	soupResp := adminPost(t, server, token, "/admin/menu-items/", map[string]interface{}{
		"name":        "Lohikeitto",
		"price":       "12.50",
		"category_id": categoryID,
	})
	soupID := soupResp["id"].(string)

	breadResp := adminPost(t, server, token, "/admin/menu-items/", map[string]interface{}{
		"name":  "Saaristolaisleipä",
		"price": "3.00",
	})
	breadID := breadResp["id"].(string)

	// --- 4. Storefront sees the items ---
	menu := getJSONList(t, server.URL+"/menu")
	if len(menu) != 2 {
		t.Fatalf("public menu: got %d items, want 2", len(menu))
	}

	// --- 5. Fill a cart and check out ---
	client := &http.Client{Jar: newCookieJar(t)}

	postJSON(t, client, server.URL+"/cart/items", map[string]interface{}{
		"menu_item_id": soupID,
		"quantity":     2,
	}, http.StatusOK)
	postJSON(t, client, server.URL+"/cart/items", map[string]interface{}{
		"menu_item_id": breadID,
		"quantity":     1,
	}, http.StatusOK)

	checkoutResp := postJSON(t, client, server.URL+"/checkout", map[string]interface{}{
		"customer_name":  "Matti Meikäläinen",
		"customer_phone": "0401234567",
		"customer_email": "matti@example.fi",
	}, http.StatusCreated)

	orderID := checkoutResp["order_id"].(string)

	// Price snapshot: 12.50*2 + 3.00*1 = 28.00
	if checkoutResp["total_amount"].(string) != "28.00" {
		t.Fatalf("order total_amount: got %s, want 28.00", checkoutResp["total_amount"])
	}

	// --- 6. Admin sees the order with snapshot line items ---
	orderResp := adminGet(t, server, token, "/admin/orders/"+orderID)
	if orderResp["status"].(string) != "pending" {
		t.Fatalf("new order status: got %s, want pending", orderResp["status"])
	}
	items := orderResp["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("order items: got %d, want 2", len(items))
	}

	// --- 7. Walk the status chain ---
	for _, next := range []string{"confirmed", "preparing", "ready", "completed"} {
		resp := adminPatch(t, server, token, "/admin/orders/"+orderID+"/status", map[string]interface{}{
			"status": next,
		}, http.StatusOK)
		if resp["status"].(string) != next {
			t.Fatalf("status after transition: got %s, want %s", resp["status"], next)
		}
	}

	// --- 8. Terminal orders reject further transitions ---
	adminPatch(t, server, token, "/admin/orders/"+orderID+"/status", map[string]interface{}{
		"status": "preparing",
	}, http.StatusConflict)

	// --- 9. A second order can be cancelled while pending ---
	client2 := &http.Client{Jar: newCookieJar(t)}
	postJSON(t, client2, server.URL+"/cart/items", map[string]interface{}{
		"menu_item_id": soupID,
		"quantity":     1,
	}, http.StatusOK)
	checkout2 := postJSON(t, client2, server.URL+"/checkout", map[string]interface{}{
		"customer_name":  "Liisa Virtanen",
		"customer_phone": "0507654321",
	}, http.StatusCreated)
	orderID2 := checkout2["order_id"].(string)

	req, _ := http.NewRequest("DELETE", server.URL+"/admin/orders/"+orderID2, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}

	t.Logf("Integration test passed: container=%s, order=%s, cancelled=%s",
		pgContainer.GetContainerID(), orderID, orderID2)
}

// --- Setup helpers ---

func setupPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ruoka_test"),
		tcpostgres.WithUsername("ruoka"),
		tcpostgres.WithPassword("ruoka"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}

	return pgContainer, connStr, cleanup
}

func runMigrations(t *testing.T, connStr string) {
	t.Helper()

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("open db for migrations: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		t.Fatalf("create migrate driver: %v", err)
	}

	// Path relative to this test file's package directory.
	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"postgres", driver)
	if err != nil {
		t.Fatalf("create migrate instance: %v", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("run migrations: %v", err)
	}
}

func createAdminUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	var id uuid.UUID
	err = pool.QueryRow(ctx,
		`INSERT INTO users (email, hashed_password, full_name)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		"admin@test.fi", string(hashedPassword), "Test Admin",
	).Scan(&id)
	if err != nil {
		t.Fatalf("create admin user: %v", err)
	}
	return id
}

// --- HTTP helpers ---

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return result["access_token"].(string)
}

func adminPost(t *testing.T, server *httptest.Server, token, path string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	return adminDo(t, server, token, "POST", path, body, http.StatusCreated)
}

func adminGet(t *testing.T, server *httptest.Server, token, path string) map[string]interface{} {
	t.Helper()
	return adminDo(t, server, token, "GET", path, nil, http.StatusOK)
}

func adminPatch(t *testing.T, server *httptest.Server, token, path string, body map[string]interface{}, wantStatus int) map[string]interface{} {
	t.Helper()
	return adminDo(t, server, token, "PATCH", path, body, wantStatus)
}

func adminDo(t *testing.T, server *httptest.Server, token, method, path string, body map[string]interface{}, wantStatus int) map[string]interface{} {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s status: got %d, want %d; body: %v", method, path, resp.StatusCode, wantStatus, result)
	}
	return result
}

func postJSON(t *testing.T, client *http.Client, url string, body map[string]interface{}, wantStatus int) map[string]interface{} {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode POST %s response: %v", url, err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s status: got %d, want %d; body: %v", url, resp.StatusCode, wantStatus, result)
	}
	return result
}

func getJSONList(t *testing.T, url string) []map[string]interface{} {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status: got %d, want %d", url, resp.StatusCode, http.StatusOK)
	}

	var result []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode GET %s response: %v", url, err)
	}
	return result
}

func newCookieJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return jar
}
