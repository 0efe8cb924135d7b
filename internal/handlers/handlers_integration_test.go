package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"orderhub/internal/handlers"
	"orderhub/internal/middleware"
	"orderhub/internal/models"
	"orderhub/internal/repositories"
	"orderhub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test_jwt_secret"

type testEnv struct {
	app  *fiber.App
	auth *services.AuthService
	db   *gorm.DB
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T, hidePasswordHash bool) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, testJWTSecret, services.WithBcryptCost(bcrypt.MinCost))
	userService := services.NewUserService(userRepo, authService)
	orderService := services.NewOrderService(orderRepo, nil)

	app := fiber.New()
	handlers.NewHealthHandler(db).RegisterRoutes(app)

	api := app.Group("/api")
	handlers.NewUserHandler(userService, hidePasswordHash).RegisterRoutes(api)
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, middleware.AuthRequired(authService))

	return &testEnv{app: app, auth: authService, db: db}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// do sends a request and decodes the JSON response into out when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			jsonBody, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(jsonBody)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) registerAndLogin(t *testing.T, name, email, password string) string {
	t.Helper()
	status := e.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var loginResp map[string]string
	status = e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": password,
	}, &loginResp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func TestUserRegistration(t *testing.T) {
	env := setupApp(t, false)

	var created map[string]any
	status := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}, &created)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "Alice", created["name"])
	assert.Equal(t, "alice@example.com", created["email"])

	// The stored value is a bcrypt hash, never the plaintext.
	hash, _ := created["password"].(string)
	assert.NotEqual(t, "password123", hash)
	ok, err := env.auth.VerifyPassword("password123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	// Duplicate email is rejected by the unique constraint.
	var dup map[string]string
	status = env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name": "Alice 2", "email": "alice@example.com", "password": "other",
	}, &dup)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, strings.ToUpper(dup["error"]), "UNIQUE")

	var users []map[string]any
	status = env.do(t, http.MethodGet, "/api/users", "", nil, &users)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, users, 1)
	assert.Equal(t, hash, users[0]["password"])
}

func TestUserRegistration_MissingFields(t *testing.T) {
	env := setupApp(t, false)

	var created map[string]any
	status := env.do(t, http.MethodPost, "/api/users", "", map[string]string{"password": "pw"}, &created)
	assert.Equal(t, http.StatusCreated, status)
	assert.Nil(t, created["name"])
	assert.Nil(t, created["email"])

	var failed map[string]string
	status = env.do(t, http.MethodPost, "/api/users", "", map[string]string{"email": "x@example.com"}, &failed)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, services.ErrPasswordRequired.Error(), failed["error"])
}

func TestUsers_HidePasswordHash(t *testing.T) {
	env := setupApp(t, true)

	var created map[string]any
	status := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "password123",
	}, &created)
	assert.Equal(t, http.StatusCreated, status)
	assert.NotContains(t, created, "password")

	var users []map[string]any
	env.do(t, http.MethodGet, "/api/users", "", nil, &users)
	require.Len(t, users, 1)
	assert.NotContains(t, users[0], "password")
}

func TestGetUsers_Empty(t *testing.T) {
	env := setupApp(t, false)

	var users []map[string]any
	status := env.do(t, http.MethodGet, "/api/users", "", nil, &users)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestLogin(t *testing.T) {
	env := setupApp(t, false)
	token := env.registerAndLogin(t, "Carol", "carol@example.com", "password123")

	userID, err := env.auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)

	var resp map[string]string
	status := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User not found", resp["message"])

	resp = nil
	status = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "carol@example.com", "password": "wrong",
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", resp["message"])
}

func TestMalformedJSONBody(t *testing.T) {
	env := setupApp(t, false)

	for _, path := range []string{"/api/users", "/api/login"} {
		var resp map[string]string
		status := env.do(t, http.MethodPost, path, "", `{"email":`, &resp)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.NotEmpty(t, resp["error"], path)
	}

	var users []map[string]any
	env.do(t, http.MethodGet, "/api/users", "", nil, &users)
	assert.Empty(t, users)
}

func TestOrders_RequireAuth(t *testing.T) {
	env := setupApp(t, false)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/total"},
	}

	for _, r := range routes {
		var resp map[string]string
		status := env.do(t, r.method, r.path, "", nil, &resp)
		assert.Equal(t, http.StatusUnauthorized, status, r.path)
		assert.Equal(t, "Access Denied", resp["message"], r.path)

		resp = nil
		status = env.do(t, r.method, r.path, "not-a-token", nil, &resp)
		assert.Equal(t, http.StatusBadRequest, status, r.path)
		assert.Equal(t, "Invalid Token", resp["message"], r.path)
	}
}

func TestOrders_CreateListTotal(t *testing.T) {
	env := setupApp(t, false)
	alice := env.registerAndLogin(t, "Alice", "alice@example.com", "pw-alice")
	bob := env.registerAndLogin(t, "Bob", "bob@example.com", "pw-bob")

	// Totals start empty.
	var total map[string]any
	status := env.do(t, http.MethodGet, "/api/orders/total", alice, nil, &total)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, total, "total_spent")
	assert.Nil(t, total["total_spent"])

	var created map[string]any
	status = env.do(t, http.MethodPost, "/api/orders", alice, map[string]any{
		"product": "Keyboard", "amount": 10.00,
	}, &created)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), created["user_id"])
	assert.Equal(t, "Keyboard", created["product"])
	assert.Equal(t, "10.00", created["amount"])

	status = env.do(t, http.MethodPost, "/api/orders", "Bearer "+alice, map[string]any{
		"product": "Mouse", "amount": "5.50",
	}, nil)
	assert.Equal(t, http.StatusOK, status)

	status = env.do(t, http.MethodPost, "/api/orders", bob, map[string]any{
		"product": "Monitor", "amount": 200,
	}, nil)
	assert.Equal(t, http.StatusOK, status)

	var orders []map[string]any
	status = env.do(t, http.MethodGet, "/api/orders", alice, nil, &orders)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "Alice", o["name"])
		assert.NotEqual(t, "Monitor", o["product"])
	}
	assert.Equal(t, "Keyboard", orders[0]["product"])
	assert.Equal(t, "10.00", orders[0]["amount"])
	assert.Equal(t, "5.50", orders[1]["amount"])

	total = nil
	status = env.do(t, http.MethodGet, "/api/orders/total", alice, nil, &total)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "15.50", total["total_spent"])

	total = nil
	env.do(t, http.MethodGet, "/api/orders/total", bob, nil, &total)
	assert.Equal(t, "200.00", total["total_spent"])
}

func TestOrders_EmptyList(t *testing.T) {
	env := setupApp(t, false)
	token := env.registerAndLogin(t, "Dave", "dave@example.com", "pw")

	var orders []map[string]any
	status := env.do(t, http.MethodGet, "/api/orders", token, nil, &orders)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrders_StoreFailure(t *testing.T) {
	env := setupApp(t, false)
	token := env.registerAndLogin(t, "Erin", "erin@example.com", "pw")

	require.NoError(t, env.db.Exec("DROP TABLE orders").Error)

	for _, path := range []string{"/api/orders", "/api/orders/total"} {
		var resp map[string]string
		status := env.do(t, http.MethodGet, path, token, nil, &resp)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Contains(t, resp["error"], "no such table", path)
	}

	var resp map[string]string
	status := env.do(t, http.MethodPost, "/api/orders", token, map[string]any{"product": "X", "amount": 1}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["error"], "no such table")
	assert.NotContains(t, resp["error"], "failed to create order")
}

func TestHealth(t *testing.T) {
	env := setupApp(t, false)

	var resp map[string]string
	status := env.do(t, http.MethodGet, "/health", "", nil, &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", resp["status"])
	assert.NotEmpty(t, resp["time"])

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp = nil
	status = env.do(t, http.MethodGet, "/health", "", nil, &resp)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", resp["status"])
	assert.NotEmpty(t, resp["error"])
}

func TestUsers_RowWithoutPassword(t *testing.T) {
	env := setupApp(t, false)
	require.NoError(t, env.db.Exec(`INSERT INTO users (name, email) VALUES (?, ?)`, "Legacy", "legacy@example.com").Error)

	var users []map[string]any
	status := env.do(t, http.MethodGet, "/api/users", "", nil, &users)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, users, 1)
	assert.Equal(t, "legacy@example.com", users[0]["email"])

	var resp map[string]string
	status = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "legacy@example.com", "password": "",
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", resp["message"])
}

func TestOrders_UserMustExist(t *testing.T) {
	env := setupApp(t, false)
	token := env.registerAndLogin(t, "Frank", "frank@example.com", "pw")
	require.NoError(t, env.db.Exec(`DELETE FROM users WHERE email = ?`, "frank@example.com").Error)

	var resp map[string]string
	status := env.do(t, http.MethodPost, "/api/orders", token, map[string]any{"product": "Desk", "amount": 99}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, strings.ToUpper(resp["error"]), "FOREIGN KEY")

	// A validly signed token for an id that never existed fails the same way.
	ghost, err := env.auth.IssueToken(404)
	require.NoError(t, err)
	resp = nil
	status = env.do(t, http.MethodPost, "/api/orders", ghost, map[string]any{"product": "Desk", "amount": 99}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, strings.ToUpper(resp["error"]), "FOREIGN KEY")
}

func TestOrders_AmountRounding(t *testing.T) {
	env := setupApp(t, false)
	token := env.registerAndLogin(t, "Grace", "grace@example.com", "pw")

	var created map[string]any
	status := env.do(t, http.MethodPost, "/api/orders", token, `{"product":"Pen","amount":1.005}`, &created)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1.01", created["amount"])

	var resp map[string]string
	status = env.do(t, http.MethodPost, "/api/orders", token, `{"product":"Pen","amount":"NaN"}`, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, resp["error"])

	var total map[string]any
	env.do(t, http.MethodGet, "/api/orders/total", token, nil, &total)
	assert.Equal(t, "1.01", total["total_spent"])
}
