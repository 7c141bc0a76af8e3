package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalogo/internal/handlers"
	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
)

// setupApp builds a Fiber app over a private in-memory SQLite database, wired
// the same way main does it: GORM repository, product service (no event
// publisher), product handler.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect to in-memory database")

	require.NoError(t, db.AutoMigrate(&models.Product{}))

	productRepo := repositories.NewGORMProductRepository(db, 0)
	productService := services.NewProductService(productRepo, nil)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New()
	productHandler.RegisterRoutes(app)
	return app
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	return resp
}

func decodeProduct(t *testing.T, resp *http.Response) models.Product {
	t.Helper()
	defer resp.Body.Close()

	var product models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	return product
}

func TestProductLifecycle(t *testing.T) {
	app := setupApp(t)

	// --- POST /products ---
	resp := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":  "Empanada de carne",
		"price": 3.50,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeProduct(t, resp)
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "Empanada de carne", created.Name)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("3.50")))
	assert.False(t, created.CreatedAt.IsZero())

	// --- GET /products/:id ---
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeProduct(t, resp)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Name, fetched.Name)
	assert.True(t, fetched.Price.Equal(created.Price))

	// --- PUT /products/:id ---
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/products/%d", created.ID), map[string]interface{}{
		"name":  "Empanada de carne",
		"price": 4.00,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeProduct(t, resp)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("4.00")))

	// --- DELETE /products/:id ---
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Verify deletion
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProductValidation(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":  "",
		"price": -1.00,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()

	// Both violations reported in one response.
	assert.Equal(t, "Validation failed", body.Message)
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "price")

	// Nothing reached the store.
	resp = doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Empty(t, products)
}

func TestCreateDuplicateName(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":  "Medialuna",
		"price": 1.20,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Same name in a different case must conflict.
	resp = doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":  "MEDIALUNA",
		"price": 1.50,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateProductErrors(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":  "Empanada de carne",
		"price": 3.50,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decodeProduct(t, resp)

	resp = doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":  "Medialuna",
		"price": 1.20,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decodeProduct(t, resp)

	// Update of a missing product.
	resp = doJSON(t, app, http.MethodPut, "/products/999", map[string]interface{}{
		"name":  "Fantasma",
		"price": 1.00,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Renaming over another product's name.
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/products/%d", second.ID), map[string]interface{}{
		"name":  "empanada de carne",
		"price": second.Price,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Invalid payload on update.
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/products/%d", first.ID), map[string]interface{}{
		"name":  "Empanada de carne",
		"price": "not a price",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListProductsOrderedByID(t *testing.T) {
	app := setupApp(t)

	for _, p := range []map[string]interface{}{
		{"name": "Tarta de jamon", "price": 6.00},
		{"name": "Empanada de carne", "price": 3.50},
		{"name": "Medialuna", "price": 1.20},
	} {
		resp := doJSON(t, app, http.MethodPost, "/products", p)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()

	require.Len(t, products, 3)
	for i := 1; i < len(products); i++ {
		assert.Less(t, products[i-1].ID, products[i].ID, "listing must be ordered by ascending ID")
	}

	// Pagination via query parameters.
	resp = doJSON(t, app, http.MethodGet, "/products?limit=1&offset=1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	resp.Body.Close()
	require.Len(t, page, 1)
	assert.Equal(t, products[1].ID, page[0].ID)
}

func TestInvalidProductID(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/products/abc", "/products/-1"} {
		resp := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "GET %s", path)
		resp.Body.Close()

		resp = doJSON(t, app, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "DELETE %s", path)
		resp.Body.Close()
	}
}

func TestMalformedBody(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
