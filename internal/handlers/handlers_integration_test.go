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
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lapak/internal/apperrors"
	"lapak/internal/handlers"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
)

var dbSeq int64

// setupApp builds a Fiber app backed by a fresh in-memory SQLite database,
// wired the same way main does, without a broker.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}))

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, nil)

	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "unhealthy"})
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestHealth(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health["status"])
}

func TestProductLifecycle(t *testing.T) {
	app := setupApp(t)

	// Create.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Test Product",
		"price": 29.99,
		"stock": 100,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Product
	decodeBody(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Test Product", created.Name)
	assert.Equal(t, 29.99, created.Price)
	assert.Equal(t, 100, created.Stock)

	// Partial update: only the price changes.
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", created.ID), map[string]interface{}{
		"price": 39.99,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Product
	decodeBody(t, resp, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 39.99, updated.Price)
	assert.Equal(t, 100, updated.Stock)
	assert.Equal(t, "Test Product", updated.Name)

	// Delete.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Gone afterwards.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductList(t *testing.T) {
	app := setupApp(t)

	// Empty table lists as an empty array, not an error.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	decodeBody(t, resp, &products)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	for _, name := range []string{"Laptop", "Keyboard"} {
		resp = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
			"name":  name,
			"price": 10.0,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &products)
	require.Len(t, products, 2)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.Equal(t, "Keyboard", products[1].Name)
}

func TestProductValidation(t *testing.T) {
	app := setupApp(t)

	type errorBody struct {
		Error string `json:"error"`
	}

	// Missing name.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"price": 10.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body errorBody
	decodeBody(t, resp, &body)
	assert.Equal(t, "missing required field: name", body.Error)

	// Missing price.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name": "No Price",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "missing required field: price", body.Error)

	// Zero price fails the strict bound.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Free",
		"price": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "price must be greater than 0", body.Error)

	// The smallest positive price succeeds.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Almost Free",
		"price": 0.01,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeBody(t, resp, &created)
	assert.Equal(t, 0.01, created.Price)
	// Stock omitted defaults to 0.
	assert.Equal(t, 0, created.Stock)

	// Negative stock.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Bad Stock",
		"price": 10.0,
		"stock": -1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "stock cannot be negative", body.Error)

	// Update on a missing product.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/9999", map[string]interface{}{
		"price": 10.0,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Update validation mirrors create validation.
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", created.ID), map[string]interface{}{
		"price": -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "price must be greater than 0", body.Error)
}

func TestOrderFlow(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Test Product",
		"price": 29.99,
		"stock": 100,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)

	// Create an order; total price is the product price snapshot times quantity.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	assert.NotZero(t, order.ID)
	assert.Equal(t, product.ID, order.ProductID)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, 59.98, order.TotalPrice)

	// The snapshot survives a later price change.
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", product.ID), map[string]interface{}{
		"price": 99.99,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Order
	decodeBody(t, resp, &fetched)
	assert.Equal(t, 59.98, fetched.TotalPrice)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 1)

	// Deleting a product with live orders is refused.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Delete the order, then the product goes through.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

// setupInMemoryApp wires the same HTTP surface onto the in-memory
// repositories, with no database at all.
func setupInMemoryApp(t *testing.T) *fiber.App {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()

	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, nil)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1)
	return app
}

func TestProductLifecycleWithoutStore(t *testing.T) {
	app := setupInMemoryApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Test Product",
		"price": 29.99,
		"stock": 100,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeBody(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 100, created.Stock)

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", created.ID), map[string]interface{}{
		"price": 39.99,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	decodeBody(t, resp, &updated)
	assert.Equal(t, 39.99, updated.Price)
	assert.Equal(t, 100, updated.Stock)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"product_id": created.ID,
		"quantity":   2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, 79.98, order.TotalPrice)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// failingProductRepo simulates a store that is unreachable for every
// operation.
type failingProductRepo struct{}

func (failingProductRepo) storeDown() error {
	return apperrors.NewStore("store unreachable", fmt.Errorf("connection refused"))
}

func (r failingProductRepo) GetAll() ([]models.Product, error)       { return nil, r.storeDown() }
func (r failingProductRepo) GetByID(uint) (*models.Product, error)   { return nil, r.storeDown() }
func (r failingProductRepo) Create(*models.Product) error            { return r.storeDown() }
func (r failingProductRepo) Update(*models.Product) error            { return r.storeDown() }
func (r failingProductRepo) Delete(uint) error                       { return r.storeDown() }

func TestStoreFailureSurfacesAsInternalError(t *testing.T) {
	productService := services.NewProductService(failingProductRepo{})

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1)

	type errorBody struct {
		Error string `json:"error"`
	}

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body errorBody
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Error, "store unreachable")

	// A valid create fails the same way once the store is down.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Unreachable",
		"price": 10.0,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Error, "store unreachable")
}

func TestOrderValidation(t *testing.T) {
	app := setupApp(t)

	type errorBody struct {
		Error string `json:"error"`
	}

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Scarce",
		"price": 5.0,
		"stock": 3,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)

	// Order against a product that does not exist writes nothing.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"product_id": 9999,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body errorBody
	decodeBody(t, resp, &body)
	assert.Equal(t, "product not found", body.Error)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", nil)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	assert.Empty(t, orders)

	// Quantity must be strictly positive.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "quantity must be greater than 0", body.Error)

	// Quantity beyond the available stock is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   4,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Error, "insufficient stock")
}
