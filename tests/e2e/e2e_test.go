//go:build integration

package e2e

// End-to-end integration tests against real Postgres + Redis via
// testcontainers. Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"modapos/internal/config"
	"modapos/internal/infra"
	"modapos/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server     *httptest.Server
	token      string // admin JWT
	sellerCode string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("modapos_test"),
		tcPostgres.WithUsername("modapos"),
		tcPostgres.WithPassword("modapos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		AdminKey:           "e2e-admin-key",
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Register an admin and log in
	regResp := do(t, srv, "POST", "/v1/auth/register",
		jsonBody(t, map[string]any{
			"name":     "Admin E2E",
			"email":    "admin@e2e.test",
			"password": "secret123",
			"adminKey": "e2e-admin-key",
		}), "")
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	var reg struct {
		Code string `json:"code"`
	}
	decodeJSON(t, regResp, &reg)
	require.Len(t, reg.Code, 5)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "secret123"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken, sellerCode: reg.Code}
}

func (env *testEnv) createJersey(t *testing.T) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":     "Jersey",
			"category": "apparel",
			"price":    10,
			"sizeStocks": []map[string]any{
				{"size": "M", "stock": 5},
				{"size": "L", "stock": 2},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	decodeJSON(t, resp, &prod)
	require.Equal(t, 7, prod.Stock)
	return prod.ID
}

func (env *testEnv) checkoutBody(productID string, paid float64) map[string]any {
	return map[string]any{
		"sellerCode":      env.sellerCode,
		"customerCedula":  "1717171717",
		"customerName":    "Carlos Vega",
		"customerPhone":   995551234,
		"customerAddress": "Av. Amazonas 123",
		"cartItems": []map[string]any{
			{
				"productId": productID,
				"name":      "Jersey",
				"price":     10,
				"quantity":  5,
				"sizeOrders": []map[string]any{
					{"size": "M", "quantity": 3},
					{"size": "L", "quantity": 2},
				},
			},
		},
		"paidTotal":     paid,
		"paymentMethod": "cash",
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullCheckoutCycle(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createJersey(t)

	// Checkout with a 10 discount (suggested 50, paid 40)
	resp := do(t, env.server, "POST", "/v1/checkout",
		jsonBody(t, env.checkoutBody(productID, 40)), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var note struct {
		ID             string `json:"id"`
		SuggestedTotal string `json:"suggestedTotal"`
		PaidTotal      string `json:"paidTotal"`
		DiscountAmount string `json:"discountAmount"`
	}
	decodeJSON(t, resp, &note)
	assert.Equal(t, "50", note.SuggestedTotal)
	assert.Equal(t, "40", note.PaidTotal)
	assert.Equal(t, "10", note.DiscountAmount)

	// Availability reflects the decrement: M 5-3=2, L 2-2=0, aggregate 2
	avResp := do(t, env.server, "GET", "/v1/products/"+productID+"/availability", nil, env.token)
	require.Equal(t, http.StatusOK, avResp.StatusCode)
	var av struct {
		TotalStock int `json:"totalStock"`
		SizeStocks []struct {
			Size  string `json:"size"`
			Stock int    `json:"stock"`
		} `json:"sizeStocks"`
	}
	decodeJSON(t, avResp, &av)
	assert.Equal(t, 2, av.TotalStock)
	require.Len(t, av.SizeStocks, 2)
	assert.Equal(t, 2, av.SizeStocks[0].Stock)
	assert.Equal(t, 0, av.SizeStocks[1].Stock)

	// The note is retrievable and listed
	getResp := do(t, env.server, "GET", "/v1/sales-notes/"+note.ID, nil, env.token)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	getResp.Body.Close()

	listResp := do(t, env.server, "GET", "/v1/sales-notes", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, 1, list.Total)

	// The customer was upserted during checkout
	custResp := do(t, env.server, "GET", "/v1/customers/1717171717", nil, env.token)
	require.Equal(t, http.StatusOK, custResp.StatusCode)
	var cust struct {
		Name string `json:"name"`
	}
	decodeJSON(t, custResp, &cust)
	assert.Equal(t, "Carlos Vega", cust.Name)
}

func TestE2E_InsufficientStockConflict(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createJersey(t)

	body := env.checkoutBody(productID, 50)
	body["cartItems"] = []map[string]any{
		{
			"productId":  productID,
			"name":       "Jersey",
			"price":      10,
			"quantity":   5,
			"sizeOrders": []map[string]any{{"size": "L", "quantity": 5}},
		},
	}
	resp := do(t, env.server, "POST", "/v1/checkout", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var apiErr struct {
		Detail string `json:"detail"`
	}
	decodeJSON(t, resp, &apiErr)
	assert.Contains(t, apiErr.Detail, "insufficient stock")

	// Stock untouched
	avResp := do(t, env.server, "GET", "/v1/products/"+productID+"/availability", nil, env.token)
	var av struct {
		TotalStock int `json:"totalStock"`
	}
	decodeJSON(t, avResp, &av)
	assert.Equal(t, 7, av.TotalStock)
}

func TestE2E_PaidExceedsSuggested(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createJersey(t)

	resp := do(t, env.server, "POST", "/v1/checkout",
		jsonBody(t, env.checkoutBody(productID, 60)), env.token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// No note created
	listResp := do(t, env.server, "GET", "/v1/sales-notes", nil, env.token)
	var list struct {
		Total int `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, 0, list.Total)
}

func TestE2E_SellerCodeLookup(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/users/by-code/"+env.sellerCode, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &user)
	assert.Equal(t, "Admin E2E", user.Name)
	assert.Equal(t, env.sellerCode, user.Code)

	missing := do(t, env.server, "GET", "/v1/users/by-code/00000", nil, env.token)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	missing.Body.Close()
}

func TestE2E_RestockReplacesCounts(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createJersey(t)

	resp := do(t, env.server, "PUT", "/v1/products/"+productID+"/stock",
		jsonBody(t, map[string]any{
			"sizeStocks": []map[string]any{
				{"size": "M", "stock": 10},
				{"size": "L", "stock": 6},
				{"size": "XL", "stock": 1},
			},
		}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, resp, &prod)
	assert.Equal(t, 17, prod.Stock)
}
