package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
	"github.com/marisimondelossantos-spec/petshop/internal/checkout"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	sessions := app.NewRegistry(app.RegistryDeps{})
	t.Cleanup(sessions.Close)

	srv := httptest.NewServer(NewRouter(sessions))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, session string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", "s1", AddItemRequestDTO{
		ProductID: "p1", Name: "Dog Food", Price: 100, Quantity: 2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var snap struct {
		ItemCount int     `json:"itemCount"`
		Subtotal  float64 `json:"subtotal"`
		Tax       float64 `json:"tax"`
		Total     float64 `json:"total"`
		Currency  string  `json:"currency"`
	}
	decodeBody(t, resp, &snap)
	assert.Equal(t, 2, snap.ItemCount)
	assert.Equal(t, 200.0, snap.Subtotal)
	assert.InDelta(t, 24.0, snap.Tax, 0.001)
	assert.InDelta(t, 224.0, snap.Total, 0.001)
	assert.Equal(t, "PHP", snap.Currency)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/cart/items/p1", "s1", UpdateQuantityRequestDTO{Quantity: 5})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &snap)
	assert.Equal(t, 5, snap.ItemCount)
	assert.InDelta(t, 560.0, snap.Total, 0.001)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/cart/items/p1", "s1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &snap)
	assert.Zero(t, snap.ItemCount)
	assert.Zero(t, snap.Total)
}

func TestCart_InvalidProduct(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", "s1", AddItemRequestDTO{
		Name: "no id", Price: 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "invalid_product_id", errResp.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", "alpha", AddItemRequestDTO{
		ProductID: "p1", Name: "Dog Food", Price: 100, Quantity: 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/cart/", "beta", nil)
	var snap struct {
		ItemCount int `json:"itemCount"`
	}
	decodeBody(t, resp, &snap)
	assert.Zero(t, snap.ItemCount)
}

func TestSessionMiddleware_MintsCookie(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/cart/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Session-ID"))

	found := false
	for _, c := range resp.Cookies() {
		if c.Name == "petshop_session" && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAuth_SignupValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/signup", "s1", map[string]interface{}{
		"firstName":       "Jane",
		"lastName":        "Doe",
		"contactNumber":   "123",
		"email":           "jane@example.com",
		"street":          "123 Mabini St",
		"zone":            "Zone 4",
		"city":            "Quezon City",
		"province":        "Metro Manila",
		"zipCode":         "1100",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"agreeTerms":      true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "invalid_input", errResp.Code)
	assert.Contains(t, errResp.Error, "Contact number must be 11 digits")
}

func TestAuth_LoginAndSession(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "s1", LoginRequestDTO{
		Email: "carlos@example.com", Password: "pw",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/session", "s1", nil)
	var session SessionResponseDTO
	decodeBody(t, resp, &session)
	require.True(t, session.LoggedIn)
	assert.Equal(t, "Carlos", session.User.FirstName)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/logout", "s1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/session", "s1", nil)
	decodeBody(t, resp, &session)
	assert.False(t, session.LoggedIn)
}

func TestCheckout_EmptyCart(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/checkout", "s1", CheckoutRequestDTO{
		PaymentMethod: "cash",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "empty_cart", errResp.Code)
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/cart/items", "s1", AddItemRequestDTO{
		ProductID: "p1", Name: "Dog Food", Price: 100, Quantity: 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/checkout", "s1", CheckoutRequestDTO{
		PaymentMethod: "gcash",
		Details:       checkout.PaymentDetails{GcashNumber: "09171234567"},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var order struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Total  float64 `json:"total"`
	}
	decodeBody(t, resp, &order)
	assert.Regexp(t, `^ORD-`, order.ID)
	assert.Equal(t, "processing", order.Status)
	assert.Equal(t, 200.0, order.Total)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/cart/", "s1", nil)
	var snap struct {
		ItemCount int `json:"itemCount"`
	}
	decodeBody(t, resp, &snap)
	assert.Zero(t, snap.ItemCount)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/orders", "s1", nil)
	var orders []struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestPreferences(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/preferences/", "s1", nil)
	var prefs PreferencesDTO
	decodeBody(t, resp, &prefs)
	assert.Equal(t, "grid", prefs.ShopView)
	assert.Equal(t, "12", prefs.ItemsPerPage)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/preferences/", "s1", PreferencesDTO{
		ShopView: "list", ItemsPerPage: "all",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &prefs)
	assert.Equal(t, "list", prefs.ShopView)
	assert.Equal(t, "all", prefs.ItemsPerPage)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/preferences/", "s1", PreferencesDTO{
		ShopView: "carousel",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_LoadAndSearch(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/products/", "s1", []map[string]interface{}{
		{"id": "p1", "name": "Premium Dog Food", "price": 500, "category": "Food", "brand": "Pedigree", "rating": 4.5},
		{"id": "p2", "name": "Cat Scratching Post", "price": 900, "category": "Toys", "brand": "Whiskers", "rating": 4.0},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/products/?q=dog", "s1", nil)
	var result struct {
		Total    int `json:"total"`
		Products []struct {
			ID string `json:"id"`
		} `json:"products"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "p1", result.Products[0].ID)
}

func TestUICommands_Dispatch(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/ui/actions/add-to-cart", "s1", map[string]string{
		"product-id": "p1", "product-name": "Dog Food", "price": "100",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/cart/", "s1", nil)
	var snap struct {
		ItemCount int `json:"itemCount"`
	}
	decodeBody(t, resp, &snap)
	assert.Equal(t, 1, snap.ItemCount)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/ui/actions/no-such-action", "s1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUINav_Toggle(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/ui/nav/toggle", "s1", nil)
	var state struct {
		IsOpen bool `json:"isOpen"`
	}
	decodeBody(t, resp, &state)
	assert.True(t, state.IsOpen)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/ui/nav/toggle", "s1", nil)
	decodeBody(t, resp, &state)
	assert.False(t, state.IsOpen)
}
