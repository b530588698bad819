package transport

import (
	"net/http"
	"testing"

	"scent-store/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_LoginLogout(t *testing.T) {
	store := newTestStore(t)
	v := store.visitor(t)

	status := decodeBody[AdminStatusResponse](t, v.do("GET", "/api/admin/status", nil))
	assert.False(t, status.LoggedIn)

	w := v.do("POST", "/api/admin/login", map[string]string{"key": "khazina123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "the key is case sensitive")

	w = v.do("POST", "/api/admin/login", map[string]string{"key": testAdminKey})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), testAdminKey)

	status = decodeBody[AdminStatusResponse](t, v.do("GET", "/api/admin/status", nil))
	assert.True(t, status.LoggedIn)

	w = v.do("POST", "/api/admin/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	status = decodeBody[AdminStatusResponse](t, v.do("GET", "/api/admin/status", nil))
	assert.False(t, status.LoggedIn)
	assert.Equal(t, http.StatusForbidden, v.do("GET", "/api/admin/dashboard", nil).Code)
}

func TestAdminHandler_LoginIsPerSession(t *testing.T) {
	store := newTestStore(t)
	admin, shopper := store.visitor(t), store.visitor(t)
	admin.login()

	assert.Equal(t, http.StatusOK, admin.do("GET", "/api/admin/orders", nil).Code)
	assert.Equal(t, http.StatusForbidden, shopper.do("GET", "/api/admin/orders", nil).Code)
}

func TestAdminHandler_Dashboard(t *testing.T) {
	store := newTestStore(t)
	shopper := store.visitor(t)
	shopper.do("POST", "/api/cart/items", map[string]any{"productId": "starborn", "quantity": 2})
	require.Equal(t, http.StatusCreated, shopper.do("POST", "/api/checkout", validCheckout("Cash on Delivery")).Code)

	admin := store.visitor(t)
	admin.login()

	w := admin.do("GET", "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decodeBody[domain.DashboardStats](t, w)
	assert.Equal(t, 2, stats.Inventory)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 1, stats.LowStock)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 4800.0, stats.Revenue)
}

func placeOrder(t *testing.T, store *testStore) string {
	t.Helper()
	v := store.visitor(t)
	v.do("POST", "/api/cart/items", map[string]any{"productId": "starborn"})
	w := v.do("POST", "/api/checkout", validCheckout("JazzCash"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[CheckoutResponse](t, w).OrderID
}

func TestOrderHandler_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	first := placeOrder(t, store)
	second := placeOrder(t, store)

	admin := store.visitor(t)
	admin.login()

	orders := decodeBody[[]domain.Order](t, admin.do("GET", "/api/admin/orders", nil))
	require.Len(t, orders, 2)
	assert.Equal(t, second, orders[0].OrderID)
	assert.Equal(t, first, orders[1].OrderID)
}

func TestOrderHandler_StatusLifecycle(t *testing.T) {
	store := newTestStore(t)
	id := placeOrder(t, store)
	admin := store.visitor(t)
	admin.login()
	path := "/api/admin/orders/" + id + "/status"

	w := admin.do("PATCH", path, map[string]string{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = admin.do("PATCH", path, map[string]string{"status": "Completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.OrderStatusCompleted, decodeBody[domain.Order](t, w).Status)

	w = admin.do("PATCH", path, map[string]string{"status": "Completed"})
	assert.Equal(t, http.StatusOK, w.Code, "setting the same status is a no-op")

	w = admin.do("PATCH", path, map[string]string{"status": "Pending"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = admin.do("PATCH", "/api/admin/orders/"+uuid.NewString()+"/status", map[string]string{"status": "Cancelled"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_Delete(t *testing.T) {
	store := newTestStore(t)
	id := placeOrder(t, store)
	admin := store.visitor(t)
	admin.login()

	assert.Equal(t, http.StatusNoContent, admin.do("DELETE", "/api/admin/orders/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, admin.do("DELETE", "/api/admin/orders/"+id, nil).Code)

	orders := decodeBody[[]domain.Order](t, admin.do("GET", "/api/admin/orders", nil))
	assert.Empty(t, orders)
}

func TestBundleHandler(t *testing.T) {
	store := newTestStore(t)
	v := store.visitor(t)

	bundles := decodeBody[[]domain.Bundle](t, v.do("GET", "/api/bundles", nil))
	require.NotEmpty(t, bundles)

	w := v.do("GET", "/api/bundles/elite-duo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4000.0, decodeBody[domain.Bundle](t, w).BundlePrice)

	assert.Equal(t, http.StatusNotFound, v.do("GET", "/api/bundles/missing", nil).Code)
	assert.Equal(t, http.StatusForbidden, v.do("DELETE", "/api/admin/bundles/elite-duo", nil).Code)

	v.login()
	assert.Equal(t, http.StatusNoContent, v.do("DELETE", "/api/admin/bundles/elite-duo", nil).Code)
	assert.Equal(t, http.StatusNotFound, v.do("GET", "/api/bundles/elite-duo", nil).Code)
}
