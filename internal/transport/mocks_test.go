package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"scent-store/internal/cart"
	"scent-store/internal/domain"
	"scent-store/internal/middleware"
	"scent-store/internal/repository"
	"scent-store/internal/service"
	"scent-store/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	testAdminKey      = "Khazina123"
	testSessionSecret = "test-secret"
)

var errGatewayDown = errors.New("gateway unavailable")

// Mock repositories for testing
type mockProductRepository struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	order    []string
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[string]*domain.Product)}
	for _, product := range products {
		m.put(product)
	}
	return m
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(m.order))
	for _, id := range m.order {
		copied := *m.products[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products), nil
}

func (m *mockProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(product)
	return nil
}

func (m *mockProductRepository) UpsertBatch(ctx context.Context, products []*domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, product := range products {
		m.put(product)
	}
	return nil
}

func (m *mockProductRepository) Patch(ctx context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	doc, err := repository.ProductDocument(product)
	if err != nil {
		return err
	}
	for key, value := range fields {
		doc[key] = value
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return err
	}
	m.products[id] = repository.MapProduct(id, merged)
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockProductRepository) put(product *domain.Product) {
	if _, exists := m.products[product.ID]; !exists {
		m.order = append(m.order, product.ID)
	}
	copied := *product
	m.products[product.ID] = &copied
}

type mockOrderRepository struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	created map[string]time.Time
	clock   time.Time
	fail    bool
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders:  make(map[string]*domain.Order),
		created: make(map[string]time.Time),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockOrderRepository) Create(ctx context.Context, draft *domain.OrderDraft) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", errGatewayDown
	}
	m.clock = m.clock.Add(time.Second)
	id := uuid.NewString()
	m.orders[id] = &domain.Order{
		OrderID:  id,
		Customer: draft.Customer,
		Items:    append([]domain.CartItem(nil), draft.Items...),
		Total:    draft.Total,
		Status:   draft.Status,
		Date:     m.clock.Format(time.RFC3339Nano),
	}
	m.created[id] = m.clock
	return id, nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Order, 0, len(m.orders))
	for _, order := range m.orders {
		copied := *order
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.created[out[i].OrderID].After(m.created[out[j].OrderID])
	})
	return out, nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.Status != from {
		return repository.ErrStatusChanged
	}
	order.Status = to
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	delete(m.created, id)
	return nil
}

func testProducts() []*domain.Product {
	return []*domain.Product{
		{ID: "starborn", Name: "Starborn", Price: 2250, Stock: 50, Category: "Bold"},
		{ID: "cool-current", Name: "Cool Current", Price: 2000, Stock: 3, Category: "Fresh"},
	}
}

// testStore wires the storefront routes over mock repositories
type testStore struct {
	handler  http.Handler
	products *mockProductRepository
	orders   *mockOrderRepository
	manager  *session.Manager
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	logger := zap.NewNop()

	products := newMockProductRepository(testProducts()...)
	orders := newMockOrderRepository()
	manager := session.NewManager(session.NewMemoryKV(), session.ManagerOptions{
		KeyPrefix:       "test",
		DefaultAdminKey: testAdminKey,
	}, logger)

	engine := cart.NewEngine(logger, nil)
	catalogService := service.NewCatalogService(products, nil, logger)
	orderService := service.NewOrderService(orders, engine, nil, logger)
	adminService := service.NewAdminService(logger)
	bundleService := service.NewBundleService(service.StarterBundles(), logger)
	dashboardService := service.NewDashboardService(catalogService, orderService)

	requireAdmin := middleware.RequireAdmin(adminService, logger)
	noLimit := func(next http.Handler) http.Handler { return next }

	router := chi.NewRouter()
	router.Use(middleware.SessionMiddleware(manager, middleware.SessionConfig{
		Secret: testSessionSecret,
		TTL:    time.Hour,
	}, logger))

	NewCatalogHandler(catalogService, logger).RegisterRoutes(router, requireAdmin)
	NewCartHandler(engine, catalogService, orderService, logger).RegisterRoutes(router, noLimit)
	NewAdminHandler(adminService, dashboardService, logger).RegisterRoutes(router, requireAdmin)
	NewOrderHandler(orderService, logger).RegisterRoutes(router, requireAdmin)
	NewBundleHandler(bundleService, logger).RegisterRoutes(router, requireAdmin)
	NewEventsHandler(logger, 20*time.Millisecond).RegisterRoutes(router)

	return &testStore{
		handler:  router,
		products: products,
		orders:   orders,
		manager:  manager,
	}
}

// visitor is one browser: it keeps the session cookie between requests
type visitor struct {
	t      *testing.T
	store  *testStore
	cookie *http.Cookie
}

func (s *testStore) visitor(t *testing.T) *visitor {
	return &visitor{t: t, store: s}
}

func (v *visitor) do(method, path string, body any) *httptest.ResponseRecorder {
	v.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			v.t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if v.cookie != nil {
		req.AddCookie(v.cookie)
	}

	w := httptest.NewRecorder()
	v.store.handler.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			v.cookie = cookie
		}
	}
	return w
}

// sessionID reads the session id out of the visitor's cookie
func (v *visitor) sessionID() string {
	v.t.Helper()
	if v.cookie == nil {
		v.t.Fatal("Visitor has no session cookie yet")
	}
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(v.cookie.Value, claims, func(*jwt.Token) (any, error) {
		return []byte(testSessionSecret), nil
	}); err != nil {
		v.t.Fatalf("Failed to parse session cookie: %v", err)
	}
	return claims.Subject
}

func (v *visitor) login() {
	v.t.Helper()
	if w := v.do("POST", "/api/admin/login", map[string]string{"key": testAdminKey}); w.Code != http.StatusOK {
		v.t.Fatalf("Admin login failed with %d: %s", w.Code, w.Body.String())
	}
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}
