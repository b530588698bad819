package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"scent-store/internal/document"
	"scent-store/internal/domain"
	"scent-store/internal/repository"
	"scent-store/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errGatewayDown = errors.New("gateway unavailable")

// Mock repositories for testing
type mockProductRepository struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	order    []string
	fail     bool
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[string]*domain.Product)}
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errGatewayDown
	}
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
	if m.fail {
		return nil, errGatewayDown
	}
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
	if m.fail {
		return 0, errGatewayDown
	}
	return len(m.products), nil
}

func (m *mockProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errGatewayDown
	}
	m.put(product)
	return nil
}

func (m *mockProductRepository) UpsertBatch(ctx context.Context, products []*domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errGatewayDown
	}
	for _, product := range products {
		m.put(product)
	}
	return nil
}

func (m *mockProductRepository) Patch(ctx context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errGatewayDown
	}
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
	// Round trip to plain JSON, as the database would
	merged, err := document.SanitizeObject(doc)
	if err != nil {
		return err
	}
	m.products[id] = repository.MapProduct(id, merged)
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errGatewayDown
	}
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
	id := uuid.New().String()
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
	if m.fail {
		return nil, errGatewayDown
	}
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
	if m.fail {
		return nil, errGatewayDown
	}
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
	if m.fail {
		return errGatewayDown
	}
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
	if m.fail {
		return errGatewayDown
	}
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

type recordingRecorder struct {
	mu       sync.Mutex
	placed   int
	failures []string
}

func (r *recordingRecorder) OrderPlaced(domain.PaymentMethod, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placed++
}

func (r *recordingRecorder) GatewayError(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, op)
}

func newTestSession(id string) *session.Session {
	manager := session.NewManager(session.NewMemoryKV(), session.ManagerOptions{
		KeyPrefix:       "test",
		DefaultAdminKey: "Khazina123",
	}, zap.NewNop())
	return manager.Session(id)
}

func validCustomer(method domain.PaymentMethod) domain.Customer {
	return domain.Customer{
		Name:          "Ayesha Khan",
		Phone:         "03001234567",
		Address:       "House 1, Street 2",
		City:          "Lahore",
		PaymentMethod: method,
	}
}
