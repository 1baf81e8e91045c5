package httpapi_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/order"
	"github.com/artisanmarket/storefront/internal/user"
)

// CatalogRepositoryMock is a map-backed catalog.Repository for handler
// tests. Individual Func fields override the default behavior.
type CatalogRepositoryMock struct {
	mu       sync.Mutex
	products map[string]catalog.Product
	reviews  map[string][]catalog.Review

	GetByIDFunc func(ctx context.Context, productID string) (*catalog.Product, error)
}

func NewCatalogRepositoryMock(products ...catalog.Product) *CatalogRepositoryMock {
	m := &CatalogRepositoryMock{
		products: make(map[string]catalog.Product),
		reviews:  make(map[string][]catalog.Review),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *CatalogRepositoryMock) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []catalog.Product
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *CatalogRepositoryMock) GetByID(ctx context.Context, productID string) (*catalog.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, productID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

func (m *CatalogRepositoryMock) Create(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.products[p.ID] = *p
	return nil
}

func (m *CatalogRepositoryMock) Update(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.ID]; !ok {
		return catalog.ErrNotFound
	}
	m.products[p.ID] = *p
	return nil
}

func (m *CatalogRepositoryMock) Delete(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[productID]; !ok {
		return catalog.ErrNotFound
	}
	delete(m.products, productID)
	return nil
}

func (m *CatalogRepositoryMock) AddReview(ctx context.Context, rev *catalog.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	m.reviews[rev.ProductID] = append(m.reviews[rev.ProductID], *rev)
	return nil
}

func (m *CatalogRepositoryMock) ListReviews(ctx context.Context, productID string) ([]catalog.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.reviews[productID], nil
}

// UserRepositoryMock is a map-backed user.Repository.
type UserRepositoryMock struct {
	mu    sync.Mutex
	users map[string]user.User
}

func NewUserRepositoryMock() *UserRepositoryMock {
	return &UserRepositoryMock{users: make(map[string]user.User)}
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	m.users[u.ID] = *u
	return nil
}

func (m *UserRepositoryMock) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.users), nil
}

// OrderRepositoryMock is a map-backed order.Repository.
type OrderRepositoryMock struct {
	mu     sync.Mutex
	orders map[string]order.Order

	CreateFunc func(ctx context.Context, o *order.Order) error
}

func NewOrderRepositoryMock() *OrderRepositoryMock {
	return &OrderRepositoryMock{orders: make(map[string]order.Order)}
}

func (m *OrderRepositoryMock) Create(ctx context.Context, o *order.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders[o.ID] = *o
	return nil
}

func (m *OrderRepositoryMock) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *OrderRepositoryMock) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *OrderRepositoryMock) List(ctx context.Context) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []order.Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *OrderRepositoryMock) MarkPaid(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	o.Paid = true
	m.orders[orderID] = o
	return nil
}

func (m *OrderRepositoryMock) SetStatus(ctx context.Context, orderID string, status order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	m.orders[orderID] = o
	return nil
}

func (m *OrderRepositoryMock) Summary(ctx context.Context) (order.SummaryStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := order.SummaryStats{OrderCount: len(m.orders)}
	for _, o := range m.orders {
		stats.Revenue = stats.Revenue.Add(o.Total)
	}
	return stats, nil
}
