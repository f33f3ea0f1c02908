// Package tests provides in-memory doubles for the repository, Redis and
// gateway dependencies. All of them are safe for concurrent use.
package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/flutterwave"
	"storefront/internal/redis"
	"storefront/internal/repository"
	"storefront/internal/service"
)

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[int64]*domain.Payment
	nextID   int64

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[int64]*domain.Payment)}
}

// AddPayment stores a payment as is, assigning an ID if it has none.
func (m *MockPaymentRepository) AddPayment(p *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	} else if p.ID > m.nextID {
		m.nextID = p.ID
	}
	c := *p
	m.payments[p.ID] = &c
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TxRef == payment.TxRef {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	now := time.Now()
	payment.ID = m.nextID
	payment.CreatedAt = now
	payment.UpdatedAt = now
	c := *payment
	m.payments[payment.ID] = &c
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *MockPaymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.TxRef == txRef {
			c := *p
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetByTxRefForUpdate relies on MockTxRunner for serialization.
func (m *MockPaymentRepository) GetByTxRefForUpdate(ctx context.Context, txRef string) (*domain.Payment, error) {
	return m.GetByTxRef(ctx, txRef)
}

func (m *MockPaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Payment
	for _, p := range m.payments {
		if filter.UserID != 0 && p.UserID != filter.UserID {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.ID]; !ok {
		return repository.ErrNotFound
	}
	payment.UpdatedAt = time.Now()
	c := *payment
	m.payments[payment.ID] = &c
	return nil
}

// GetPayment returns a copy of the stored payment, or nil.
func (m *MockPaymentRepository) GetPayment(id int64) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

func (m *MockPaymentRepository) snapshot() map[int64]domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := make(map[int64]domain.Payment, len(m.payments))
	for id, p := range m.payments {
		s[id] = *p
	}
	return s
}

func (m *MockPaymentRepository) restore(s map[int64]domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = make(map[int64]*domain.Payment, len(s))
	for id, p := range s {
		c := p
		m.payments[id] = &c
	}
}

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64

	// Counters for verification
	ConfirmCallCount int32
	ConfirmedCount   int32

	// Error injection
	CreateError  error
	ConfirmError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[int64]*domain.Order)}
}

// AddOrder stores an order as is, assigning an ID if it has none.
func (m *MockOrderRepository) AddOrder(o *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		m.nextID++
		o.ID = m.nextID
	} else if o.ID > m.nextID {
		m.nextID = o.ID
	}
	c := *o
	m.orders[o.ID] = &c
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now()
	order.ID = m.nextID
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].ID = int64(i + 1)
		order.Items[i].OrderID = order.ID
	}
	c := *order
	c.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &c
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if filter.BuyerID != 0 && o.BuyerID != filter.BuyerID {
			continue
		}
		c := *o
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (m *MockOrderRepository) ConfirmIfPending(ctx context.Context, id int64) (bool, error) {
	atomic.AddInt32(&m.ConfirmCallCount, 1)
	if m.ConfirmError != nil {
		return false, m.ConfirmError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != domain.OrderStatusPending {
		return false, nil
	}
	o.Status = domain.OrderStatusConfirmed
	o.UpdatedAt = time.Now()
	atomic.AddInt32(&m.ConfirmedCount, 1)
	return true, nil
}

// GetOrder returns a copy of the stored order, or nil.
func (m *MockOrderRepository) GetOrder(id int64) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil
	}
	c := *o
	return &c
}

func (m *MockOrderRepository) snapshot() map[int64]domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := make(map[int64]domain.Order, len(m.orders))
	for id, o := range m.orders {
		s[id] = *o
	}
	return s
}

func (m *MockOrderRepository) restore(s map[int64]domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = make(map[int64]*domain.Order, len(s))
	for id, o := range s {
		c := o
		m.orders[id] = &c
	}
}

// ──────────────────────────────────────────────
// MOCK TX RUNNER
// ──────────────────────────────────────────────

// MockTxRunner runs transactions one at a time against the mock
// repositories and restores their previous contents when fn fails.
type MockTxRunner struct {
	mu       sync.Mutex
	Payments *MockPaymentRepository
	Orders   *MockOrderRepository

	TxCount       int32
	RollbackCount int32
}

// NewMockTxRunner creates a tx runner over the given mocks.
func NewMockTxRunner(payments *MockPaymentRepository, orders *MockOrderRepository) *MockTxRunner {
	return &MockTxRunner{Payments: payments, Orders: orders}
}

func (r *MockTxRunner) WithinTx(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	atomic.AddInt32(&r.TxCount, 1)

	payments := r.Payments.snapshot()
	orders := r.Orders.snapshot()

	if err := fn(repository.TxRepositories{Payments: r.Payments, Orders: r.Orders}); err != nil {
		atomic.AddInt32(&r.RollbackCount, 1)
		r.Payments.restore(payments)
		r.Orders.restore(orders)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK PRODUCT / USER REPOSITORIES
// ──────────────────────────────────────────────

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mu         sync.RWMutex
	products   map[int64]*domain.Product
	referenced map[int64]bool
	nextID     int64
}

// NewMockProductRepository creates a new mock product repository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products:   make(map[int64]*domain.Product),
		referenced: make(map[int64]bool),
	}
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now()
	product.ID = m.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	c := *product
	m.products[product.ID] = &c
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	c := *product
	m.products[product.ID] = &c
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	if m.referenced[id] {
		return repository.ErrReferenced
	}
	delete(m.products, id)
	return nil
}

// MarkOrdered makes Delete fail as if an order item pointed at the product.
func (m *MockProductRepository) MarkOrdered(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.referenced[id] = true
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[int64]*domain.Category
	nextID     int64
}

// NewMockCategoryRepository creates a new mock category repository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{categories: make(map[int64]*domain.Category)}
}

func (m *MockCategoryRepository) nameTaken(name string, except int64) bool {
	for id, c := range m.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(category.Name, 0) {
		return repository.ErrDuplicate
	}
	m.nextID++
	now := time.Now()
	category.ID = m.nextID
	category.CreatedAt = now
	category.UpdatedAt = now
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.nameTaken(category.Name, category.ID) {
		return repository.ErrDuplicate
	}
	category.UpdatedAt = time.Now()
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION REPOSITORY / CACHE
// ──────────────────────────────────────────────

// MockLocationRepository is a mock implementation of LocationRepository.
type MockLocationRepository struct {
	mu        sync.RWMutex
	states    map[int64]*domain.State
	locations map[int64]*domain.Location
	nextID    int64

	ListCallCount int32
}

// NewMockLocationRepository creates a new mock location repository.
func NewMockLocationRepository() *MockLocationRepository {
	return &MockLocationRepository{
		states:    make(map[int64]*domain.State),
		locations: make(map[int64]*domain.Location),
	}
}

// AddState stores a state directly and returns its ID.
func (m *MockLocationRepository) AddState(name, code string, active bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.states[m.nextID] = &domain.State{ID: m.nextID, Name: name, Code: code, IsActive: active}
	return m.nextID
}

// AddLocation stores a location directly and returns its ID.
func (m *MockLocationRepository) AddLocation(stateID int64, name, fee string, active bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.locations[m.nextID] = &domain.Location{
		ID:          m.nextID,
		StateID:     stateID,
		Name:        name,
		DeliveryFee: decimal.RequireFromString(fee),
		IsActive:    active,
	}
	return m.nextID
}

func (m *MockLocationRepository) CreateState(ctx context.Context, state *domain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.states {
		if s.Name == state.Name || (state.Code != "" && s.Code == state.Code) {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	state.ID = m.nextID
	state.CreatedAt = time.Now()
	state.UpdatedAt = state.CreatedAt
	c := *state
	m.states[state.ID] = &c
	return nil
}

func (m *MockLocationRepository) GetState(ctx context.Context, id int64) (*domain.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (m *MockLocationRepository) ListStates(ctx context.Context) ([]*domain.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.State, 0, len(m.states))
	for _, s := range m.states {
		if s.IsActive {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockLocationRepository) CreateLocation(ctx context.Context, location *domain.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.states[location.StateID]; !ok {
		return repository.ErrNotFound
	}
	for _, l := range m.locations {
		if l.StateID == location.StateID && l.Name == location.Name {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	location.ID = m.nextID
	location.CreatedAt = time.Now()
	location.UpdatedAt = location.CreatedAt
	c := *location
	m.locations[location.ID] = &c
	return nil
}

// activeLocation joins a location with its state. Caller holds mu.
func (m *MockLocationRepository) activeLocation(l *domain.Location) (*domain.Location, bool) {
	s, ok := m.states[l.StateID]
	if !ok || !s.IsActive || !l.IsActive {
		return nil, false
	}
	c := *l
	c.StateName = s.Name
	c.StateCode = s.Code
	return &c, true
}

func (m *MockLocationRepository) GetActiveLocation(ctx context.Context, id int64) (*domain.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	loc, ok := m.activeLocation(l)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return loc, nil
}

func (m *MockLocationRepository) ListActiveLocations(ctx context.Context, stateID int64) ([]*domain.Location, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Location, 0, len(m.locations))
	for _, l := range m.locations {
		if stateID != 0 && l.StateID != stateID {
			continue
		}
		if loc, ok := m.activeLocation(l); ok {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StateName != out[j].StateName {
			return out[i].StateName < out[j].StateName
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// MockLocationCache is an in-memory LocationCacheInterface.
type MockLocationCache struct {
	mu      sync.Mutex
	entries map[int64][]redis.CachedLocation

	GetError        error
	SetError        error
	InvalidateCount int32
}

// NewMockLocationCache creates a new mock location cache.
func NewMockLocationCache() *MockLocationCache {
	return &MockLocationCache{entries: make(map[int64][]redis.CachedLocation)}
}

func (m *MockLocationCache) GetActiveLocations(ctx context.Context, stateID int64) ([]redis.CachedLocation, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[stateID], nil
}

func (m *MockLocationCache) SetActiveLocations(ctx context.Context, stateID int64, locations []redis.CachedLocation) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[stateID] = append([]redis.CachedLocation{}, locations...)
	return nil
}

func (m *MockLocationCache) InvalidateLocations(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[int64][]redis.CachedLocation)
	return nil
}

// Cached reports whether a list for stateID is cached.
func (m *MockLocationCache) Cached(stateID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[stateID]
	return ok
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// FAKE GATEWAY
// ──────────────────────────────────────────────

// FakeGateway is an in-memory payment gateway.
type FakeGateway struct {
	mu           sync.Mutex
	transactions map[string]domain.TransactionRecord
	checkouts    []flutterwave.CheckoutRequest

	CheckoutLink  string
	CheckoutError error
	QueryError    error

	CheckoutCallCount int32
	QueryCallCount    int32
}

// NewFakeGateway creates a gateway that knows no transactions yet.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		transactions: make(map[string]domain.TransactionRecord),
		CheckoutLink: "https://checkout.flutterwave.test/pay/mock",
	}
}

// SetTransaction makes record the gateway's answer for its tx_ref.
func (g *FakeGateway) SetTransaction(record domain.TransactionRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transactions[record.TxRef] = record
}

// Checkouts returns the checkout requests received so far.
func (g *FakeGateway) Checkouts() []flutterwave.CheckoutRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]flutterwave.CheckoutRequest(nil), g.checkouts...)
}

func (g *FakeGateway) InitiateCheckout(ctx context.Context, req flutterwave.CheckoutRequest) (string, error) {
	atomic.AddInt32(&g.CheckoutCallCount, 1)
	g.mu.Lock()
	g.checkouts = append(g.checkouts, req)
	g.mu.Unlock()

	if g.CheckoutError != nil {
		return "", g.CheckoutError
	}
	return g.CheckoutLink, nil
}

func (g *FakeGateway) QueryTransactionByRef(ctx context.Context, txRef string) (*domain.TransactionRecord, error) {
	atomic.AddInt32(&g.QueryCallCount, 1)
	if g.QueryError != nil {
		return nil, g.QueryError
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	record, ok := g.transactions[txRef]
	if !ok {
		return nil, flutterwave.ErrNotYetAvailable
	}
	return &record, nil
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of the checkout lock store.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[int64]bool

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[int64]bool)}
}

func (m *MockLockStore) AcquireCheckoutLock(ctx context.Context, orderID int64, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[orderID] {
		return false, nil
	}
	m.locks[orderID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseCheckoutLock(ctx context.Context, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, orderID)
	return nil
}

// Hold marks an order as locked by someone else.
func (m *MockLockStore) Hold(orderID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[orderID] = true
}

// IsLocked reports whether the order is currently locked.
func (m *MockLockStore) IsLocked(orderID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[orderID]
}

// MockDeliveryStore is a mock implementation of the webhook delivery store.
type MockDeliveryStore struct {
	mu   sync.Mutex
	keys map[string]bool

	SeenError error
}

// NewMockDeliveryStore creates a new mock delivery store.
func NewMockDeliveryStore() *MockDeliveryStore {
	return &MockDeliveryStore{keys: make(map[string]bool)}
}

func (m *MockDeliveryStore) Seen(ctx context.Context, key string) (bool, error) {
	if m.SeenError != nil {
		return false, m.SeenError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[key], nil
}

func (m *MockDeliveryStore) Remember(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = true
	return nil
}

// Count returns the number of remembered deliveries.
func (m *MockDeliveryStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier counts notifications.
type MockNotifier struct {
	PaymentSuccessCount int32
	PaymentFailedCount  int32
	OrderConfirmedCount int32
	OrderUpdatedCount   int32
}

func (n *MockNotifier) NotifyPaymentSuccess(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&n.PaymentSuccessCount, 1)
	return nil
}

func (n *MockNotifier) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&n.PaymentFailedCount, 1)
	return nil
}

func (n *MockNotifier) NotifyOrderConfirmed(ctx context.Context, orderID, buyerID int64) error {
	atomic.AddInt32(&n.OrderConfirmedCount, 1)
	return nil
}

func (n *MockNotifier) NotifyOrderUpdated(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&n.OrderUpdatedCount, 1)
	return nil
}

// Ensure mocks implement interfaces.
var (
	_ repository.PaymentRepository  = (*MockPaymentRepository)(nil)
	_ repository.OrderRepository    = (*MockOrderRepository)(nil)
	_ repository.ProductRepository  = (*MockProductRepository)(nil)
	_ repository.CategoryRepository = (*MockCategoryRepository)(nil)
	_ repository.LocationRepository = (*MockLocationRepository)(nil)
	_ repository.UserRepository     = (*MockUserRepository)(nil)
	_ repository.TxRunner           = (*MockTxRunner)(nil)

	_ service.Gateway  = (*FakeGateway)(nil)
	_ service.Notifier = (*MockNotifier)(nil)

	_ redis.LockStoreInterface     = (*MockLockStore)(nil)
	_ redis.DeliveryStoreInterface = (*MockDeliveryStore)(nil)
	_ redis.LocationCacheInterface = (*MockLocationCache)(nil)
)
