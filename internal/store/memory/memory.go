package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"bukukas/internal/domain"
	"bukukas/internal/store"
)

// Store is the in-memory repository used in dev mode and in tests.
// Transactions keep insertion order; Snapshot hands out copies so a
// projection can never observe a concurrent write.
type Store struct {
	mu           sync.RWMutex
	revision     int64
	transactions []domain.Transaction
	products     map[string]domain.Product
	customers    map[string]domain.Customer
	suppliers    map[string]domain.Supplier
}

func New() *Store {
	return &Store{
		transactions: make([]domain.Transaction, 0, 128),
		products:     make(map[string]domain.Product),
		customers:    make(map[string]domain.Customer),
		suppliers:    make(map[string]domain.Supplier),
	}
}

// NewSeeded returns a store with a small demo catalog for running the
// server without a database.
func NewSeeded() *Store {
	s := New()
	for _, p := range []domain.Product{
		{ID: "prd-rice-5kg", Name: "Rice 5kg", SalePriceCents: 1450000, CostPriceCents: 1200000, OpeningStock: 40, Unit: "bag", TaxCategory: "distribution"},
		{ID: "prd-cooking-oil", Name: "Cooking Oil 1L", SalePriceCents: 520000, CostPriceCents: 430000, OpeningStock: 60, Unit: "bottle", TaxCategory: "distribution"},
		{ID: "prd-delivery", Name: "Local Delivery", SalePriceCents: 300000, CostPriceCents: 0, OpeningStock: 0, Unit: "trip", TaxCategory: "services"},
	} {
		s.products[p.ID] = p
	}
	for _, c := range []domain.Customer{
		{ID: "cus-minh", Name: "Minh Grocery"},
		{ID: "cus-lan", Name: "Lan Coffee Corner"},
	} {
		s.customers[c.ID] = c
	}
	for _, sup := range []domain.Supplier{
		{ID: "sup-delta", Name: "Delta Wholesale"},
	} {
		s.suppliers[sup.ID] = sup
	}
	return s
}

func (s *Store) Snapshot(_ context.Context) (*domain.Snapshot, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &domain.Snapshot{
		Transactions: make([]domain.Transaction, len(s.transactions)),
		Products:     make(map[string]domain.Product, len(s.products)),
		Customers:    make(map[string]domain.Customer, len(s.customers)),
		Suppliers:    make(map[string]domain.Supplier, len(s.suppliers)),
	}
	copy(snap.Transactions, s.transactions)
	for id, p := range s.products {
		snap.Products[id] = p
	}
	for id, c := range s.customers {
		snap.Customers[id] = c
	}
	for id, sup := range s.suppliers {
		snap.Suppliers[id] = sup
	}
	return snap, s.revision, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *Store) GetTransactionByID(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions {
		if tx.ID == id {
			found := tx
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if tx.ID == "" {
		return nil, store.ErrInvalidRecord
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.transactions {
		if existing.ID == tx.ID {
			return nil, store.ErrInvalidRecord
		}
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	s.transactions = append(s.transactions, tx)
	s.revision++
	created := tx
	return &created, nil
}

func (s *Store) ReplaceTransaction(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.transactions {
		if existing.ID == tx.ID {
			tx.CreatedAt = existing.CreatedAt
			s.transactions[i] = tx
			s.revision++
			replaced := tx
			return &replaced, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.transactions {
		if existing.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			s.revision++
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := p
	return &found, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.SalePriceCents < 0 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrInvalidRecord
	}
	s.products[product.ID] = product
	s.revision++
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.SalePriceCents < 0 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.products[product.ID] = product
	s.revision++
	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.products, id)
	s.revision++
	return nil
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].Name < customers[j].Name
	})
	return customers, nil
}

func (s *Store) GetCustomerByID(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := c
	return &found, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.ID == "" || customer.Name == "" {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[customer.ID]; exists {
		return nil, store.ErrInvalidRecord
	}
	s.customers[customer.ID] = customer
	s.revision++
	created := customer
	return &created, nil
}

func (s *Store) UpdateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.ID == "" || customer.Name == "" {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[customer.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.customers[customer.ID] = customer
	s.revision++
	updated := customer
	return &updated, nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	suppliers := make([]domain.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		suppliers = append(suppliers, sup)
	}
	sort.Slice(suppliers, func(i, j int) bool {
		return suppliers[i].Name < suppliers[j].Name
	})
	return suppliers, nil
}

func (s *Store) GetSupplierByID(_ context.Context, id string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := sup
	return &found, nil
}

func (s *Store) CreateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" || supplier.Name == "" {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.suppliers[supplier.ID]; exists {
		return nil, store.ErrInvalidRecord
	}
	s.suppliers[supplier.ID] = supplier
	s.revision++
	created := supplier
	return &created, nil
}

func (s *Store) UpdateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" || supplier.Name == "" {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.suppliers[supplier.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.suppliers[supplier.ID] = supplier
	s.revision++
	updated := supplier
	return &updated, nil
}
