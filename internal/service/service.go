package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bukukas/internal/cache"
	"bukukas/internal/debt"
	"bukukas/internal/domain"
	"bukukas/internal/inventory"
	"bukukas/internal/ledger"
	"bukukas/internal/rates"
	"bukukas/internal/store"
	"bukukas/internal/xid"
)

// Service glues the projection core to the repository: writes go
// through here so costing happens at entry time, reads snapshot the
// history once and hand it to the pure ledger functions. Projection
// results are cached under keys that include the store revision, so a
// cache hit is always consistent with the current history.
type Service struct {
	repo   store.Repository
	rates  *rates.Table
	cache  cache.ProjectionCache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func New(repo store.Repository, table *rates.Table, projCache cache.ProjectionCache, ttl time.Duration, logger *zap.Logger) *Service {
	if table == nil {
		table = rates.Default()
	}
	if projCache == nil {
		projCache = cache.NoopProjectionCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Service{
		repo:   repo,
		rates:  table,
		cache:  projCache,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *Service) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	tx, err := s.repo.GetTransactionByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	return *tx, nil
}

// RecordTransaction validates and appends one history entry. Purchase
// receipts re-blend the weighted-average cost of every product they
// touch before the record is stored; multiple lines for the same
// product in one request blend in line order.
func (s *Service) RecordTransaction(ctx context.Context, req domain.TransactionRequest) (domain.Transaction, error) {
	tx, err := s.transactionFromRequest(req)
	if err != nil {
		return domain.Transaction{}, err
	}
	tx.ID = xid.New("txn")
	tx.CreatedAt = s.now().UTC()

	if err := s.applyCosting(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}

	created, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return domain.Transaction{}, err
	}
	s.logger.Info("transaction recorded",
		zap.String("id", created.ID),
		zap.String("category", string(created.Category)),
		zap.Int64("amount_cents", created.AmountCents))
	return *created, nil
}

// UpdateTransaction replaces an existing entry wholesale. Costs blended
// when the original entry was recorded are left alone: the average cost
// reflects what was known at entry time, and rewriting it would silently
// reprice every later issue.
func (s *Service) UpdateTransaction(ctx context.Context, id string, req domain.TransactionRequest) (domain.Transaction, error) {
	existing, err := s.repo.GetTransactionByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	tx, err := s.transactionFromRequest(req)
	if err != nil {
		return domain.Transaction{}, err
	}
	tx.ID = existing.ID
	tx.CreatedAt = existing.CreatedAt

	replaced, err := s.repo.ReplaceTransaction(ctx, tx)
	if err != nil {
		return domain.Transaction{}, err
	}
	return *replaced, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) transactionFromRequest(req domain.TransactionRequest) (domain.Transaction, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return domain.Transaction{}, domain.ErrInconsistentLineItem
	}

	kind := domain.Kind(strings.ToLower(strings.TrimSpace(req.Kind)))
	tx := domain.Transaction{
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		AmountCents: req.AmountCents,
		Kind:        kind,
		Category:    domain.ParseCategory(req.Category, kind),
		CustomerID:  strings.TrimSpace(req.CustomerID),
		SupplierID:  strings.TrimSpace(req.SupplierID),
		Channel:     domain.Channel(strings.ToLower(strings.TrimSpace(req.Channel))).Normalize(),
		Items:       req.Items,
	}
	if tx.AmountCents == 0 && len(tx.Items) > 0 {
		for _, item := range tx.Items {
			tx.AmountCents += item.TotalCents()
		}
	}
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// applyCosting blends the weighted-average cost for each purchase line
// and persists the new per-product costs. Lines referencing a product
// no longer in the catalog are left alone; the record itself is still
// valid history.
func (s *Service) applyCosting(ctx context.Context, tx domain.Transaction) error {
	if tx.Category != domain.CategoryPurchase || len(tx.Items) == 0 {
		return nil
	}

	snap, _, err := s.repo.Snapshot(ctx)
	if err != nil {
		return err
	}

	type costState struct {
		stock int64
		cost  int64
	}
	states := make(map[string]costState, len(tx.Items))

	for _, item := range tx.Items {
		product, err := s.repo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return err
		}

		st, ok := states[item.ProductID]
		if !ok {
			st = costState{stock: inventory.CurrentStock(snap, item.ProductID), cost: product.CostPriceCents}
		}

		blended, err := inventory.Blend(st.stock, st.cost, item.Quantity, item.UnitPriceCents)
		if err != nil {
			return err
		}
		states[item.ProductID] = costState{stock: st.stock + item.Quantity, cost: blended}

		product.CostPriceCents = blended
		if _, err := s.repo.UpdateProduct(ctx, *product); err != nil {
			return err
		}
	}
	return nil
}

// ApplyReceipt re-blends one product's cost for a standalone stock
// receipt, outside of any recorded transaction.
func (s *Service) ApplyReceipt(ctx context.Context, productID string, req domain.ReceiptRequest) (domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	snap, _, err := s.repo.Snapshot(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	updated, err := inventory.ApplyReceipt(snap, *product, req.Quantity, req.UnitPriceCents)
	if err != nil {
		return domain.Product{}, err
	}
	updated.OpeningStock += req.Quantity

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}
	return *saved, nil
}

func (s *Service) CurrentStock(ctx context.Context, productID string) (int64, error) {
	snap, _, err := s.repo.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if _, ok := snap.Product(productID); !ok {
		return 0, store.ErrNotFound
	}
	return inventory.CurrentStock(snap, productID), nil
}

func (s *Service) RevenueLedger(ctx context.Context, p ledger.Period) (ledger.RevenueResult, error) {
	snap, rev, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ledger.RevenueResult{}, err
	}

	key := projectionKey("revenue", rev, p, "")
	var out ledger.RevenueResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err = ledger.ProjectRevenue(snap, p, s.rates)
	if err != nil {
		return ledger.RevenueResult{}, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *Service) ExpenseLedger(ctx context.Context, p ledger.Period) (ledger.ExpenseResult, error) {
	snap, rev, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ledger.ExpenseResult{}, err
	}

	key := projectionKey("expense", rev, p, "")
	var out ledger.ExpenseResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err = ledger.ProjectExpense(snap, p)
	if err != nil {
		return ledger.ExpenseResult{}, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *Service) InventoryLedger(ctx context.Context, productID string, p ledger.Period) (ledger.InventoryResult, error) {
	snap, rev, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ledger.InventoryResult{}, err
	}

	key := projectionKey("inventory", rev, p, productID)
	var out ledger.InventoryResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err = ledger.ProjectInventory(snap, productID, p)
	if err != nil {
		return ledger.InventoryResult{}, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *Service) TaxLedger(ctx context.Context, p ledger.Period) (ledger.TaxResult, error) {
	snap, rev, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ledger.TaxResult{}, err
	}

	key := projectionKey("tax", rev, p, "")
	var out ledger.TaxResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err = ledger.ProjectTax(snap, p, s.rates)
	if err != nil {
		return ledger.TaxResult{}, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *Service) PayrollLedger(ctx context.Context, p ledger.Period) (ledger.PayrollResult, error) {
	snap, rev, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ledger.PayrollResult{}, err
	}

	key := projectionKey("payroll", rev, p, "")
	var out ledger.PayrollResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err = ledger.ProjectPayroll(snap, p, s.rates)
	if err != nil {
		return ledger.PayrollResult{}, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *Service) CashLedger(ctx context.Context, p ledger.Period) (ledger.SettlementResult, error) {
	return s.settlementLedger(ctx, p, domain.ChannelCash)
}

func (s *Service) BankLedger(ctx context.Context, p ledger.Period) (ledger.SettlementResult, error) {
	return s.settlementLedger(ctx, p, domain.ChannelBank)
}

func (s *Service) settlementLedger(ctx context.Context, p ledger.Period, channel domain.Channel) (ledger.SettlementResult, error) {
	snap, rev, err := s.repo.Snapshot(ctx)
	if err != nil {
		return ledger.SettlementResult{}, err
	}

	key := projectionKey(string(channel), rev, p, "")
	var out ledger.SettlementResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	if channel == domain.ChannelBank {
		out, err = ledger.ProjectBank(snap, p)
	} else {
		out, err = ledger.ProjectCash(snap, p)
	}
	if err != nil {
		return ledger.SettlementResult{}, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *Service) CustomerDebt(ctx context.Context, customerID string) (debt.Outstanding, error) {
	snap, _, err := s.repo.Snapshot(ctx)
	if err != nil {
		return debt.Outstanding{}, err
	}
	return debt.For(snap, customerID, debt.PartyCustomer, s.now()), nil
}

func (s *Service) SupplierDebt(ctx context.Context, supplierID string) (debt.Outstanding, error) {
	snap, _, err := s.repo.Snapshot(ctx)
	if err != nil {
		return debt.Outstanding{}, err
	}
	return debt.For(snap, supplierID, debt.PartySupplier, s.now()), nil
}

func (s *Service) CustomerDebts(ctx context.Context) ([]debt.Outstanding, error) {
	snap, _, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return debt.AllCustomers(snap, s.now()), nil
}

func (s *Service) SupplierDebts(ctx context.Context) ([]debt.Outstanding, error) {
	snap, _, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return debt.AllSuppliers(snap, s.now()), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductRequest) (domain.Product, error) {
	product := productFromRequest(req)
	if product.ID == "" {
		product.ID = xid.New("prd")
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductRequest) (domain.Product, error) {
	product := productFromRequest(req)
	product.ID = id
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	return *updated, nil
}

// DeleteProduct removes a product from the catalog. History lines
// referencing it stay put; ledgers fall back to zero cost and the
// default tax category for the orphaned lines.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.PartyRequest) (domain.Customer, error) {
	customer := domain.Customer{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		TaxNumber:   strings.TrimSpace(req.TaxNumber),
		BankAccount: strings.TrimSpace(req.BankAccount),
	}
	if customer.ID == "" {
		customer.ID = xid.New("cus")
	}
	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}
	return *created, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, req domain.PartyRequest) (domain.Customer, error) {
	customer := domain.Customer{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		TaxNumber:   strings.TrimSpace(req.TaxNumber),
		BankAccount: strings.TrimSpace(req.BankAccount),
	}
	updated, err := s.repo.UpdateCustomer(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}
	return *updated, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) CreateSupplier(ctx context.Context, req domain.PartyRequest) (domain.Supplier, error) {
	supplier := domain.Supplier{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		TaxNumber:   strings.TrimSpace(req.TaxNumber),
		BankAccount: strings.TrimSpace(req.BankAccount),
	}
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return domain.Supplier{}, err
	}
	return *created, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, req domain.PartyRequest) (domain.Supplier, error) {
	supplier := domain.Supplier{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		TaxNumber:   strings.TrimSpace(req.TaxNumber),
		BankAccount: strings.TrimSpace(req.BankAccount),
	}
	updated, err := s.repo.UpdateSupplier(ctx, supplier)
	if err != nil {
		return domain.Supplier{}, err
	}
	return *updated, nil
}

func productFromRequest(req domain.ProductRequest) domain.Product {
	return domain.Product{
		ID:             strings.TrimSpace(req.ID),
		Name:           strings.TrimSpace(req.Name),
		SalePriceCents: req.SalePriceCents,
		CostPriceCents: req.CostPriceCents,
		OpeningStock:   req.OpeningStock,
		Unit:           strings.TrimSpace(req.Unit),
		TaxCategory:    strings.TrimSpace(req.TaxCategory),
		VATPercent:     req.VATPercent,
	}
}

func projectionKey(name string, revision int64, p ledger.Period, extra string) string {
	key := fmt.Sprintf("ledger:%s:r%d:%s:%s", name, revision, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
	if extra != "" {
		key += ":" + extra
	}
	return key
}

// cacheGet loads and unmarshals a cached projection. Cache failures
// degrade to a recompute, never to an error.
func (s *Service) cacheGet(ctx context.Context, key string, dst any) bool {
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("projection cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		s.logger.Warn("projection cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("projection cache write failed", zap.String("key", key), zap.Error(err))
	}
}
