package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"bukukas/internal/domain"
	"bukukas/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL,
			tx_date DATE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount_cents BIGINT NOT NULL,
			kind TEXT NOT NULL,
			category TEXT NOT NULL,
			customer_id TEXT NOT NULL DEFAULT '',
			supplier_id TEXT NOT NULL DEFAULT '',
			channel TEXT NOT NULL DEFAULT '',
			items JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (tx_date, seq)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			sale_price_cents BIGINT NOT NULL DEFAULT 0,
			cost_price_cents BIGINT NOT NULL DEFAULT 0,
			opening_stock BIGINT NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT '',
			tax_category TEXT NOT NULL DEFAULT '',
			vat_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			tax_number TEXT NOT NULL DEFAULT '',
			bank_account TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			tax_number TEXT NOT NULL DEFAULT '',
			bank_account TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			singleton BOOLEAN PRIMARY KEY DEFAULT true,
			revision BIGINT NOT NULL DEFAULT 0
		)`,
		`INSERT INTO meta (singleton, revision) VALUES (true, 0) ON CONFLICT DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// bumpRevision must run inside the same transaction as the write it
// accounts for.
func bumpRevision(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `UPDATE meta SET revision = revision + 1 WHERE singleton`)
	return err
}

func (s *Store) Snapshot(ctx context.Context) (*domain.Snapshot, int64, error) {
	transactions, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, 0, err
	}
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, 0, err
	}
	customers, err := s.ListCustomers(ctx)
	if err != nil {
		return nil, 0, err
	}
	suppliers, err := s.ListSuppliers(ctx)
	if err != nil {
		return nil, 0, err
	}

	var revision int64
	if err := s.db.QueryRowContext(ctx, `SELECT revision FROM meta WHERE singleton`).Scan(&revision); err != nil {
		return nil, 0, err
	}

	snap := &domain.Snapshot{
		Transactions: transactions,
		Products:     make(map[string]domain.Product, len(products)),
		Customers:    make(map[string]domain.Customer, len(customers)),
		Suppliers:    make(map[string]domain.Supplier, len(suppliers)),
	}
	for _, p := range products {
		snap.Products[p.ID] = p
	}
	for _, c := range customers {
		snap.Customers[c.ID] = c
	}
	for _, sup := range suppliers {
		snap.Suppliers[sup.ID] = sup
	}
	return snap, revision, nil
}

const transactionColumns = `id, tx_date, description, amount_cents, kind, category, customer_id, supplier_id, channel, items, created_at`

func scanTransaction(scan func(dest ...any) error) (domain.Transaction, error) {
	var tx domain.Transaction
	var kind, category, channel string
	var items []byte
	if err := scan(&tx.ID, &tx.Date, &tx.Description, &tx.AmountCents, &kind, &category,
		&tx.CustomerID, &tx.SupplierID, &channel, &items, &tx.CreatedAt); err != nil {
		return domain.Transaction{}, err
	}
	tx.Kind = domain.Kind(kind)
	tx.Category = domain.Category(category)
	tx.Channel = domain.Channel(channel)
	tx.Date = tx.Date.UTC()
	tx.CreatedAt = tx.CreatedAt.UTC()
	if len(items) > 0 {
		if err := json.Unmarshal(items, &tx.Items); err != nil {
			return domain.Transaction{}, err
		}
	}
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY tx_date, seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, 256)
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *Store) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1
	`, id)

	tx, err := scanTransaction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if tx.ID == "" {
		return nil, store.ErrInvalidRecord
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	items, err := json.Marshal(tx.Items)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback() }()

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO transactions (id, tx_date, description, amount_cents, kind, category, customer_id, supplier_id, channel, items, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, tx.ID, tx.Date, tx.Description, tx.AmountCents, string(tx.Kind), string(tx.Category),
		tx.CustomerID, tx.SupplierID, string(tx.Channel), items, tx.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}
	if err := bumpRevision(ctx, dbTx); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, err
	}

	created := tx
	return &created, nil
}

func (s *Store) ReplaceTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	items, err := json.Marshal(tx.Items)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback() }()

	res, err := dbTx.ExecContext(ctx, `
		UPDATE transactions
		SET tx_date = $2, description = $3, amount_cents = $4, kind = $5, category = $6,
		    customer_id = $7, supplier_id = $8, channel = $9, items = $10
		WHERE id = $1
	`, tx.ID, tx.Date, tx.Description, tx.AmountCents, string(tx.Kind), string(tx.Category),
		tx.CustomerID, tx.SupplierID, string(tx.Channel), items)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	if err := bumpRevision(ctx, dbTx); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, err
	}

	replaced := tx
	return &replaced, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	res, err := dbTx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	if err := bumpRevision(ctx, dbTx); err != nil {
		return err
	}
	return dbTx.Commit()
}

const productColumns = `id, name, sale_price_cents, cost_price_cents, opening_stock, unit, tax_category, vat_percent`

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SalePriceCents, &p.CostPriceCents,
			&p.OpeningStock, &p.Unit, &p.TaxCategory, &p.VATPercent); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.SalePriceCents, &p.CostPriceCents,
		&p.OpeningStock, &p.Unit, &p.TaxCategory, &p.VATPercent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.SalePriceCents < 0 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidRecord
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback() }()

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO products (id, name, sale_price_cents, cost_price_cents, opening_stock, unit, tax_category, vat_percent, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now(),now())
	`, product.ID, product.Name, product.SalePriceCents, product.CostPriceCents,
		product.OpeningStock, product.Unit, product.TaxCategory, product.VATPercent)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}
	if err := bumpRevision(ctx, dbTx); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.SalePriceCents < 0 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidRecord
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback() }()

	res, err := dbTx.ExecContext(ctx, `
		UPDATE products
		SET name = $2, sale_price_cents = $3, cost_price_cents = $4, opening_stock = $5,
		    unit = $6, tax_category = $7, vat_percent = $8, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.SalePriceCents, product.CostPriceCents,
		product.OpeningStock, product.Unit, product.TaxCategory, product.VATPercent)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	if err := bumpRevision(ctx, dbTx); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, err
	}

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	res, err := dbTx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	if err := bumpRevision(ctx, dbTx); err != nil {
		return err
	}
	return dbTx.Commit()
}

const partyColumns = `id, name, phone, address, tax_number, bank_account`

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+partyColumns+` FROM customers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 64)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.TaxNumber, &c.BankAccount); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `SELECT `+partyColumns+` FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.TaxNumber, &c.BankAccount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.ID == "" || customer.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	err := s.upsertParty(ctx, `
		INSERT INTO customers (id, name, phone, address, tax_number, bank_account)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, customer.ID, customer.Name, customer.Phone, customer.Address, customer.TaxNumber, customer.BankAccount)
	if err != nil {
		return nil, err
	}
	created := customer
	return &created, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.ID == "" || customer.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	err := s.updateParty(ctx, `
		UPDATE customers
		SET name = $2, phone = $3, address = $4, tax_number = $5, bank_account = $6
		WHERE id = $1
	`, customer.ID, customer.Name, customer.Phone, customer.Address, customer.TaxNumber, customer.BankAccount)
	if err != nil {
		return nil, err
	}
	updated := customer
	return &updated, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+partyColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0, 64)
	for rows.Next() {
		var sup domain.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Phone, &sup.Address, &sup.TaxNumber, &sup.BankAccount); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, sup)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *Store) GetSupplierByID(ctx context.Context, id string) (*domain.Supplier, error) {
	var sup domain.Supplier
	err := s.db.QueryRowContext(ctx, `SELECT `+partyColumns+` FROM suppliers WHERE id = $1`, id).
		Scan(&sup.ID, &sup.Name, &sup.Phone, &sup.Address, &sup.TaxNumber, &sup.BankAccount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &sup, nil
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" || supplier.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	err := s.upsertParty(ctx, `
		INSERT INTO suppliers (id, name, phone, address, tax_number, bank_account)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, supplier.ID, supplier.Name, supplier.Phone, supplier.Address, supplier.TaxNumber, supplier.BankAccount)
	if err != nil {
		return nil, err
	}
	created := supplier
	return &created, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" || supplier.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	err := s.updateParty(ctx, `
		UPDATE suppliers
		SET name = $2, phone = $3, address = $4, tax_number = $5, bank_account = $6
		WHERE id = $1
	`, supplier.ID, supplier.Name, supplier.Phone, supplier.Address, supplier.TaxNumber, supplier.BankAccount)
	if err != nil {
		return nil, err
	}
	updated := supplier
	return &updated, nil
}

func (s *Store) upsertParty(ctx context.Context, query string, args ...any) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	if _, err := dbTx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidRecord
		}
		return err
	}
	if err := bumpRevision(ctx, dbTx); err != nil {
		return err
	}
	return dbTx.Commit()
}

func (s *Store) updateParty(ctx context.Context, query string, args ...any) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	res, err := dbTx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	if err := bumpRevision(ctx, dbTx); err != nil {
		return err
	}
	return dbTx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
