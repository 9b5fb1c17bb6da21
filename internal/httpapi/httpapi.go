package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"bukukas/internal/domain"
	"bukukas/internal/inventory"
	"bukukas/internal/ledger"
	"bukukas/internal/service"
	"bukukas/internal/store"
)

type API struct {
	service       *service.Service
	allowedOrigin string
	logger        *zap.Logger
}

func New(svc *service.Service, allowedOrigin string, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		service:       svc,
		allowedOrigin: allowedOrigin,
		logger:        logger,
	}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)

	mux.HandleFunc("/api/v1/transactions", a.handleTransactions)
	mux.HandleFunc("/api/v1/transactions/", a.handleTransactionActions)

	mux.HandleFunc("/api/v1/ledgers/revenue", a.handleRevenueLedger)
	mux.HandleFunc("/api/v1/ledgers/expense", a.handleExpenseLedger)
	mux.HandleFunc("/api/v1/ledgers/tax", a.handleTaxLedger)
	mux.HandleFunc("/api/v1/ledgers/payroll", a.handlePayrollLedger)
	mux.HandleFunc("/api/v1/ledgers/cash", a.handleCashLedger)
	mux.HandleFunc("/api/v1/ledgers/bank", a.handleBankLedger)
	mux.HandleFunc("/api/v1/ledgers/inventory/", a.handleInventoryLedger)

	mux.HandleFunc("/api/v1/stock/", a.handleStock)

	mux.HandleFunc("/api/v1/products", a.handleProducts)
	mux.HandleFunc("/api/v1/products/", a.handleProductActions)
	mux.HandleFunc("/api/v1/customers", a.handleCustomers)
	mux.HandleFunc("/api/v1/customers/", a.handleCustomerActions)
	mux.HandleFunc("/api/v1/suppliers", a.handleSuppliers)
	mux.HandleFunc("/api/v1/suppliers/", a.handleSupplierActions)

	mux.HandleFunc("/api/v1/debts/customers", a.handleCustomerDebts)
	mux.HandleFunc("/api/v1/debts/customers/", a.handleCustomerDebt)
	mux.HandleFunc("/api/v1/debts/suppliers", a.handleSupplierDebts)
	mux.HandleFunc("/api/v1/debts/suppliers/", a.handleSupplierDebt)

	return a.withCORS(mux)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		transactions, err := a.service.ListTransactions(r.Context())
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
	case http.MethodPost:
		var req domain.TransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := a.service.RecordTransaction(r.Context(), req)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"transaction": created})
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleTransactionActions(w http.ResponseWriter, r *http.Request) {
	id := pathTail(r.URL.Path, "/api/v1/transactions/")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("transaction id required"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := a.service.GetTransaction(r.Context(), id)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transaction": tx})
	case http.MethodPut:
		var req domain.TransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := a.service.UpdateTransaction(r.Context(), id, req)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transaction": updated})
	case http.MethodDelete:
		if err := a.service.DeleteTransaction(r.Context(), id); err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleRevenueLedger(w http.ResponseWriter, r *http.Request) {
	a.handleLedger(w, r, func(p ledger.Period) (any, error) {
		return a.service.RevenueLedger(r.Context(), p)
	})
}

func (a *API) handleExpenseLedger(w http.ResponseWriter, r *http.Request) {
	a.handleLedger(w, r, func(p ledger.Period) (any, error) {
		return a.service.ExpenseLedger(r.Context(), p)
	})
}

func (a *API) handleTaxLedger(w http.ResponseWriter, r *http.Request) {
	a.handleLedger(w, r, func(p ledger.Period) (any, error) {
		return a.service.TaxLedger(r.Context(), p)
	})
}

func (a *API) handlePayrollLedger(w http.ResponseWriter, r *http.Request) {
	a.handleLedger(w, r, func(p ledger.Period) (any, error) {
		return a.service.PayrollLedger(r.Context(), p)
	})
}

func (a *API) handleCashLedger(w http.ResponseWriter, r *http.Request) {
	a.handleLedger(w, r, func(p ledger.Period) (any, error) {
		return a.service.CashLedger(r.Context(), p)
	})
}

func (a *API) handleBankLedger(w http.ResponseWriter, r *http.Request) {
	a.handleLedger(w, r, func(p ledger.Period) (any, error) {
		return a.service.BankLedger(r.Context(), p)
	})
}

func (a *API) handleLedger(w http.ResponseWriter, r *http.Request, project func(ledger.Period) (any, error)) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	p, err := periodFromQuery(r.URL.Query())
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := project(p)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ledger": result})
}

func (a *API) handleInventoryLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	productID := pathTail(r.URL.Path, "/api/v1/ledgers/inventory/")
	if productID == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("product id required"))
		return
	}
	p, err := periodFromQuery(r.URL.Query())
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.service.InventoryLedger(r.Context(), productID, p)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ledger": result})
}

func (a *API) handleStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	productID := pathTail(r.URL.Path, "/api/v1/stock/")
	if productID == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("product id required"))
		return
	}
	qty, err := a.service.CurrentStock(r.Context(), productID)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "stock": qty})
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := a.service.ListProducts(r.Context())
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	case http.MethodPost:
		var req domain.ProductRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := a.service.CreateProduct(r.Context(), req)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"product": created})
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductActions(w http.ResponseWriter, r *http.Request) {
	tail := pathTail(r.URL.Path, "/api/v1/products/")
	if tail == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("product id required"))
		return
	}

	if id, ok := strings.CutSuffix(tail, "/receipts"); ok {
		if r.Method != http.MethodPost {
			a.writeMethodNotAllowed(w)
			return
		}
		var req domain.ReceiptRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		product, err := a.service.ApplyReceipt(r.Context(), id, req)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"product": product})
		return
	}

	switch r.Method {
	case http.MethodGet:
		product, err := a.service.GetProduct(r.Context(), tail)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"product": product})
	case http.MethodPut:
		var req domain.ProductRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := a.service.UpdateProduct(r.Context(), tail, req)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"product": updated})
	case http.MethodDelete:
		if err := a.service.DeleteProduct(r.Context(), tail); err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		customers, err := a.service.ListCustomers(r.Context())
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
	case http.MethodPost:
		var req domain.PartyRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := a.service.CreateCustomer(r.Context(), req)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"customer": created})
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleCustomerActions(w http.ResponseWriter, r *http.Request) {
	id := pathTail(r.URL.Path, "/api/v1/customers/")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("customer id required"))
		return
	}
	if r.Method != http.MethodPut {
		a.writeMethodNotAllowed(w)
		return
	}
	var req domain.PartyRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := a.service.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer": updated})
}

func (a *API) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		suppliers, err := a.service.ListSuppliers(r.Context())
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
	case http.MethodPost:
		var req domain.PartyRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := a.service.CreateSupplier(r.Context(), req)
		if err != nil {
			a.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"supplier": created})
	default:
		a.writeMethodNotAllowed(w)
	}
}

func (a *API) handleSupplierActions(w http.ResponseWriter, r *http.Request) {
	id := pathTail(r.URL.Path, "/api/v1/suppliers/")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("supplier id required"))
		return
	}
	if r.Method != http.MethodPut {
		a.writeMethodNotAllowed(w)
		return
	}
	var req domain.PartyRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := a.service.UpdateSupplier(r.Context(), id, req)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"supplier": updated})
}

func (a *API) handleCustomerDebts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	debts, err := a.service.CustomerDebts(r.Context())
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"debts": debts})
}

func (a *API) handleCustomerDebt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	id := pathTail(r.URL.Path, "/api/v1/debts/customers/")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("customer id required"))
		return
	}
	out, err := a.service.CustomerDebt(r.Context(), id)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"debt": out})
}

func (a *API) handleSupplierDebts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	debts, err := a.service.SupplierDebts(r.Context())
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"debts": debts})
}

func (a *API) handleSupplierDebt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeMethodNotAllowed(w)
		return
	}
	id := pathTail(r.URL.Path, "/api/v1/debts/suppliers/")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("supplier id required"))
		return
	}
	out, err := a.service.SupplierDebt(r.Context(), id)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"debt": out})
}

func (a *API) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		a.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(startedAt)))
	})
}

// periodFromQuery builds a reporting period from either explicit
// start/end dates or a year with optional month or quarter.
func periodFromQuery(q url.Values) (ledger.Period, error) {
	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return ledger.Period{}, ledger.ErrInvalidPeriod
		}
		if ms := strings.TrimSpace(q.Get("month")); ms != "" {
			month, err := strconv.Atoi(ms)
			if err != nil {
				return ledger.Period{}, ledger.ErrInvalidPeriod
			}
			return ledger.Month(year, time.Month(month))
		}
		if qs := strings.TrimSpace(q.Get("quarter")); qs != "" {
			quarter, err := strconv.Atoi(qs)
			if err != nil {
				return ledger.Period{}, ledger.ErrInvalidPeriod
			}
			return ledger.Quarter(year, quarter)
		}
		return ledger.Year(year)
	}

	start, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("start")))
	if err != nil {
		return ledger.Period{}, ledger.ErrInvalidPeriod
	}
	end, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("end")))
	if err != nil {
		return ledger.Period{}, ledger.ErrInvalidPeriod
	}
	return ledger.NewPeriod(start, end)
}

func pathTail(path string, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimPrefix(path, prefix), "/"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidRecord),
		errors.Is(err, domain.ErrInconsistentLineItem),
		errors.Is(err, ledger.ErrInvalidPeriod),
		errors.Is(err, inventory.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func (a *API) writeMethodNotAllowed(w http.ResponseWriter) {
	a.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// writeError keeps 5xx bodies generic; the original error goes to the
// log instead of the client.
func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status >= 500 {
		a.logger.Error("internal error", zap.Int("status", status), zap.Error(err))
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
