package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/catalog"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/partner"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/domain/treasury"
)

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*billing.Invoice
	seq      int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*billing.Invoice)}
}

func (r *fakeInvoiceRepo) Save(_ context.Context, inv *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.GetID()] = inv
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok && inv.TenantID == tenantID {
		return inv, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInvoiceRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInvoiceRepo) List(_ context.Context, filter shared.Filter) ([]*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.Invoice
	for _, inv := range r.invoices {
		if inv.TenantID == filter.TenantID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListDeferredUnsettled(_ context.Context, tenantID uuid.UUID) ([]*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.Invoice
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.PaymentMethod.IsDeferred() && inv.RemainingAmount.IsPositive() {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) NextInvoiceNumber(_ context.Context, _ uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

type fakeHistoryRepo struct {
	entries []*billing.EditHistoryEntry
}

func (r *fakeHistoryRepo) Append(_ context.Context, entry *billing.EditHistoryEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeHistoryRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*billing.EditHistoryEntry, error) {
	for _, e := range r.entries {
		if e.GetID() == id && e.TenantID == tenantID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeHistoryRepo) ListByInvoice(_ context.Context, tenantID, invoiceID uuid.UUID) ([]billing.EditHistoryEntry, error) {
	var out []billing.EditHistoryEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.InvoiceID == invoiceID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeDeletedRepo struct {
	deleted map[uuid.UUID]*billing.DeletedInvoice
}

func newFakeDeletedRepo() *fakeDeletedRepo {
	return &fakeDeletedRepo{deleted: make(map[uuid.UUID]*billing.DeletedInvoice)}
}

func (r *fakeDeletedRepo) Save(_ context.Context, d *billing.DeletedInvoice) error {
	r.deleted[d.InvoiceID] = d
	return nil
}

func (r *fakeDeletedRepo) FindByInvoiceID(_ context.Context, tenantID, invoiceID uuid.UUID) (*billing.DeletedInvoice, error) {
	if d, ok := r.deleted[invoiceID]; ok && d.TenantID == tenantID {
		return d, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeDeletedRepo) List(_ context.Context, tenantID uuid.UUID) ([]billing.DeletedInvoice, error) {
	var out []billing.DeletedInvoice
	for _, d := range r.deleted {
		if d.TenantID == tenantID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDeletedRepo) Remove(_ context.Context, _, invoiceID uuid.UUID) error {
	delete(r.deleted, invoiceID)
	return nil
}

type fakeWorkOrderRepo struct {
	orders  map[uuid.UUID]*billing.WorkOrder
	failAll bool
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{orders: make(map[uuid.UUID]*billing.WorkOrder)}
}

func (r *fakeWorkOrderRepo) Save(_ context.Context, wo *billing.WorkOrder) error {
	if r.failAll {
		return errors.New("work order store down")
	}
	r.orders[wo.GetID()] = wo
	return nil
}

func (r *fakeWorkOrderRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*billing.WorkOrder, error) {
	if wo, ok := r.orders[id]; ok && wo.TenantID == tenantID {
		return wo, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWorkOrderRepo) FindDaily(_ context.Context, tenantID uuid.UUID, workDate string) (*billing.WorkOrder, error) {
	if r.failAll {
		return nil, errors.New("work order store down")
	}
	for _, wo := range r.orders {
		if wo.TenantID == tenantID && wo.IsDaily && wo.WorkDate == workDate {
			return wo, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWorkOrderRepo) List(_ context.Context, filter shared.Filter) ([]*billing.WorkOrder, error) {
	var out []*billing.WorkOrder
	for _, wo := range r.orders {
		if wo.TenantID == filter.TenantID {
			out = append(out, wo)
		}
	}
	return out, nil
}

func (r *fakeWorkOrderRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

type fakeTreasuryRepo struct {
	txs []*treasury.Transaction
}

func (r *fakeTreasuryRepo) Append(_ context.Context, txs ...*treasury.Transaction) error {
	r.txs = append(r.txs, txs...)
	return nil
}

func (r *fakeTreasuryRepo) ExistsByReference(_ context.Context, tenantID uuid.UUID, reference string) (bool, error) {
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && tx.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTreasuryRepo) List(_ context.Context, tenantID uuid.UUID) ([]treasury.Transaction, error) {
	var out []treasury.Transaction
	for _, tx := range r.txs {
		if tx.TenantID == tenantID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTreasuryRepo) ListByAccount(_ context.Context, tenantID uuid.UUID, account treasury.AccountID) ([]treasury.Transaction, error) {
	var out []treasury.Transaction
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && tx.AccountID == account {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTreasuryRepo) ListByDateRange(_ context.Context, tenantID uuid.UUID, from, to time.Time) ([]treasury.Transaction, error) {
	return r.List(context.Background(), tenantID)
}

func (r *fakeTreasuryRepo) DeleteByReference(_ context.Context, tenantID uuid.UUID, reference string) error {
	kept := r.txs[:0]
	for _, tx := range r.txs {
		if !(tx.TenantID == tenantID && tx.Reference == reference) {
			kept = append(kept, tx)
		}
	}
	r.txs = kept
	return nil
}

func (r *fakeTreasuryRepo) byType(t treasury.TransactionType) []*treasury.Transaction {
	var out []*treasury.Transaction
	for _, tx := range r.txs {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out
}

type fakeLocalProductRepo struct {
	sold map[string]int
}

func newFakeLocalProductRepo() *fakeLocalProductRepo {
	return &fakeLocalProductRepo{sold: make(map[string]int)}
}

func (r *fakeLocalProductRepo) Save(_ context.Context, _ *catalog.LocalProduct) error { return nil }

func (r *fakeLocalProductRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*catalog.LocalProduct, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLocalProductRepo) FindByNameAndSupplier(_ context.Context, _ uuid.UUID, _, _ string) (*catalog.LocalProduct, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLocalProductRepo) List(_ context.Context, _ shared.Filter) ([]*catalog.LocalProduct, error) {
	return nil, nil
}

func (r *fakeLocalProductRepo) IncrementTotalSold(_ context.Context, _ uuid.UUID, name, supplier string, quantity int) error {
	r.sold[name+"|"+supplier] += quantity
	return nil
}

func (r *fakeLocalProductRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*partner.Supplier
	ledger    []*partner.SupplierTransaction
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (r *fakeSupplierRepo) Save(_ context.Context, s *partner.Supplier) error {
	r.suppliers[s.GetID()] = s
	return nil
}

func (r *fakeSupplierRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	if s, ok := r.suppliers[id]; ok && s.TenantID == tenantID {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSupplierRepo) FindByName(_ context.Context, tenantID uuid.UUID, name string) (*partner.Supplier, error) {
	for _, s := range r.suppliers {
		if s.TenantID == tenantID && s.Name == name {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSupplierRepo) List(_ context.Context, filter shared.Filter) ([]*partner.Supplier, error) {
	var out []*partner.Supplier
	for _, s := range r.suppliers {
		if s.TenantID == filter.TenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) AppendTransaction(_ context.Context, tx *partner.SupplierTransaction) error {
	r.ledger = append(r.ledger, tx)
	return nil
}

func (r *fakeSupplierRepo) ListTransactions(_ context.Context, tenantID, supplierID uuid.UUID) ([]partner.SupplierTransaction, error) {
	var out []partner.SupplierTransaction
	for _, tx := range r.ledger {
		if tx.TenantID == tenantID && tx.SupplierID == supplierID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) AddToBalances(_ context.Context, tenantID uuid.UUID, name string, balanceDelta, purchasesDelta, paymentsDelta decimal.Decimal) error {
	for _, s := range r.suppliers {
		if s.TenantID == tenantID && s.Name == name {
			return nil // aggregate already updated in-memory by the caller
		}
	}
	return shared.ErrNotFound
}

// fakeBatchRepo backs the allocator in lifecycle tests.
type fakeBatchRepo struct {
	batches map[uuid.UUID]*inventory.RawMaterialBatch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[uuid.UUID]*inventory.RawMaterialBatch)}
}

func (r *fakeBatchRepo) add(b *inventory.RawMaterialBatch) { r.batches[b.GetID()] = b }

func (r *fakeBatchRepo) Save(_ context.Context, b *inventory.RawMaterialBatch) error {
	r.batches[b.GetID()] = b
	return nil
}

func (r *fakeBatchRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*inventory.RawMaterialBatch, error) {
	if b, ok := r.batches[id]; ok && b.TenantID == tenantID {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindByUnitCode(_ context.Context, tenantID uuid.UUID, code string) (*inventory.RawMaterialBatch, error) {
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.UnitCode == code {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindBySelection(_ context.Context, tenantID uuid.UUID, code string, inner, outer decimal.Decimal) (*inventory.RawMaterialBatch, error) {
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.UnitCode == code &&
			b.InnerDiameter.Equal(inner) && b.OuterDiameter.Equal(outer) {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindFirstByTypeAndDiameters(_ context.Context, tenantID uuid.UUID, mt inventory.MaterialType, inner, outer decimal.Decimal) (*inventory.RawMaterialBatch, error) {
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.MaterialType == mt &&
			b.InnerDiameter.Equal(inner) && b.OuterDiameter.Equal(outer) {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) List(_ context.Context, _ shared.Filter) ([]*inventory.RawMaterialBatch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) ListUsable(_ context.Context, _ uuid.UUID) ([]*inventory.RawMaterialBatch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

func (r *fakeBatchRepo) DeductHeight(_ context.Context, tenantID, id uuid.UUID, mm decimal.Decimal) error {
	b, ok := r.batches[id]
	if !ok || b.TenantID != tenantID {
		return shared.ErrNotFound
	}
	if b.Height.LessThan(mm) {
		return shared.ErrInsufficientStock
	}
	b.Height = b.Height.Sub(mm)
	return nil
}

func (r *fakeBatchRepo) RestoreHeight(_ context.Context, tenantID, id uuid.UUID, mm decimal.Decimal) error {
	b, ok := r.batches[id]
	if !ok || b.TenantID != tenantID {
		return shared.ErrNotFound
	}
	b.Height = b.Height.Add(mm)
	return nil
}
