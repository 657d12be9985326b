package service

import (
	"context"
	"testing"
	"time"

	"pharmadesk/internal/gst"
	"pharmadesk/internal/model"
	"pharmadesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Stubs ---

type stubInvoiceRepo struct {
	invoice model.Invoice
	items   []model.InvoiceItem
}

func (r *stubInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error { return nil }

func (r *stubInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	items := r.items
	r.invoice = *invoice
	r.items = items
	return nil
}

func (r *stubInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv := r.invoice
	inv.Items = nil
	return &inv, nil
}

func (r *stubInvoiceRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv := r.invoice
	inv.Items = append([]model.InvoiceItem(nil), r.items...)
	return &inv, nil
}

func (r *stubInvoiceRepo) List(ctx context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	return nil, 0, nil
}

func (r *stubInvoiceRepo) ListFinalByParty(ctx context.Context, partyID uuid.UUID) ([]model.Invoice, error) {
	return nil, nil
}

func (r *stubInvoiceRepo) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	r.items = items
	return nil
}

func (r *stubInvoiceRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	return 0, nil
}

type stubPartyRepo struct {
	party model.Party
}

func (r *stubPartyRepo) Create(ctx context.Context, party *model.Party) error { return nil }
func (r *stubPartyRepo) Update(ctx context.Context, party *model.Party) error { return nil }
func (r *stubPartyRepo) Delete(ctx context.Context, id uuid.UUID) error       { return nil }

func (r *stubPartyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Party, error) {
	if id != r.party.ID {
		return nil, gorm.ErrRecordNotFound
	}
	party := r.party
	return &party, nil
}

func (r *stubPartyRepo) List(ctx context.Context, partyType, search string, page, limit int) ([]model.Party, int64, error) {
	return nil, 0, nil
}

type stubProductRepo struct{}

func (r *stubProductRepo) Create(ctx context.Context, product *model.Product) error { return nil }
func (r *stubProductRepo) Update(ctx context.Context, product *model.Product) error { return nil }
func (r *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }
func (r *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubProductRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubProductRepo) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	return nil, 0, nil
}
func (r *stubProductRepo) ListLowStock(ctx context.Context) ([]model.LowStockProduct, error) {
	return nil, nil
}

type stubBatchRepo struct{}

func (r *stubBatchRepo) Create(ctx context.Context, batch *model.ProductBatch) error { return nil }
func (r *stubBatchRepo) Update(ctx context.Context, batch *model.ProductBatch) error { return nil }
func (r *stubBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductBatch, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubBatchRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ProductBatch, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubBatchRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductBatch, error) {
	return nil, nil
}
func (r *stubBatchRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time, page, limit int) ([]model.ProductBatch, int64, error) {
	return nil, 0, nil
}
func (r *stubBatchRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return nil
}
func (r *stubBatchRepo) TotalStock(ctx context.Context, productID uuid.UUID) (int, error) {
	return 0, nil
}

type stubAuditRepo struct{}

func (r *stubAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error { return nil }
func (r *stubAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

type stubTxManager struct{}

func (t *stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- Tests ---

func TestUpdateInvoice_PartyChangeRecomputesSplit(t *testing.T) {
	interStateParty := model.Party{
		ID:    uuid.New(),
		Name:  "Karnataka Distributors",
		Type:  model.PartyTypeCustomer,
		GSTIN: "29CCCCC0000C1Z3",
	}

	// DRAFT sale computed intra-state: taxable 1000, tax 120 split 60/60.
	invoiceRepo := &stubInvoiceRepo{
		invoice: model.Invoice{
			ID:           uuid.New(),
			InvoiceNo:    "INV-20260901-00001",
			Type:         model.InvoiceTypeSale,
			Status:       model.InvoiceStatusDraft,
			Jurisdiction: string(gst.IntraState),
			Gross:        decimal.NewFromInt(1000),
			Taxable:      decimal.NewFromInt(1000),
			TaxAmount:    decimal.NewFromInt(120),
			CGST:         decimal.NewFromInt(60),
			SGST:         decimal.NewFromInt(60),
			Net:          decimal.NewFromInt(1120),
			Final:        decimal.NewFromInt(1120),
		},
		items: []model.InvoiceItem{{
			ID:            uuid.New(),
			ProductID:     uuid.New(),
			BatchNumber:   "DEFAULT",
			Quantity:      10,
			UnitPrice:     decimal.NewFromInt(100),
			TaxPercent:    decimal.NewFromInt(12),
			Subtotal:      decimal.NewFromInt(1000),
			TaxableAmount: decimal.NewFromInt(1000),
			TaxAmount:     decimal.NewFromInt(120),
			CGST:          decimal.NewFromInt(60),
			SGST:          decimal.NewFromInt(60),
			Total:         decimal.NewFromInt(1120),
		}},
	}

	svc := NewInvoiceService(
		invoiceRepo,
		&stubProductRepo{},
		&stubBatchRepo{},
		&stubPartyRepo{party: interStateParty},
		&stubAuditRepo{},
		&stubTxManager{},
		nil,
		InvoiceConfig{SellerGSTIN: "27AAAAA0000A1Z5", Tax: gst.DefaultConfig()},
	)

	// Party-only update: the new buyer sits in another state, no item changes.
	partyID := interStateParty.ID.String()
	result, err := svc.UpdateInvoice(context.Background(), "", invoiceRepo.invoice.ID.String(), UpdateInvoiceRequest{
		PartyID: &partyID,
	})
	require.NoError(t, err)

	assert.Equal(t, "INTER_STATE", result.Jurisdiction)
	assert.Equal(t, "0.00", result.CGST)
	assert.Equal(t, "0.00", result.SGST)
	assert.Equal(t, "120.00", result.IGST)
	assert.Equal(t, "120.00", result.TaxAmount)
	assert.Equal(t, "1120.00", result.Net)

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "0.00", item.CGST)
	assert.Equal(t, "0.00", item.SGST)
	assert.Equal(t, "120.00", item.IGST)
	assert.Equal(t, "1000.00", item.TaxableAmount)
	assert.Equal(t, "1120.00", item.Total)
}

func TestUpdateInvoice_SamePartyKeepsLines(t *testing.T) {
	intraStateParty := model.Party{
		ID:    uuid.New(),
		Name:  "Mumbai Medicos",
		Type:  model.PartyTypeCustomer,
		GSTIN: "27BBBBB0000B1Z4",
	}

	invoiceRepo := &stubInvoiceRepo{
		invoice: model.Invoice{
			ID:           uuid.New(),
			InvoiceNo:    "INV-20260901-00002",
			Type:         model.InvoiceTypeSale,
			Status:       model.InvoiceStatusDraft,
			Jurisdiction: string(gst.IntraState),
			Taxable:      decimal.NewFromInt(1000),
			TaxAmount:    decimal.NewFromInt(120),
			CGST:         decimal.NewFromInt(60),
			SGST:         decimal.NewFromInt(60),
			Net:          decimal.NewFromInt(1120),
			Final:        decimal.NewFromInt(1120),
		},
		items: []model.InvoiceItem{{
			ID:            uuid.New(),
			ProductID:     uuid.New(),
			BatchNumber:   "DEFAULT",
			Quantity:      10,
			UnitPrice:     decimal.NewFromInt(100),
			TaxPercent:    decimal.NewFromInt(12),
			Subtotal:      decimal.NewFromInt(1000),
			TaxableAmount: decimal.NewFromInt(1000),
			TaxAmount:     decimal.NewFromInt(120),
			CGST:          decimal.NewFromInt(60),
			SGST:          decimal.NewFromInt(60),
			Total:         decimal.NewFromInt(1120),
		}},
	}

	svc := NewInvoiceService(
		invoiceRepo,
		&stubProductRepo{},
		&stubBatchRepo{},
		&stubPartyRepo{party: intraStateParty},
		&stubAuditRepo{},
		&stubTxManager{},
		nil,
		InvoiceConfig{SellerGSTIN: "27AAAAA0000A1Z5", Tax: gst.DefaultConfig()},
	)

	// Same-state party keeps the jurisdiction, so the split stays intra-state.
	partyID := intraStateParty.ID.String()
	result, err := svc.UpdateInvoice(context.Background(), "", invoiceRepo.invoice.ID.String(), UpdateInvoiceRequest{
		PartyID: &partyID,
	})
	require.NoError(t, err)

	assert.Equal(t, "INTRA_STATE", result.Jurisdiction)
	assert.Equal(t, "60.00", result.CGST)
	assert.Equal(t, "60.00", result.SGST)
	assert.Equal(t, "0.00", result.IGST)
}
