package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pharmadesk/internal/gst"
	"pharmadesk/internal/model"
	"pharmadesk/internal/repository"
	ws "pharmadesk/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type InvoiceItemRequest struct {
	ProductID       string  `json:"product_id" binding:"required"`
	BatchID         string  `json:"batch_id"` // Optional: empty sells against the synthetic default batch
	Quantity        int     `json:"quantity" binding:"required,gt=0"`
	FreeQuantity    int     `json:"free_quantity" binding:"gte=0"`
	UnitPrice       *string `json:"unit_price"`       // Optional override, defaults to batch/product sale price
	DiscountPercent string  `json:"discount_percent"` // Decimal string, e.g. "10"
	TaxPercent      *string `json:"tax_percent"`      // Optional override, defaults to product slab
}

type CreateInvoiceRequest struct {
	Type    string               `json:"type" binding:"required,oneof=SALE PURCHASE"`
	PartyID string               `json:"party_id"` // Optional: empty means walk-in customer
	Note    string               `json:"note"`
	Items   []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateInvoiceRequest struct {
	PartyID *string              `json:"party_id"`
	Note    *string              `json:"note"`
	Items   []InvoiceItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

type InvoiceFilter struct {
	Status    string
	Type      string
	InvoiceNo string
	PartyID   string
	Page      int
	Limit     int
}

type InvoiceItemResponse struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"product_id"`
	BatchID         *string `json:"batch_id"`
	BatchNumber     string  `json:"batch_number"`
	ExpiryDate      *string `json:"expiry_date"`
	Quantity        int     `json:"quantity"`
	FreeQuantity    int     `json:"free_quantity"`
	UnitPrice       string  `json:"unit_price"`
	DiscountPercent string  `json:"discount_percent"`
	TaxPercent      string  `json:"tax_percent"`
	Subtotal        string  `json:"subtotal"`
	DiscountAmount  string  `json:"discount_amount"`
	TaxableAmount   string  `json:"taxable_amount"`
	TaxAmount       string  `json:"tax_amount"`
	CGST            string  `json:"cgst"`
	SGST            string  `json:"sgst"`
	IGST            string  `json:"igst"`
	Total           string  `json:"total"`
}

type InvoiceResponse struct {
	ID           string                `json:"id"`
	InvoiceNo    string                `json:"invoice_no"`
	Type         string                `json:"type"`
	Status       string                `json:"status"`
	PartyID      *string               `json:"party_id"`
	PartyName    string                `json:"party_name"`
	PartyGSTIN   string                `json:"party_gstin"`
	Jurisdiction string                `json:"jurisdiction"`
	Items        []InvoiceItemResponse `json:"items"`
	Gross        string                `json:"gross"`
	Discount     string                `json:"discount"`
	Taxable      string                `json:"taxable"`
	TaxAmount    string                `json:"tax_amount"`
	CGST         string                `json:"cgst"`
	SGST         string                `json:"sgst"`
	IGST         string                `json:"igst"`
	Net          string                `json:"net"`
	RoundOff     string                `json:"round_off"`
	Final        string                `json:"final"`
	Note         string                `json:"note"`
	FinalizedAt  *string               `json:"finalized_at"`
	CreatedAt    string                `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	UpdateInvoice(ctx context.Context, userID string, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	FinalizeInvoice(ctx context.Context, userID string, id string) (InvoiceResponse, error)
	CancelInvoice(ctx context.Context, userID string, id string) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
}

// InvoiceConfig carries the seller identity and tax slabs the document
// pipeline runs against. Injected so tests can pin both.
type InvoiceConfig struct {
	SellerGSTIN string
	Tax         gst.Config
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	partyRepo   repository.PartyRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
	cfg         InvoiceConfig
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	partyRepo repository.PartyRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	cfg InvoiceConfig,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		batchRepo:   batchRepo,
		partyRepo:   partyRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
		cfg:         cfg,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	invoice := model.Invoice{
		Type:   req.Type,
		Status: model.InvoiceStatusDraft,
		Note:   req.Note,
	}

	if err := s.applyParty(ctx, &invoice, req.PartyID); err != nil {
		return InvoiceResponse{}, err
	}

	items, totals, err := s.buildItems(ctx, req.Items, invoice.Jurisdiction)
	if err != nil {
		return InvoiceResponse{}, err
	}
	invoice.Items = items
	applyTotals(&invoice, totals)

	invoiceNo, err := s.generateInvoiceNo(ctx, req.Type)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to generate invoice number: %w", err)
	}
	invoice.InvoiceNo = invoiceNo

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreateInvoice, invoice.ID.String(), invoice.InvoiceNo, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.reload(ctx, invoice.ID)
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, userID string, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}
	if invoice.Status != model.InvoiceStatusDraft {
		return InvoiceResponse{}, fmt.Errorf("cannot edit invoice with status %s", invoice.Status)
	}

	oldJurisdiction := invoice.Jurisdiction
	if req.PartyID != nil {
		if err := s.applyParty(ctx, invoice, *req.PartyID); err != nil {
			return InvoiceResponse{}, err
		}
	}
	if req.Note != nil {
		invoice.Note = *req.Note
	}

	var items []model.InvoiceItem
	if req.Items != nil {
		// Party may have changed jurisdiction, so lines are always recomputed
		// from scratch rather than patched.
		var totals gst.Totals
		items, totals, err = s.buildItems(ctx, req.Items, invoice.Jurisdiction)
		if err != nil {
			return InvoiceResponse{}, err
		}
		applyTotals(invoice, totals)
	} else if invoice.Jurisdiction != oldJurisdiction {
		// Party-only update flipped the jurisdiction: the stored lines still
		// carry the old CGST/SGST-vs-IGST split, so rerun them through the tax
		// engine. Every input the engine needs is stored on the line.
		withItems, findErr := s.invoiceRepo.FindByIDWithItems(ctx, invoiceID)
		if findErr != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to load invoice items: %w", findErr)
		}
		var totals gst.Totals
		items, totals = recomputeItems(withItems.Items, invoice.Jurisdiction)
		applyTotals(invoice, totals)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if items != nil {
			if err := s.invoiceRepo.ReplaceItems(txCtx, invoice.ID, items); err != nil {
				return fmt.Errorf("failed to replace invoice items: %w", err)
			}
		}
		invoice.Items = nil // Save the header only; lines were replaced above
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.reload(ctx, invoice.ID)
}

func (s *invoiceService) FinalizeInvoice(ctx context.Context, userID string, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var stockEvents []ws.StockEvent
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDWithItems(txCtx, invoiceID)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}
		if invoice.Status != model.InvoiceStatusDraft {
			return fmt.Errorf("invoice is already %s", invoice.Status)
		}

		for _, item := range invoice.Items {
			events, moveErr := s.moveStock(txCtx, invoice.Type, item, false)
			if moveErr != nil {
				return moveErr
			}
			stockEvents = append(stockEvents, events...)
		}

		now := time.Now()
		invoice.Status = model.InvoiceStatusFinal
		invoice.FinalizedAt = &now
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			invoice.FinalizedBy = &parsed
		}
		invoice.Items = nil
		if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
			return fmt.Errorf("failed to finalize invoice: %w", updateErr)
		}

		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionFinalizeInvoice, invoice.ID.String(), invoice.InvoiceNo, nil)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.broadcastStockEvents(ctx, stockEvents)
	return s.reload(ctx, invoiceID)
}

func (s *invoiceService) CancelInvoice(ctx context.Context, userID string, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var stockEvents []ws.StockEvent
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDWithItems(txCtx, invoiceID)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		switch invoice.Status {
		case model.InvoiceStatusFinal:
			// Put the stock back before flipping the status.
			for _, item := range invoice.Items {
				events, moveErr := s.moveStock(txCtx, invoice.Type, item, true)
				if moveErr != nil {
					return moveErr
				}
				stockEvents = append(stockEvents, events...)
			}
		case model.InvoiceStatusDraft:
			// Nothing was deducted yet.
		default:
			return fmt.Errorf("invoice is already %s", invoice.Status)
		}

		invoice.Status = model.InvoiceStatusCancelled
		invoice.Items = nil
		if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
			return fmt.Errorf("failed to cancel invoice: %w", updateErr)
		}

		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCancelInvoice, invoice.ID.String(), invoice.InvoiceNo, nil)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.broadcastStockEvents(ctx, stockEvents)
	return s.reload(ctx, invoiceID)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	return s.reload(ctx, invoiceID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.InvoiceListFilter{
		Status:    filter.Status,
		Type:      filter.Type,
		InvoiceNo: filter.InvoiceNo,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if filter.PartyID != "" {
		partyID, err := uuid.Parse(filter.PartyID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid party id: %w", err)
		}
		repoFilter.PartyID = &partyID
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// --- Helpers ---

// applyParty freezes the party hard-copy fields and derives the jurisdiction
// from the seller's and buyer's GSTIN state codes. A missing party means a
// walk-in sale, which classifies as intra-state.
func (s *invoiceService) applyParty(ctx context.Context, invoice *model.Invoice, partyID string) error {
	if partyID == "" {
		invoice.PartyID = nil
		invoice.PartyName = ""
		invoice.PartyGSTIN = ""
		invoice.Jurisdiction = string(gst.Classify(s.cfg.SellerGSTIN, ""))
		return nil
	}

	parsed, err := uuid.Parse(partyID)
	if err != nil {
		return fmt.Errorf("invalid party id: %w", err)
	}
	party, err := s.partyRepo.FindByID(ctx, parsed)
	if err != nil {
		return fmt.Errorf("party not found: %w", err)
	}

	invoice.PartyID = &party.ID
	invoice.PartyName = party.Name
	invoice.PartyGSTIN = party.GSTIN
	invoice.Jurisdiction = string(gst.Classify(s.cfg.SellerGSTIN, party.GSTIN))
	return nil
}

// buildItems resolves products and batches for every requested line and runs
// each through the tax engine. The computed money fields are written fresh on
// every call; nothing survives from a previous computation.
func (s *invoiceService) buildItems(ctx context.Context, reqs []InvoiceItemRequest, jurisdiction string) ([]model.InvoiceItem, gst.Totals, error) {
	items := make([]model.InvoiceItem, 0, len(reqs))
	lines := make([]gst.LineResult, 0, len(reqs))

	for i, itemReq := range reqs {
		productID, err := uuid.Parse(itemReq.ProductID)
		if err != nil {
			return nil, gst.Totals{}, fmt.Errorf("items[%d]: invalid product_id: %w", i, err)
		}
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, gst.Totals{}, fmt.Errorf("items[%d]: product not found", i)
			}
			return nil, gst.Totals{}, fmt.Errorf("items[%d]: failed to find product: %w", i, err)
		}

		item := model.InvoiceItem{
			ProductID:    product.ID,
			Quantity:     itemReq.Quantity,
			FreeQuantity: itemReq.FreeQuantity,
		}

		unitPrice := product.SalePrice
		if itemReq.BatchID != "" {
			batchID, err := uuid.Parse(itemReq.BatchID)
			if err != nil {
				return nil, gst.Totals{}, fmt.Errorf("items[%d]: invalid batch_id: %w", i, err)
			}
			batch, err := s.batchRepo.FindByID(ctx, batchID)
			if err != nil {
				return nil, gst.Totals{}, fmt.Errorf("items[%d]: batch not found: %w", i, err)
			}
			if batch.ProductID != product.ID {
				return nil, gst.Totals{}, fmt.Errorf("items[%d]: batch does not belong to product", i)
			}
			item.BatchID = &batch.ID
			item.BatchNumber = batch.BatchNumber
			item.ExpiryDate = batch.ExpiryDate
			unitPrice = batch.SalePrice
		} else {
			// Synthetic default batch: sold without a backing inventory lot.
			item.BatchNumber = "DEFAULT"
		}

		if itemReq.UnitPrice != nil {
			unitPrice, err = decimal.NewFromString(*itemReq.UnitPrice)
			if err != nil {
				return nil, gst.Totals{}, fmt.Errorf("items[%d]: invalid unit_price: %w", i, err)
			}
		}

		discountPercent := decimal.Zero
		if itemReq.DiscountPercent != "" {
			discountPercent, err = decimal.NewFromString(itemReq.DiscountPercent)
			if err != nil {
				return nil, gst.Totals{}, fmt.Errorf("items[%d]: invalid discount_percent: %w", i, err)
			}
		}

		taxPercent := product.TaxPercent
		if itemReq.TaxPercent != nil {
			taxPercent, err = decimal.NewFromString(*itemReq.TaxPercent)
			if err != nil {
				return nil, gst.Totals{}, fmt.Errorf("items[%d]: invalid tax_percent: %w", i, err)
			}
		}
		if !s.cfg.Tax.ValidRate(taxPercent) {
			return nil, gst.Totals{}, fmt.Errorf("items[%d]: tax percent %s is not a configured GST slab", i, taxPercent.String())
		}

		line := gst.ComputeLine(gst.LineInput{
			Quantity:        itemReq.Quantity,
			FreeQuantity:    itemReq.FreeQuantity,
			UnitPrice:       unitPrice,
			DiscountPercent: discountPercent,
			TaxPercent:      taxPercent,
		}, gst.Jurisdiction(jurisdiction))

		item.UnitPrice = unitPrice
		item.DiscountPercent = discountPercent
		item.TaxPercent = taxPercent
		item.Subtotal = line.Subtotal
		item.DiscountAmount = line.DiscountAmount
		item.TaxableAmount = line.TaxableAmount
		item.TaxAmount = line.TaxAmount
		item.CGST = line.CGST
		item.SGST = line.SGST
		item.IGST = line.IGST
		item.Total = line.Total

		items = append(items, item)
		lines = append(lines, line)
	}

	return items, gst.Aggregate(lines), nil
}

// recomputeItems reruns stored lines through the tax engine under a new
// jurisdiction. Quantities, prices, and rates are taken from the lines as
// persisted; only the derived money fields change.
func recomputeItems(items []model.InvoiceItem, jurisdiction string) ([]model.InvoiceItem, gst.Totals) {
	lines := make([]gst.LineResult, 0, len(items))
	for i := range items {
		line := gst.ComputeLine(gst.LineInput{
			Quantity:        items[i].Quantity,
			FreeQuantity:    items[i].FreeQuantity,
			UnitPrice:       items[i].UnitPrice,
			DiscountPercent: items[i].DiscountPercent,
			TaxPercent:      items[i].TaxPercent,
		}, gst.Jurisdiction(jurisdiction))

		items[i].Subtotal = line.Subtotal
		items[i].DiscountAmount = line.DiscountAmount
		items[i].TaxableAmount = line.TaxableAmount
		items[i].TaxAmount = line.TaxAmount
		items[i].CGST = line.CGST
		items[i].SGST = line.SGST
		items[i].IGST = line.IGST
		items[i].Total = line.Total
		lines = append(lines, line)
	}
	return items, gst.Aggregate(lines)
}

func applyTotals(invoice *model.Invoice, totals gst.Totals) {
	invoice.Gross = totals.Gross
	invoice.Discount = totals.Discount
	invoice.Taxable = totals.Taxable
	invoice.TaxAmount = totals.Tax
	invoice.CGST = totals.CGST
	invoice.SGST = totals.SGST
	invoice.IGST = totals.IGST
	invoice.Net = totals.Net
	invoice.RoundOff = totals.RoundOff
	invoice.Final = totals.Final
}

// moveStock deducts (or restores, on cancel) the sold quantity from the line's
// batch. Lines sold against the synthetic default batch have no inventory row
// to touch. Quantities clamp at zero: overselling is the UI's problem, the
// counter flow must not get stuck here.
func (s *invoiceService) moveStock(ctx context.Context, invoiceType string, item model.InvoiceItem, restore bool) ([]ws.StockEvent, error) {
	if item.BatchID == nil {
		return nil, nil
	}

	batch, err := s.batchRepo.FindByIDForUpdate(ctx, *item.BatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock batch %s: %w", item.BatchID, err)
	}

	delta := item.Quantity + item.FreeQuantity
	if (invoiceType == model.InvoiceTypePurchase) != restore {
		// Purchases add stock; cancelling a sale adds it back.
		batch.QuantityAvailable += delta
	} else {
		batch.QuantityAvailable -= delta
		if batch.QuantityAvailable < 0 {
			batch.QuantityAvailable = 0
		}
	}

	if err := s.batchRepo.UpdateQuantity(ctx, batch.ID, batch.QuantityAvailable); err != nil {
		return nil, fmt.Errorf("failed to update batch quantity: %w", err)
	}

	events := []ws.StockEvent{{
		Event:       ws.EventStockUpdated,
		ProductID:   batch.ProductID.String(),
		BatchID:     batch.ID.String(),
		BatchNumber: batch.BatchNumber,
		Quantity:    batch.QuantityAvailable,
	}}
	if batchNearExpiry(batch.ExpiryDate) && batch.QuantityAvailable > 0 {
		events = append(events, ws.StockEvent{
			Event:       ws.EventNearExpiry,
			ProductID:   batch.ProductID.String(),
			BatchID:     batch.ID.String(),
			BatchNumber: batch.BatchNumber,
			Quantity:    batch.QuantityAvailable,
		})
	}
	return events, nil
}

// broadcastStockEvents pushes the per-batch events collected during the
// transaction, then checks each touched product against its low-stock
// threshold. Alerts are best-effort; a failed lookup never surfaces.
func (s *invoiceService) broadcastStockEvents(ctx context.Context, events []ws.StockEvent) {
	if s.hub == nil {
		return
	}
	for _, event := range events {
		if payload, err := json.Marshal(event); err == nil {
			s.hub.Broadcast <- payload
		}
	}

	seen := make(map[string]bool)
	for _, event := range events {
		if event.Event != ws.EventStockUpdated || seen[event.ProductID] {
			continue
		}
		seen[event.ProductID] = true

		productID, err := uuid.Parse(event.ProductID)
		if err != nil {
			continue
		}
		if alert := s.lowStockEvent(ctx, productID); alert != nil {
			if payload, err := json.Marshal(alert); err == nil {
				s.hub.Broadcast <- payload
			}
		}
	}
}

func (s *invoiceService) lowStockEvent(ctx context.Context, productID uuid.UUID) *ws.StockEvent {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil || product.MinStock <= 0 {
		return nil
	}
	total, err := s.batchRepo.TotalStock(ctx, productID)
	if err != nil || total > product.MinStock {
		return nil
	}
	return &ws.StockEvent{
		Event:       ws.EventLowStock,
		ProductID:   productID.String(),
		ProductName: product.Name,
		Quantity:    total,
	}
}

func batchNearExpiry(expiry *time.Time) bool {
	if expiry == nil {
		return false
	}
	return expiry.Before(time.Now().AddDate(0, 0, nearExpiryWindowDays))
}

func (s *invoiceService) generateInvoiceNo(ctx context.Context, invoiceType string) (string, error) {
	prefix := "INV-"
	if invoiceType == model.InvoiceTypePurchase {
		prefix = "PUR-"
	}
	prefix += time.Now().Format("20060102") + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (s *invoiceService) reload(ctx context.Context, id uuid.UUID) (InvoiceResponse, error) {
	reloaded, err := s.invoiceRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded), nil
}


// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:           inv.ID.String(),
		InvoiceNo:    inv.InvoiceNo,
		Type:         inv.Type,
		Status:       inv.Status,
		PartyName:    inv.PartyName,
		PartyGSTIN:   inv.PartyGSTIN,
		Jurisdiction: inv.Jurisdiction,
		Gross:        inv.Gross.StringFixed(2),
		Discount:     inv.Discount.StringFixed(2),
		Taxable:      inv.Taxable.StringFixed(2),
		TaxAmount:    inv.TaxAmount.StringFixed(2),
		CGST:         inv.CGST.StringFixed(2),
		SGST:         inv.SGST.StringFixed(2),
		IGST:         inv.IGST.StringFixed(2),
		Net:          inv.Net.StringFixed(2),
		RoundOff:     inv.RoundOff.StringFixed(2),
		Final:        inv.Final.StringFixed(2),
		Note:         inv.Note,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}

	if inv.PartyID != nil {
		id := inv.PartyID.String()
		resp.PartyID = &id
	}
	if inv.FinalizedAt != nil {
		ts := inv.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &ts
	}

	resp.Items = make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, toInvoiceItemResponse(item))
	}
	return resp
}

func toInvoiceItemResponse(item model.InvoiceItem) InvoiceItemResponse {
	resp := InvoiceItemResponse{
		ID:              item.ID.String(),
		ProductID:       item.ProductID.String(),
		BatchNumber:     item.BatchNumber,
		Quantity:        item.Quantity,
		FreeQuantity:    item.FreeQuantity,
		UnitPrice:       item.UnitPrice.StringFixed(2),
		DiscountPercent: item.DiscountPercent.StringFixed(2),
		TaxPercent:      item.TaxPercent.StringFixed(2),
		Subtotal:        item.Subtotal.StringFixed(2),
		DiscountAmount:  item.DiscountAmount.StringFixed(2),
		TaxableAmount:   item.TaxableAmount.StringFixed(2),
		TaxAmount:       item.TaxAmount.StringFixed(2),
		CGST:            item.CGST.StringFixed(2),
		SGST:            item.SGST.StringFixed(2),
		IGST:            item.IGST.StringFixed(2),
		Total:           item.Total.StringFixed(2),
	}
	if item.BatchID != nil {
		id := item.BatchID.String()
		resp.BatchID = &id
	}
	if item.ExpiryDate != nil {
		exp := item.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &exp
	}
	return resp
}
