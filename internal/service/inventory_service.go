package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pharmadesk/internal/batch"
	"pharmadesk/internal/model"
	"pharmadesk/internal/repository"
	ws "pharmadesk/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nearExpiryWindowDays is the default alert horizon for expiring batches,
// shared by the near-expiry report and the stock-change broadcasts.
const nearExpiryWindowDays = 90

// --- DTOs ---

type CreateProductRequest struct {
	SKU          string `json:"sku" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Manufacturer string `json:"manufacturer"`
	HSNCode      string `json:"hsn_code"`
	UnitPack     string `json:"unit_pack"`
	MRP          string `json:"mrp" binding:"required"`
	SalePrice    string `json:"sale_price" binding:"required"`
	PurchaseRate string `json:"purchase_rate"`
	TaxPercent   string `json:"tax_percent" binding:"required"`
	MinStock     int    `json:"min_stock" binding:"gte=0"`
	ScheduleH    bool   `json:"schedule_h"`
}

type UpdateProductRequest struct {
	Name         *string `json:"name"`
	Manufacturer *string `json:"manufacturer"`
	HSNCode      *string `json:"hsn_code"`
	UnitPack     *string `json:"unit_pack"`
	MRP          *string `json:"mrp"`
	SalePrice    *string `json:"sale_price"`
	PurchaseRate *string `json:"purchase_rate"`
	TaxPercent   *string `json:"tax_percent"`
	MinStock     *int    `json:"min_stock"`
	ScheduleH    *bool   `json:"schedule_h"`
}

type CreateBatchRequest struct {
	BatchNumber       string `json:"batch_number" binding:"required"`
	ExpiryDate        string `json:"expiry_date"`        // YYYY-MM-DD, empty means non-expiring
	ManufacturingDate string `json:"manufacturing_date"` // YYYY-MM-DD
	QuantityAvailable int    `json:"quantity_available" binding:"gte=0"`
	MRP               string `json:"mrp"`        // Defaults to the product's MRP
	SalePrice         string `json:"sale_price"` // Defaults to the product's sale price
}

type UpdateBatchRequest struct {
	ExpiryDate        *string `json:"expiry_date"`
	ManufacturingDate *string `json:"manufacturing_date"`
	MRP               *string `json:"mrp"`
	SalePrice         *string `json:"sale_price"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// BatchSelectionRequest mirrors the selection policy; defaults fill in for
// zero values so a bare request behaves like the quick-add flow.
type BatchSelectionRequest struct {
	SortBy        string `form:"sort_by" binding:"omitempty,oneof=expiry quantity manufacturing"`
	SortOrder     string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	FilterExpired bool   `form:"filter_expired"`
	MinQuantity   int    `form:"min_quantity" binding:"gte=0"`
	Fallback      bool   `form:"fallback"`
}

type BatchResponse struct {
	ID                string  `json:"id"`
	ProductID         string  `json:"product_id"`
	BatchNumber       string  `json:"batch_number"`
	ExpiryDate        *string `json:"expiry_date"`
	ManufacturingDate *string `json:"manufacturing_date"`
	QuantityAvailable int     `json:"quantity_available"`
	MRP               string  `json:"mrp"`
	SalePrice         string  `json:"sale_price"`
	Synthetic         bool    `json:"synthetic"`
}

// --- Interface ---

type InventoryService interface {
	CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, userID string, id string, req UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, userID string, id string) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error)

	CreateBatch(ctx context.Context, userID string, productID string, req CreateBatchRequest) (*model.ProductBatch, error)
	UpdateBatch(ctx context.Context, userID string, id string, req UpdateBatchRequest) (*model.ProductBatch, error)
	ListBatches(ctx context.Context, productID string) ([]BatchResponse, error)
	SelectBatches(ctx context.Context, productID string, req BatchSelectionRequest) ([]BatchResponse, error)
	QuickPickBatches(ctx context.Context, productID string) ([]BatchResponse, error)
	AdjustStock(ctx context.Context, userID string, batchID string, req AdjustStockRequest) (*model.ProductBatch, error)

	NearExpiry(ctx context.Context, days, page, limit int) ([]model.ProductBatch, int64, error)
	LowStock(ctx context.Context) ([]model.LowStockProduct, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
	selector    *batch.Selector
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	selector *batch.Selector,
) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
		selector:    selector,
	}
}

// --- Products ---

func (s *inventoryService) CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (*model.Product, error) {
	if existing, err := s.productRepo.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return nil, fmt.Errorf("product with SKU %s already exists", req.SKU)
	}

	mrp, err := decimal.NewFromString(req.MRP)
	if err != nil {
		return nil, fmt.Errorf("invalid mrp: %w", err)
	}
	salePrice, err := decimal.NewFromString(req.SalePrice)
	if err != nil {
		return nil, fmt.Errorf("invalid sale_price: %w", err)
	}
	taxPercent, err := decimal.NewFromString(req.TaxPercent)
	if err != nil {
		return nil, fmt.Errorf("invalid tax_percent: %w", err)
	}
	purchaseRate := decimal.Zero
	if req.PurchaseRate != "" {
		purchaseRate, err = decimal.NewFromString(req.PurchaseRate)
		if err != nil {
			return nil, fmt.Errorf("invalid purchase_rate: %w", err)
		}
	}

	product := &model.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		HSNCode:      req.HSNCode,
		UnitPack:     req.UnitPack,
		MRP:          mrp,
		SalePrice:    salePrice,
		PurchaseRate: purchaseRate,
		TaxPercent:   taxPercent,
		MinStock:     req.MinStock,
		ScheduleH:    req.ScheduleH,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreateProduct, product.ID.String(), product.Name, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, userID string, id string, req UpdateProductRequest) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Manufacturer != nil {
		product.Manufacturer = *req.Manufacturer
	}
	if req.HSNCode != nil {
		product.HSNCode = *req.HSNCode
	}
	if req.UnitPack != nil {
		product.UnitPack = *req.UnitPack
	}
	if err := applyDecimal(&product.MRP, req.MRP, "mrp"); err != nil {
		return nil, err
	}
	if err := applyDecimal(&product.SalePrice, req.SalePrice, "sale_price"); err != nil {
		return nil, err
	}
	if err := applyDecimal(&product.PurchaseRate, req.PurchaseRate, "purchase_rate"); err != nil {
		return nil, err
	}
	if err := applyDecimal(&product.TaxPercent, req.TaxPercent, "tax_percent"); err != nil {
		return nil, err
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.ScheduleH != nil {
		product.ScheduleH = *req.ScheduleH
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpdateProduct, product.ID.String(), product.Name, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, userID string, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("product not found: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Delete(txCtx, productID); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeleteProduct, product.ID.String(), product.Name, nil)
		return nil
	})
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.productRepo.List(ctx, page, limit, search)
}

// --- Batches ---

func (s *inventoryService) CreateBatch(ctx context.Context, userID string, productID string, req CreateBatchRequest) (*model.ProductBatch, error) {
	parsed, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	b := &model.ProductBatch{
		ProductID:         product.ID,
		BatchNumber:       req.BatchNumber,
		QuantityAvailable: req.QuantityAvailable,
		MRP:               product.MRP,
		SalePrice:         product.SalePrice,
	}

	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry_date: %w", err)
		}
		b.ExpiryDate = &expiry
	}
	if req.ManufacturingDate != "" {
		mfg, err := time.Parse("2006-01-02", req.ManufacturingDate)
		if err != nil {
			return nil, fmt.Errorf("invalid manufacturing_date: %w", err)
		}
		b.ManufacturingDate = &mfg
	}
	if req.MRP != "" {
		if b.MRP, err = decimal.NewFromString(req.MRP); err != nil {
			return nil, fmt.Errorf("invalid mrp: %w", err)
		}
	}
	if req.SalePrice != "" {
		if b.SalePrice, err = decimal.NewFromString(req.SalePrice); err != nil {
			return nil, fmt.Errorf("invalid sale_price: %w", err)
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.batchRepo.Create(txCtx, b); err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreateBatch, b.ID.String(), product.Name+" / "+b.BatchNumber, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *inventoryService) UpdateBatch(ctx context.Context, userID string, id string, req UpdateBatchRequest) (*model.ProductBatch, error) {
	batchID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid batch id: %w", err)
	}
	b, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("batch not found: %w", err)
	}

	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			b.ExpiryDate = nil
		} else {
			expiry, err := time.Parse("2006-01-02", *req.ExpiryDate)
			if err != nil {
				return nil, fmt.Errorf("invalid expiry_date: %w", err)
			}
			b.ExpiryDate = &expiry
		}
	}
	if req.ManufacturingDate != nil {
		if *req.ManufacturingDate == "" {
			b.ManufacturingDate = nil
		} else {
			mfg, err := time.Parse("2006-01-02", *req.ManufacturingDate)
			if err != nil {
				return nil, fmt.Errorf("invalid manufacturing_date: %w", err)
			}
			b.ManufacturingDate = &mfg
		}
	}
	if err := applyDecimal(&b.MRP, req.MRP, "mrp"); err != nil {
		return nil, err
	}
	if err := applyDecimal(&b.SalePrice, req.SalePrice, "sale_price"); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.batchRepo.Update(txCtx, b); err != nil {
			return fmt.Errorf("failed to update batch: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpdateBatch, b.ID.String(), b.BatchNumber, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *inventoryService) ListBatches(ctx context.Context, productID string) ([]BatchResponse, error) {
	parsed, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	batches, err := s.batchRepo.ListByProduct(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch batches: %w", err)
	}

	result := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		result = append(result, toBatchResponse(parsed, toSelectorBatch(b)))
	}
	return result, nil
}

// SelectBatches runs one policy pass over a product's lots. When the batch
// fetch itself fails the selection degrades to the synthetic default batch
// instead of erroring, so the billing screen keeps working through a partial
// outage.
func (s *inventoryService) SelectBatches(ctx context.Context, productID string, req BatchSelectionRequest) ([]BatchResponse, error) {
	parsed, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	selProduct := batch.Product{ID: product.ID, MRP: product.MRP, SalePrice: product.SalePrice}

	rows, err := s.batchRepo.ListByProduct(ctx, parsed)
	if err != nil {
		fallback := s.selector.DefaultBatch(selProduct)
		return []BatchResponse{toBatchResponse(parsed, fallback)}, nil
	}

	pol := batch.Policy{
		SortBy:        batch.SortKey(req.SortBy),
		SortOrder:     batch.SortOrder(req.SortOrder),
		FilterExpired: req.FilterExpired,
		MinQuantity:   req.MinQuantity,
		Fallback:      req.Fallback,
	}
	if pol.SortBy == "" {
		pol.SortBy = batch.SortByExpiry
	}
	if pol.SortOrder == "" {
		pol.SortOrder = batch.Asc
	}

	selected := s.selector.Select(selProduct, toSelectorBatches(rows), pol)
	return toBatchResponses(parsed, selected), nil
}

// QuickPickBatches is the quick-add flow: fixed policy, always returns at
// least the synthetic batch.
func (s *inventoryService) QuickPickBatches(ctx context.Context, productID string) ([]BatchResponse, error) {
	parsed, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	selProduct := batch.Product{ID: product.ID, MRP: product.MRP, SalePrice: product.SalePrice}

	rows, err := s.batchRepo.ListByProduct(ctx, parsed)
	if err != nil {
		fallback := s.selector.DefaultBatch(selProduct)
		return []BatchResponse{toBatchResponse(parsed, fallback)}, nil
	}

	selected := s.selector.QuickPick(selProduct, toSelectorBatches(rows))
	return toBatchResponses(parsed, selected), nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, userID string, batchID string, req AdjustStockRequest) (*model.ProductBatch, error) {
	parsed, err := uuid.Parse(batchID)
	if err != nil {
		return nil, fmt.Errorf("invalid batch id: %w", err)
	}

	var adjusted *model.ProductBatch
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.batchRepo.FindByIDForUpdate(txCtx, parsed)
		if err != nil {
			return fmt.Errorf("batch not found: %w", err)
		}

		b.QuantityAvailable += req.Delta
		if b.QuantityAvailable < 0 {
			return fmt.Errorf("adjustment would leave batch %s with negative stock", b.BatchNumber)
		}
		if err := s.batchRepo.UpdateQuantity(txCtx, b.ID, b.QuantityAvailable); err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}

		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionAdjustStock, b.ID.String(), b.BatchNumber, req)
		adjusted = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStock(ctx, adjusted)
	return adjusted, nil
}

// --- Reports ---

func (s *inventoryService) NearExpiry(ctx context.Context, days, page, limit int) ([]model.ProductBatch, int64, error) {
	if days <= 0 {
		days = nearExpiryWindowDays
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	cutoff := time.Now().AddDate(0, 0, days)
	return s.batchRepo.ListExpiringBefore(ctx, cutoff, page, limit)
}

func (s *inventoryService) LowStock(ctx context.Context) ([]model.LowStockProduct, error) {
	return s.productRepo.ListLowStock(ctx)
}

// --- Helpers ---

func (s *inventoryService) broadcastStock(ctx context.Context, b *model.ProductBatch) {
	if s.hub == nil || b == nil {
		return
	}

	events := []ws.StockEvent{{
		Event:       ws.EventStockUpdated,
		ProductID:   b.ProductID.String(),
		BatchID:     b.ID.String(),
		BatchNumber: b.BatchNumber,
		Quantity:    b.QuantityAvailable,
	}}
	if batchNearExpiry(b.ExpiryDate) && b.QuantityAvailable > 0 {
		events = append(events, ws.StockEvent{
			Event:       ws.EventNearExpiry,
			ProductID:   b.ProductID.String(),
			BatchID:     b.ID.String(),
			BatchNumber: b.BatchNumber,
			Quantity:    b.QuantityAvailable,
		})
	}

	// Alerts are best-effort; a failed product lookup never surfaces here.
	if product, err := s.productRepo.FindByID(ctx, b.ProductID); err == nil && product.MinStock > 0 {
		if total, err := s.batchRepo.TotalStock(ctx, b.ProductID); err == nil && total <= product.MinStock {
			events = append(events, ws.StockEvent{
				Event:       ws.EventLowStock,
				ProductID:   b.ProductID.String(),
				ProductName: product.Name,
				Quantity:    total,
			})
		}
	}

	for _, event := range events {
		if payload, err := json.Marshal(event); err == nil {
			s.hub.Broadcast <- payload
		}
	}
}


func applyDecimal(dst *decimal.Decimal, src *string, field string) error {
	if src == nil {
		return nil
	}
	parsed, err := decimal.NewFromString(*src)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	*dst = parsed
	return nil
}

func toSelectorBatch(b model.ProductBatch) batch.Batch {
	return batch.Batch{
		ID:                b.ID,
		BatchNumber:       b.BatchNumber,
		ExpiryDate:        b.ExpiryDate,
		ManufacturingDate: b.ManufacturingDate,
		QuantityAvailable: b.QuantityAvailable,
		MRP:               b.MRP,
		SalePrice:         b.SalePrice,
	}
}

func toSelectorBatches(rows []model.ProductBatch) []batch.Batch {
	batches := make([]batch.Batch, 0, len(rows))
	for _, row := range rows {
		batches = append(batches, toSelectorBatch(row))
	}
	return batches
}

func toBatchResponse(productID uuid.UUID, b batch.Batch) BatchResponse {
	resp := BatchResponse{
		ID:                b.ID.String(),
		ProductID:         productID.String(),
		BatchNumber:       b.BatchNumber,
		QuantityAvailable: b.QuantityAvailable,
		MRP:               b.MRP.StringFixed(2),
		SalePrice:         b.SalePrice.StringFixed(2),
		Synthetic:         b.Synthetic,
	}
	if b.Synthetic {
		resp.ID = ""
	}
	if b.ExpiryDate != nil {
		exp := b.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &exp
	}
	if b.ManufacturingDate != nil {
		mfg := b.ManufacturingDate.Format("2006-01-02")
		resp.ManufacturingDate = &mfg
	}
	return resp
}

func toBatchResponses(productID uuid.UUID, batches []batch.Batch) []BatchResponse {
	result := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		result = append(result, toBatchResponse(productID, b))
	}
	return result
}
