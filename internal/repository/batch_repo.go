package repository

import (
	"context"
	"time"

	"pharmadesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRepository interface {
	Create(ctx context.Context, batch *model.ProductBatch) error
	Update(ctx context.Context, batch *model.ProductBatch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductBatch, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ProductBatch, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductBatch, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time, page, limit int) ([]model.ProductBatch, int64, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	TotalStock(ctx context.Context, productID uuid.UUID) (int, error)
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *model.ProductBatch) error {
	return GetDB(ctx, r.db).Create(batch).Error
}

func (r *batchRepository) Update(ctx context.Context, batch *model.ProductBatch) error {
	return GetDB(ctx, r.db).Save(batch).Error
}

func (r *batchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductBatch, error) {
	var batch model.ProductBatch
	if err := GetDB(ctx, r.db).First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// FindByIDForUpdate row-locks the batch so concurrent invoice finalizations
// cannot both deduct from the same lot.
func (r *batchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ProductBatch, error) {
	var batch model.ProductBatch
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductBatch, error) {
	var batches []model.ProductBatch
	if err := GetDB(ctx, r.db).
		Where("product_id = ?", productID).
		Order("created_at asc").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *batchRepository) ListExpiringBefore(ctx context.Context, cutoff time.Time, page, limit int) ([]model.ProductBatch, int64, error) {
	var batches []model.ProductBatch
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ProductBatch{}).
		Where("expiry_date IS NOT NULL AND expiry_date <= ? AND quantity_available > 0", cutoff)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Product").Order("expiry_date asc").Offset(offset).Limit(limit).Find(&batches).Error; err != nil {
		return nil, 0, err
	}

	return batches, total, nil
}

func (r *batchRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return GetDB(ctx, r.db).Model(&model.ProductBatch{}).Where("id = ?", id).Update("quantity_available", quantity).Error
}

// TotalStock sums the available quantity across all batches of a product.
func (r *batchRepository) TotalStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.ProductBatch{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity_available), 0)").
		Scan(&total).Error
	return int(total), err
}
