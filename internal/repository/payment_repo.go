package repository

import (
	"context"
	"time"

	"pharmadesk/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentListFilter narrows List results; zero values mean "no filter".
type PaymentListFilter struct {
	PartyID   *uuid.UUID
	Direction string
	Mode      string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, filter PaymentListFilter) ([]model.Payment, int64, error)
	ListByParty(ctx context.Context, partyID uuid.UUID) ([]model.Payment, error)
	SumByParty(ctx context.Context, partyID uuid.UUID, direction string) (decimal.Decimal, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).Preload("Party").First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, filter PaymentListFilter) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.PartyID != nil {
			q = q.Where("party_id = ?", *filter.PartyID)
		}
		if filter.Direction != "" {
			q = q.Where("direction = ?", filter.Direction)
		}
		if filter.Mode != "" {
			q = q.Where("mode = ?", filter.Mode)
		}
		if filter.StartDate != nil {
			q = q.Where("payment_date >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			q = q.Where("payment_date <= ?", *filter.EndDate)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := apply(db.Model(&model.Payment{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := apply(db.Preload("Party")).
		Order("payment_date desc, created_at desc").Offset(offset).Limit(filter.Limit).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *paymentRepository) ListByParty(ctx context.Context, partyID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	if err := GetDB(ctx, r.db).
		Where("party_id = ?", partyID).
		Order("payment_date asc, created_at asc").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) SumByParty(ctx context.Context, partyID uuid.UUID, direction string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Select("SUM(amount)").
		Where("party_id = ? AND direction = ?", partyID, direction).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
