package repository

import (
	"context"
	"time"

	"pharmadesk/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository interface {
	SalesTotals(ctx context.Context, start, end time.Time) (invoices int, gross, discount, tax, net decimal.Decimal, err error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductSales, error)
	PaymentTotals(ctx context.Context, start, end time.Time) (received, paid decimal.Decimal, byMode map[string]decimal.Decimal, err error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

type salesTotalsRow struct {
	Count    int
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Net      decimal.Decimal
}

func (r *reportRepository) SalesTotals(ctx context.Context, start, end time.Time) (int, decimal.Decimal, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	var row salesTotalsRow
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("COUNT(*) AS count, COALESCE(SUM(gross),0) AS gross, COALESCE(SUM(discount),0) AS discount, COALESCE(SUM(tax_amount),0) AS tax, COALESCE(SUM(net),0) AS net").
		Where("type = ? AND status = ? AND finalized_at BETWEEN ? AND ?",
			model.InvoiceTypeSale, model.InvoiceStatusFinal, start, end).
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return row.Count, row.Gross, row.Discount, row.Tax, row.Net, nil
}

func (r *reportRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductSales, error) {
	var rows []model.ProductSales
	err := GetDB(ctx, r.db).
		Table("invoice_items").
		Select("products.id AS product_id, products.name AS product_name, products.sku AS product_sku, SUM(invoice_items.quantity) AS total_quantity, SUM(invoice_items.total) AS total_value").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Joins("JOIN products ON products.id = invoice_items.product_id").
		Where("invoices.type = ? AND invoices.status = ? AND invoices.finalized_at BETWEEN ? AND ?",
			model.InvoiceTypeSale, model.InvoiceStatusFinal, start, end).
		Group("products.id, products.name, products.sku").
		Order("total_value DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type paymentModeRow struct {
	Direction string
	Mode      string
	Total     decimal.Decimal
}

func (r *reportRepository) PaymentTotals(ctx context.Context, start, end time.Time) (decimal.Decimal, decimal.Decimal, map[string]decimal.Decimal, error) {
	var rows []paymentModeRow
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Select("direction, mode, COALESCE(SUM(amount),0) AS total").
		Where("payment_date BETWEEN ? AND ?", start, end).
		Group("direction, mode").
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}

	received, paid := decimal.Zero, decimal.Zero
	byMode := make(map[string]decimal.Decimal)
	for _, row := range rows {
		byMode[row.Mode] = byMode[row.Mode].Add(row.Total)
		if row.Direction == model.PaymentReceived {
			received = received.Add(row.Total)
		} else {
			paid = paid.Add(row.Total)
		}
	}
	return received, paid, byMode, nil
}
