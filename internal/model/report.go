package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary aggregates finalized invoice totals over a date range
type SalesSummary struct {
	TotalInvoices      int             `json:"total_invoices"`
	GrossSales         decimal.Decimal `json:"gross_sales"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	NetSales           decimal.Decimal `json:"net_sales"`
	TopProducts        []ProductSales  `json:"top_products"`
	TimeRangeStartDate time.Time       `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time       `json:"time_range_end_date"`
}

// ProductSales represents a ranked product based on accumulated sales
type ProductSales struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductSKU    string          `json:"product_sku"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// LowStockProduct is a read-model row for the low-stock report
type LowStockProduct struct {
	ProductID   string `json:"product_id"`
	ProductSKU  string `json:"product_sku"`
	ProductName string `json:"product_name"`
	MinStock    int    `json:"min_stock"`
	StockOnHand int    `json:"stock_on_hand"`
}

// CollectionsSummary aggregates payments over a date range, per mode
type CollectionsSummary struct {
	TotalReceived decimal.Decimal            `json:"total_received"`
	TotalPaid     decimal.Decimal            `json:"total_paid"`
	ByMode        map[string]decimal.Decimal `json:"by_mode"`
	StartDate     time.Time                  `json:"start_date"`
	EndDate       time.Time                  `json:"end_date"`
}
