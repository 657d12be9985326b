package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a medicine or retail item in the catalog
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name         string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Manufacturer string          `gorm:"type:varchar(255)" json:"manufacturer"`
	HSNCode      string          `gorm:"column:hsn_code;type:varchar(20)" json:"hsn_code"`
	UnitPack     string          `gorm:"type:varchar(50)" json:"unit_pack"` // e.g. "10x10 TAB"
	MRP          decimal.Decimal `gorm:"column:mrp;type:decimal(10,2);not null" json:"mrp"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
	PurchaseRate decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"purchase_rate"`
	TaxPercent   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percent"` // GST slab: 0, 5, 12, 18, 28
	MinStock     int             `gorm:"type:int;default:0" json:"min_stock"`                     // Low-stock alert threshold
	ScheduleH    bool            `gorm:"default:false" json:"schedule_h"`                         // Prescription-only flag
	Batches      []ProductBatch  `gorm:"foreignKey:ProductID" json:"batches,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ProductBatch is one inventory lot of a product. Expiry and manufacturing
// dates are nullable: a batch without an expiry date never expires.
type ProductBatch struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_product_batch_no" json:"product_id"`
	Product           *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BatchNumber       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_batch_no" json:"batch_number"`
	ExpiryDate        *time.Time      `gorm:"type:date;index" json:"expiry_date"`
	ManufacturingDate *time.Time      `gorm:"type:date" json:"manufacturing_date"`
	QuantityAvailable int             `gorm:"type:int;not null;default:0" json:"quantity_available"`
	MRP               decimal.Decimal `gorm:"column:mrp;type:decimal(10,2);not null" json:"mrp"`
	SalePrice         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
