package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceType enum constants
const (
	InvoiceTypeSale     = "SALE"
	InvoiceTypePurchase = "PURCHASE"
)

// InvoiceStatus enum constants. Only FINAL invoices touch batch stock and the
// party ledger; a DRAFT can be edited freely and a FINAL can only be cancelled.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusFinal     = "FINAL"
	InvoiceStatusCancelled = "CANCELLED"
)

// Jurisdiction enum constants (tax decomposition, not rate)
const (
	JurisdictionIntraState = "INTRA_STATE"
	JurisdictionInterState = "INTER_STATE"
)

// Invoice represents a GST sale or purchase document with frozen party
// hard-copy fields and fully derived document totals.
type Invoice struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo    string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	Type         string          `gorm:"type:varchar(20);not null;index" json:"type"` // SALE, PURCHASE
	Status       string          `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	PartyID      *uuid.UUID      `gorm:"type:uuid;index" json:"party_id"` // Nullable for walk-in sales
	Party        *Party          `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	PartyName    string          `gorm:"type:varchar(255)" json:"party_name"` // Hard copy at invoice time
	PartyGSTIN   string          `gorm:"column:party_gstin;type:varchar(15)" json:"party_gstin"`
	Jurisdiction string          `gorm:"type:varchar(20);not null;default:'INTRA_STATE'" json:"jurisdiction"`
	Items        []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Gross        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"gross"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount"`
	Taxable      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"taxable"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_amount"`
	CGST         decimal.Decimal `gorm:"column:cgst;type:decimal(18,2);not null;default:0" json:"cgst"`
	SGST         decimal.Decimal `gorm:"column:sgst;type:decimal(18,2);not null;default:0" json:"sgst"`
	IGST         decimal.Decimal `gorm:"column:igst;type:decimal(18,2);not null;default:0" json:"igst"`
	Net          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"net"`
	RoundOff     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"round_off"`
	Final        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"final"` // = round(net) to whole currency
	Note         string          `gorm:"type:text" json:"note"`
	FinalizedBy  *uuid.UUID      `gorm:"type:uuid" json:"finalized_by"`
	FinalizedAt  *time.Time      `json:"finalized_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// InvoiceItem is one line of an invoice. The computed money fields are always
// replaced wholesale by the tax engine, never patched individually.
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BatchID         *uuid.UUID      `gorm:"type:uuid;index" json:"batch_id"` // Nil when sold against a synthetic batch
	BatchNumber     string          `gorm:"type:varchar(100)" json:"batch_number"`
	ExpiryDate      *time.Time      `gorm:"type:date" json:"expiry_date"`
	Quantity        int             `gorm:"type:int;not null" json:"quantity"`
	FreeQuantity    int             `gorm:"type:int;not null;default:0" json:"free_quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percent"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"subtotal"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount_amount"`
	TaxableAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"taxable_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_amount"`
	CGST            decimal.Decimal `gorm:"column:cgst;type:decimal(18,2);not null;default:0" json:"cgst"`
	SGST            decimal.Decimal `gorm:"column:sgst;type:decimal(18,2);not null;default:0" json:"sgst"`
	IGST            decimal.Decimal `gorm:"column:igst;type:decimal(18,2);not null;default:0" json:"igst"`
	Total           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total"`
}
