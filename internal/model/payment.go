package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDirection enum constants
const (
	PaymentReceived = "RECEIVED" // Collection from a customer
	PaymentPaid     = "PAID"     // Settlement to a supplier
)

// PaymentMode enum constants
const (
	PaymentModeCash   = "CASH"
	PaymentModeUPI    = "UPI"
	PaymentModeCard   = "CARD"
	PaymentModeCheque = "CHEQUE"
	PaymentModeBank   = "BANK"
)

// Payment records a collection from or settlement to a party. Together with
// finalized invoices it forms the party ledger.
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartyID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"party_id"`
	Party       *Party          `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	Direction   string          `gorm:"type:varchar(20);not null;index" json:"direction"` // RECEIVED, PAID
	Mode        string          `gorm:"type:varchar(20);not null" json:"mode"`            // CASH, UPI, CARD, CHEQUE, BANK
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	ReferenceNo string          `gorm:"type:varchar(100)" json:"reference_no"` // Cheque/UPI/txn reference
	Note        string          `gorm:"type:text" json:"note"`
	PaymentDate time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	RecordedBy  *uuid.UUID      `gorm:"type:uuid" json:"recorded_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
