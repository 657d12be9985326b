package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartyType enum constants
const (
	PartyTypeCustomer = "CUSTOMER"
	PartyTypeSupplier = "SUPPLIER"
	PartyTypeBoth     = "BOTH"
)

// Party represents a customer, supplier, or both. GSTIN's first two characters
// carry the state code used for intra/inter-state tax classification.
type Party struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Type           string          `gorm:"type:varchar(20);not null;index" json:"type"` // CUSTOMER, SUPPLIER, BOTH
	GSTIN          string          `gorm:"column:gstin;type:varchar(15)" json:"gstin"`
	Phone          string          `gorm:"type:varchar(50)" json:"phone"`
	Email          string          `gorm:"type:varchar(255)" json:"email"`
	Address        string          `gorm:"type:text" json:"address"`
	DoctorName     string          `gorm:"type:varchar(255)" json:"doctor_name"` // Referring doctor, customers only
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"opening_balance"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
