package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateProduct = "CREATE_PRODUCT"
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"
	ActionCreateBatch   = "CREATE_BATCH"
	ActionUpdateBatch   = "UPDATE_BATCH"
	ActionAdjustStock   = "ADJUST_STOCK"
	ActionCreateParty   = "CREATE_PARTY"
	ActionUpdateParty   = "UPDATE_PARTY"
	ActionDeleteParty   = "DELETE_PARTY"

	// Invoice lifecycle actions
	ActionCreateInvoice   = "CREATE_INVOICE"
	ActionFinalizeInvoice = "FINALIZE_INVOICE"
	ActionCancelInvoice   = "CANCEL_INVOICE"
	ActionRecordPayment   = "RECORD_PAYMENT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated bot
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
