package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentEventType names a notable event in the audit trail.
type PaymentEventType string

const (
	EventOrderCreated      PaymentEventType = "ORDER_CREATED"
	EventPaymentSuccess    PaymentEventType = "PAYMENT_SUCCESS"
	EventPaymentFailed     PaymentEventType = "PAYMENT_FAILED"
	EventWebhookReceived   PaymentEventType = "WEBHOOK_RECEIVED"
	EventSignatureVerified PaymentEventType = "SIGNATURE_VERIFIED"
	EventSignatureFailed   PaymentEventType = "SIGNATURE_FAILED"
)

// PaymentLog is an append-only audit row. TransactionID is nil for events
// that cannot be tied to a transaction, e.g. a webhook with a bad signature.
type PaymentLog struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	TransactionID *uint            `gorm:"index" json:"transaction_id"`
	EventType     PaymentEventType `gorm:"type:varchar(50);not null;index" json:"event_type"`
	Payload       datatypes.JSON   `json:"payload,omitempty"`
	Message       string           `gorm:"type:text" json:"message"`
	IPAddress     string           `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
}

func (PaymentLog) TableName() string {
	return "payment_logs"
}
