package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a payment attempt.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusSuccess  TransactionStatus = "SUCCESS"
	TransactionStatusFailed   TransactionStatus = "FAILED"
	TransactionStatusRefunded TransactionStatus = "REFUNDED"
)

// IsTerminal reports whether the verify and failure flows may no longer move the status.
func (s TransactionStatus) IsTerminal() bool {
	return s != TransactionStatusPending
}

// DefaultCurrency is used when neither the request nor the configuration names one.
const DefaultCurrency = "INR"

// Transaction is one payment attempt in the ledger.
type Transaction struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	UserID            uint              `gorm:"not null;index" json:"user_id"`
	User              User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	OrderID           string            `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_id"`
	Amount            decimal.Decimal   `gorm:"type:numeric(15,3);not null" json:"amount"`
	Currency          string            `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	Status            TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ProviderOrderID   *string           `gorm:"type:varchar(100);uniqueIndex" json:"razorpay_order_id"`
	ProviderPaymentID *string           `gorm:"type:varchar(100)" json:"razorpay_payment_id"`
	ProviderSignature *string           `gorm:"type:varchar(255)" json:"-"`
	Receipt           string            `gorm:"type:varchar(100)" json:"receipt,omitempty"`
	Description       string            `gorm:"type:text" json:"description"`
	CreatedAt         time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Logs              []PaymentLog      `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// StringPtr is a small helper for the nullable provider columns.
func StringPtr(s string) *string {
	return &s
}

// StringValue dereferences a nullable column, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OrderSequence holds the last order number handed out per user.
type OrderSequence struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (OrderSequence) TableName() string {
	return "order_sequences"
}
