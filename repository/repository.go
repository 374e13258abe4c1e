// Package repository holds the persistence contracts for accounts, the
// transaction ledger and the payment event log, with GORM, Redis and
// in-memory implementations.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/PayGate/models"
)

var (
	// ErrNotFound is returned when no row matches, including rows owned by someone else.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate entry")
)

// UserRepository is the account directory's store.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

// StatusUpdate carries the provider fields written alongside a status change.
// Nil fields are left untouched.
type StatusUpdate struct {
	ProviderPaymentID *string
	ProviderSignature *string
}

// TransactionRepository is the ledger. Lookups with a userID never return
// another user's transaction.
type TransactionRepository interface {
	Insert(ctx context.Context, txn *models.Transaction) error
	FindByIDForUser(ctx context.Context, id, userID uint) (*models.Transaction, error)
	FindByProviderOrderIDForUser(ctx context.Context, providerOrderID string, userID uint) (*models.Transaction, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Transaction, error)
	// AttachProviderOrder sets the provider order id and receipt. It only
	// succeeds once per transaction; a second call returns ErrDuplicate.
	AttachProviderOrder(ctx context.Context, id uint, providerOrderID, receipt string) error
	// UpdateStatus moves a transaction from one status to another. It reports
	// false, without error, when the row was no longer in the from status.
	UpdateStatus(ctx context.Context, id uint, from, to models.TransactionStatus, update StatusUpdate) (bool, error)
}

// PaymentLogRepository is the append-only event log. There is deliberately
// no update or delete.
type PaymentLogRepository interface {
	Append(ctx context.Context, entry *models.PaymentLog) error
	ListByTransaction(ctx context.Context, transactionID uint) ([]models.PaymentLog, error)
}

// OrderSequencer hands out per-user order numbers. Two calls for the same
// user never return the same value.
type OrderSequencer interface {
	Next(ctx context.Context, userID uint) (int64, error)
}
