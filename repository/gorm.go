package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/PayGate/models"
	"gorm.io/gorm"
)

// translate maps GORM's sentinel errors onto ours. The DB must be opened
// with TranslateError so that unique violations surface as ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// GormUserRepository stores users in the users table.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// GormTransactionRepository stores the ledger in the transactions table.
type GormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) Insert(ctx context.Context, txn *models.Transaction) error {
	return translate(r.db.WithContext(ctx).Create(txn).Error)
}

func (r *GormTransactionRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&txn).Error
	if err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

func (r *GormTransactionRepository) FindByProviderOrderIDForUser(ctx context.Context, providerOrderID string, userID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("provider_order_id = ? AND user_id = ?", providerOrderID, userID).
		First(&txn).Error
	if err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

func (r *GormTransactionRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("provider_order_id = ?", providerOrderID).
		First(&txn).Error
	if err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

func (r *GormTransactionRepository) ListByUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error
	return txns, err
}

func (r *GormTransactionRepository) AttachProviderOrder(ctx context.Context, id uint, providerOrderID, receipt string) error {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND provider_order_id IS NULL", id).
		Updates(map[string]interface{}{
			"provider_order_id": providerOrderID,
			"receipt":           receipt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *GormTransactionRepository) UpdateStatus(ctx context.Context, id uint, from, to models.TransactionStatus, update StatusUpdate) (bool, error) {
	fields := map[string]interface{}{"status": to}
	if update.ProviderPaymentID != nil {
		fields["provider_payment_id"] = *update.ProviderPaymentID
	}
	if update.ProviderSignature != nil {
		fields["provider_signature"] = *update.ProviderSignature
	}

	// Compare-and-set on status so a racing verify and webhook cannot both apply.
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// GormPaymentLogRepository appends to the payment_logs table.
type GormPaymentLogRepository struct {
	db *gorm.DB
}

func NewGormPaymentLogRepository(db *gorm.DB) *GormPaymentLogRepository {
	return &GormPaymentLogRepository{db: db}
}

func (r *GormPaymentLogRepository) Append(ctx context.Context, entry *models.PaymentLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *GormPaymentLogRepository) ListByTransaction(ctx context.Context, transactionID uint) ([]models.PaymentLog, error) {
	var logs []models.PaymentLog
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	return logs, err
}
