package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/PayGate/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTransaction(t *testing.T, store *MemoryStore, userID uint, orderID string) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		UserID:   userID,
		OrderID:  orderID,
		Amount:   decimal.NewFromInt(100),
		Currency: models.DefaultCurrency,
		Status:   models.TransactionStatusPending,
	}
	require.NoError(t, store.Transactions().Insert(context.Background(), txn))
	return txn
}

func TestMemoryUsersRejectDuplicates(t *testing.T) {
	store := NewMemoryStore()
	users := store.Users()
	ctx := context.Background()

	user := &models.User{Username: "asha@example.com", Email: "asha@example.com"}
	require.NoError(t, users.Create(ctx, user))
	assert.Equal(t, uint(1), user.ID)

	err := users.Create(ctx, &models.User{Username: "asha@example.com", Email: "asha@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = users.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	at := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, users.TouchLastLogin(ctx, user.ID, at))
	found, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, at.Equal(*found.LastLoginAt))
}

func TestMemoryTransactionsScopedToOwner(t *testing.T) {
	store := NewMemoryStore()
	txns := store.Transactions()
	ctx := context.Background()
	txn := seedTransaction(t, store, 1, "ORD_1_1")
	require.NoError(t, txns.AttachProviderOrder(ctx, txn.ID, "order_1", "ORD_1_1"))

	_, err := txns.FindByIDForUser(ctx, txn.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = txns.FindByProviderOrderIDForUser(ctx, "order_1", 2)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := txns.FindByProviderOrderIDForUser(ctx, "order_1", 1)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, found.ID)

	err = txns.Insert(ctx, &models.Transaction{UserID: 2, OrderID: "ORD_1_1"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryAttachProviderOrderOnce(t *testing.T) {
	store := NewMemoryStore()
	txns := store.Transactions()
	ctx := context.Background()
	first := seedTransaction(t, store, 1, "ORD_1_1")
	second := seedTransaction(t, store, 1, "ORD_1_2")

	require.NoError(t, txns.AttachProviderOrder(ctx, first.ID, "order_1", "ORD_1_1"))
	assert.ErrorIs(t, txns.AttachProviderOrder(ctx, first.ID, "order_2", "ORD_1_1"), ErrDuplicate)
	assert.ErrorIs(t, txns.AttachProviderOrder(ctx, second.ID, "order_1", "ORD_1_2"), ErrDuplicate)
}

func TestMemoryUpdateStatusCompareAndSet(t *testing.T) {
	store := NewMemoryStore()
	txns := store.Transactions()
	ctx := context.Background()
	txn := seedTransaction(t, store, 1, "ORD_1_1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := txns.UpdateStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusSuccess,
				StatusUpdate{ProviderPaymentID: models.StringPtr("pay_1")})
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, applied)

	found, err := txns.FindByIDForUser(ctx, txn.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, found.Status)
	assert.Equal(t, "pay_1", models.StringValue(found.ProviderPaymentID))
	assert.Nil(t, found.ProviderSignature)

	ok, err := txns.UpdateStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusFailed, StatusUpdate{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryListsNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	ctx := context.Background()

	older := seedTransaction(t, store, 1, "ORD_1_1")
	newer := seedTransaction(t, store, 1, "ORD_1_2")
	seedTransaction(t, store, 2, "ORD_2_1")

	list, err := store.Transactions().ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	for _, event := range []models.PaymentEventType{models.EventOrderCreated, models.EventPaymentSuccess} {
		require.NoError(t, store.Logs().Append(ctx, &models.PaymentLog{TransactionID: &older.ID, EventType: event}))
	}
	logs, err := store.Logs().ListByTransaction(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.EventPaymentSuccess, logs[0].EventType)
}

func TestMemoryDeleteUserCascades(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := &models.User{Username: "asha@example.com", Email: "asha@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))
	txn := seedTransaction(t, store, user.ID, "ORD_1_1")
	require.NoError(t, store.Logs().Append(ctx, &models.PaymentLog{TransactionID: &txn.ID, EventType: models.EventOrderCreated}))
	require.NoError(t, store.Logs().Append(ctx, &models.PaymentLog{EventType: models.EventSignatureFailed}))

	store.DeleteUser(user.ID)

	assert.Equal(t, 0, store.TransactionCount())
	logs := store.AllLogs()
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].TransactionID)
}

func TestMemorySequencer(t *testing.T) {
	seq := NewMemoryStore().Sequencer()
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := seq.Next(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
