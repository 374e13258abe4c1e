package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Govind-619/PayGate/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormUpdateStatusComparesCurrentStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	paymentID := "pay_1"

	mock.ExpectExec(`UPDATE "transactions" SET .*"status"=.* WHERE .*id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	applied, err := repo.UpdateStatus(ctx, 5, models.TransactionStatusPending, models.TransactionStatusSuccess,
		StatusUpdate{ProviderPaymentID: &paymentID})
	require.NoError(t, err)
	assert.True(t, applied)

	mock.ExpectExec(`UPDATE "transactions" SET .*"status"=.* WHERE .*id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	applied, err = repo.UpdateStatus(ctx, 5, models.TransactionStatusPending, models.TransactionStatusFailed, StatusUpdate{})
	require.NoError(t, err)
	assert.False(t, applied)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAttachProviderOrderOnlyOnce(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE "transactions" SET .* WHERE .*provider_order_id IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.AttachProviderOrder(ctx, 5, "order_1", "ORD_1_1"))

	mock.ExpectExec(`UPDATE "transactions" SET .* WHERE .*provider_order_id IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.AttachProviderOrder(ctx, 5, "order_2", "ORD_1_1"), ErrDuplicate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTranslatesDriverErrors(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewGormUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	err := users.Create(ctx, &models.User{Username: "asha@example.com", Email: "asha@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))
	_, err = users.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset"))
	_, err = users.FindByID(ctx, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSequencerUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	seq := NewPostgresSequencer(db)

	mock.ExpectQuery(`(?s)INSERT INTO order_sequences.*ON CONFLICT \(user_id\).*RETURNING last_value`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(4))
	got, err := seq.Next(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	mock.ExpectQuery(`INSERT INTO order_sequences`).WillReturnError(errors.New("connection reset"))
	_, err = seq.Next(context.Background(), 7)
	assert.ErrorContains(t, err, "user 7")

	assert.NoError(t, mock.ExpectationsWereMet())
}
