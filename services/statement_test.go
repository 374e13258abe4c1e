package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementFixture() Statement {
	amount := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return Statement{
		User:        models.User{ID: 7, Email: "asha@example.com", FirstName: "Asha", LastName: "Rao"},
		GeneratedAt: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		Transactions: []models.Transaction{
			{OrderID: "ORD_7_4", Amount: amount("250.50"), Currency: "INR", Status: models.TransactionStatusSuccess, Description: "Fees"},
			{OrderID: "ORD_7_3", Amount: amount("100"), Currency: "INR", Status: models.TransactionStatusSuccess},
			{OrderID: "ORD_7_2", Amount: amount("12"), Currency: "USD", Status: models.TransactionStatusSuccess},
			{OrderID: "ORD_7_1", Amount: amount("40"), Currency: "INR", Status: models.TransactionStatusFailed},
			{OrderID: "ORD_7_0", Amount: amount("5"), Currency: "INR", Status: models.TransactionStatusPending},
		},
	}
}

func TestStatementSummary(t *testing.T) {
	summary := statementFixture().Summary()

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 0, summary.Refunded)
	assert.Equal(t, []string{"350.50 INR", "12.00 USD"}, summary.PaidLines())
}

func TestStatementRender(t *testing.T) {
	statement := statementFixture()

	var pdf bytes.Buffer
	require.NoError(t, statement.Render(&pdf, StatementFormatPDF))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))

	var workbook bytes.Buffer
	require.NoError(t, statement.Render(&workbook, StatementFormatXLSX))
	assert.True(t, bytes.HasPrefix(workbook.Bytes(), []byte("PK")))

	assert.Error(t, statement.Render(&bytes.Buffer{}, "csv"))
	assert.Equal(t, "statement_7_20261015.pdf", statement.FileName(StatementFormatPDF))
	assert.Equal(t, "application/pdf", ContentType(StatementFormatPDF))
}

func TestBuildStatement(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "asha@example.com")
	env.createOrder(t, user, "10")
	env.createOrder(t, user, "20")
	other := env.createUser(t, "ravi@example.com")
	env.createOrder(t, other, "30")

	statement, err := env.svc.BuildStatement(context.Background(), user.ID, StatementFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, user.Email, statement.User.Email)
	assert.Len(t, statement.Transactions, 2)

	_, err = env.svc.BuildStatement(context.Background(), user.ID, "csv")
	require.Error(t, err)
	assert.True(t, utils.IsBadRequestError(err))
	assert.Equal(t, "format: Must be pdf or xlsx.", utils.GetAppError(err).Message)
}
