package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Govind-619/PayGate/middleware"
	"github.com/Govind-619/PayGate/services"
	"github.com/Govind-619/PayGate/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest accepts the amount as a JSON number or a numeric string.
type CreateOrderRequest struct {
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type PaymentFailureRequest struct {
	TransactionID *uint `json:"transaction_id"`
}

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// CreateOrder handles POST /api/payments/create-order
func (ctl *PaymentController) CreateOrder(c *gin.Context) {
	utils.LogInfo("CreateOrder called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create-order request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request body.")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	result, err := ctl.payments.CreateOrder(c.Request.Context(), utils.NewRequestContext(c, user.ID), services.CreateOrderInput{
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, utils.MsgOrderCreated, NewOrderResponse(*result))
}

// VerifyPayment handles POST /api/payments/verify
func (ctl *PaymentController) VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid verify request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request body.")
		return
	}
	utils.LogInfo("Verifying Razorpay order %s, payment %s for user ID: %d", req.RazorpayOrderID, req.RazorpayPaymentID, user.ID)

	txn, err := ctl.payments.VerifyPayment(c.Request.Context(), utils.NewRequestContext(c, user.ID), services.VerifyInput{
		ProviderOrderID:   req.RazorpayOrderID,
		ProviderPaymentID: req.RazorpayPaymentID,
		ProviderSignature: req.RazorpaySignature,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, utils.MsgPaymentSuccess, gin.H{"transaction": NewTransactionResponse(*txn)})
}

// ReportFailure handles POST /api/payments/failure
func (ctl *PaymentController) ReportFailure(c *gin.Context) {
	utils.LogInfo("ReportFailure called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}

	var req PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TransactionID == nil {
		utils.LogError("Invalid failure report for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "transaction_id is required.")
		return
	}

	txn, err := ctl.payments.ReportFailure(c.Request.Context(), utils.NewRequestContext(c, user.ID), *req.TransactionID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, utils.MsgPaymentFailed, gin.H{"transaction": NewTransactionResponse(*txn)})
}

// ListTransactions handles GET /api/payments/transactions
func (ctl *PaymentController) ListTransactions(c *gin.Context) {
	utils.LogInfo("ListTransactions called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}

	txns, err := ctl.payments.TransactionHistory(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogDebug("Found %d transactions for user ID: %d", len(txns), user.ID)

	utils.Success(c, "Transactions retrieved", NewTransactionListResponse(txns))
}

// GetTransaction handles GET /api/payments/transactions/:id
func (ctl *PaymentController) GetTransaction(c *gin.Context) {
	utils.LogInfo("GetTransaction called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}

	txn, err := ctl.payments.TransactionDetail(c.Request.Context(), user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Transaction retrieved", NewTransactionResponse(*txn))
}

// GetTransactionLogs handles GET /api/payments/transactions/:id/logs
func (ctl *PaymentController) GetTransactionLogs(c *gin.Context) {
	utils.LogInfo("GetTransactionLogs called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}

	logs, err := ctl.payments.TransactionLogs(c.Request.Context(), user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Payment logs retrieved", NewPaymentLogListResponse(logs))
}

// ExportTransactions handles GET /api/payments/transactions/export?format=pdf|xlsx
func (ctl *PaymentController) ExportTransactions(c *gin.Context) {
	utils.LogInfo("ExportTransactions called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrLoginRequired)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", services.StatementFormatPDF))
	utils.LogDebug("Generating %s statement for user ID: %d", format, user.ID)

	statement, err := ctl.payments.BuildStatement(c.Request.Context(), user.ID, format)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// Rendered to a buffer first so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := statement.Render(&buf, format); err != nil {
		utils.RespondError(c, utils.InternalError("Failed to generate statement", err))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+statement.FileName(format))
	c.Data(http.StatusOK, services.ContentType(format), buf.Bytes())
	utils.LogInfo("Generated %s statement with %d transactions for user ID: %d", format, len(statement.Transactions), user.ID)
}

func transactionIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.NotFound(c, utils.ErrTransactionNotFound)
		return 0, false
	}
	return uint(id), true
}

// parseAmount returns nil for an absent, null or empty amount.
func parseAmount(raw json.RawMessage) (*decimal.Decimal, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return nil, nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, utils.ValidationError("amount: Enter a valid number.", err)
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return nil, nil
		}
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return nil, utils.ValidationError("amount: Enter a valid number.", err)
	}
	return &amount, nil
}
