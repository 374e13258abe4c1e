package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Govind-619/PayGate/config"
	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/repository"
	"github.com/Govind-619/PayGate/utils"
	"github.com/shopspring/decimal"
)

// maxOrderIDAttempts bounds retries when a generated order id collides with
// an existing one, e.g. after a sequence store was reset.
const maxOrderIDAttempts = 3

var minimumAmount = decimal.NewFromInt(1)

// PaymentDeps wires the orchestrator. Notifier is optional.
type PaymentDeps struct {
	Transactions repository.TransactionRepository
	Users        repository.UserRepository
	Sequencer    repository.OrderSequencer
	Events       *EventLog
	Provider     PaymentProvider
	Notifier     ReceiptNotifier
	Config       config.RazorpayConfig
}

// PaymentService creates provider orders, verifies callbacks and applies
// status transitions to the ledger, recording each step in the event log.
type PaymentService struct {
	transactions repository.TransactionRepository
	users        repository.UserRepository
	sequencer    repository.OrderSequencer
	events       *EventLog
	provider     PaymentProvider
	notifier     ReceiptNotifier
	cfg          config.RazorpayConfig
	background   *background
}

func NewPaymentService(deps PaymentDeps) *PaymentService {
	cfg := deps.Config
	if cfg.Currency == "" {
		cfg.Currency = models.DefaultCurrency
	}
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.KeySecret
	}
	return &PaymentService{
		transactions: deps.Transactions,
		users:        deps.Users,
		sequencer:    deps.Sequencer,
		events:       deps.Events,
		provider:     deps.Provider,
		notifier:     deps.Notifier,
		cfg:          cfg,
		background:   newBackground(),
	}
}

// CreateOrderInput is the validated shape of a create-order request.
// Amount is nil when the field was absent.
type CreateOrderInput struct {
	Amount      *decimal.Decimal
	Description string
}

// OrderResult is everything the checkout widget needs. It never carries the
// provider secret.
type OrderResult struct {
	Transaction     models.Transaction
	KeyID           string
	ProviderOrderID string
	Amount          decimal.Decimal
	AmountMinor     int64
	Currency        string
	Description     string
	UserName        string
	UserEmail       string
}

// CreateOrder records a PENDING transaction and opens the matching provider order.
func (s *PaymentService) CreateOrder(ctx context.Context, rc utils.RequestContext, in CreateOrderInput) (*OrderResult, error) {
	if in.Amount == nil {
		return nil, utils.ValidationError("amount: This field is required.", nil)
	}
	amount := *in.Amount
	if amount.LessThan(minimumAmount) {
		return nil, utils.ValidationError("amount: Amount must be at least 1.", nil)
	}
	currency := s.cfg.Currency
	amountMinor, err := ToMinorUnits(amount, currency)
	if err != nil {
		return nil, utils.ValidationError("amount: Enter a valid amount.", err)
	}

	description := utils.SanitizeString(in.Description)
	if description == "" {
		description = utils.DefaultPaymentDescription
	}

	// Checked before anything is written so a misconfigured deployment
	// leaves no trace locally or at the provider.
	if !s.cfg.Configured() {
		utils.LogError("Razorpay keys not configured")
		return nil, utils.ConfigurationError(utils.ErrProviderNotConfigured, nil)
	}

	user, err := s.users.FindByID(ctx, rc.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.UnauthorizedError(utils.ErrLoginRequired, nil)
		}
		return nil, utils.InternalError("Failed to load user", err)
	}

	txn, err := s.insertPending(ctx, rc.UserID, amount, currency, description)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Transaction %s created for user ID: %d, amount: %s %s (%d minor units)",
		txn.OrderID, rc.UserID, FormatAmount(amount, currency), currency, amountMinor)

	order, err := s.provider.CreateOrder(ctx, OrderRequest{
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     txn.OrderID,
		Notes: map[string]string{
			"user_id":        strconv.FormatUint(uint64(rc.UserID), 10),
			"transaction_id": strconv.FormatUint(uint64(txn.ID), 10),
		},
	})
	if err != nil {
		// The local transaction stays PENDING; it is never reused.
		utils.LogError("Failed to create Razorpay order for %s: %v", txn.OrderID, err)
		return nil, utils.ProviderError("Error creating order: "+s.redact(err.Error()), err)
	}
	utils.LogInfo("Razorpay order %s created for %s", order.ID, txn.OrderID)

	receipt := order.Receipt
	if receipt == "" {
		receipt = txn.OrderID
	}
	if err := s.transactions.AttachProviderOrder(ctx, txn.ID, order.ID, receipt); err != nil {
		// The remote order exists but is not linked locally; reconciliation has to pick this up.
		utils.LogError("Razorpay order %s created but not recorded on %s: %v", order.ID, txn.OrderID, err)
		return nil, utils.InternalError("Failed to record order", err)
	}
	txn.ProviderOrderID = models.StringPtr(order.ID)
	txn.Receipt = receipt

	txnID := txn.ID
	s.record(ctx, rc, &txnID, models.EventOrderCreated, order.Raw, fmt.Sprintf("Order created: %s", order.ID))

	return &OrderResult{
		Transaction:     *txn,
		KeyID:           s.cfg.KeyID,
		ProviderOrderID: order.ID,
		Amount:          amount,
		AmountMinor:     amountMinor,
		Currency:        currency,
		Description:     description,
		UserName:        user.DisplayName(),
		UserEmail:       user.Email,
	}, nil
}

func (s *PaymentService) insertPending(ctx context.Context, userID uint, amount decimal.Decimal, currency, description string) (*models.Transaction, error) {
	for attempt := 1; attempt <= maxOrderIDAttempts; attempt++ {
		seq, err := s.sequencer.Next(ctx, userID)
		if err != nil {
			return nil, utils.InternalError("Failed to create transaction", err)
		}
		txn := &models.Transaction{
			UserID:      userID,
			OrderID:     fmt.Sprintf("ORD_%d_%d", userID, seq),
			Amount:      amount,
			Currency:    currency,
			Status:      models.TransactionStatusPending,
			Description: description,
		}
		err = s.transactions.Insert(ctx, txn)
		if err == nil {
			return txn, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.InternalError("Failed to create transaction", err)
		}
		utils.LogWarn("Order id %s already taken, drawing a new one (attempt %d)", txn.OrderID, attempt)
	}
	return nil, utils.InternalError("Failed to create transaction", errors.New("could not allocate a unique order id"))
}

// VerifyInput carries the checkout callback fields.
type VerifyInput struct {
	ProviderOrderID   string
	ProviderPaymentID string
	ProviderSignature string
}

// VerifyPayment checks the checkout callback signature and settles the
// caller's transaction. A terminal transaction is never modified: a repeat
// of the call that made it SUCCESS returns that success again; anything
// else is a conflict.
func (s *PaymentService) VerifyPayment(ctx context.Context, rc utils.RequestContext, in VerifyInput) (*models.Transaction, error) {
	in.ProviderOrderID = strings.TrimSpace(in.ProviderOrderID)
	in.ProviderPaymentID = strings.TrimSpace(in.ProviderPaymentID)
	in.ProviderSignature = strings.TrimSpace(in.ProviderSignature)
	if in.ProviderOrderID == "" || in.ProviderPaymentID == "" || in.ProviderSignature == "" {
		return nil, utils.ValidationError("razorpay_order_id, razorpay_payment_id and razorpay_signature are required.", nil)
	}
	if s.cfg.KeySecret == "" {
		return nil, utils.ConfigurationError(utils.ErrProviderNotConfigured, nil)
	}

	txn, err := s.transactions.FindByProviderOrderIDForUser(ctx, in.ProviderOrderID, rc.UserID)
	if err != nil {
		return nil, s.lookupError(err, in.ProviderOrderID)
	}

	valid := VerifySignature(s.cfg.KeySecret, PaymentSignatureMessage(in.ProviderOrderID, in.ProviderPaymentID), in.ProviderSignature)

	if txn.Status.IsTerminal() {
		return s.reverify(txn, in, valid)
	}

	if !valid {
		utils.LogWarn("Signature verification failed for %s (user ID: %d)", txn.OrderID, rc.UserID)
		applied, err := s.transactions.UpdateStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusFailed, repository.StatusUpdate{})
		if err != nil {
			return nil, utils.InternalError("Error verifying payment", err)
		}
		if applied {
			txnID := txn.ID
			s.record(ctx, rc, &txnID, models.EventSignatureFailed, nil, "Signature verification failed")
		}
		return nil, utils.VerificationFailedError(nil)
	}

	applied, err := s.transactions.UpdateStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusSuccess, repository.StatusUpdate{
		ProviderPaymentID: models.StringPtr(in.ProviderPaymentID),
		ProviderSignature: models.StringPtr(in.ProviderSignature),
	})
	if err != nil {
		return nil, utils.InternalError("Error verifying payment", err)
	}

	current, err := s.transactions.FindByIDForUser(ctx, txn.ID, rc.UserID)
	if err != nil {
		return nil, utils.InternalError("Error verifying payment", err)
	}
	if !applied {
		// Someone else (usually the webhook) settled it first.
		return s.reverify(current, in, valid)
	}

	utils.LogInfo("Payment %s verified for %s", in.ProviderPaymentID, txn.OrderID)
	txnID := txn.ID
	s.record(ctx, rc, &txnID, models.EventPaymentSuccess, jsonPayload(map[string]string{
		"order_id":   in.ProviderOrderID,
		"payment_id": in.ProviderPaymentID,
		"signature":  in.ProviderSignature,
	}), "Payment verified successfully")
	s.sendReceipt(*current)

	return current, nil
}

func (s *PaymentService) reverify(txn *models.Transaction, in VerifyInput, valid bool) (*models.Transaction, error) {
	if txn.Status == models.TransactionStatusSuccess && valid && models.StringValue(txn.ProviderPaymentID) == in.ProviderPaymentID {
		utils.LogInfo("Repeat verification for already successful %s", txn.OrderID)
		return txn, nil
	}
	utils.LogWarn("Verification rejected for %s in status %s", txn.OrderID, txn.Status)
	return nil, utils.ConflictError(utils.ErrTransactionFinalized, nil)
}

// ReportFailure marks a PENDING transaction FAILED after the checkout was
// abandoned or errored. Any other status is returned unchanged.
func (s *PaymentService) ReportFailure(ctx context.Context, rc utils.RequestContext, transactionID uint) (*models.Transaction, error) {
	txn, err := s.transactions.FindByIDForUser(ctx, transactionID, rc.UserID)
	if err != nil {
		return nil, s.lookupError(err, strconv.FormatUint(uint64(transactionID), 10))
	}
	if txn.Status != models.TransactionStatusPending {
		utils.LogInfo("Failure report for %s ignored, status is %s", txn.OrderID, txn.Status)
		return txn, nil
	}

	applied, err := s.transactions.UpdateStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusFailed, repository.StatusUpdate{})
	if err != nil {
		return nil, utils.InternalError("Failed to update transaction", err)
	}
	if applied {
		utils.LogInfo("Transaction %s marked as FAILED", txn.OrderID)
		txnID := txn.ID
		s.record(ctx, rc, &txnID, models.EventPaymentFailed, nil, "Payment failed or cancelled")
	}

	current, err := s.transactions.FindByIDForUser(ctx, txn.ID, rc.UserID)
	if err != nil {
		return nil, utils.InternalError("Failed to load transaction", err)
	}
	return current, nil
}

// TransactionHistory lists the caller's transactions, newest first.
func (s *PaymentService) TransactionHistory(ctx context.Context, userID uint) ([]models.Transaction, error) {
	txns, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.InternalError("Failed to load transactions", err)
	}
	return txns, nil
}

// TransactionDetail returns one of the caller's transactions. Another
// user's transaction is reported exactly like a missing one.
func (s *PaymentService) TransactionDetail(ctx context.Context, userID, transactionID uint) (*models.Transaction, error) {
	txn, err := s.transactions.FindByIDForUser(ctx, transactionID, userID)
	if err != nil {
		return nil, s.lookupError(err, strconv.FormatUint(uint64(transactionID), 10))
	}
	return txn, nil
}

// TransactionLogs returns the event log of one of the caller's transactions.
func (s *PaymentService) TransactionLogs(ctx context.Context, userID, transactionID uint) ([]models.PaymentLog, error) {
	txn, err := s.TransactionDetail(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	logs, err := s.events.ListForTransaction(ctx, txn.ID)
	if err != nil {
		return nil, utils.InternalError("Failed to load payment logs", err)
	}
	return logs, nil
}

func (s *PaymentService) lookupError(err error, ref string) error {
	if errors.Is(err, repository.ErrNotFound) {
		utils.LogInfo("Transaction not found: %s", ref)
		return utils.NotFoundError(utils.ErrTransactionNotFound, nil)
	}
	return utils.InternalError("Failed to load transaction", err)
}

// record appends to the event log. A failed append is logged and does not
// undo the state change it describes.
func (s *PaymentService) record(ctx context.Context, rc utils.RequestContext, txnID *uint, event models.PaymentEventType, payload []byte, message string) {
	if err := s.events.Record(ctx, rc, txnID, event, payload, message); err != nil {
		utils.LogError("Event %s for transaction %v was not recorded: %v", event, txnID, err)
	}
}

// sendReceipt mails the owner in the background; the response never waits on SMTP.
func (s *PaymentService) sendReceipt(txn models.Transaction) {
	if s.notifier == nil {
		return
	}
	s.background.Go("Receipt for "+txn.OrderID+" not sent", func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, txn.UserID)
		if err != nil {
			return utils.WrapError(err, "user lookup failed")
		}
		return s.notifier.SendReceipt(ctx, *user, txn)
	})
}

// Wait blocks until background receipts and event publications have
// finished. Called on shutdown.
func (s *PaymentService) Wait() {
	s.background.Wait()
	s.events.Wait()
}

// redact strips credentials from provider messages before they reach a response.
func (s *PaymentService) redact(msg string) string {
	for _, secret := range []string{s.cfg.KeySecret, s.cfg.WebhookSecret} {
		if secret != "" {
			msg = strings.ReplaceAll(msg, secret, "[redacted]")
		}
	}
	return msg
}
