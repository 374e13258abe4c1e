package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/repository"
	"github.com/Govind-619/PayGate/utils"
)

const (
	WebhookEventPaymentCaptured = "payment.captured"
	WebhookEventPaymentFailed   = "payment.failed"
)

// WebhookEvent is the envelope the provider posts.
type WebhookEvent struct {
	Entity  string         `json:"entity"`
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Payment *WebhookPaymentWrapper `json:"payment,omitempty"`
}

type WebhookPaymentWrapper struct {
	Entity json.RawMessage `json:"entity"`
}

// PaymentEntity holds the payment fields we act on. The full entity is kept
// raw for the log.
type PaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

// WebhookOutcome summarises what a delivery did.
type WebhookOutcome struct {
	Event         string
	TransactionID *uint
	Applied       bool
}

// HandleWebhook authenticates and applies a provider notification. Only
// signature failures and storage errors are reported as errors; unknown
// events and unknown orders are accepted so the provider stops retrying.
func (s *PaymentService) HandleWebhook(ctx context.Context, rc utils.RequestContext, rawBody []byte, signature string) (*WebhookOutcome, error) {
	if s.cfg.WebhookSecret == "" {
		return nil, utils.ConfigurationError(utils.ErrProviderNotConfigured, nil)
	}

	if !VerifySignature(s.cfg.WebhookSecret, rawBody, signature) {
		utils.LogWarn("Webhook signature verification failed from IP: %s", rc.ClientIP)
		s.record(ctx, rc, nil, models.EventSignatureFailed, nil, "Webhook signature verification failed")
		return nil, utils.ValidationError(utils.ErrInvalidSignature, nil)
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		// Signed by the provider, so a retry would carry the same bytes.
		utils.LogWarn("Webhook body is not valid JSON: %v", err)
		if err := s.events.Record(ctx, rc, nil, models.EventWebhookReceived, nil, "Webhook received with malformed payload"); err != nil {
			return nil, utils.InternalError("Failed to record webhook", err)
		}
		return &WebhookOutcome{}, nil
	}
	outcome := &WebhookOutcome{Event: event.Event}

	var (
		entity PaymentEntity
		txn    *models.Transaction
	)
	if event.Payload.Payment != nil && len(event.Payload.Payment.Entity) > 0 {
		if err := json.Unmarshal(event.Payload.Payment.Entity, &entity); err != nil {
			utils.LogWarn("Webhook %s carries an unreadable payment entity: %v", event.Event, err)
		}
	}
	if entity.OrderID != "" {
		found, err := s.transactions.FindByProviderOrderID(ctx, entity.OrderID)
		switch {
		case err == nil:
			txn = found
			id := found.ID
			outcome.TransactionID = &id
		case errors.Is(err, repository.ErrNotFound):
			utils.LogInfo("Webhook %s for unknown order %s ignored", event.Event, entity.OrderID)
		default:
			return nil, utils.InternalError("Failed to process webhook", err)
		}
	}

	// Unlike the other entries this one is required; without it there is no
	// trace of the delivery, so a failed append makes the provider retry.
	if err := s.events.Record(ctx, rc, outcome.TransactionID, models.EventWebhookReceived, rawBody, fmt.Sprintf("Webhook received: %s", event.Event)); err != nil {
		return nil, utils.InternalError("Failed to process webhook", err)
	}

	if txn == nil {
		return outcome, nil
	}

	switch event.Event {
	case WebhookEventPaymentCaptured:
		update := repository.StatusUpdate{}
		if entity.ID != "" {
			update.ProviderPaymentID = models.StringPtr(entity.ID)
		}
		applied, err := s.transactions.UpdateStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusSuccess, update)
		if err != nil {
			return nil, utils.InternalError("Failed to process webhook", err)
		}
		outcome.Applied = applied
		if !applied {
			utils.LogInfo("Webhook capture for %s left unchanged, status is %s", txn.OrderID, txn.Status)
			return outcome, nil
		}
		utils.LogInfo("Payment %s captured via webhook for %s", entity.ID, txn.OrderID)
		s.record(ctx, rc, outcome.TransactionID, models.EventPaymentSuccess, event.Payload.Payment.Entity, "Payment captured via webhook")

		if current, err := s.transactions.FindByProviderOrderID(ctx, entity.OrderID); err == nil {
			s.sendReceipt(*current)
		} else {
			utils.LogWarn("Receipt for %s not sent: %v", txn.OrderID, err)
		}

	case WebhookEventPaymentFailed:
		applied, err := s.transactions.UpdateStatus(ctx, txn.ID, models.TransactionStatusPending, models.TransactionStatusFailed, repository.StatusUpdate{})
		if err != nil {
			return nil, utils.InternalError("Failed to process webhook", err)
		}
		outcome.Applied = applied
		if !applied {
			utils.LogInfo("Webhook failure for %s left unchanged, status is %s", txn.OrderID, txn.Status)
			return outcome, nil
		}
		message := "Payment failed via webhook"
		if entity.ErrorDescription != "" {
			message = fmt.Sprintf("%s: %s", message, entity.ErrorDescription)
		}
		utils.LogInfo("Transaction %s marked as FAILED via webhook", txn.OrderID)
		s.record(ctx, rc, outcome.TransactionID, models.EventPaymentFailed, event.Payload.Payment.Entity, message)

	default:
		utils.LogDebug("Webhook event %s needs no action", event.Event)
	}

	return outcome, nil
}
