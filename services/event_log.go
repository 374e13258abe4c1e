package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/repository"
	"github.com/Govind-619/PayGate/utils"
	"gorm.io/datatypes"
)

// EventLog appends audit entries and, when a publisher is configured,
// forwards them in the background. The database row is the record;
// publishing is best-effort.
type EventLog struct {
	repo       repository.PaymentLogRepository
	publisher  EventPublisher
	background *background
}

func NewEventLog(repo repository.PaymentLogRepository, publisher EventPublisher) *EventLog {
	return &EventLog{repo: repo, publisher: publisher, background: newBackground()}
}

// Record appends one entry. transactionID may be nil.
func (l *EventLog) Record(ctx context.Context, rc utils.RequestContext, transactionID *uint, event models.PaymentEventType, payload datatypes.JSON, message string) error {
	entry := &models.PaymentLog{
		TransactionID: transactionID,
		EventType:     event,
		Payload:       payload,
		Message:       message,
		IPAddress:     rc.ClientIP,
	}
	if err := l.repo.Append(ctx, entry); err != nil {
		utils.LogError("Failed to append %s log entry: %v", event, err)
		return err
	}

	if l.publisher != nil {
		published := *entry
		l.background.Go(fmt.Sprintf("Failed to publish %s event %d", event, published.ID), func(ctx context.Context) error {
			return l.publisher.Publish(ctx, published)
		})
	}
	return nil
}

// Wait blocks until queued publications have finished.
func (l *EventLog) Wait() {
	l.background.Wait()
}

// ListForTransaction returns a transaction's entries, newest first.
func (l *EventLog) ListForTransaction(ctx context.Context, transactionID uint) ([]models.PaymentLog, error) {
	return l.repo.ListByTransaction(ctx, transactionID)
}

// jsonPayload encodes v for a log payload; nil stays nil.
func jsonPayload(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		utils.LogError("Failed to encode log payload: %v", err)
		return nil
	}
	return datatypes.JSON(b)
}
