package controllers

import (
	"time"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/services"
	"gorm.io/datatypes"
)

// TransactionResponse is the public shape of a transaction. Amount is a
// fixed-point string so no precision is lost in JSON.
type TransactionResponse struct {
	ID                uint                     `json:"id"`
	OrderID           string                   `json:"order_id"`
	RazorpayOrderID   *string                  `json:"razorpay_order_id"`
	RazorpayPaymentID *string                  `json:"razorpay_payment_id"`
	Amount            string                   `json:"amount"`
	Currency          string                   `json:"currency"`
	Description       string                   `json:"description"`
	Status            models.TransactionStatus `json:"status"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

func NewTransactionResponse(txn models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                txn.ID,
		OrderID:           txn.OrderID,
		RazorpayOrderID:   txn.ProviderOrderID,
		RazorpayPaymentID: txn.ProviderPaymentID,
		Amount:            services.FormatAmount(txn.Amount, txn.Currency),
		Currency:          txn.Currency,
		Description:       txn.Description,
		Status:            txn.Status,
		CreatedAt:         txn.CreatedAt,
		UpdatedAt:         txn.UpdatedAt,
	}
}

func NewTransactionListResponse(txns []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, NewTransactionResponse(txn))
	}
	return out
}

// OrderResponse carries what the checkout widget needs.
type OrderResponse struct {
	Transaction     TransactionResponse `json:"transaction"`
	RazorpayKeyID   string              `json:"razorpay_key_id"`
	RazorpayOrderID string              `json:"razorpay_order_id"`
	Amount          string              `json:"amount"`
	AmountMinor     int64               `json:"amount_in_minor_units"`
	Currency        string              `json:"currency"`
	Description     string              `json:"description"`
	UserName        string              `json:"user_name"`
	UserEmail       string              `json:"user_email"`
}

func NewOrderResponse(r services.OrderResult) OrderResponse {
	return OrderResponse{
		Transaction:     NewTransactionResponse(r.Transaction),
		RazorpayKeyID:   r.KeyID,
		RazorpayOrderID: r.ProviderOrderID,
		Amount:          services.FormatAmount(r.Amount, r.Currency),
		AmountMinor:     r.AmountMinor,
		Currency:        r.Currency,
		Description:     r.Description,
		UserName:        r.UserName,
		UserEmail:       r.UserEmail,
	}
}

type PaymentLogResponse struct {
	ID        uint                    `json:"id"`
	EventType models.PaymentEventType `json:"event_type"`
	Message   string                  `json:"message"`
	Payload   datatypes.JSON          `json:"payload,omitempty"`
	IPAddress string                  `json:"ip_address"`
	CreatedAt time.Time               `json:"created_at"`
}

func NewPaymentLogListResponse(logs []models.PaymentLog) []PaymentLogResponse {
	out := make([]PaymentLogResponse, 0, len(logs))
	for _, entry := range logs {
		out = append(out, PaymentLogResponse{
			ID:        entry.ID,
			EventType: entry.EventType,
			Message:   entry.Message,
			Payload:   entry.Payload,
			IPAddress: entry.IPAddress,
			CreatedAt: entry.CreatedAt,
		})
	}
	return out
}
