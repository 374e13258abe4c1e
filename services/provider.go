package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Govind-619/PayGate/utils"
	razorpay "github.com/razorpay/razorpay-go"
)

// OrderRequest is what we ask the provider to create.
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// ProviderOrder is the provider's answer. Raw is the full response body,
// kept for the audit log.
type ProviderOrder struct {
	ID          string
	Receipt     string
	AmountMinor int64
	Currency    string
	Status      string
	Raw         json.RawMessage
}

// PaymentProvider creates remote orders.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*ProviderOrder, error)
}

// OrderCreator is the slice of the razorpay SDK we use; *resources.Order
// satisfies it.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

var errProviderTimeout = errors.New("payment provider did not respond in time")

// RazorpayProvider wraps the SDK with a per-attempt timeout. A failed attempt
// is only repeated when the request never left this host, since a create
// that reached the provider may have made an order we cannot see.
type RazorpayProvider struct {
	orders      OrderCreator
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
}

// NewRazorpayProvider builds a provider backed by the razorpay SDK client.
func NewRazorpayProvider(keyID, keySecret string, timeout time.Duration, maxAttempts int) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)
	return NewRazorpayProviderWithClient(client.Order, timeout, maxAttempts)
}

// NewRazorpayProviderWithClient builds a provider over any OrderCreator.
func NewRazorpayProviderWithClient(orders OrderCreator, timeout time.Duration, maxAttempts int) *RazorpayProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RazorpayProvider{
		orders:      orders,
		timeout:     timeout,
		maxAttempts: maxAttempts,
		backoff:     500 * time.Millisecond,
	}
}

func (p *RazorpayProvider) CreateOrder(ctx context.Context, req OrderRequest) (*ProviderOrder, error) {
	data := map[string]interface{}{
		"amount":          req.AmountMinor,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": 1,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		body, err := p.createOnce(ctx, data)
		if err == nil {
			return parseProviderOrder(body)
		}
		lastErr = err
		utils.LogWarn("Razorpay order create attempt %d/%d for receipt %s failed: %v", attempt, p.maxAttempts, req.Receipt, err)

		if attempt == p.maxAttempts || !neverSent(err) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.backoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

func (p *RazorpayProvider) createOnce(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	type result struct {
		body map[string]interface{}
		err  error
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// The SDK has no context support, so the call runs aside and is abandoned on timeout.
	done := make(chan result, 1)
	go func() {
		body, err := p.orders.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	select {
	case r := <-done:
		return r.body, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errProviderTimeout
		}
		return nil, ctx.Err()
	}
}

// neverSent reports whether err proves the request did not reach the
// provider: a failed dial or name lookup. Timeouts, provider rejections and
// failures after the connection was up are all ambiguous.
func neverSent(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func parseProviderOrder(body map[string]interface{}) (*ProviderOrder, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider response: %v", err)
	}
	var parsed struct {
		ID       string  `json:"id"`
		Receipt  string  `json:"receipt"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Status   string  `json:"status"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("unexpected provider response: %v", err)
	}
	if parsed.ID == "" {
		return nil, errors.New("provider response did not include an order id")
	}
	return &ProviderOrder{
		ID:          parsed.ID,
		Receipt:     parsed.Receipt,
		AmountMinor: int64(parsed.Amount),
		Currency:    parsed.Currency,
		Status:      parsed.Status,
		Raw:         raw,
	}, nil
}
