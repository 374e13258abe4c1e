package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/Govind-619/PayGate/config"
	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/repository"
	"github.com/Govind-619/PayGate/utils"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
)

type fakeProvider struct {
	mu      sync.Mutex
	orderID string
	err     error
	calls   []OrderRequest
	seq     int
}

func (p *fakeProvider) CreateOrder(_ context.Context, req OrderRequest) (*ProviderOrder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	id := p.orderID
	if id == "" {
		p.seq++
		id = fmt.Sprintf("order_%03d", p.seq)
	}
	raw, _ := json.Marshal(map[string]interface{}{
		"id":       id,
		"entity":   "order",
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"status":   "created",
	})
	return &ProviderOrder{
		ID:          id,
		Receipt:     req.Receipt,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Status:      "created",
		Raw:         raw,
	}, nil
}

func (p *fakeProvider) Calls() []OrderRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]OrderRequest(nil), p.calls...)
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []models.Transaction
	err   error
	block chan struct{}
}

func (n *fakeNotifier) SendReceipt(_ context.Context, _ models.User, txn models.Transaction) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, txn)
	return n.err
}

func (n *fakeNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type recordingPublisher struct {
	mu      sync.Mutex
	entries []models.PaymentLog
	err     error
	block   chan struct{}
}

func (p *recordingPublisher) Publish(_ context.Context, entry models.PaymentLog) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	store    *repository.MemoryStore
	provider *fakeProvider
	notifier *fakeNotifier
	svc      *PaymentService
}

func newTestEnv(t *testing.T, mutate ...func(*config.RazorpayConfig)) *testEnv {
	t.Helper()
	cfg := config.RazorpayConfig{
		KeyID:     testKeyID,
		KeySecret: testKeySecret,
		Currency:  "INR",
	}
	for _, m := range mutate {
		m(&cfg)
	}

	store := repository.NewMemoryStore()
	provider := &fakeProvider{}
	notifier := &fakeNotifier{}
	svc := NewPaymentService(PaymentDeps{
		Transactions: store.Transactions(),
		Users:        store.Users(),
		Sequencer:    store.Sequencer(),
		Events:       NewEventLog(store.Logs(), nil),
		Provider:     provider,
		Notifier:     notifier,
		Config:       cfg,
	})
	return &testEnv{store: store, provider: provider, notifier: notifier, svc: svc}
}

func (e *testEnv) createUser(t *testing.T, email string) models.User {
	t.Helper()
	user := &models.User{Username: email, Email: email, Password: "x", FirstName: "Asha", LastName: "Rao"}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return *user
}

func (e *testEnv) createOrder(t *testing.T, user models.User, amount string) *OrderResult {
	t.Helper()
	result, err := e.svc.CreateOrder(context.Background(), requestContext(user), CreateOrderInput{Amount: decimalPtr(t, amount)})
	require.NoError(t, err)
	return result
}

// receipts waits for background work and returns how many receipts went out.
func (e *testEnv) receipts() int {
	e.svc.Wait()
	return e.notifier.Count()
}

func (e *testEnv) logTypes(t *testing.T, txnID uint) []models.PaymentEventType {
	t.Helper()
	logs, err := e.store.Logs().ListByTransaction(context.Background(), txnID)
	require.NoError(t, err)
	types := make([]models.PaymentEventType, 0, len(logs))
	for _, entry := range logs {
		types = append(types, entry.EventType)
	}
	return types
}

func requestContext(user models.User) utils.RequestContext {
	return utils.RequestContext{UserID: user.ID, ClientIP: "203.0.113.7", RequestID: "req-1"}
}

func validSignature(orderID, paymentID string) string {
	return ComputeSignature(testKeySecret, PaymentSignatureMessage(orderID, paymentID))
}
