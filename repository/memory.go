package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Govind-619/PayGate/models"
)

// MemoryStore implements every repository in this package on top of maps.
// It is used by tests and by local runs without a database.
type MemoryStore struct {
	mu           sync.Mutex
	now          func() time.Time
	users        map[uint]models.User
	transactions map[uint]models.Transaction
	logs         []models.PaymentLog
	sequences    map[uint]int64
	nextUserID   uint
	nextTxnID    uint
	nextLogID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:          time.Now,
		users:        make(map[uint]models.User),
		transactions: make(map[uint]models.Transaction),
		sequences:    make(map[uint]int64),
	}
}

// Users, Transactions, Logs and Sequencer expose the store through the
// narrower interfaces the services depend on.
func (s *MemoryStore) Users() UserRepository               { return memoryUsers{s} }
func (s *MemoryStore) Transactions() TransactionRepository { return memoryTransactions{s} }
func (s *MemoryStore) Logs() PaymentLogRepository          { return memoryLogs{s} }
func (s *MemoryStore) Sequencer() OrderSequencer           { return memorySequencer{s} }

// AllLogs returns every log row, newest first. Tests use it to inspect
// transaction-less entries.
func (s *MemoryStore) AllLogs() []models.PaymentLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.PaymentLog(nil), s.logs...)
	sortLogs(out)
	return out
}

// TransactionCount returns how many transactions exist across all users.
func (s *MemoryStore) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

// DeleteUser removes a user and cascades to their transactions and logs,
// mirroring the ON DELETE CASCADE foreign keys.
func (s *MemoryStore) DeleteUser(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	removed := make(map[uint]bool)
	for txnID, txn := range s.transactions {
		if txn.UserID == id {
			removed[txnID] = true
			delete(s.transactions, txnID)
		}
	}
	kept := s.logs[:0]
	for _, entry := range s.logs {
		if entry.TransactionID != nil && removed[*entry.TransactionID] {
			continue
		}
		kept = append(kept, entry)
	}
	s.logs = kept
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(_ context.Context, user *models.User) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return ErrDuplicate
		}
	}
	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

func (m memoryUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m memoryUsers) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.LastLoginAt = &at
	s.users[id] = user
	return nil
}

type memoryTransactions struct{ s *MemoryStore }

func (m memoryTransactions) Insert(_ context.Context, txn *models.Transaction) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.transactions {
		if existing.OrderID == txn.OrderID {
			return ErrDuplicate
		}
		if txn.ProviderOrderID != nil && models.StringValue(existing.ProviderOrderID) == *txn.ProviderOrderID {
			return ErrDuplicate
		}
	}
	s.nextTxnID++
	now := s.now()
	txn.ID = s.nextTxnID
	txn.CreatedAt, txn.UpdatedAt = now, now
	s.transactions[txn.ID] = cloneTransaction(*txn)
	return nil
}

func (m memoryTransactions) FindByIDForUser(_ context.Context, id, userID uint) (*models.Transaction, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[id]
	if !ok || txn.UserID != userID {
		return nil, ErrNotFound
	}
	out := cloneTransaction(txn)
	return &out, nil
}

func (m memoryTransactions) FindByProviderOrderIDForUser(ctx context.Context, providerOrderID string, userID uint) (*models.Transaction, error) {
	txn, err := m.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, ErrNotFound
	}
	return txn, nil
}

func (m memoryTransactions) FindByProviderOrderID(_ context.Context, providerOrderID string) (*models.Transaction, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range s.transactions {
		if txn.ProviderOrderID != nil && *txn.ProviderOrderID == providerOrderID {
			out := cloneTransaction(txn)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m memoryTransactions) ListByUser(_ context.Context, userID uint) ([]models.Transaction, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, txn := range s.transactions {
		if txn.UserID == userID {
			out = append(out, cloneTransaction(txn))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m memoryTransactions) AttachProviderOrder(_ context.Context, id uint, providerOrderID, receipt string) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[id]
	if !ok || txn.ProviderOrderID != nil {
		return ErrDuplicate
	}
	for _, existing := range s.transactions {
		if models.StringValue(existing.ProviderOrderID) == providerOrderID {
			return ErrDuplicate
		}
	}
	txn.ProviderOrderID = models.StringPtr(providerOrderID)
	txn.Receipt = receipt
	txn.UpdatedAt = s.now()
	s.transactions[id] = txn
	return nil
}

func (m memoryTransactions) UpdateStatus(_ context.Context, id uint, from, to models.TransactionStatus, update StatusUpdate) (bool, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[id]
	if !ok || txn.Status != from {
		return false, nil
	}
	txn.Status = to
	if update.ProviderPaymentID != nil {
		txn.ProviderPaymentID = models.StringPtr(*update.ProviderPaymentID)
	}
	if update.ProviderSignature != nil {
		txn.ProviderSignature = models.StringPtr(*update.ProviderSignature)
	}
	txn.UpdatedAt = s.now()
	s.transactions[id] = txn
	return true, nil
}

type memoryLogs struct{ s *MemoryStore }

func (m memoryLogs) Append(_ context.Context, entry *models.PaymentLog) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLogID++
	entry.ID = s.nextLogID
	entry.CreatedAt = s.now()
	s.logs = append(s.logs, *entry)
	return nil
}

func (m memoryLogs) ListByTransaction(_ context.Context, transactionID uint) ([]models.PaymentLog, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PaymentLog
	for _, entry := range s.logs {
		if entry.TransactionID != nil && *entry.TransactionID == transactionID {
			out = append(out, entry)
		}
	}
	sortLogs(out)
	return out, nil
}

type memorySequencer struct{ s *MemoryStore }

func (m memorySequencer) Next(_ context.Context, userID uint) (int64, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[userID]++
	return s.sequences[userID], nil
}

func sortLogs(logs []models.PaymentLog) {
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].CreatedAt.Equal(logs[j].CreatedAt) {
			return logs[i].CreatedAt.After(logs[j].CreatedAt)
		}
		return logs[i].ID > logs[j].ID
	})
}

func cloneTransaction(txn models.Transaction) models.Transaction {
	if txn.ProviderOrderID != nil {
		txn.ProviderOrderID = models.StringPtr(*txn.ProviderOrderID)
	}
	if txn.ProviderPaymentID != nil {
		txn.ProviderPaymentID = models.StringPtr(*txn.ProviderPaymentID)
	}
	if txn.ProviderSignature != nil {
		txn.ProviderSignature = models.StringPtr(*txn.ProviderSignature)
	}
	return txn
}
