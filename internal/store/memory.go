package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/backend/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used by tests and
// for local development without a database file.
type MemoryStore struct {
	mu sync.RWMutex

	transactions         map[string]*model.Transaction
	recurringPayments    map[string]*model.RecurringPayment
	pendingConfirmations map[string]*model.PendingConfirmation
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions:         make(map[string]*model.Transaction),
		recurringPayments:    make(map[string]*model.RecurringPayment),
		pendingConfirmations: make(map[string]*model.PendingConfirmation),
	}
}

func (s *MemoryStore) CreateTransaction(_ context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	cp := *txn
	s.transactions[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, txnID string) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[txnID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *txn
	return &cp, nil
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[txn.ID]; !ok {
		return ErrNotFound
	}
	cp := *txn
	s.transactions[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, userID string, startDate, endDate *time.Time) ([]*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Transaction
	for _, txn := range s.transactions {
		if txn.UserID != userID {
			continue
		}
		day := txn.Day()
		if startDate != nil && day.Before(model.Day(*startDate)) {
			continue
		}
		if endDate != nil && day.After(model.Day(*endDate)) {
			continue
		}
		cp := *txn
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) CreateRecurringPayment(_ context.Context, rp *model.RecurringPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rp.ID == "" {
		rp.ID = uuid.New().String()
	}
	cp := *rp
	s.recurringPayments[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) GetRecurringPayment(_ context.Context, rpID string) (*model.RecurringPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rp, ok := s.recurringPayments[rpID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rp
	return &cp, nil
}

func (s *MemoryStore) UpdateRecurringPayment(_ context.Context, rp *model.RecurringPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recurringPayments[rp.ID]; !ok {
		return ErrNotFound
	}
	cp := *rp
	s.recurringPayments[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) ListRecurringPayments(_ context.Context, userID string, activeOnly bool) ([]*model.RecurringPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.RecurringPayment
	for _, rp := range s.recurringPayments {
		if rp.UserID != userID {
			continue
		}
		if activeOnly && !rp.IsActive {
			continue
		}
		cp := *rp
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DueDay != result[j].DueDay {
			return result[i].DueDay < result[j].DueDay
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *MemoryStore) UpsertPendingConfirmation(_ context.Context, pc *model.PendingConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Replace any existing pending entry for the same description.
	for id, existing := range s.pendingConfirmations {
		if existing.UserID == pc.UserID && strings.EqualFold(existing.Description, pc.Description) {
			delete(s.pendingConfirmations, id)
		}
	}

	if pc.ID == "" {
		pc.ID = uuid.New().String()
	}
	cp := *pc
	cp.TransactionIDs = append([]string(nil), pc.TransactionIDs...)
	s.pendingConfirmations[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) GetPendingConfirmation(_ context.Context, pcID string) (*model.PendingConfirmation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pc, ok := s.pendingConfirmations[pcID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *pc
	cp.TransactionIDs = append([]string(nil), pc.TransactionIDs...)
	return &cp, nil
}

func (s *MemoryStore) ListPendingConfirmations(_ context.Context, userID string) ([]*model.PendingConfirmation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.PendingConfirmation
	for _, pc := range s.pendingConfirmations {
		if pc.UserID != userID {
			continue
		}
		cp := *pc
		cp.TransactionIDs = append([]string(nil), pc.TransactionIDs...)
		result = append(result, &cp)
	}

	// Highest confidence first, matching how pending confirmations are
	// presented for review.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Confidence != result[j].Confidence {
			return result[i].Confidence > result[j].Confidence
		}
		return result[i].Description < result[j].Description
	})
	return result, nil
}

func (s *MemoryStore) DeletePendingConfirmation(_ context.Context, pcID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pendingConfirmations[pcID]; !ok {
		return ErrNotFound
	}
	delete(s.pendingConfirmations, pcID)
	return nil
}
