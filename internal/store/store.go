package store

import (
	"context"
	"errors"
	"time"

	"github.com/finsight/backend/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations used by the
// analysis service. The core analysis packages never touch it directly;
// they operate on datasets the service loads through it.
type Store interface {
	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	// ListTransactions returns a user's transactions sorted ascending by
	// date. startDate/endDate bound the window inclusively; nil means
	// unbounded on that side.
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]*model.Transaction, error)

	// Recurring payment operations
	CreateRecurringPayment(ctx context.Context, rp *model.RecurringPayment) error
	GetRecurringPayment(ctx context.Context, rpID string) (*model.RecurringPayment, error)
	UpdateRecurringPayment(ctx context.Context, rp *model.RecurringPayment) error
	ListRecurringPayments(ctx context.Context, userID string, activeOnly bool) ([]*model.RecurringPayment, error)

	// Pending confirmation operations. Upsert replaces any existing
	// pending entry with the same user and description so repeated
	// analysis runs do not accumulate duplicates.
	UpsertPendingConfirmation(ctx context.Context, pc *model.PendingConfirmation) error
	GetPendingConfirmation(ctx context.Context, pcID string) (*model.PendingConfirmation, error)
	ListPendingConfirmations(ctx context.Context, userID string) ([]*model.PendingConfirmation, error)
	DeletePendingConfirmation(ctx context.Context, pcID string) error
}
