// Package analysis is the computational core: recurring pattern
// detection, spending anomaly detection, and 30-day forecasting over a
// user's transaction history. All functions are pure given their inputs;
// the reference date is always an explicit parameter and nothing here
// touches the clock, the network, or the store directly.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/finsight/backend/internal/model"
	"github.com/finsight/backend/internal/store"
)

// Dataset is a user's transactions materialized in memory, sorted
// ascending by date. An empty dataset is valid everywhere downstream and
// means "no signal", never an error.
type Dataset struct {
	UserID       string
	Transactions []*model.Transaction
}

// LoadDataset materializes a user's transactions for an optional
// inclusive date window. Either bound may be nil.
func LoadDataset(ctx context.Context, st store.Store, userID string, startDate, endDate *time.Time) (*Dataset, error) {
	txns, err := st.ListTransactions(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	return &Dataset{UserID: userID, Transactions: txns}, nil
}

// Len returns the number of transactions in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Transactions)
}

// Discretionary returns the transactions not flagged as recurring.
func (d *Dataset) Discretionary() []*model.Transaction {
	if d == nil {
		return nil
	}
	var out []*model.Transaction
	for _, txn := range d.Transactions {
		if !txn.IsRecurring {
			out = append(out, txn)
		}
	}
	return out
}
