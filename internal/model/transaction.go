package model

import "time"

// Transaction is a single dated financial transaction. Amount is the
// magnitude of the transaction; sign normalization happens upstream at
// ingestion time.
type Transaction struct {
	ID          string
	UserID      string
	Description string
	Amount      float64
	Date        time.Time
	Category    string // empty means uncategorized

	// Recurring payment detection
	IsRecurring        bool
	RecurringFrequency Frequency // zero value when not recurring

	// Anomaly detection write-back
	IsAnomaly    bool
	AnomalyScore float64

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Day returns the transaction date truncated to UTC midnight. All core
// analysis keys daily series on this value.
func (t *Transaction) Day() time.Time {
	return Day(t.Date)
}

// Day truncates an arbitrary timestamp to UTC midnight.
func Day(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
