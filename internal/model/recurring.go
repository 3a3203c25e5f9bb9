package model

import "time"

// RecurringPayment is a confirmed recurring obligation. DueDay semantics
// depend on Frequency: day-of-month (1-31) for monthly/quarterly/annual,
// day-of-week (0=Monday..6=Sunday) for weekly/biweekly.
type RecurringPayment struct {
	ID        string
	UserID    string
	Name      string
	Amount    float64
	Category  string
	Frequency Frequency
	DueDay    int

	StartDate time.Time
	EndDate   *time.Time // nil means open-ended

	IsActive        bool
	AutoDetected    bool
	ConfirmedByUser bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingConfirmation is an auto-detected recurring pattern awaiting user
// approval before it becomes a RecurringPayment.
type PendingConfirmation struct {
	ID             string
	UserID         string
	Description    string
	Amount         float64
	Frequency      Frequency
	Confidence     float64
	TransactionIDs []string
	CreatedAt      time.Time
}
