package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/backend/internal/model"
	"github.com/finsight/backend/internal/store"
)

// Sample data profiles: a fixed set of monthly recurring bills plus
// stochastic discretionary merchants with typical weekly frequencies.
var sampleRecurring = []struct {
	name     string
	amount   float64
	category string
	dueDay   int
}{
	{"Netflix Subscription", 15.99, "Entertainment", 15},
	{"Spotify Premium", 9.99, "Entertainment", 10},
	{"Gym Membership", 50.00, "Fitness", 1},
	{"Internet Bill", 79.99, "Bills & Utilities", 5},
	{"Phone Bill", 45.00, "Bills & Utilities", 20},
}

var sampleDiscretionary = []struct {
	name      string
	minAmount float64
	maxAmount float64
	category  string
	perWeek   float64
}{
	{"Whole Foods", 30, 80, "Groceries", 3},
	{"Starbucks", 5, 12, "Coffee Shops", 5},
	{"Local Restaurant", 20, 50, "Restaurants", 2},
	{"Uber", 10, 30, "Transportation", 4},
	{"Amazon", 15, 150, "Shopping", 1},
	{"Target", 25, 100, "Shopping", 1},
	{"Gas Station", 40, 60, "Gas & Fuel", 1},
}

// SeedSampleData generates days of sample transaction history ending at
// today. The rng is injected so tests and repeated demo runs are
// reproducible.
func SeedSampleData(ctx context.Context, st store.Store, userID string, days int, today time.Time, rng *rand.Rand) (int, error) {
	created := 0
	end := model.Day(today)

	for offset := 0; offset < days; offset++ {
		date := end.AddDate(0, 0, -offset)

		for _, r := range sampleRecurring {
			if date.Day() != r.dueDay {
				continue
			}
			txn := &model.Transaction{
				ID:                 uuid.New().String(),
				UserID:             userID,
				Description:        r.name,
				Amount:             r.amount,
				Date:               date,
				Category:           r.category,
				IsRecurring:        true,
				RecurringFrequency: model.FrequencyMonthly,
			}
			if err := st.CreateTransaction(ctx, txn); err != nil {
				return created, fmt.Errorf("seeding recurring transaction: %w", err)
			}
			created++
		}

		for _, d := range sampleDiscretionary {
			if rng.Float64() >= d.perWeek/7 {
				continue
			}
			amount := d.minAmount + rng.Float64()*(d.maxAmount-d.minAmount)
			txn := &model.Transaction{
				ID:          uuid.New().String(),
				UserID:      userID,
				Description: d.name,
				Amount:      float64(int(amount*100)) / 100,
				Date:        date,
				Category:    d.category,
			}
			if err := st.CreateTransaction(ctx, txn); err != nil {
				return created, fmt.Errorf("seeding discretionary transaction: %w", err)
			}
			created++
		}
	}
	return created, nil
}
