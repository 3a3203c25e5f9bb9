package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finsight/backend/internal/analysis"
	"github.com/finsight/backend/internal/config"
	"github.com/finsight/backend/internal/model"
	"github.com/finsight/backend/internal/store"
)

// AnalysisService orchestrates the analysis core over the store and
// applies the write-back side effects the core itself never performs:
// persisting pending confirmations and flagging anomalous transactions.
type AnalysisService struct {
	store store.Store
	log   zerolog.Logger
	cfg   config.AnalysisConfig
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(st store.Store, log zerolog.Logger, cfg config.AnalysisConfig) *AnalysisService {
	return &AnalysisService{store: st, log: log, cfg: cfg}
}

// AnalysisReport bundles one full analysis run.
type AnalysisReport struct {
	Seasonality analysis.SeasonalityResult
	Patterns    []analysis.Pattern
	Anomalies   []analysis.Anomaly
	Threshold   analysis.ThresholdResult

	// Write-back counters.
	PendingUpserted     int
	TransactionsFlagged int
}

// RunAnalysis loads the user's full history, runs every detector, and
// persists the structured results: detected patterns become pending
// confirmations (unless already tracked as a recurring payment) and
// anomalous days flag their transactions with an anomaly score.
func (s *AnalysisService) RunAnalysis(ctx context.Context, userID string, today time.Time) (*AnalysisReport, error) {
	ds, err := analysis.LoadDataset(ctx, s.store, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	report := &AnalysisReport{
		Seasonality: analysis.AnalyzeSeasonality(ds),
		Patterns: analysis.DetectRecurringPatterns(ds, analysis.RecurringConfig{
			MinOccurrences:  s.cfg.MinOccurrences,
			AmountTolerance: s.cfg.AmountTolerance,
		}),
		Anomalies: analysis.DetectAnomalies(ds, analysis.AnomalyConfig{
			NStd:   s.cfg.AnomalyStd,
			Window: s.cfg.AnomalyWindow,
		}),
		Threshold: analysis.CalculateSpendingThreshold(ds),
	}

	tracked, err := s.trackedNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range report.Patterns {
		if tracked[strings.ToLower(p.Description)] {
			continue
		}
		pc := &model.PendingConfirmation{
			ID:             uuid.New().String(),
			UserID:         userID,
			Description:    p.Description,
			Amount:         p.Amount,
			Frequency:      p.Frequency,
			Confidence:     p.Confidence,
			TransactionIDs: p.TransactionIDs,
			CreatedAt:      today,
		}
		if err := s.store.UpsertPendingConfirmation(ctx, pc); err != nil {
			return nil, fmt.Errorf("persisting pending confirmation %q: %w", p.Description, err)
		}
		report.PendingUpserted++
	}

	for _, a := range report.Anomalies {
		for _, txn := range a.Transactions {
			txn.IsAnomaly = true
			txn.AnomalyScore = a.ZScore
			if err := s.store.UpdateTransaction(ctx, txn); err != nil {
				return nil, fmt.Errorf("flagging anomalous transaction %s: %w", txn.ID, err)
			}
			report.TransactionsFlagged++
		}
	}

	s.log.Info().
		Str("user_id", userID).
		Int("patterns", len(report.Patterns)).
		Int("anomalies", len(report.Anomalies)).
		Int("pending_upserted", report.PendingUpserted).
		Int("transactions_flagged", report.TransactionsFlagged).
		Msg("analysis completed")
	return report, nil
}

// trackedNames returns lowercased names of the user's existing recurring
// payments, so already-confirmed patterns are not re-proposed.
func (s *AnalysisService) trackedNames(ctx context.Context, userID string) (map[string]bool, error) {
	payments, err := s.store.ListRecurringPayments(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("listing recurring payments: %w", err)
	}
	names := make(map[string]bool, len(payments))
	for _, rp := range payments {
		names[strings.ToLower(rp.Name)] = true
	}
	return names, nil
}

// ConfirmPending promotes a pending confirmation into an active,
// confirmed recurring payment and flags its matched transactions as
// recurring. dueDay <= 0 derives the due day from the most recent
// matched transaction.
func (s *AnalysisService) ConfirmPending(ctx context.Context, pendingID string, dueDay int, today time.Time) (*model.RecurringPayment, error) {
	pc, err := s.store.GetPendingConfirmation(ctx, pendingID)
	if err != nil {
		return nil, fmt.Errorf("loading pending confirmation: %w", err)
	}

	var lastDate time.Time
	var matched []*model.Transaction
	for _, id := range pc.TransactionIDs {
		txn, err := s.store.GetTransaction(ctx, id)
		if err != nil {
			if err == store.ErrNotFound {
				continue
			}
			return nil, fmt.Errorf("loading matched transaction %s: %w", id, err)
		}
		matched = append(matched, txn)
		if txn.Day().After(lastDate) {
			lastDate = txn.Day()
		}
	}

	if dueDay <= 0 {
		dueDay = deriveDueDay(pc.Frequency, lastDate, today)
	}

	rp := &model.RecurringPayment{
		ID:              uuid.New().String(),
		UserID:          pc.UserID,
		Name:            pc.Description,
		Amount:          pc.Amount,
		Frequency:       pc.Frequency,
		DueDay:          dueDay,
		StartDate:       model.Day(today),
		IsActive:        true,
		AutoDetected:    true,
		ConfirmedByUser: true,
	}
	if err := s.store.CreateRecurringPayment(ctx, rp); err != nil {
		return nil, fmt.Errorf("creating recurring payment: %w", err)
	}

	for _, txn := range matched {
		txn.IsRecurring = true
		txn.RecurringFrequency = pc.Frequency
		if err := s.store.UpdateTransaction(ctx, txn); err != nil {
			return nil, fmt.Errorf("flagging recurring transaction %s: %w", txn.ID, err)
		}
	}

	if err := s.store.DeletePendingConfirmation(ctx, pendingID); err != nil {
		return nil, fmt.Errorf("removing pending confirmation: %w", err)
	}

	s.log.Info().
		Str("user_id", pc.UserID).
		Str("name", rp.Name).
		Str("frequency", string(rp.Frequency)).
		Int("due_day", rp.DueDay).
		Msg("pending confirmation promoted")
	return rp, nil
}

// RejectPending discards a pending confirmation.
func (s *AnalysisService) RejectPending(ctx context.Context, pendingID string) error {
	return s.store.DeletePendingConfirmation(ctx, pendingID)
}

// deriveDueDay picks a due day from the last matched transaction date:
// its day of month for month-anchored frequencies, its day of week
// (0=Monday) for week-anchored ones.
func deriveDueDay(freq model.Frequency, lastDate, today time.Time) int {
	anchor := lastDate
	if anchor.IsZero() {
		anchor = model.Day(today)
	}
	switch freq {
	case model.FrequencyWeekly, model.FrequencyBiweekly:
		return (int(anchor.Weekday()) + 6) % 7
	default:
		return anchor.Day()
	}
}

// Forecast runs the 30-day forecast for a user: confirmed active
// recurring payments plus a discretionary projection from the trailing
// 90 days.
func (s *AnalysisService) Forecast(ctx context.Context, userID string, today time.Time) (analysis.Forecast, error) {
	payments, err := s.store.ListRecurringPayments(ctx, userID, true)
	if err != nil {
		return analysis.Forecast{}, fmt.Errorf("listing recurring payments: %w", err)
	}

	start := model.Day(today).AddDate(0, 0, -analysis.DiscretionaryLookbackDays)
	end := model.Day(today)
	trailing, err := analysis.LoadDataset(ctx, s.store, userID, &start, &end)
	if err != nil {
		return analysis.Forecast{}, err
	}

	forecast := analysis.BuildForecast(payments, trailing, today)
	s.log.Info().
		Str("user_id", userID).
		Int("scheduled_payments", len(forecast.Schedule)).
		Float64("total_forecast", forecast.TotalForecast).
		Msg("forecast generated")
	return forecast, nil
}
