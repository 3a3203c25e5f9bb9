package service

import "github.com/finsight/backend/internal/analysis"

// ForecastView is the display-ready forecast shape handed to callers
// that serialize at the boundary. All dates are ISO 8601 strings.
type ForecastView struct {
	ForecastPeriod struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"forecast_period"`
	DeterministicSpend       float64                `json:"deterministic_spend"`
	ProjectedDiscretionary   float64                `json:"projected_discretionary"`
	TotalForecast            float64                `json:"total_forecast"`
	PaymentSchedule          []ScheduledPaymentView `json:"payment_schedule"`
	AvgDailyDiscretionary    float64                `json:"avg_daily_discretionary"`
	UnusualSpendingThreshold float64                `json:"unusual_spending_threshold"`
}

// ScheduledPaymentView is one schedule entry with an ISO date.
type ScheduledPaymentView struct {
	Date     string  `json:"date"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

const isoDate = "2006-01-02"

// NewForecastView converts an engine forecast into its boundary shape.
func NewForecastView(f analysis.Forecast) ForecastView {
	var view ForecastView
	view.ForecastPeriod.Start = f.Start.Format(isoDate)
	view.ForecastPeriod.End = f.End.Format(isoDate)
	view.DeterministicSpend = f.DeterministicSpend
	view.ProjectedDiscretionary = f.ProjectedDiscretionary
	view.TotalForecast = f.TotalForecast
	view.AvgDailyDiscretionary = f.AvgDailyDiscretionary
	view.UnusualSpendingThreshold = f.UnusualSpendingThreshold

	view.PaymentSchedule = make([]ScheduledPaymentView, 0, len(f.Schedule))
	for _, sp := range f.Schedule {
		view.PaymentSchedule = append(view.PaymentSchedule, ScheduledPaymentView{
			Date:     sp.Date.Format(isoDate),
			Name:     sp.Name,
			Amount:   sp.Amount,
			Category: sp.Category,
		})
	}
	return view
}
