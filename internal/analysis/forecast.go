package analysis

import (
	"sort"
	"time"

	"github.com/finsight/backend/internal/model"
)

// Forecast window constants.
const (
	// ForecastHorizonDays is the length of the forward window.
	ForecastHorizonDays = 30
	// DiscretionaryLookbackDays is the trailing window the discretionary
	// projection is derived from.
	DiscretionaryLookbackDays = 90
)

// ScheduledPayment is one projected recurring payment occurrence.
type ScheduledPayment struct {
	Date     time.Time
	Name     string
	Amount   float64
	Category string
}

// Forecast combines deterministic recurring obligations with a
// statistical projection of discretionary spending over the next 30
// days.
type Forecast struct {
	Start time.Time
	End   time.Time

	DeterministicSpend     float64
	ProjectedDiscretionary float64
	TotalForecast          float64

	// Schedule lists every projected occurrence, sorted by date.
	Schedule []ScheduledPayment

	AvgDailyDiscretionary    float64
	UnusualSpendingThreshold float64
}

// BuildForecast projects confirmed, active recurring payments over
// [today, today+30] and adds a discretionary projection from the
// trailing dataset. today is the injected reference date; the engine
// never reads the clock.
func BuildForecast(payments []*model.RecurringPayment, trailing *Dataset, today time.Time) Forecast {
	start := model.Day(today)
	end := start.AddDate(0, 0, ForecastHorizonDays)

	var deterministic float64
	var schedule []ScheduledPayment
	for _, p := range payments {
		if !p.IsActive || !p.ConfirmedByUser {
			continue
		}
		for _, date := range occurrencesInWindow(p, start, end) {
			deterministic += p.Amount
			schedule = append(schedule, ScheduledPayment{
				Date:     date,
				Name:     p.Name,
				Amount:   p.Amount,
				Category: p.Category,
			})
		}
	}
	sort.SliceStable(schedule, func(i, j int) bool {
		return schedule[i].Date.Before(schedule[j].Date)
	})

	threshold := CalculateSpendingThreshold(trailing)
	projected := threshold.AvgDailySpending * ForecastHorizonDays

	return Forecast{
		Start:                    start,
		End:                      end,
		DeterministicSpend:       deterministic,
		ProjectedDiscretionary:   projected,
		TotalForecast:            deterministic + projected,
		Schedule:                 schedule,
		AvgDailyDiscretionary:    threshold.AvgDailySpending,
		UnusualSpendingThreshold: threshold.Threshold,
	}
}

// occurrencesInWindow computes every occurrence of a recurring payment
// within [start, end], respecting its own start/end bounds. Calendar
// arithmetic is exact per frequency: a month without the due day simply
// has no occurrence that period.
func occurrencesInWindow(p *model.RecurringPayment, start, end time.Time) []time.Time {
	windowStart := start
	if s := model.Day(p.StartDate); s.After(windowStart) {
		windowStart = s
	}
	windowEnd := end
	if p.EndDate != nil {
		if e := model.Day(*p.EndDate); e.Before(windowEnd) {
			windowEnd = e
		}
	}
	if windowEnd.Before(windowStart) {
		return nil
	}

	switch p.Frequency {
	case model.FrequencyWeekly:
		return weekdayOccurrences(windowStart, windowEnd, p.DueDay, 7)
	case model.FrequencyBiweekly:
		return weekdayOccurrences(windowStart, windowEnd, p.DueDay, 14)
	case model.FrequencyMonthly:
		return monthDayOccurrences(windowStart, windowEnd, p.DueDay, 1)
	case model.FrequencyQuarterly:
		return monthDayOccurrences(windowStart, windowEnd, p.DueDay, 3)
	case model.FrequencyAnnual:
		return annualOccurrences(p, windowStart, windowEnd)
	default:
		return nil
	}
}

// weekdayOccurrences finds the first date on/after start whose weekday
// matches dueDay (0=Monday..6=Sunday), then steps by stepDays.
func weekdayOccurrences(start, end time.Time, dueDay, stepDays int) []time.Time {
	if dueDay < 0 || dueDay > 6 {
		return nil
	}
	daysAhead := (dueDay - mondayWeekday(start) + 7) % 7
	cursor := start.AddDate(0, 0, daysAhead)

	var out []time.Time
	for !cursor.After(end) {
		out = append(out, cursor)
		cursor = cursor.AddDate(0, 0, stepDays)
	}
	return out
}

// monthDayOccurrences walks months in stepMonths strides, emitting the
// dueDay-th of each month that has one. Invalid dates (day 31 in a
// 30-day month) are skipped, not rounded.
func monthDayOccurrences(start, end time.Time, dueDay, stepMonths int) []time.Time {
	if dueDay < 1 || dueDay > 31 {
		return nil
	}
	year, month := start.Year(), start.Month()

	var out []time.Time
	for {
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		if first.After(end) {
			break
		}
		if date, ok := makeDate(year, month, dueDay); ok {
			if !date.Before(start) && !date.After(end) {
				out = append(out, date)
			}
		}
		month += time.Month(stepMonths)
		for month > 12 {
			month -= 12
			year++
		}
	}
	return out
}

// annualOccurrences emits the payment's anniversary (its start month
// with the due day-of-month) once per year. Invalid dates, such as a
// February 29 anniversary in a non-leap year, are skipped.
func annualOccurrences(p *model.RecurringPayment, start, end time.Time) []time.Time {
	if p.DueDay < 1 || p.DueDay > 31 {
		return nil
	}
	anniversaryMonth := p.StartDate.UTC().Month()

	var out []time.Time
	for year := start.Year(); year <= end.Year(); year++ {
		date, ok := makeDate(year, anniversaryMonth, p.DueDay)
		if !ok {
			continue
		}
		if !date.Before(start) && !date.After(end) {
			out = append(out, date)
		}
	}
	return out
}

// makeDate constructs a calendar date, reporting false when the month
// has no such day rather than letting time.Date normalize it into the
// next month.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

// mondayWeekday converts Go's Sunday-based weekday to the 0=Monday
// convention recurring payments use.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
