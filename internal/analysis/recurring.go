package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/finsight/backend/internal/model"
)

// Detection defaults. Callers override them through RecurringConfig.
const (
	DefaultMinOccurrences  = 3
	DefaultAmountTolerance = 0.05
	// minPatternConfidence is the acceptance threshold; it was tuned
	// against exact-description grouping, so grouping stays literal.
	minPatternConfidence = 0.70
)

// frequencyBands are checked in order against the median day-gap; first
// matching band wins.
var frequencyBands = []struct {
	frequency model.Frequency
	target    float64
	tolerance float64
}{
	{model.FrequencyWeekly, 7, 2},
	{model.FrequencyBiweekly, 14, 3},
	{model.FrequencyMonthly, 30, 5},
	{model.FrequencyQuarterly, 91, 7},
	{model.FrequencyAnnual, 365, 14},
}

// RecurringConfig tunes the recurring pattern detector.
type RecurringConfig struct {
	MinOccurrences  int
	AmountTolerance float64
}

// DefaultRecurringConfig returns the standard tuning.
func DefaultRecurringConfig() RecurringConfig {
	return RecurringConfig{
		MinOccurrences:  DefaultMinOccurrences,
		AmountTolerance: DefaultAmountTolerance,
	}
}

// Pattern is a detected recurring payment candidate, eligible to become
// a pending confirmation awaiting user approval.
type Pattern struct {
	Description    string
	Amount         float64 // mean of the matching transactions
	Frequency      model.Frequency
	Confidence     float64
	Occurrences    int
	TransactionIDs []string
	LastDate       time.Time
	Category       string
}

// DetectRecurringPatterns groups transactions by description, keeps
// groups with stable amounts and regular intervals, classifies a
// frequency for each and scores confidence. Results are sorted by
// confidence descending.
func DetectRecurringPatterns(ds *Dataset, cfg RecurringConfig) []Pattern {
	if cfg.MinOccurrences <= 0 {
		cfg.MinOccurrences = DefaultMinOccurrences
	}
	if cfg.AmountTolerance <= 0 {
		cfg.AmountTolerance = DefaultAmountTolerance
	}
	if ds.Len() < cfg.MinOccurrences {
		return nil
	}

	groups := make(map[string][]*model.Transaction)
	var order []string
	for _, txn := range ds.Transactions {
		key := normalizeDescription(txn.Description)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], txn)
	}

	var patterns []Pattern
	for _, key := range order {
		group := groups[key]
		if len(group) < cfg.MinOccurrences {
			continue
		}
		if p, ok := evaluateGroup(group, cfg.AmountTolerance); ok {
			patterns = append(patterns, p)
		}
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence > patterns[j].Confidence
	})
	return patterns
}

// evaluateGroup tests one description group for amount stability and
// interval regularity. Dataset ordering guarantees the group is already
// sorted by date.
func evaluateGroup(group []*model.Transaction, amountTolerance float64) (Pattern, bool) {
	meanAmount := 0.0
	for _, txn := range group {
		meanAmount += txn.Amount
	}
	meanAmount /= float64(len(group))

	// Strict tolerance: a single outlier disqualifies the whole group.
	// A zero mean can never pass (and must not divide).
	if meanAmount == 0 {
		return Pattern{}, false
	}
	for _, txn := range group {
		if math.Abs(txn.Amount-meanAmount)/meanAmount > amountTolerance {
			return Pattern{}, false
		}
	}

	gaps := make([]float64, 0, len(group)-1)
	for i := 1; i < len(group); i++ {
		gaps = append(gaps, group[i].Day().Sub(group[i-1].Day()).Hours()/24)
	}
	if len(gaps) == 0 {
		return Pattern{}, false
	}

	frequency, ok := classifyFrequency(gaps)
	if !ok {
		return Pattern{}, false
	}
	confidence := intervalConfidence(gaps, frequency)
	if confidence <= minPatternConfidence {
		return Pattern{}, false
	}

	ids := make([]string, 0, len(group))
	for _, txn := range group {
		ids = append(ids, txn.ID)
	}
	return Pattern{
		Description:    group[0].Description,
		Amount:         meanAmount,
		Frequency:      frequency,
		Confidence:     confidence,
		Occurrences:    len(group),
		TransactionIDs: ids,
		LastDate:       group[len(group)-1].Day(),
		Category:       group[0].Category,
	}, true
}

// classifyFrequency matches the median gap against the fixed bands.
func classifyFrequency(gaps []float64) (model.Frequency, bool) {
	medianGap := median(gaps)
	for _, band := range frequencyBands {
		if math.Abs(medianGap-band.target) <= band.tolerance {
			return band.frequency, true
		}
	}
	return "", false
}

// intervalConfidence scores interval regularity: one minus the
// coefficient of variation of the gaps, minus the relative error of the
// mean gap against the expected period. A group of identical dates has
// mean gap zero and scores zero rather than dividing.
func intervalConfidence(gaps []float64, frequency model.Frequency) float64 {
	meanGap := mean(gaps)
	if meanGap == 0 {
		return 0
	}
	cv := populationStd(gaps) / meanGap
	expected := frequency.Days()
	relErr := math.Abs(meanGap-expected) / expected
	return math.Max(0, 1-cv-relErr)
}

// normalizeDescription is the grouping key: exact string equality after
// trimming and lowercasing. Fuzzy merging is deliberately not done; the
// confidence threshold was tuned against literal grouping.
func normalizeDescription(desc string) string {
	return strings.ToLower(strings.TrimSpace(desc))
}
