package domain

import (
	"fmt"
	"sort"

	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
)

// GSE minimum MI coverage percent by LTV band (Fannie Mae / Freddie Mac).
var gseCoverageMinimums = []struct {
	ltvLo, ltvHi float64
	coverage     float64
}{
	{80.01, 85.00, 6.0},
	{85.01, 90.00, 25.0},
	{90.01, 95.00, 30.0},
	{95.01, 97.00, 35.0},
}

// RequiredCoverage returns the GSE minimum coverage percent for an LTV.
// At or below 80 no MI is required; above 97 the loan is not GSE-eligible.
// Both return 0.
func RequiredCoverage(ltv float64) float64 {
	for _, band := range gseCoverageMinimums {
		if ltv >= band.ltvLo && ltv <= band.ltvHi {
			return band.coverage
		}
	}
	return 0
}

// LookupRate finds the single cell containing (ltv, fico) at the exact
// coverage percent. Ranges are closed on both ends. Zero matches returns
// (nil, nil): the request is simply off this carrier's grid. More than one
// match means the card's cells overlap, which is a data-integrity defect;
// the lookup fails loudly instead of silently picking one.
func LookupRate(cells []RateCell, ltv float64, fico int, coveragePct float64) (*RateCell, error) {
	var match *RateCell
	for i := range cells {
		c := &cells[i]
		if c.CoveragePct != coveragePct {
			continue
		}
		if ltv < c.LTVMin || ltv > c.LTVMax {
			continue
		}
		if fico < c.FICOMin || fico > c.FICOMax {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: cells %d and %d both contain ltv=%.2f fico=%d coverage=%.2f",
				ErrAmbiguousGrid, match.ID, c.ID, ltv, fico, coveragePct)
		}
		match = c
	}
	return match, nil
}

// ApplyAdjustments evaluates each adjustment's condition against the request
// attributes and applies the matches in deterministic order: overrides first
// (the last-defined matching override wins), then additive summed onto the
// rate, then multiplicative compounded. Returns the adjusted rate and a
// step-by-step trace.
func ApplyAdjustments(baseRate float64, adjustments []Adjustment, attrs map[string]any) (float64, []AppliedAdjustment, error) {
	matched := make([]Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		cond, err := ParseCondition(adj.Condition)
		if err != nil {
			return 0, nil, fmt.Errorf("adjustment %q: %w", adj.Name, err)
		}
		switch adj.Method {
		case MethodAdditive, MethodMultiplicative, MethodOverride:
		default:
			return 0, nil, fmt.Errorf("%w: adjustment %q has unknown method %q", ErrConfiguration, adj.Name, adj.Method)
		}
		if cond.Matches(attrs) {
			matched = append(matched, adj)
		}
	}

	// Stored priority fixes the order; creation sequence breaks ties so two
	// evaluations of the same card always agree.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority < matched[j].Priority
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	rate := baseRate
	applied := make([]AppliedAdjustment, 0, len(matched))
	record := func(adj Adjustment, before, after float64) {
		applied = append(applied, AppliedAdjustment{
			Name:       adj.Name,
			Method:     adj.Method,
			Value:      adj.Value,
			RateBefore: before,
			RateAfter:  after,
		})
	}

	for _, adj := range matched {
		if adj.Method == MethodOverride {
			before := rate
			rate = adj.Value
			record(adj, before, rate)
		}
	}
	for _, adj := range matched {
		if adj.Method == MethodAdditive {
			before := rate
			rate += adj.Value
			record(adj, before, rate)
		}
	}
	for _, adj := range matched {
		if adj.Method == MethodMultiplicative {
			before := rate
			rate *= adj.Value
			record(adj, before, rate)
		}
	}
	return rate, applied, nil
}

// Premiums holds the dollar figures derived from an adjusted annual rate.
// Single is set only for single and split premium plans: 3x annual paid
// upfront for single, 1.5x annual upfront with the monthly halved for split.
type Premiums struct {
	Monthly float64
	Annual  float64
	Single  *float64
}

func CalculatePremiums(ratePct, loanAmount float64, premiumType ratecarddomain.PremiumType) Premiums {
	rate := ratePct / 100
	annual := rate * loanAmount
	monthly := annual / 12

	var single *float64
	switch premiumType {
	case ratecarddomain.PremiumSingle:
		v := rate * loanAmount * 3.0
		single = &v
	case ratecarddomain.PremiumSplit:
		v := rate * loanAmount * 1.5
		single = &v
		monthly *= 0.5
	}
	return Premiums{Monthly: monthly, Annual: annual, Single: single}
}
