package domain

import (
	"testing"
	"time"

	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	"github.com/stretchr/testify/require"
)

func TestRequiredCoverage(t *testing.T) {
	cases := []struct {
		ltv  float64
		want float64
	}{
		{80.0, 0},
		{80.01, 6.0},
		{85.0, 6.0},
		{85.01, 25.0},
		{88.0, 25.0},
		{90.01, 30.0},
		{95.0, 30.0},
		{96.5, 35.0},
		{97.0, 35.0},
		{97.5, 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, RequiredCoverage(tc.ltv), "ltv=%v", tc.ltv)
	}
}

func TestLookupRate_SingleMatch(t *testing.T) {
	cells := []RateCell{
		{ID: 1, LTVMin: 80.01, LTVMax: 85.00, FICOMin: 720, FICOMax: 759, CoveragePct: 12, RatePct: 0.38},
		{ID: 2, LTVMin: 85.01, LTVMax: 90.00, FICOMin: 720, FICOMax: 759, CoveragePct: 30, RatePct: 0.52},
		{ID: 3, LTVMin: 85.01, LTVMax: 90.00, FICOMin: 760, FICOMax: 850, CoveragePct: 30, RatePct: 0.41},
	}

	cell, err := LookupRate(cells, 88, 735, 30)
	require.NoError(t, err)
	require.NotNil(t, cell)
	require.Equal(t, 0.52, cell.RatePct)

	// Boundaries are inclusive on both ends.
	cell, err = LookupRate(cells, 85.01, 720, 30)
	require.NoError(t, err)
	require.NotNil(t, cell)
	require.Equal(t, 0.52, cell.RatePct)

	cell, err = LookupRate(cells, 90.00, 759, 30)
	require.NoError(t, err)
	require.NotNil(t, cell)
	require.Equal(t, 0.52, cell.RatePct)
}

func TestLookupRate_OffGridIsNotAnError(t *testing.T) {
	cells := []RateCell{
		{ID: 1, LTVMin: 85.01, LTVMax: 90.00, FICOMin: 720, FICOMax: 759, CoveragePct: 30, RatePct: 0.52},
	}

	// FICO below the grid.
	cell, err := LookupRate(cells, 88, 600, 30)
	require.NoError(t, err)
	require.Nil(t, cell)

	// Coverage not offered.
	cell, err = LookupRate(cells, 88, 735, 25)
	require.NoError(t, err)
	require.Nil(t, cell)
}

func TestLookupRate_OverlapFailsLoudly(t *testing.T) {
	// Two carrier-authored cells sharing the boundary point 90.00.
	cells := []RateCell{
		{ID: 1, LTVMin: 85.01, LTVMax: 90.00, FICOMin: 700, FICOMax: 759, CoveragePct: 30, RatePct: 0.52},
		{ID: 2, LTVMin: 90.00, LTVMax: 95.00, FICOMin: 700, FICOMax: 759, CoveragePct: 30, RatePct: 0.67},
	}

	_, err := LookupRate(cells, 90.00, 735, 30)
	require.ErrorIs(t, err, ErrAmbiguousGrid)
}

func TestApplyAdjustments_OrderIsOverrideAdditiveMultiplicative(t *testing.T) {
	attrs := map[string]any{"dti": 45.0, "occupancy": "investment"}
	adjustments := []Adjustment{
		{
			ID:        1,
			Name:      "investment_discount",
			Method:    MethodMultiplicative,
			Value:     0.9,
			Condition: map[string]any{"occupancy_eq": "investment"},
			CreatedAt: time.Unix(100, 0),
		},
		{
			ID:        2,
			Name:      "high_dti_load",
			Method:    MethodAdditive,
			Value:     0.10,
			Condition: map[string]any{"dti_min": 43.0},
			CreatedAt: time.Unix(200, 0),
		},
		{
			ID:        3,
			Name:      "program_floor",
			Method:    MethodOverride,
			Value:     0.60,
			Condition: map[string]any{"dti_min": 40.0},
			CreatedAt: time.Unix(300, 0),
		},
	}

	// Regardless of list order: override sets 0.60, additive makes 0.70,
	// multiplicative makes 0.63.
	rate, applied, err := ApplyAdjustments(0.52, adjustments, attrs)
	require.NoError(t, err)
	require.InDelta(t, 0.63, rate, 1e-9)
	require.Len(t, applied, 3)
	require.Equal(t, "program_floor", applied[0].Name)
	require.Equal(t, "high_dti_load", applied[1].Name)
	require.Equal(t, "investment_discount", applied[2].Name)
	require.Equal(t, 0.52, applied[0].RateBefore)
	require.InDelta(t, 0.70, applied[1].RateAfter, 1e-9)
}

func TestApplyAdjustments_LastDefinedOverrideWins(t *testing.T) {
	attrs := map[string]any{"dti": 45.0}
	adjustments := []Adjustment{
		{ID: 1, Name: "old_floor", Method: MethodOverride, Value: 0.55,
			Condition: map[string]any{"dti_min": 40.0}, CreatedAt: time.Unix(100, 0)},
		{ID: 2, Name: "new_floor", Method: MethodOverride, Value: 0.48,
			Condition: map[string]any{"dti_min": 40.0}, CreatedAt: time.Unix(200, 0)},
	}

	rate, applied, err := ApplyAdjustments(0.52, adjustments, attrs)
	require.NoError(t, err)
	require.Equal(t, 0.48, rate)
	require.Equal(t, "new_floor", applied[len(applied)-1].Name)
}

func TestApplyAdjustments_UnmatchedConditionIsSkipped(t *testing.T) {
	attrs := map[string]any{"dti": 38.0}
	adjustments := []Adjustment{
		{ID: 1, Name: "high_dti_load", Method: MethodAdditive, Value: 0.10,
			Condition: map[string]any{"dti_min": 43.0}},
		// Condition on an attribute the request never supplied.
		{ID: 2, Name: "condo_load", Method: MethodAdditive, Value: 0.05,
			Condition: map[string]any{"property_type_eq": "condo"}},
	}

	rate, applied, err := ApplyAdjustments(0.52, adjustments, attrs)
	require.NoError(t, err)
	require.Equal(t, 0.52, rate)
	require.Empty(t, applied)
}

func TestApplyAdjustments_MalformedConditionIsConfigurationError(t *testing.T) {
	attrs := map[string]any{"dti": 45.0}
	adjustments := []Adjustment{
		{ID: 1, Name: "broken", Method: MethodAdditive, Value: 0.10,
			Condition: map[string]any{"dti_between": []any{40, 50}}},
	}

	_, _, err := ApplyAdjustments(0.52, adjustments, attrs)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestApplyAdjustments_IsDeterministic(t *testing.T) {
	attrs := map[string]any{"dti": 45.0, "occupancy": "secondary"}
	adjustments := []Adjustment{
		{ID: 5, Name: "a", Method: MethodAdditive, Value: 0.07, Priority: 1,
			Condition: map[string]any{"dti_min": 40.0}},
		{ID: 3, Name: "b", Method: MethodMultiplicative, Value: 1.1, Priority: 0,
			Condition: map[string]any{"occupancy_in": []any{"secondary", "investment"}}},
		{ID: 9, Name: "c", Method: MethodAdditive, Value: 0.02, Priority: 0,
			Condition: map[string]any{"dti_max": 50.0}},
	}

	first, _, err := ApplyAdjustments(0.52, adjustments, attrs)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, _, err := ApplyAdjustments(0.52, adjustments, attrs)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestCalculatePremiums(t *testing.T) {
	// 0.62% on 300k: annual 1860, monthly 155.
	p := CalculatePremiums(0.62, 300_000, ratecarddomain.PremiumMonthly)
	require.InDelta(t, 1860, p.Annual, 1e-9)
	require.InDelta(t, 155, p.Monthly, 1e-9)
	require.Nil(t, p.Single)

	p = CalculatePremiums(0.62, 300_000, ratecarddomain.PremiumSingle)
	require.NotNil(t, p.Single)
	require.InDelta(t, 5580, *p.Single, 1e-9)

	p = CalculatePremiums(0.62, 300_000, ratecarddomain.PremiumSplit)
	require.NotNil(t, p.Single)
	require.InDelta(t, 2790, *p.Single, 1e-9)
	require.InDelta(t, 77.5, p.Monthly, 1e-9)
}
