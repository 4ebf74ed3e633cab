package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCondition_DecodesAllOperators(t *testing.T) {
	cond, err := ParseCondition(map[string]any{
		"dti_min":       43.0,
		"dti_max":       50.0,
		"property_type_eq": "condo",
		"occupancy_in":  []any{"secondary", "investment"},
	})
	require.NoError(t, err)
	require.Len(t, cond, 4)

	byField := map[string]Op{}
	for _, c := range cond {
		if c.Field == "dti" {
			continue
		}
		byField[c.Field] = c.Op
	}
	require.Equal(t, OpEq, byField["property_type"])
	require.Equal(t, OpIn, byField["occupancy"])
}

func TestParseCondition_UnknownSuffixFails(t *testing.T) {
	_, err := ParseCondition(map[string]any{"dti_between": 43.0})
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = ParseCondition(map[string]any{"fico": 700})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestParseCondition_BadValueTypesFail(t *testing.T) {
	_, err := ParseCondition(map[string]any{"dti_min": "not a number"})
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = ParseCondition(map[string]any{"occupancy_in": "investment"})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestConditionMatches(t *testing.T) {
	cond, err := ParseCondition(map[string]any{
		"dti_min":      43.0,
		"occupancy_in": []any{"secondary", "investment"},
	})
	require.NoError(t, err)

	require.True(t, cond.Matches(map[string]any{"dti": 45.0, "occupancy": "investment"}))
	require.True(t, cond.Matches(map[string]any{"dti": 43, "occupancy": "secondary"}))

	// Below range.
	require.False(t, cond.Matches(map[string]any{"dti": 40.0, "occupancy": "investment"}))
	// Not in set.
	require.False(t, cond.Matches(map[string]any{"dti": 45.0, "occupancy": "primary"}))
	// Conjunction: a missing attribute fails the whole condition.
	require.False(t, cond.Matches(map[string]any{"dti": 45.0}))
}

func TestEmptyConditionNeverMatches(t *testing.T) {
	cond, err := ParseCondition(map[string]any{})
	require.NoError(t, err)
	require.False(t, cond.Matches(map[string]any{"dti": 45.0}))
}

func TestConditionMatches_NumericStrings(t *testing.T) {
	cond, err := ParseCondition(map[string]any{"fico_min": "700"})
	require.NoError(t, err)
	require.True(t, cond.Matches(map[string]any{"fico": 720}))
	require.False(t, cond.Matches(map[string]any{"fico": 680}))
}
