// Package domain implements PMI grid lookup, adjustment stacking, and
// premium arithmetic over a carrier's resolved rate card.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AdjustmentMethod is how an adjustment modifies the base rate.
type AdjustmentMethod string

const (
	MethodAdditive       AdjustmentMethod = "additive"
	MethodMultiplicative AdjustmentMethod = "multiplicative"
	MethodOverride       AdjustmentMethod = "override"
)

// RateCell is one cell of a card's LTV x FICO x coverage rate grid. Ranges
// are closed intervals; within one card no two cells may overlap.
type RateCell struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	RateCardID  snowflake.ID `gorm:"not null;index"`
	LTVMin      float64      `gorm:"column:ltv_min;not null"`
	LTVMax      float64      `gorm:"column:ltv_max;not null"`
	FICOMin     int          `gorm:"column:fico_min;not null"`
	FICOMax     int          `gorm:"column:fico_max;not null"`
	CoveragePct float64      `gorm:"not null"`
	RatePct     float64      `gorm:"not null"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateCell) TableName() string { return "hermes_pmi_rates" }

// Adjustment is a conditional rate modifier attached to a rate card. The
// condition is a conjunction of field constraints stored as JSON; Priority
// fixes application order explicitly instead of leaning on insertion order.
type Adjustment struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	RateCardID  snowflake.ID      `gorm:"not null;index"`
	Name        string            `gorm:"type:text;not null"`
	Condition   datatypes.JSONMap `gorm:"not null"`
	Method      AdjustmentMethod  `gorm:"column:adjustment_method;type:text;not null"`
	Value       float64           `gorm:"column:adjustment_value;not null"`
	Priority    int               `gorm:"not null;default:0"`
	Description *string           `gorm:"type:text"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Adjustment) TableName() string { return "hermes_pmi_adjustments" }

// AppliedAdjustment is one step of the adjustment trace returned with a
// quote so a rate can be replayed step by step.
type AppliedAdjustment struct {
	Name       string           `json:"name"`
	Method     AdjustmentMethod `json:"method"`
	Value      float64          `json:"value"`
	RateBefore float64          `json:"rate_before"`
	RateAfter  float64          `json:"rate_after"`
}
