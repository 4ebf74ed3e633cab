// Package domain implements title insurance tiered premiums, simultaneous
// issue discounts, reissue credits, and endorsement fees.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// RateTier is one coverage band of a title card's rate schedule, e.g. first
// $100K at $5.75 per thousand. Bands must be contiguous and non-overlapping
// within a card.
type RateTier struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	RateCardID       snowflake.ID `gorm:"not null;index"`
	CoverageMin      float64      `gorm:"not null"`
	CoverageMax      float64      `gorm:"not null"`
	RatePerThousand  float64      `gorm:"not null"`
	FlatFee          float64      `gorm:"not null;default:0"`
	MinimumPremium   float64      `gorm:"not null;default:0"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateTier) TableName() string { return "hermes_title_rates" }

// SimultaneousIssue is a discount schedule row keyed by loan amount band.
// Exactly one of the discount fields drives the dollar discount: rate per
// thousand of the loan, or a percentage off the standalone lender premium.
// FlatFee adds on top either way.
type SimultaneousIssue struct {
	ID                       snowflake.ID `gorm:"primaryKey"`
	RateCardID               snowflake.ID `gorm:"not null;index"`
	LoanMin                  float64      `gorm:"not null"`
	LoanMax                  float64      `gorm:"not null"`
	DiscountRatePerThousand  float64      `gorm:"not null;default:0"`
	DiscountPct              float64      `gorm:"not null;default:0"`
	FlatFee                  float64      `gorm:"not null;default:0"`
	CreatedAt                time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt                time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SimultaneousIssue) TableName() string { return "hermes_title_simultaneous_issue" }

// ReissueCredit grants a percentage off the base premium on refinance
// transactions, keyed by years since the prior policy.
type ReissueCredit struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	RateCardID    snowflake.ID `gorm:"not null;index"`
	YearsSinceMin float64      `gorm:"not null"`
	YearsSinceMax float64      `gorm:"not null"`
	CreditPct     float64      `gorm:"not null"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ReissueCredit) TableName() string { return "hermes_title_reissue_credits" }

// Endorsement is an ALTA endorsement fee schedule entry. The fee is the sum
// of the flat component, rate-per-thousand of base premium, and percent of
// base premium.
type Endorsement struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	RateCardID      snowflake.ID `gorm:"not null;index"`
	Code            string       `gorm:"column:endorsement_code;type:text;not null"`
	Name            string       `gorm:"column:endorsement_name;type:text;not null"`
	FlatFee         float64      `gorm:"not null;default:0"`
	RatePerThousand float64      `gorm:"not null;default:0"`
	PctOfBase       float64      `gorm:"not null;default:0"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Endorsement) TableName() string { return "hermes_title_endorsements" }
