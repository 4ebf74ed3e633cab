// Package domain contains the versioned rate card models shared by the PMI
// and title pricing engines.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PremiumType is how a PMI premium is paid.
type PremiumType string

const (
	PremiumMonthly    PremiumType = "monthly"
	PremiumSingle     PremiumType = "single"
	PremiumSplit      PremiumType = "split"
	PremiumLenderPaid PremiumType = "lender_paid"
)

// PolicyType is the title policy being priced.
type PolicyType string

const (
	PolicyOwner        PolicyType = "owner"
	PolicyLender       PolicyType = "lender"
	PolicySimultaneous PolicyType = "simultaneous"
)

// PricingMode declares how a title card's coverage tiers compose: graduated
// sums rate across crossed bands, flat applies the containing band's rate to
// the whole amount. Stored per card, never inferred.
type PricingMode string

const (
	PricingGraduated PricingMode = "graduated"
	PricingFlat      PricingMode = "flat"
)

// PMIRateCard is one version of a carrier's PMI rate filing. A nil State
// means the card applies nationwide. At most one card per
// (carrier, premium_type, state) is current at any instant; supersession
// retires the predecessor and links it forward through SupersededBy.
type PMIRateCard struct {
	ID             snowflake.ID  `gorm:"primaryKey"`
	CarrierID      snowflake.ID  `gorm:"not null;index"`
	PremiumType    PremiumType   `gorm:"type:text;not null"`
	State          *string       `gorm:"type:text;index"`
	EffectiveDate  time.Time     `gorm:"not null"`
	ExpirationDate *time.Time    ``
	IsCurrent      bool          `gorm:"not null;default:true;index"`
	Source         string        `gorm:"type:text;not null;default:manual"`
	Version        int           `gorm:"not null;default:1"`
	SupersededBy   *snowflake.ID ``
	Notes          *string       `gorm:"type:text"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PMIRateCard) TableName() string { return "hermes_pmi_rate_cards" }

// TitleRateCard is one version of a carrier's title rate schedule for a
// state and policy type. Title filings are always state-specific.
type TitleRateCard struct {
	ID             snowflake.ID  `gorm:"primaryKey"`
	CarrierID      snowflake.ID  `gorm:"not null;index"`
	PolicyType     PolicyType    `gorm:"type:text;not null"`
	State          string        `gorm:"type:text;not null;index"`
	IsPromulgated  bool          `gorm:"not null;default:false"`
	PricingMode    PricingMode   `gorm:"type:text;not null;default:graduated"`
	EffectiveDate  time.Time     `gorm:"not null"`
	ExpirationDate *time.Time    ``
	IsCurrent      bool          `gorm:"not null;default:true;index"`
	Source         string        `gorm:"type:text;not null;default:manual"`
	Version        int           `gorm:"not null;default:1"`
	SupersededBy   *snowflake.ID ``
	Notes          *string       `gorm:"type:text"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TitleRateCard) TableName() string { return "hermes_title_rate_cards" }
