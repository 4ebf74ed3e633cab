package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
)

var (
	ErrAmbiguousTiers = errors.New("ambiguous_rate_tiers")
	ErrConfiguration  = errors.New("invalid_rate_configuration")
)

// Request carries the transaction parameters for one title pricing pass.
type Request struct {
	State         string
	PolicyType    ratecarddomain.PolicyType
	PurchasePrice float64
	LoanAmount    float64
	IsRefinance   bool

	YearsSincePriorPolicy *float64
	EndorsementCodes      []string
}

// CarrierQuote is one carrier's priced title result.
type CarrierQuote struct {
	CarrierID               snowflake.ID `json:"carrier_id"`
	CarrierName             string       `json:"carrier_name"`
	NAICCode                string       `json:"naic_code"`
	AMBestRating            *string      `json:"am_best_rating,omitempty"`
	OwnerPremium            float64      `json:"owner_premium"`
	LenderPremium           float64      `json:"lender_premium"`
	SimultaneousPremium     float64      `json:"simultaneous_premium"`
	SimultaneousSavings     float64      `json:"simultaneous_savings"`
	SimultaneousDiscountPct float64      `json:"simultaneous_discount_pct"`
	ReissueCredit           float64      `json:"reissue_credit"`
	EndorsementFees         float64      `json:"endorsement_fees"`
	TotalPremium            float64      `json:"total_premium"`
	IsPromulgated           bool         `json:"is_promulgated"`
	RateCardSource          string       `json:"rate_card_source"`
	RateCardDate            time.Time    `json:"rate_card_effective"`
}

// Service prices a single carrier for a title request. PremiumFor answers a
// standalone tiered premium for one policy type, used by the simultaneous
// issue dispersion grid. Both return zero-valued results, not errors, when
// the carrier has no applicable card.
type Service interface {
	PriceCarrier(ctx context.Context, carrier carrierdomain.Carrier, req Request, asOf time.Time) (*CarrierQuote, error)
	PremiumFor(ctx context.Context, carrierID snowflake.ID, policyType ratecarddomain.PolicyType, state string, amount float64, asOf time.Time) (float64, error)
	Discount(ctx context.Context, carrierID snowflake.ID, state string, loanAmount float64, asOf time.Time) (float64, error)
}
