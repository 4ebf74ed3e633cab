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
	ErrAmbiguousGrid = errors.New("ambiguous_rate_grid")
	ErrConfiguration = errors.New("invalid_rate_configuration")
)

// Request carries the loan parameters for one PMI pricing pass. CoveragePct
// of zero means "use the GSE minimum for the computed LTV". PremiumTypes
// empty defaults to monthly and single.
type Request struct {
	State         string
	LoanAmount    float64
	PropertyValue float64
	FICOScore     int
	CoveragePct   float64
	PremiumTypes  []ratecarddomain.PremiumType

	DTI          *float64
	Occupancy    *string
	PropertyType *string
	LoanPurpose  *string
}

// LTV is the loan-to-value percent implied by the request.
func (r Request) LTV() float64 {
	if r.PropertyValue == 0 {
		return 0
	}
	return r.LoanAmount / r.PropertyValue * 100
}

// Attributes flattens the request into the field map that adjustment
// conditions are evaluated against. Optional fields that were not supplied
// are absent, so conditions on them do not match.
func (r Request) Attributes() map[string]any {
	attrs := map[string]any{
		"state":          r.State,
		"loan_amount":    r.LoanAmount,
		"property_value": r.PropertyValue,
		"ltv":            r.LTV(),
		"fico":           r.FICOScore,
		"fico_score":     r.FICOScore,
		"coverage_pct":   r.CoveragePct,
	}
	if r.DTI != nil {
		attrs["dti"] = *r.DTI
	}
	if r.Occupancy != nil {
		attrs["occupancy"] = *r.Occupancy
	}
	if r.PropertyType != nil {
		attrs["property_type"] = *r.PropertyType
	}
	if r.LoanPurpose != nil {
		attrs["loan_purpose"] = *r.LoanPurpose
	}
	return attrs
}

// CarrierQuote is one carrier's priced result for one premium type.
type CarrierQuote struct {
	CarrierID       snowflake.ID        `json:"carrier_id"`
	CarrierName     string              `json:"carrier_name"`
	NAICCode        string              `json:"naic_code"`
	AMBestRating    *string             `json:"am_best_rating,omitempty"`
	PremiumType     ratecarddomain.PremiumType `json:"premium_type"`
	BaseRatePct     float64             `json:"base_rate_pct"`
	AdjustedRatePct float64             `json:"adjusted_rate_pct"`
	MonthlyPremium  float64             `json:"monthly_premium"`
	AnnualPremium   float64             `json:"annual_premium"`
	SinglePremium   *float64            `json:"single_premium,omitempty"`
	CoveragePct     float64             `json:"coverage_pct"`
	LTV             float64             `json:"ltv"`
	Adjustments     []AppliedAdjustment `json:"adjustments_applied"`
	RateCardSource  string              `json:"rate_card_source"`
	RateCardDate    time.Time           `json:"rate_card_effective"`
}

// Service prices a single carrier for a PMI request. PriceCarrier resolves
// the carrier's current card per premium type, looks up the grid, stacks
// adjustments, and computes premiums. Premium types the carrier does not
// write are skipped; an empty slice with a nil error means the carrier has
// no grid point for the request. Grid or condition defects return
// ErrAmbiguousGrid / ErrConfiguration and exclude the carrier.
type Service interface {
	PriceCarrier(ctx context.Context, carrier carrierdomain.Carrier, req Request, asOf time.Time) ([]CarrierQuote, error)
	BaseRate(ctx context.Context, carrierID snowflake.ID, premiumType ratecarddomain.PremiumType, state string, ltv float64, fico int, coveragePct float64, asOf time.Time) (*float64, error)
}
