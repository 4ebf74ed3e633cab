// Package domain defines the multi-carrier quote orchestration contracts:
// requests, ranked results, and the per-carrier failure taxonomy.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	pmidomain "github.com/hermeshq/hermes/internal/pmi/domain"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	titledomain "github.com/hermeshq/hermes/internal/title/domain"
)

// Outcome is the aggregate result of one quote request. NO_QUOTE_AVAILABLE
// is a valid business outcome, not an error.
type Outcome string

const (
	OutcomeQuoted           Outcome = "QUOTED"
	OutcomeNoQuoteAvailable Outcome = "NO_QUOTE_AVAILABLE"
)

// FailureReason classifies why a single carrier produced no premium.
type FailureReason string

const (
	// ReasonNotFound: no applicable rate card or grid cell. Expected.
	ReasonNotFound FailureReason = "NOT_FOUND"
	// ReasonAmbiguousGrid: overlapping cells or tiers. Data defect.
	ReasonAmbiguousGrid FailureReason = "AMBIGUOUS_GRID"
	// ReasonConfigurationError: malformed adjustment or condition data.
	ReasonConfigurationError FailureReason = "CONFIGURATION_ERROR"
	// ReasonTimeout: the carrier missed the per-request deadline.
	ReasonTimeout FailureReason = "TIMEOUT"
)

// CarrierFailure is one carrier's diagnostic entry in the response payload.
type CarrierFailure struct {
	CarrierID   snowflake.ID  `json:"carrier_id"`
	CarrierName string        `json:"carrier_name"`
	Reason      FailureReason `json:"reason"`
	Detail      string        `json:"detail,omitempty"`
}

// PMIQuoteRequest is the caller-facing input for a PMI quote. CoveragePct of
// zero derives the GSE minimum from the computed LTV. A nil PremiumType
// quotes both monthly and single plans.
type PMIQuoteRequest struct {
	State         string                      `json:"state"`
	LoanAmount    float64                     `json:"loan_amount"`
	PropertyValue float64                     `json:"property_value"`
	FICOScore     int                         `json:"fico_score"`
	CoveragePct   float64                     `json:"coverage_pct,omitempty"`
	PremiumType   *ratecarddomain.PremiumType `json:"premium_type,omitempty"`

	DTI          *float64 `json:"dti,omitempty"`
	Occupancy    *string  `json:"occupancy,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`
	LoanPurpose  *string  `json:"loan_purpose,omitempty"`

	CarrierIDs []snowflake.ID `json:"carrier_ids,omitempty"`
	Source     string         `json:"source,omitempty"`
}

// PMIQuoteResult carries the ranked cross-carrier comparison.
type PMIQuoteResult struct {
	RequestID      uuid.UUID                 `json:"request_id"`
	Outcome        Outcome                   `json:"outcome"`
	Quotes         []pmidomain.CarrierQuote  `json:"quotes"`
	Best           *pmidomain.CarrierQuote   `json:"best,omitempty"`
	BestMonthly    *pmidomain.CarrierQuote   `json:"best_monthly,omitempty"`
	LTV            float64                   `json:"ltv"`
	CoveragePct    float64                   `json:"coverage_pct"`
	CarriersQuoted int                       `json:"carriers_quoted"`
	Failures       []CarrierFailure          `json:"failures,omitempty"`
	ProcessingMS   float64                   `json:"processing_time_ms"`
}

// TitleQuoteRequest is the caller-facing input for a title quote.
type TitleQuoteRequest struct {
	State         string                    `json:"state"`
	PolicyType    ratecarddomain.PolicyType `json:"policy_type"`
	PurchasePrice float64                   `json:"purchase_price"`
	LoanAmount    float64                   `json:"loan_amount,omitempty"`
	IsRefinance   bool                      `json:"is_refinance,omitempty"`

	YearsSincePriorPolicy *float64 `json:"years_since_prior_policy,omitempty"`
	EndorsementCodes      []string `json:"endorsements,omitempty"`

	CarrierIDs []snowflake.ID `json:"carrier_ids,omitempty"`
	Source     string         `json:"source,omitempty"`
}

// TitleQuoteResult carries the ranked cross-carrier comparison plus the
// simultaneous issue savings view.
type TitleQuoteResult struct {
	RequestID      uuid.UUID                  `json:"request_id"`
	Outcome        Outcome                    `json:"outcome"`
	Quotes         []titledomain.CarrierQuote `json:"quotes"`
	Best           *titledomain.CarrierQuote  `json:"best,omitempty"`
	BestSavings    *titledomain.CarrierQuote  `json:"best_simultaneous_savings,omitempty"`
	CarriersQuoted int                        `json:"carriers_quoted"`
	Failures       []CarrierFailure           `json:"failures,omitempty"`
	ProcessingMS   float64                    `json:"processing_time_ms"`
}

// MarketGridEntry is one point of the PMI LTV x FICO dispersion grid.
type MarketGridEntry struct {
	CarrierID      snowflake.ID `json:"carrier_id"`
	CarrierName    string       `json:"carrier_name"`
	LTVBucket      string       `json:"ltv_bucket"`
	FICOBucket     string       `json:"fico_bucket"`
	CoveragePct    float64      `json:"coverage_pct"`
	RatePct        float64      `json:"rate_pct"`
	MonthlyPer100K float64      `json:"monthly_per_100k"`
}

// SimultaneousGridEntry is one point of the title simultaneous issue
// dispersion grid: what the lender policy costs bundled vs standalone.
type SimultaneousGridEntry struct {
	CarrierID           snowflake.ID `json:"carrier_id"`
	CarrierName         string       `json:"carrier_name"`
	NAICCode            string       `json:"naic_code"`
	LoanAmount          float64      `json:"loan_amount"`
	OwnerPremium        float64      `json:"owner_premium"`
	LenderStandalone    float64      `json:"lender_standalone"`
	SimultaneousPremium float64      `json:"simultaneous_premium"`
	SimultaneousSavings float64      `json:"simultaneous_savings"`
	DiscountPct         float64      `json:"discount_pct"`
}

// SimultaneousGrid is the full dispersion report.
type SimultaneousGrid struct {
	Entries           []SimultaneousGridEntry `json:"entries"`
	LoanAmounts       []float64               `json:"loan_amounts"`
	Carriers          []string                `json:"carriers"`
	MaxSavingsCarrier string                  `json:"max_savings_carrier,omitempty"`
	MaxSavingsAmount  float64                 `json:"max_savings_amount"`
	GeneratedAt       time.Time               `json:"generated_at"`
}
