package service

import (
	"context"
	"time"

	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	pmidomain "github.com/hermeshq/hermes/internal/pmi/domain"
	quotedomain "github.com/hermeshq/hermes/internal/quote/domain"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	"go.uber.org/zap"
)

var ltvBuckets = []struct {
	label string
	value float64
}{
	{"80.01-85", 82.5},
	{"85.01-90", 87.5},
	{"90.01-95", 92.5},
	{"95.01-97", 96.0},
}

var ficoBuckets = []struct {
	label string
	value int
}{
	{"760+", 780},
	{"740-759", 750},
	{"720-739", 730},
	{"700-719", 710},
	{"680-699", 690},
	{"660-679", 670},
	{"640-659", 650},
	{"620-639", 630},
}

var gridLoanAmounts = []float64{
	200_000, 300_000, 380_000, 400_000,
	500_000, 750_000, 1_000_000,
}

// MarketGrid samples every carrier's monthly rate at representative
// LTV x FICO points, at the GSE minimum coverage for each LTV band.
// Carriers without a grid point are simply absent from that cell.
func (s *Service) MarketGrid(ctx context.Context, state string) ([]quotedomain.MarketGridEntry, error) {
	state, err := normalizeState(state)
	if err != nil {
		return nil, err
	}
	carriers, err := s.carriers.EligibleCarriers(ctx, state, carrierdomain.LinePMI)
	if err != nil {
		return nil, err
	}

	asOf := time.Now().UTC()
	var entries []quotedomain.MarketGridEntry
	for _, carrier := range carriers {
		for _, ltv := range ltvBuckets {
			coverage := pmidomain.RequiredCoverage(ltv.value)
			for _, fico := range ficoBuckets {
				rate, err := s.pmi.BaseRate(ctx, carrier.ID, ratecarddomain.PremiumMonthly,
					state, ltv.value, fico.value, coverage, asOf)
				if err != nil {
					s.log.Warn("market grid point failed",
						zap.String("carrier", carrier.LegalName),
						zap.String("ltv_bucket", ltv.label),
						zap.String("fico_bucket", fico.label),
						zap.Error(err))
					continue
				}
				if rate == nil {
					continue
				}
				entries = append(entries, quotedomain.MarketGridEntry{
					CarrierID:      carrier.ID,
					CarrierName:    carrier.LegalName,
					LTVBucket:      ltv.label,
					FICOBucket:     fico.label,
					CoveragePct:    coverage,
					RatePct:        *rate,
					MonthlyPer100K: *rate / 12 * 1000,
				})
			}
		}
	}
	return entries, nil
}

// SimultaneousIssueGrid builds the cross-carrier bundling dispersion: owner
// plus discounted lender versus the two standalone policies, across a fixed
// ladder of loan amounts.
func (s *Service) SimultaneousIssueGrid(ctx context.Context, state string, purchasePrice float64) (*quotedomain.SimultaneousGrid, error) {
	state, err := normalizeState(state)
	if err != nil {
		return nil, err
	}
	carriers, err := s.carriers.EligibleCarriers(ctx, state, carrierdomain.LineTitle)
	if err != nil {
		return nil, err
	}

	asOf := time.Now().UTC()
	grid := &quotedomain.SimultaneousGrid{
		LoanAmounts: gridLoanAmounts,
		GeneratedAt: asOf,
	}

	for _, carrier := range carriers {
		grid.Carriers = append(grid.Carriers, carrier.LegalName)

		owner, err := s.title.PremiumFor(ctx, carrier.ID, ratecarddomain.PolicyOwner, state, purchasePrice, asOf)
		if err != nil {
			s.log.Warn("grid owner premium failed", zap.String("carrier", carrier.LegalName), zap.Error(err))
			continue
		}

		for _, loanAmount := range gridLoanAmounts {
			lender, err := s.title.PremiumFor(ctx, carrier.ID, ratecarddomain.PolicyLender, state, loanAmount, asOf)
			if err != nil {
				s.log.Warn("grid lender premium failed",
					zap.String("carrier", carrier.LegalName),
					zap.Float64("loan_amount", loanAmount),
					zap.Error(err))
				continue
			}
			discount, err := s.title.Discount(ctx, carrier.ID, state, loanAmount, asOf)
			if err != nil {
				s.log.Warn("grid discount failed",
					zap.String("carrier", carrier.LegalName),
					zap.Float64("loan_amount", loanAmount),
					zap.Error(err))
				continue
			}

			discountedLender := max(lender-discount, 0)
			simultaneous := owner + discountedLender
			standalone := owner + lender
			savings := standalone - simultaneous
			var discountPct float64
			if standalone > 0 {
				discountPct = savings / standalone * 100
			}

			if savings > grid.MaxSavingsAmount {
				grid.MaxSavingsAmount = savings
				grid.MaxSavingsCarrier = carrier.LegalName
			}

			grid.Entries = append(grid.Entries, quotedomain.SimultaneousGridEntry{
				CarrierID:           carrier.ID,
				CarrierName:         carrier.LegalName,
				NAICCode:            carrier.NAICCode,
				LoanAmount:          loanAmount,
				OwnerPremium:        owner,
				LenderStandalone:    lender,
				SimultaneousPremium: simultaneous,
				SimultaneousSavings: savings,
				DiscountPct:         discountPct,
			})
		}
	}
	return grid, nil
}
