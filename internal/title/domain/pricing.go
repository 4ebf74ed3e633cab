package domain

import (
	"fmt"
	"sort"

	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
)

// TieredPremium prices an insured amount against a card's coverage bands.
//
// Graduated mode walks every band the amount crosses and sums
// band_amount x rate_per_thousand / 1000 plus each crossed band's flat fee.
// Flat mode applies only the containing band's rate to the whole amount.
// Returns the floored premium and the governing minimum premium so a caller
// that subtracts credits afterwards can re-apply the same floor. Endorsement
// fees are added after the floor, never inside it.
func TieredPremium(tiers []RateTier, amount float64, mode ratecarddomain.PricingMode) (premium, minimum float64, err error) {
	if len(tiers) == 0 || amount <= 0 {
		return 0, 0, nil
	}

	sorted := make([]RateTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CoverageMin < sorted[j].CoverageMin })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].CoverageMin < sorted[i-1].CoverageMax {
			return 0, 0, fmt.Errorf("%w: tiers %d and %d overlap at coverage %.2f",
				ErrAmbiguousTiers, sorted[i-1].ID, sorted[i].ID, sorted[i].CoverageMin)
		}
	}

	switch mode {
	case ratecarddomain.PricingFlat:
		premium, minimum = flatPremium(sorted, amount)
		return premium, minimum, nil
	case ratecarddomain.PricingGraduated, "":
		premium, minimum = graduatedPremium(sorted, amount)
		return premium, minimum, nil
	default:
		return 0, 0, fmt.Errorf("%w: unknown pricing mode %q", ErrConfiguration, mode)
	}
}

func graduatedPremium(sorted []RateTier, amount float64) (float64, float64) {
	var total, flat, minPremium float64
	for _, tier := range sorted {
		if tier.MinimumPremium > minPremium {
			minPremium = tier.MinimumPremium
		}
		if amount <= tier.CoverageMin {
			break
		}
		bandAmount := min(amount, tier.CoverageMax) - tier.CoverageMin
		if bandAmount > 0 {
			total += bandAmount * tier.RatePerThousand / 1000
			flat += tier.FlatFee
		}
	}
	return max(total+flat, minPremium), minPremium
}

// flatPremium prices the whole amount with the lowest band containing it:
// an amount on the shared endpoint of contiguous bands belongs to the lower
// one, matching how the graduated walk treats the same boundary. Real
// overlaps never reach here; the pre-sort check rejects them.
func flatPremium(sorted []RateTier, amount float64) (float64, float64) {
	for _, t := range sorted {
		if amount >= t.CoverageMin && amount <= t.CoverageMax {
			total := amount*t.RatePerThousand/1000 + t.FlatFee
			return max(total, t.MinimumPremium), t.MinimumPremium
		}
	}
	return 0, 0
}

// SimultaneousDiscount converts a matched discount row into dollars off the
// standalone lender premium. Rate-per-thousand wins over percentage when
// both are set; the flat component always adds.
func SimultaneousDiscount(row SimultaneousIssue, loanAmount, lenderPremium float64) float64 {
	var discount float64
	switch {
	case row.DiscountRatePerThousand > 0:
		discount = loanAmount * row.DiscountRatePerThousand / 1000
	case row.DiscountPct > 0:
		discount = lenderPremium * row.DiscountPct / 100
	}
	return discount + row.FlatFee
}

// ReissueCreditAmount picks the band containing yearsSince and returns the
// credit in dollars. When bands overlap, the most generous credit wins.
func ReissueCreditAmount(credits []ReissueCredit, yearsSince, basePremium float64) float64 {
	var best float64
	for _, c := range credits {
		if yearsSince < c.YearsSinceMin || yearsSince > c.YearsSinceMax {
			continue
		}
		if c.CreditPct > best {
			best = c.CreditPct
		}
	}
	return basePremium * best / 100
}

// EndorsementFees sums the fee of each endorsement: flat, plus
// rate-per-thousand of the base premium, plus percent of the base premium.
func EndorsementFees(endorsements []Endorsement, basePremium float64) float64 {
	var total float64
	for _, e := range endorsements {
		fee := e.FlatFee
		if e.RatePerThousand > 0 {
			fee += basePremium * e.RatePerThousand / 1000
		}
		if e.PctOfBase > 0 {
			fee += basePremium * e.PctOfBase
		}
		total += fee
	}
	return total
}
