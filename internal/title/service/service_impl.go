package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	titledomain "github.com/hermeshq/hermes/internal/title/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      titledomain.Repository
	RateCards ratecarddomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      titledomain.Repository
	rateCards ratecarddomain.Service
}

func NewService(p Params) titledomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("title.service"),
		repo:      p.Repo,
		rateCards: p.RateCards,
	}
}

// PriceCarrier prices one carrier for the requested transaction: tiered
// owner/lender premiums, simultaneous issue discount, reissue credit,
// endorsement fees. The minimum premium floor re-applies after credits,
// before endorsements. Returns (nil, nil) when the carrier has no card for
// the requested policy in the state.
func (s *Service) PriceCarrier(ctx context.Context, carrier carrierdomain.Carrier, req titledomain.Request, asOf time.Time) (*titledomain.CarrierQuote, error) {
	var (
		ownerPremium, ownerMin   float64
		lenderPremium, lenderMin float64
		baseCard                 *ratecarddomain.TitleRateCard
		lenderCard               *ratecarddomain.TitleRateCard
	)

	wantOwner := req.PolicyType == ratecarddomain.PolicyOwner || req.PolicyType == ratecarddomain.PolicySimultaneous
	wantLender := (req.PolicyType == ratecarddomain.PolicyLender || req.PolicyType == ratecarddomain.PolicySimultaneous) && req.LoanAmount > 0

	if wantOwner {
		card, premium, minimum, err := s.tieredPremium(ctx, carrier.ID, ratecarddomain.PolicyOwner, req.State, req.PurchasePrice, asOf)
		if err != nil {
			return nil, err
		}
		ownerPremium, ownerMin = premium, minimum
		baseCard = card
	}
	if wantLender {
		card, premium, minimum, err := s.tieredPremium(ctx, carrier.ID, ratecarddomain.PolicyLender, req.State, req.LoanAmount, asOf)
		if err != nil {
			return nil, err
		}
		lenderPremium, lenderMin = premium, minimum
		lenderCard = card
		if baseCard == nil {
			baseCard = card
		}
	}
	if baseCard == nil {
		return nil, nil
	}

	// Simultaneous issue: discount comes off the lender side, floored at 0.
	var simulPremium, simulSavings, simulDiscountPct float64
	if req.PolicyType == ratecarddomain.PolicySimultaneous && lenderCard != nil {
		row, err := s.repo.FindSimultaneousIssue(ctx, s.db, lenderCard.ID, req.LoanAmount)
		if err != nil {
			return nil, err
		}
		var discount float64
		if row != nil {
			discount = titledomain.SimultaneousDiscount(*row, req.LoanAmount, lenderPremium)
		}
		standalone := ownerPremium + lenderPremium
		discountedLender := max(lenderPremium-discount, 0)
		simulPremium = ownerPremium + discountedLender
		simulSavings = standalone - simulPremium
		if standalone > 0 {
			simulDiscountPct = simulSavings / standalone * 100
		}
	}

	basePremium := ownerPremium
	if basePremium == 0 {
		basePremium = lenderPremium
	}

	var reissueCredit float64
	if req.IsRefinance && req.YearsSincePriorPolicy != nil {
		credits, err := s.repo.ListReissueCredits(ctx, s.db, baseCard.ID)
		if err != nil {
			return nil, err
		}
		reissueCredit = titledomain.ReissueCreditAmount(credits, *req.YearsSincePriorPolicy, basePremium)
	}

	var endorsementFees float64
	if len(req.EndorsementCodes) > 0 {
		endorsements, err := s.repo.ListEndorsements(ctx, s.db, baseCard.ID, req.EndorsementCodes)
		if err != nil {
			return nil, err
		}
		endorsementFees = titledomain.EndorsementFees(endorsements, basePremium)
	}

	var computed, floor float64
	switch {
	case req.PolicyType == ratecarddomain.PolicySimultaneous && lenderCard != nil:
		computed = simulPremium - reissueCredit
		floor = max(ownerMin, lenderMin)
	case req.PolicyType == ratecarddomain.PolicyOwner:
		computed = ownerPremium - reissueCredit
		floor = ownerMin
	default:
		computed = lenderPremium - reissueCredit
		floor = lenderMin
	}
	total := max(computed, floor) + endorsementFees

	return &titledomain.CarrierQuote{
		CarrierID:               carrier.ID,
		CarrierName:             carrier.LegalName,
		NAICCode:                carrier.NAICCode,
		AMBestRating:            carrier.AMBestRating,
		OwnerPremium:            ownerPremium,
		LenderPremium:           lenderPremium,
		SimultaneousPremium:     simulPremium,
		SimultaneousSavings:     simulSavings,
		SimultaneousDiscountPct: simulDiscountPct,
		ReissueCredit:           reissueCredit,
		EndorsementFees:         endorsementFees,
		TotalPremium:            total,
		IsPromulgated:           baseCard.IsPromulgated,
		RateCardSource:          baseCard.Source,
		RateCardDate:            baseCard.EffectiveDate,
	}, nil
}

// PremiumFor answers the standalone floored premium for one policy type.
func (s *Service) PremiumFor(ctx context.Context, carrierID snowflake.ID, policyType ratecarddomain.PolicyType, state string, amount float64, asOf time.Time) (float64, error) {
	_, premium, _, err := s.tieredPremium(ctx, carrierID, policyType, state, amount, asOf)
	return premium, err
}

// Discount answers the dollar simultaneous issue discount for a loan amount.
func (s *Service) Discount(ctx context.Context, carrierID snowflake.ID, state string, loanAmount float64, asOf time.Time) (float64, error) {
	card, lenderPremium, _, err := s.tieredPremium(ctx, carrierID, ratecarddomain.PolicyLender, state, loanAmount, asOf)
	if err != nil || card == nil {
		return 0, err
	}
	row, err := s.repo.FindSimultaneousIssue(ctx, s.db, card.ID, loanAmount)
	if err != nil || row == nil {
		return 0, err
	}
	return titledomain.SimultaneousDiscount(*row, loanAmount, lenderPremium), nil
}

func (s *Service) tieredPremium(ctx context.Context, carrierID snowflake.ID, policyType ratecarddomain.PolicyType, state string, amount float64, asOf time.Time) (*ratecarddomain.TitleRateCard, float64, float64, error) {
	card, err := s.rateCards.ResolveTitle(ctx, carrierID, policyType, state, asOf)
	if err != nil || card == nil {
		return nil, 0, 0, err
	}
	tiers, err := s.repo.ListTiers(ctx, s.db, card.ID)
	if err != nil {
		return nil, 0, 0, err
	}
	premium, minimum, err := titledomain.TieredPremium(tiers, amount, card.PricingMode)
	if err != nil {
		return nil, 0, 0, err
	}
	return card, premium, minimum, nil
}
