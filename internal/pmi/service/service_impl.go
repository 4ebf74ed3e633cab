package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	pmidomain "github.com/hermeshq/hermes/internal/pmi/domain"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      pmidomain.Repository
	RateCards ratecarddomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      pmidomain.Repository
	rateCards ratecarddomain.Service
}

func NewService(p Params) pmidomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("pmi.service"),
		repo:      p.Repo,
		rateCards: p.RateCards,
	}
}

// PriceCarrier runs resolve -> lookup -> adjust -> premiums for one carrier
// across the requested premium types. A premium type the carrier does not
// write, or a request off the carrier's grid, is skipped silently; data
// defects (overlapping cells, malformed conditions) abort the carrier.
func (s *Service) PriceCarrier(ctx context.Context, carrier carrierdomain.Carrier, req pmidomain.Request, asOf time.Time) ([]pmidomain.CarrierQuote, error) {
	premiumTypes := req.PremiumTypes
	if len(premiumTypes) == 0 {
		premiumTypes = []ratecarddomain.PremiumType{
			ratecarddomain.PremiumMonthly,
			ratecarddomain.PremiumSingle,
		}
	}

	ltv := req.LTV()
	attrs := req.Attributes()

	quotes := make([]pmidomain.CarrierQuote, 0, len(premiumTypes))
	for _, ptype := range premiumTypes {
		card, err := s.rateCards.ResolvePMI(ctx, carrier.ID, ptype, req.State, asOf)
		if err != nil {
			return nil, err
		}
		if card == nil {
			continue
		}

		cells, err := s.repo.ListCells(ctx, s.db, card.ID)
		if err != nil {
			return nil, err
		}
		cell, err := pmidomain.LookupRate(cells, ltv, req.FICOScore, req.CoveragePct)
		if err != nil {
			return nil, err
		}
		if cell == nil {
			continue
		}

		adjustments, err := s.repo.ListAdjustments(ctx, s.db, card.ID)
		if err != nil {
			return nil, err
		}
		adjustedRate, applied, err := pmidomain.ApplyAdjustments(cell.RatePct, adjustments, attrs)
		if err != nil {
			return nil, err
		}

		premiums := pmidomain.CalculatePremiums(adjustedRate, req.LoanAmount, ptype)

		quotes = append(quotes, pmidomain.CarrierQuote{
			CarrierID:       carrier.ID,
			CarrierName:     carrier.LegalName,
			NAICCode:        carrier.NAICCode,
			AMBestRating:    carrier.AMBestRating,
			PremiumType:     ptype,
			BaseRatePct:     cell.RatePct,
			AdjustedRatePct: adjustedRate,
			MonthlyPremium:  premiums.Monthly,
			AnnualPremium:   premiums.Annual,
			SinglePremium:   premiums.Single,
			CoveragePct:     req.CoveragePct,
			LTV:             ltv,
			Adjustments:     applied,
			RateCardSource:  card.Source,
			RateCardDate:    card.EffectiveDate,
		})
	}
	return quotes, nil
}

// BaseRate answers a single grid point without adjustments, for market grid
// dispersion reports.
func (s *Service) BaseRate(ctx context.Context, carrierID snowflake.ID, premiumType ratecarddomain.PremiumType, state string, ltv float64, fico int, coveragePct float64, asOf time.Time) (*float64, error) {
	card, err := s.rateCards.ResolvePMI(ctx, carrierID, premiumType, state, asOf)
	if err != nil || card == nil {
		return nil, err
	}
	cells, err := s.repo.ListCells(ctx, s.db, card.ID)
	if err != nil {
		return nil, err
	}
	cell, err := pmidomain.LookupRate(cells, ltv, fico, coveragePct)
	if err != nil || cell == nil {
		return nil, err
	}
	return &cell.RatePct, nil
}
