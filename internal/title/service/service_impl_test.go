package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	"github.com/hermeshq/hermes/internal/config"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	ratecardrepository "github.com/hermeshq/hermes/internal/ratecard/repository"
	ratecardservice "github.com/hermeshq/hermes/internal/ratecard/service"
	titledomain "github.com/hermeshq/hermes/internal/title/domain"
	titlerepository "github.com/hermeshq/hermes/internal/title/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db        *gorm.DB
	svc       titledomain.Service
	rateCards ratecarddomain.Service
	node      *snowflake.Node
	carrier   carrierdomain.Carrier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&carrierdomain.Carrier{},
		&ratecarddomain.TitleRateCard{},
		&titledomain.RateTier{},
		&titledomain.SimultaneousIssue{},
		&titledomain.ReissueCredit{},
		&titledomain.Endorsement{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	rateCards := ratecardservice.NewService(ratecardservice.Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   ratecardrepository.Provide(),
		Engine: config.NewStaticEngineConfigHolder(config.DefaultEngineConfig()),
	})

	svc := NewService(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Repo:      titlerepository.Provide(),
		RateCards: rateCards,
	})

	carrier := carrierdomain.Carrier{
		ID:        node.Generate(),
		NAICCode:  "50814",
		LegalName: "Alamo Title Insurance",
		Slug:      "alamo-title-insurance",
		Status:    carrierdomain.CarrierStatusActive,
	}
	require.NoError(t, db.Create(&carrier).Error)

	return &fixture{db: db, svc: svc, rateCards: rateCards, node: node, carrier: carrier}
}

func (f *fixture) seedCard(t *testing.T, policyType ratecarddomain.PolicyType, tiers []titledomain.RateTier) *ratecarddomain.TitleRateCard {
	t.Helper()
	card := &ratecarddomain.TitleRateCard{
		CarrierID:     f.carrier.ID,
		PolicyType:    policyType,
		State:         "TX",
		IsPromulgated: true,
		EffectiveDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.rateCards.CreateTitle(context.Background(), card))
	for i := range tiers {
		tiers[i].ID = f.node.Generate()
		tiers[i].RateCardID = card.ID
		require.NoError(t, f.db.Create(&tiers[i]).Error)
	}
	return card
}

var asOf = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestPriceCarrier_OwnerPolicyWithMinimumFloor(t *testing.T) {
	f := newFixture(t)
	f.seedCard(t, ratecarddomain.PolicyOwner, []titledomain.RateTier{
		{CoverageMin: 0, CoverageMax: 500_000, RatePerThousand: 5.00, MinimumPremium: 350},
	})

	quote, err := f.svc.PriceCarrier(context.Background(), f.carrier, titledomain.Request{
		State:         "TX",
		PolicyType:    ratecarddomain.PolicyOwner,
		PurchasePrice: 100_000,
	}, asOf)
	require.NoError(t, err)
	require.NotNil(t, quote)
	require.Equal(t, 500.0, quote.OwnerPremium)
	require.Equal(t, 500.0, quote.TotalPremium)
	require.True(t, quote.IsPromulgated)
}

func TestPriceCarrier_SimultaneousIssueDiscount(t *testing.T) {
	f := newFixture(t)
	f.seedCard(t, ratecarddomain.PolicyOwner, []titledomain.RateTier{
		{CoverageMin: 0, CoverageMax: 1_000_000, RatePerThousand: 5.00, MinimumPremium: 350},
	})
	lenderCard := f.seedCard(t, ratecarddomain.PolicyLender, []titledomain.RateTier{
		{CoverageMin: 0, CoverageMax: 1_000_000, RatePerThousand: 4.00, MinimumPremium: 300},
	})

	si := titledomain.SimultaneousIssue{
		ID:          f.node.Generate(),
		RateCardID:  lenderCard.ID,
		LoanMin:     0,
		LoanMax:     1_000_000,
		DiscountPct: 75,
	}
	require.NoError(t, f.db.Create(&si).Error)

	quote, err := f.svc.PriceCarrier(context.Background(), f.carrier, titledomain.Request{
		State:         "TX",
		PolicyType:    ratecarddomain.PolicySimultaneous,
		PurchasePrice: 400_000,
		LoanAmount:    300_000,
	}, asOf)
	require.NoError(t, err)
	require.NotNil(t, quote)

	// Owner 2000, lender 1200, discount 75% of lender = 900.
	require.Equal(t, 2000.0, quote.OwnerPremium)
	require.Equal(t, 1200.0, quote.LenderPremium)
	require.Equal(t, 2300.0, quote.SimultaneousPremium)
	require.Equal(t, 900.0, quote.SimultaneousSavings)
	require.Equal(t, 2300.0, quote.TotalPremium)
	require.InDelta(t, 28.125, quote.SimultaneousDiscountPct, 1e-9)
}

func TestPriceCarrier_ReissueCreditThenFloorThenEndorsements(t *testing.T) {
	f := newFixture(t)
	card := f.seedCard(t, ratecarddomain.PolicyOwner, []titledomain.RateTier{
		{CoverageMin: 0, CoverageMax: 500_000, RatePerThousand: 5.00, MinimumPremium: 450},
	})

	require.NoError(t, f.db.Create(&titledomain.ReissueCredit{
		ID: f.node.Generate(), RateCardID: card.ID,
		YearsSinceMin: 0, YearsSinceMax: 5, CreditPct: 40,
	}).Error)
	require.NoError(t, f.db.Create(&titledomain.Endorsement{
		ID: f.node.Generate(), RateCardID: card.ID,
		Code: "T-19", Name: "Restrictions, Encroachments, Minerals", FlatFee: 50,
	}).Error)

	years := 2.0
	quote, err := f.svc.PriceCarrier(context.Background(), f.carrier, titledomain.Request{
		State:                 "TX",
		PolicyType:            ratecarddomain.PolicyOwner,
		PurchasePrice:         100_000,
		IsRefinance:           true,
		YearsSincePriorPolicy: &years,
		EndorsementCodes:      []string{"T-19"},
	}, asOf)
	require.NoError(t, err)
	require.NotNil(t, quote)

	// Base 500, credit 200 -> 300, floored to the 450 minimum, endorsement
	// added after the floor.
	require.Equal(t, 200.0, quote.ReissueCredit)
	require.Equal(t, 50.0, quote.EndorsementFees)
	require.Equal(t, 500.0, quote.TotalPremium)
}

func TestPriceCarrier_NoCardYieldsNil(t *testing.T) {
	f := newFixture(t)

	quote, err := f.svc.PriceCarrier(context.Background(), f.carrier, titledomain.Request{
		State:         "TX",
		PolicyType:    ratecarddomain.PolicyOwner,
		PurchasePrice: 250_000,
	}, asOf)
	require.NoError(t, err)
	require.Nil(t, quote)
}

func TestPriceCarrier_FlatPricingMode(t *testing.T) {
	f := newFixture(t)
	card := &ratecarddomain.TitleRateCard{
		CarrierID:     f.carrier.ID,
		PolicyType:    ratecarddomain.PolicyOwner,
		State:         "TX",
		PricingMode:   ratecarddomain.PricingFlat,
		EffectiveDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.rateCards.CreateTitle(context.Background(), card))
	tier := titledomain.RateTier{
		ID: f.node.Generate(), RateCardID: card.ID,
		CoverageMin: 100_000, CoverageMax: 500_000, RatePerThousand: 4.00,
	}
	require.NoError(t, f.db.Create(&tier).Error)

	quote, err := f.svc.PriceCarrier(context.Background(), f.carrier, titledomain.Request{
		State:         "TX",
		PolicyType:    ratecarddomain.PolicyOwner,
		PurchasePrice: 380_000,
	}, asOf)
	require.NoError(t, err)
	require.NotNil(t, quote)
	require.InDelta(t, 1520, quote.TotalPremium, 1e-9)
}

func TestDiscountAndPremiumFor(t *testing.T) {
	f := newFixture(t)
	lenderCard := f.seedCard(t, ratecarddomain.PolicyLender, []titledomain.RateTier{
		{CoverageMin: 0, CoverageMax: 1_000_000, RatePerThousand: 4.00},
	})
	require.NoError(t, f.db.Create(&titledomain.SimultaneousIssue{
		ID: f.node.Generate(), RateCardID: lenderCard.ID,
		LoanMin: 0, LoanMax: 1_000_000, DiscountRatePerThousand: 3.0,
	}).Error)

	premium, err := f.svc.PremiumFor(context.Background(), f.carrier.ID, ratecarddomain.PolicyLender, "TX", 300_000, asOf)
	require.NoError(t, err)
	require.Equal(t, 1200.0, premium)

	discount, err := f.svc.Discount(context.Background(), f.carrier.ID, "TX", 300_000, asOf)
	require.NoError(t, err)
	require.Equal(t, 900.0, discount)
}
