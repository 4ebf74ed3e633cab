package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	"github.com/hermeshq/hermes/internal/config"
	pmidomain "github.com/hermeshq/hermes/internal/pmi/domain"
	"github.com/stretchr/testify/require"
)

func TestMarketGrid(t *testing.T) {
	a, b := testCarrier(1, "Alpha"), testCarrier(2, "Beta")
	carriers := &stubCarriers{carriers: []carrierdomain.Carrier{a, b}}
	pmi := &stubPMI{rates: map[snowflake.ID]float64{a.ID: 0.52}}
	svc := newOrchestrator(carriers, pmi, &stubTitle{}, &stubLogbook{}, config.DefaultEngineConfig())

	entries, err := svc.MarketGrid(context.Background(), "tx")
	require.NoError(t, err)

	// Alpha covers every LTV x FICO point; Beta has no grid and is absent.
	require.Len(t, entries, len(ltvBuckets)*len(ficoBuckets))
	for _, e := range entries {
		require.Equal(t, "Alpha", e.CarrierName)
		require.Equal(t, 0.52, e.RatePct)
		require.InDelta(t, 0.52/12*1000, e.MonthlyPer100K, 1e-9)
	}

	// Coverage tracks the GSE minimum for the bucket's midpoint.
	require.Equal(t, pmidomain.RequiredCoverage(82.5), entries[0].CoveragePct)
}

func TestMarketGridSkipsFailingCarrier(t *testing.T) {
	a, b := testCarrier(1, "Alpha"), testCarrier(2, "Beta")
	carriers := &stubCarriers{carriers: []carrierdomain.Carrier{a, b}}
	pmi := &stubPMI{
		rates: map[snowflake.ID]float64{b.ID: 0.60},
		errs:  map[snowflake.ID]error{a.ID: errors.New("bad grid")},
	}
	svc := newOrchestrator(carriers, pmi, &stubTitle{}, &stubLogbook{}, config.DefaultEngineConfig())

	entries, err := svc.MarketGrid(context.Background(), "TX")
	require.NoError(t, err)
	for _, e := range entries {
		require.Equal(t, "Beta", e.CarrierName)
	}
}

func TestMarketGridRejectsBadState(t *testing.T) {
	svc := newOrchestrator(&stubCarriers{}, &stubPMI{}, &stubTitle{}, &stubLogbook{}, config.DefaultEngineConfig())
	_, err := svc.MarketGrid(context.Background(), "Texas")
	require.Error(t, err)
}

func TestSimultaneousIssueGrid(t *testing.T) {
	a := testCarrier(1, "Alamo Title Insurance")
	carriers := &stubCarriers{carriers: []carrierdomain.Carrier{a}}
	title := &stubTitle{ownerRate: 5, lenderRate: 4, discount: 600}
	svc := newOrchestrator(carriers, &stubPMI{}, title, &stubLogbook{}, config.DefaultEngineConfig())

	grid, err := svc.SimultaneousIssueGrid(context.Background(), "TX", 400_000)
	require.NoError(t, err)
	require.Equal(t, []string{"Alamo Title Insurance"}, grid.Carriers)
	require.Len(t, grid.Entries, len(gridLoanAmounts))

	// 200k loan: owner 2000, lender 800, discounted lender 200.
	first := grid.Entries[0]
	require.Equal(t, 200_000.0, first.LoanAmount)
	require.Equal(t, 2000.0, first.OwnerPremium)
	require.Equal(t, 800.0, first.LenderStandalone)
	require.Equal(t, 2200.0, first.SimultaneousPremium)
	require.Equal(t, 600.0, first.SimultaneousSavings)
	require.InDelta(t, 600.0/2800*100, first.DiscountPct, 1e-9)

	// The flat discount saves the same dollars at every rung.
	require.Equal(t, 600.0, grid.MaxSavingsAmount)
	require.Equal(t, "Alamo Title Insurance", grid.MaxSavingsCarrier)
}

func TestSimultaneousIssueGridDiscountNeverGoesNegative(t *testing.T) {
	a := testCarrier(1, "Alamo Title Insurance")
	carriers := &stubCarriers{carriers: []carrierdomain.Carrier{a}}
	title := &stubTitle{ownerRate: 5, lenderRate: 4, discount: 1_000_000}
	svc := newOrchestrator(carriers, &stubPMI{}, title, &stubLogbook{}, config.DefaultEngineConfig())

	grid, err := svc.SimultaneousIssueGrid(context.Background(), "TX", 400_000)
	require.NoError(t, err)
	for _, e := range grid.Entries {
		// Lender premium floors at zero, so simultaneous equals owner alone.
		require.Equal(t, e.OwnerPremium, e.SimultaneousPremium)
		require.Equal(t, e.LenderStandalone, e.SimultaneousSavings)
	}
}
