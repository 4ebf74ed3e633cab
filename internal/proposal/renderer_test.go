package proposal

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	pmidomain "github.com/hermeshq/hermes/internal/pmi/domain"
	quotedomain "github.com/hermeshq/hermes/internal/quote/domain"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	titledomain "github.com/hermeshq/hermes/internal/title/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newTestRenderer(t *testing.T) Renderer {
	t.Helper()
	return NewRenderer(Params{In: fx.In{}, Log: zap.NewNop()})
}

func pmiResult() *quotedomain.PMIQuoteResult {
	return &quotedomain.PMIQuoteResult{
		RequestID:      uuid.New(),
		Outcome:        quotedomain.OutcomeQuoted,
		LTV:            88,
		CoveragePct:    25,
		CarriersQuoted: 2,
		Quotes: []pmidomain.CarrierQuote{
			{
				CarrierID:       snowflake.ID(1),
				CarrierName:     "Keystone Mortgage Guaranty",
				PremiumType:     ratecarddomain.PremiumMonthly,
				AdjustedRatePct: 0.52,
				MonthlyPremium:  114.40,
				AnnualPremium:   1372.80,
				RateCardDate:    time.Now(),
			},
			{
				CarrierID:       snowflake.ID(2),
				CarrierName:     "Pinnacle Guaranty",
				PremiumType:     ratecarddomain.PremiumMonthly,
				AdjustedRatePct: 0.61,
				MonthlyPremium:  134.20,
				AnnualPremium:   1610.40,
				RateCardDate:    time.Now(),
			},
		},
	}
}

func TestRenderPMIProducesDocument(t *testing.T) {
	r := newTestRenderer(t)

	req := quotedomain.PMIQuoteRequest{
		State:         "TX",
		LoanAmount:    264000,
		PropertyValue: 300000,
		FICOScore:     735,
	}
	doc, err := r.RenderPMI(context.Background(), req, pmiResult())
	require.NoError(t, err)
	require.Len(t, doc.Reference, 26)

	content, err := io.ReadAll(doc.Content)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	require.Equal(t, "%PDF", string(content[:4]))
}

func TestRenderPMIRejectsEmptyResult(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.RenderPMI(context.Background(), quotedomain.PMIQuoteRequest{}, &quotedomain.PMIQuoteResult{})
	require.Error(t, err)

	_, err = r.RenderPMI(context.Background(), quotedomain.PMIQuoteRequest{}, nil)
	require.Error(t, err)
}

func TestRenderTitleProducesDocument(t *testing.T) {
	r := newTestRenderer(t)

	best := titledomain.CarrierQuote{
		CarrierID:           snowflake.ID(3),
		CarrierName:         "Alamo Title Insurance",
		OwnerPremium:        2000,
		LenderPremium:       1200,
		SimultaneousPremium: 300,
		SimultaneousSavings: 900,
		TotalPremium:        2300,
	}
	result := &quotedomain.TitleQuoteResult{
		RequestID:      uuid.New(),
		Outcome:        quotedomain.OutcomeQuoted,
		CarriersQuoted: 1,
		Quotes:         []titledomain.CarrierQuote{best},
		BestSavings:    &best,
	}
	req := quotedomain.TitleQuoteRequest{
		State:         "TX",
		PolicyType:    ratecarddomain.PolicySimultaneous,
		PurchasePrice: 400000,
		LoanAmount:    320000,
	}

	doc, err := r.RenderTitle(context.Background(), req, result)
	require.NoError(t, err)

	content, err := io.ReadAll(doc.Content)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(content[:4]))
}

func TestRenderReferencesAreUnique(t *testing.T) {
	r := newTestRenderer(t)

	req := quotedomain.PMIQuoteRequest{State: "TX", LoanAmount: 264000, PropertyValue: 300000, FICOScore: 735}
	a, err := r.RenderPMI(context.Background(), req, pmiResult())
	require.NoError(t, err)
	b, err := r.RenderPMI(context.Background(), req, pmiResult())
	require.NoError(t, err)
	require.NotEqual(t, a.Reference, b.Reference)
}
