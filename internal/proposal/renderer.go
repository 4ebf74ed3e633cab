// Package proposal renders completed quote results into client-facing PDF
// proposals: request summary, ranked carrier table, savings callout.
package proposal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/oklog/ulid/v2"
	quotedomain "github.com/hermeshq/hermes/internal/quote/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Document is a rendered proposal. Reference is the ULID printed on the
// PDF and handed back to the caller for later retrieval.
type Document struct {
	Reference string
	Content   io.Reader
}

type Renderer interface {
	RenderPMI(ctx context.Context, req quotedomain.PMIQuoteRequest, result *quotedomain.PMIQuoteResult) (*Document, error)
	RenderTitle(ctx context.Context, req quotedomain.TitleQuoteRequest, result *quotedomain.TitleQuoteResult) (*Document, error)
}

type Params struct {
	fx.In

	Log *zap.Logger
}

type renderer struct {
	log *zap.Logger
}

func NewRenderer(p Params) Renderer {
	return &renderer{log: p.Log.Named("proposal.renderer")}
}

func (r *renderer) RenderPMI(ctx context.Context, req quotedomain.PMIQuoteRequest, result *quotedomain.PMIQuoteResult) (*Document, error) {
	if result == nil || len(result.Quotes) == 0 {
		return nil, fmt.Errorf("proposal requires at least one quote")
	}
	reference := ulid.Make().String()

	m := newDocument()
	addTitle(m, "Private Mortgage Insurance Proposal", reference)

	m.AddRow(24,
		col.New(6).Add(
			text.New(fmt.Sprintf("Loan amount: $%s", formatAmount(req.LoanAmount)), props.Text{Top: 0, Size: 9}),
			text.New(fmt.Sprintf("Property value: $%s", formatAmount(req.PropertyValue)), props.Text{Top: 4, Size: 9}),
			text.New(fmt.Sprintf("LTV: %.2f%%", result.LTV), props.Text{Top: 8, Size: 9}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("FICO score: %d", req.FICOScore), props.Text{Top: 0, Size: 9}),
			text.New(fmt.Sprintf("Coverage: %.2f%%", result.CoveragePct), props.Text{Top: 4, Size: 9}),
			text.New(fmt.Sprintf("State: %s", req.State), props.Text{Top: 8, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(4, "Carrier", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Plan", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Monthly", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Annual", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, q := range result.Quotes {
		m.AddRow(8,
			text.NewCol(4, q.CarrierName, props.Text{Size: 9}),
			text.NewCol(2, string(q.PremiumType), props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%.4f%%", q.AdjustedRatePct), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("$%.2f", q.MonthlyPremium), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("$%.2f", q.AnnualPremium), props.Text{Size: 9, Align: align.Right}),
		)
	}

	if len(result.Quotes) > 1 {
		spread := result.Quotes[len(result.Quotes)-1].AnnualPremium - result.Quotes[0].AnnualPremium
		m.AddRow(14,
			text.NewCol(12, fmt.Sprintf(
				"Choosing %s saves up to $%.2f per year against the highest quote.",
				result.Quotes[0].CarrierName, spread,
			), props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}),
		)
	}

	return r.finish(m, reference)
}

func (r *renderer) RenderTitle(ctx context.Context, req quotedomain.TitleQuoteRequest, result *quotedomain.TitleQuoteResult) (*Document, error) {
	if result == nil || len(result.Quotes) == 0 {
		return nil, fmt.Errorf("proposal requires at least one quote")
	}
	reference := ulid.Make().String()

	m := newDocument()
	addTitle(m, "Title Insurance Proposal", reference)

	m.AddRow(24,
		col.New(6).Add(
			text.New(fmt.Sprintf("Purchase price: $%s", formatAmount(req.PurchasePrice)), props.Text{Top: 0, Size: 9}),
			text.New(fmt.Sprintf("Loan amount: $%s", formatAmount(req.LoanAmount)), props.Text{Top: 4, Size: 9}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Policy type: %s", req.PolicyType), props.Text{Top: 0, Size: 9}),
			text.New(fmt.Sprintf("State: %s", req.State), props.Text{Top: 4, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(4, "Carrier", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Owner", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Lender", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Savings", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, q := range result.Quotes {
		m.AddRow(8,
			text.NewCol(4, q.CarrierName, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("$%.2f", q.OwnerPremium), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("$%.2f", q.LenderPremium), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("$%.2f", q.SimultaneousSavings), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("$%.2f", q.TotalPremium), props.Text{Size: 9, Align: align.Right}),
		)
	}

	if result.BestSavings != nil {
		m.AddRow(14,
			text.NewCol(12, fmt.Sprintf(
				"%s offers the largest simultaneous issue savings: $%.2f.",
				result.BestSavings.CarrierName, result.BestSavings.SimultaneousSavings,
			), props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}),
		)
	}

	return r.finish(m, reference)
}

func (r *renderer) finish(m core.Maroto, reference string) (*Document, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	r.log.Debug("proposal rendered", zap.String("reference", reference))
	return &Document{
		Reference: reference,
		Content:   bytes.NewReader(doc.GetBytes()),
	}, nil
}

func newDocument() core.Maroto {
	cfg := marotoconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

func addTitle(m core.Maroto, heading, reference string) {
	m.AddRow(12,
		text.NewCol(12, heading, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		col.New(6).Add(
			text.New("Proposal reference: "+reference, props.Text{Top: 0, Size: 9}),
			text.New("Generated: "+time.Now().UTC().Format("2006-01-02 15:04 MST"), props.Text{Top: 4, Size: 9}),
		),
		col.New(6),
	)
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
