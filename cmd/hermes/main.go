// hermes is the quote engine entrypoint. It runs one quote against the
// configured database and prints the ranked comparison as JSON, optionally
// rendering a proposal PDF.
//
// Usage:
//
//	hermes -line pmi -request request.json [-proposal out.pdf]
//	hermes -line title -request request.json [-proposal out.pdf]
//	hermes -line quick-pmi -state TX -loan 264000 -value 300000 -fico 735
//	hermes -line quick-title -state TX -amount 400000 -loan 320000
//	hermes -line market-grid -state TX
//	hermes -line si-grid -state TX -amount 400000
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/hermeshq/hermes/internal/carrier"
	"github.com/hermeshq/hermes/internal/config"
	"github.com/hermeshq/hermes/internal/observability"
	"github.com/hermeshq/hermes/internal/pmi"
	"github.com/hermeshq/hermes/internal/proposal"
	"github.com/hermeshq/hermes/internal/quote"
	quotedomain "github.com/hermeshq/hermes/internal/quote/domain"
	"github.com/hermeshq/hermes/internal/quotelog"
	"github.com/hermeshq/hermes/internal/ratecard"
	"github.com/hermeshq/hermes/internal/title"
	"github.com/hermeshq/hermes/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type options struct {
	line        string
	requestPath string
	proposalOut string
	state       string
	amount      float64
	loan        float64
	value       float64
	fico        int
}

func main() {
	var opts options
	flag.StringVar(&opts.line, "line", "pmi", "pmi, title, quick-pmi, quick-title, market-grid, or si-grid")
	flag.StringVar(&opts.requestPath, "request", "", "path to the quote request JSON")
	flag.StringVar(&opts.proposalOut, "proposal", "", "write a proposal PDF to this path")
	flag.StringVar(&opts.state, "state", "", "two-letter state for grid commands")
	flag.Float64Var(&opts.amount, "amount", 400000, "purchase price for si-grid and quick-title")
	flag.Float64Var(&opts.loan, "loan", 0, "loan amount for quick quotes")
	flag.Float64Var(&opts.value, "value", 0, "property value for quick-pmi")
	flag.IntVar(&opts.fico, "fico", 740, "credit score for quick-pmi")
	flag.Parse()

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,

		carrier.Module,
		ratecard.Module,
		pmi.Module,
		title.Module,
		quotelog.Module,
		quote.Module,
		proposal.Module,

		fx.Supply(opts),
		fx.Invoke(run),
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

type runParams struct {
	fx.In

	Opts     options
	Log      *zap.Logger
	Quotes   quotedomain.Service
	Renderer proposal.Renderer
	Shutdown fx.Shutdowner
}

func run(lc fx.Lifecycle, p runParams) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if err := execute(context.Background(), p); err != nil {
					p.Log.Error("command failed", zap.Error(err))
					code = 1
				}
				_ = p.Shutdown.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func execute(ctx context.Context, p runParams) error {
	switch p.Opts.line {
	case "pmi":
		return runPMI(ctx, p)
	case "title":
		return runTitle(ctx, p)
	case "quick-pmi":
		result, err := p.Quotes.QuickQuotePMI(ctx, p.Opts.loan, p.Opts.value, p.Opts.fico, p.Opts.state)
		if err != nil {
			return err
		}
		return printJSON(result)
	case "quick-title":
		result, err := p.Quotes.QuickQuoteTitle(ctx, p.Opts.amount, p.Opts.loan, p.Opts.state)
		if err != nil {
			return err
		}
		return printJSON(result)
	case "market-grid":
		grid, err := p.Quotes.MarketGrid(ctx, p.Opts.state)
		if err != nil {
			return err
		}
		return printJSON(grid)
	case "si-grid":
		grid, err := p.Quotes.SimultaneousIssueGrid(ctx, p.Opts.state, p.Opts.amount)
		if err != nil {
			return err
		}
		return printJSON(grid)
	default:
		return fmt.Errorf("unknown line %q", p.Opts.line)
	}
}

func runPMI(ctx context.Context, p runParams) error {
	var req quotedomain.PMIQuoteRequest
	if err := readRequest(p.Opts.requestPath, &req); err != nil {
		return err
	}
	if req.Source == "" {
		req.Source = "cli"
	}

	result, err := p.Quotes.QuotePMI(ctx, req)
	if err != nil {
		return err
	}
	if err := printJSON(result); err != nil {
		return err
	}
	if p.Opts.proposalOut == "" || result.Outcome != quotedomain.OutcomeQuoted {
		return nil
	}

	doc, err := p.Renderer.RenderPMI(ctx, req, result)
	if err != nil {
		return err
	}
	if err := writeDocument(p.Opts.proposalOut, doc.Content); err != nil {
		return err
	}
	p.Log.Info("proposal written",
		zap.String("reference", doc.Reference),
		zap.String("path", p.Opts.proposalOut),
	)
	return nil
}

func runTitle(ctx context.Context, p runParams) error {
	var req quotedomain.TitleQuoteRequest
	if err := readRequest(p.Opts.requestPath, &req); err != nil {
		return err
	}
	if req.Source == "" {
		req.Source = "cli"
	}

	result, err := p.Quotes.QuoteTitle(ctx, req)
	if err != nil {
		return err
	}
	if err := printJSON(result); err != nil {
		return err
	}
	if p.Opts.proposalOut == "" || result.Outcome != quotedomain.OutcomeQuoted {
		return nil
	}

	doc, err := p.Renderer.RenderTitle(ctx, req, result)
	if err != nil {
		return err
	}
	if err := writeDocument(p.Opts.proposalOut, doc.Content); err != nil {
		return err
	}
	p.Log.Info("proposal written",
		zap.String("reference", doc.Reference),
		zap.String("path", p.Opts.proposalOut),
	)
	return nil
}

func readRequest(path string, dst any) error {
	if path == "" {
		return fmt.Errorf("-request is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDocument(path string, content io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
