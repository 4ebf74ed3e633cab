package domain

import (
	"context"
	"errors"
)

var ErrInvalidRequest = errors.New("invalid_quote_request")

// Service is the multi-carrier quote orchestrator. Per-carrier failures are
// isolated and reported in the result's Failures diagnostics; the only hard
// error is a request-level one (ErrInvalidRequest) or a wholesale inability
// to reach the registry. Every call writes exactly one audit entry.
type Service interface {
	QuotePMI(ctx context.Context, req PMIQuoteRequest) (*PMIQuoteResult, error)
	QuoteTitle(ctx context.Context, req TitleQuoteRequest) (*TitleQuoteResult, error)

	// QuickQuotePMI and QuickQuoteTitle fill sensible defaults for
	// minimal-input callers.
	QuickQuotePMI(ctx context.Context, loanAmount, propertyValue float64, fico int, state string) (*PMIQuoteResult, error)
	QuickQuoteTitle(ctx context.Context, purchasePrice, loanAmount float64, state string) (*TitleQuoteResult, error)

	// MarketGrid builds the cross-carrier PMI LTV x FICO rate dispersion.
	MarketGrid(ctx context.Context, state string) ([]MarketGridEntry, error)
	// SimultaneousIssueGrid builds the title bundling dispersion report.
	SimultaneousIssueGrid(ctx context.Context, state string, purchasePrice float64) (*SimultaneousGrid, error)
}
