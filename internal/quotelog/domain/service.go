package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hermeshq/hermes/pkg/db/pagination"
)

// Entry is what the orchestrator hands over for persistence, product
// agnostic. Request and Response marshal into the JSON audit columns.
type Entry struct {
	Request        any
	Response       any
	CarriersQuoted int
	BestRate       *float64
	BestPremium    *float64
	BestCarrierID  *snowflake.ID
	ProcessingMS   float64
	Source         string
}

// Service appends audit entries and serves the longitudinal read side.
// Append methods never fail the quote path: persistence errors are logged
// and swallowed after the single write attempt.
type Service interface {
	AppendPMI(ctx context.Context, entry Entry)
	AppendTitle(ctx context.Context, entry Entry)

	ListPMI(ctx context.Context, page pagination.Pagination) ([]PMIQuoteLog, *pagination.PageInfo, error)
	ListTitle(ctx context.Context, page pagination.Pagination) ([]TitleQuoteLog, *pagination.PageInfo, error)
}
