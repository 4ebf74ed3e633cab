package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service resolves the active rate card for a quote and performs explicit
// supersession on behalf of the ingestion pipeline. Resolve methods return
// (nil, nil) when no card qualifies; a carrier simply not writing a
// product/state is a normal outcome, not an error.
type Service interface {
	ResolvePMI(ctx context.Context, carrierID snowflake.ID, premiumType PremiumType, state string, asOf time.Time) (*PMIRateCard, error)
	ResolveTitle(ctx context.Context, carrierID snowflake.ID, policyType PolicyType, state string, asOf time.Time) (*TitleRateCard, error)

	CreatePMI(ctx context.Context, card *PMIRateCard) error
	CreateTitle(ctx context.Context, card *TitleRateCard) error

	SupersedePMI(ctx context.Context, oldID snowflake.ID, successor *PMIRateCard) error
	SupersedeTitle(ctx context.Context, oldID snowflake.ID, successor *TitleRateCard) error

	PMIVersionChain(ctx context.Context, cardID snowflake.ID) ([]PMIRateCard, error)
	TitleVersionChain(ctx context.Context, cardID snowflake.ID) ([]TitleRateCard, error)
}

var (
	ErrInvalidCard       = errors.New("invalid_rate_card")
	ErrCardNotFound      = errors.New("rate_card_not_found")
	ErrCardNotCurrent    = errors.New("rate_card_not_current")
	ErrSupersedeMismatch = errors.New("supersede_key_mismatch")
)
