package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Service exposes the read side of the carrier registry. The quote
// orchestrator uses EligibleCarriers as its appetite/license check.
type Service interface {
	EligibleCarriers(ctx context.Context, state string, line Line) ([]Carrier, error)
	Get(ctx context.Context, id snowflake.ID) (*Carrier, error)
	Register(ctx context.Context, req RegisterRequest) (*Carrier, error)
}

// RegisterRequest seeds a carrier with its licensed states per line.
type RegisterRequest struct {
	NAICCode     string
	LegalName    string
	AMBestRating *string
	Licenses     map[Line][]string
}

var (
	ErrInvalidState    = errors.New("invalid_state")
	ErrInvalidLine     = errors.New("invalid_line")
	ErrInvalidCarrier  = errors.New("invalid_carrier")
	ErrCarrierNotFound = errors.New("carrier_not_found")
	ErrCarrierExists   = errors.New("carrier_exists")
)
