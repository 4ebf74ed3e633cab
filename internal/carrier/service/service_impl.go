package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	"github.com/hermeshq/hermes/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  carrierdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  carrierdomain.Repository
}

func NewService(p Params) carrierdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("carrier.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) EligibleCarriers(ctx context.Context, state string, line carrierdomain.Line) ([]carrierdomain.Carrier, error) {
	state = normalizeState(state)
	if state == "" {
		return nil, carrierdomain.ErrInvalidState
	}
	if line != carrierdomain.LinePMI && line != carrierdomain.LineTitle {
		return nil, carrierdomain.ErrInvalidLine
	}
	return s.repo.ListEligible(ctx, s.db, state, line)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*carrierdomain.Carrier, error) {
	if id == 0 {
		return nil, carrierdomain.ErrInvalidCarrier
	}
	carrier, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if carrier == nil {
		return nil, carrierdomain.ErrCarrierNotFound
	}
	return carrier, nil
}

// Register inserts a carrier and its state licenses. Used by ingestion and
// test seeding; the quote path never writes here.
func (s *Service) Register(ctx context.Context, req carrierdomain.RegisterRequest) (*carrierdomain.Carrier, error) {
	legalName := strings.TrimSpace(req.LegalName)
	naic := strings.TrimSpace(req.NAICCode)
	if legalName == "" || naic == "" {
		return nil, carrierdomain.ErrInvalidCarrier
	}

	now := time.Now().UTC()
	carrier := carrierdomain.Carrier{
		ID:           s.genID.Generate(),
		NAICCode:     naic,
		LegalName:    legalName,
		Slug:         slug.Make(legalName),
		AMBestRating: req.AMBestRating,
		Status:       carrierdomain.CarrierStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&carrier).Error; err != nil {
			return err
		}
		for line, states := range req.Licenses {
			for _, state := range states {
				normalized := normalizeState(state)
				if normalized == "" {
					return carrierdomain.ErrInvalidState
				}
				license := carrierdomain.CarrierLicense{
					ID:        s.genID.Generate(),
					CarrierID: carrier.ID,
					State:     normalized,
					Line:      line,
					Active:    true,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := tx.Create(&license).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, carrierdomain.ErrCarrierExists
		}
		return nil, err
	}

	s.log.Info("carrier registered",
		zap.String("carrier_id", carrier.ID.String()),
		zap.String("slug", carrier.Slug),
	)
	return &carrier, nil
}

func normalizeState(state string) string {
	state = strings.ToUpper(strings.TrimSpace(state))
	if len(state) != 2 {
		return ""
	}
	return state
}
