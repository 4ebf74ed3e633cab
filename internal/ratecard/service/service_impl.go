package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hermeshq/hermes/internal/config"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   ratecarddomain.Repository
	Engine *config.EngineConfigHolder
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   ratecarddomain.Repository
	engine *config.EngineConfigHolder
}

func NewService(p Params) ratecarddomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("ratecard.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		engine: p.Engine,
	}
}

func (s *Service) ResolvePMI(ctx context.Context, carrierID snowflake.ID, premiumType ratecarddomain.PremiumType, state string, asOf time.Time) (*ratecarddomain.PMIRateCard, error) {
	return s.repo.ResolvePMI(ctx, s.db, carrierID, premiumType, strings.ToUpper(strings.TrimSpace(state)), asOf)
}

func (s *Service) ResolveTitle(ctx context.Context, carrierID snowflake.ID, policyType ratecarddomain.PolicyType, state string, asOf time.Time) (*ratecarddomain.TitleRateCard, error) {
	return s.repo.ResolveTitle(ctx, s.db, carrierID, policyType, strings.ToUpper(strings.TrimSpace(state)), asOf)
}

func (s *Service) CreatePMI(ctx context.Context, card *ratecarddomain.PMIRateCard) error {
	if card == nil || card.CarrierID == 0 || card.PremiumType == "" || card.EffectiveDate.IsZero() {
		return ratecarddomain.ErrInvalidCard
	}
	now := time.Now().UTC()
	if card.ID == 0 {
		card.ID = s.genID.Generate()
	}
	if card.Version == 0 {
		card.Version = 1
	}
	card.IsCurrent = true
	card.CreatedAt = now
	card.UpdatedAt = now
	return s.db.WithContext(ctx).Create(card).Error
}

func (s *Service) CreateTitle(ctx context.Context, card *ratecarddomain.TitleRateCard) error {
	if card == nil || card.CarrierID == 0 || card.PolicyType == "" || card.State == "" || card.EffectiveDate.IsZero() {
		return ratecarddomain.ErrInvalidCard
	}
	now := time.Now().UTC()
	if card.ID == 0 {
		card.ID = s.genID.Generate()
	}
	if card.Version == 0 {
		card.Version = 1
	}
	if card.PricingMode == "" {
		card.PricingMode = ratecarddomain.PricingMode(s.engine.Get().DefaultTitlePricingMode)
	}
	card.IsCurrent = true
	card.CreatedAt = now
	card.UpdatedAt = now
	return s.db.WithContext(ctx).Create(card).Error
}

// SupersedePMI atomically retires the old card and activates its successor.
// The invariant "at most one current card per (carrier, premium_type, state)"
// holds at every commit point because both writes share the transaction.
func (s *Service) SupersedePMI(ctx context.Context, oldID snowflake.ID, successor *ratecarddomain.PMIRateCard) error {
	if successor == nil {
		return ratecarddomain.ErrInvalidCard
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := s.repo.FindPMIByID(ctx, tx, oldID)
		if err != nil {
			return err
		}
		if old == nil {
			return ratecarddomain.ErrCardNotFound
		}
		if !old.IsCurrent {
			return ratecarddomain.ErrCardNotCurrent
		}
		if successor.CarrierID != old.CarrierID ||
			successor.PremiumType != old.PremiumType ||
			!sameState(successor.State, old.State) {
			return ratecarddomain.ErrSupersedeMismatch
		}

		now := time.Now().UTC()
		if successor.ID == 0 {
			successor.ID = s.genID.Generate()
		}
		successor.Version = old.Version + 1
		successor.IsCurrent = true
		successor.SupersededBy = nil
		successor.CreatedAt = now
		successor.UpdatedAt = now
		if err := tx.Create(successor).Error; err != nil {
			return err
		}

		return tx.Model(&ratecarddomain.PMIRateCard{}).
			Where("id = ?", old.ID).
			Updates(map[string]any{
				"is_current":    false,
				"superseded_by": successor.ID,
				"updated_at":    now,
			}).Error
	})
}

func (s *Service) SupersedeTitle(ctx context.Context, oldID snowflake.ID, successor *ratecarddomain.TitleRateCard) error {
	if successor == nil {
		return ratecarddomain.ErrInvalidCard
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := s.repo.FindTitleByID(ctx, tx, oldID)
		if err != nil {
			return err
		}
		if old == nil {
			return ratecarddomain.ErrCardNotFound
		}
		if !old.IsCurrent {
			return ratecarddomain.ErrCardNotCurrent
		}
		if successor.CarrierID != old.CarrierID ||
			successor.PolicyType != old.PolicyType ||
			successor.State != old.State {
			return ratecarddomain.ErrSupersedeMismatch
		}

		now := time.Now().UTC()
		if successor.ID == 0 {
			successor.ID = s.genID.Generate()
		}
		successor.Version = old.Version + 1
		successor.IsCurrent = true
		successor.SupersededBy = nil
		if successor.PricingMode == "" {
			successor.PricingMode = old.PricingMode
		}
		successor.CreatedAt = now
		successor.UpdatedAt = now
		if err := tx.Create(successor).Error; err != nil {
			return err
		}

		return tx.Model(&ratecarddomain.TitleRateCard{}).
			Where("id = ?", old.ID).
			Updates(map[string]any{
				"is_current":    false,
				"superseded_by": successor.ID,
				"updated_at":    now,
			}).Error
	})
}

// PMIVersionChain returns the supersession chain containing cardID, oldest
// first. The chain is walked over an id-keyed map rather than recursive SQL.
func (s *Service) PMIVersionChain(ctx context.Context, cardID snowflake.ID) ([]ratecarddomain.PMIRateCard, error) {
	card, err := s.repo.FindPMIByID(ctx, s.db, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ratecarddomain.ErrCardNotFound
	}

	family, err := s.repo.ListPMIFamily(ctx, s.db, card.CarrierID, card.PremiumType, card.State)
	if err != nil {
		return nil, err
	}

	byID := make(map[snowflake.ID]ratecarddomain.PMIRateCard, len(family))
	succeeded := make(map[snowflake.ID]bool, len(family))
	for _, c := range family {
		byID[c.ID] = c
		if c.SupersededBy != nil {
			succeeded[*c.SupersededBy] = true
		}
	}

	// Root = the one card nothing points to as successor of.
	var chain []ratecarddomain.PMIRateCard
	for _, c := range family {
		if succeeded[c.ID] {
			continue
		}
		// Multiple roots can exist only if data is corrupt; walk from the
		// oldest version to stay deterministic.
		cur, ok := c, true
		for ok {
			chain = append(chain, cur)
			if cur.SupersededBy == nil {
				break
			}
			cur, ok = byID[*cur.SupersededBy]
		}
		break
	}
	return chain, nil
}

func (s *Service) TitleVersionChain(ctx context.Context, cardID snowflake.ID) ([]ratecarddomain.TitleRateCard, error) {
	card, err := s.repo.FindTitleByID(ctx, s.db, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ratecarddomain.ErrCardNotFound
	}

	family, err := s.repo.ListTitleFamily(ctx, s.db, card.CarrierID, card.PolicyType, card.State)
	if err != nil {
		return nil, err
	}

	byID := make(map[snowflake.ID]ratecarddomain.TitleRateCard, len(family))
	succeeded := make(map[snowflake.ID]bool, len(family))
	for _, c := range family {
		byID[c.ID] = c
		if c.SupersededBy != nil {
			succeeded[*c.SupersededBy] = true
		}
	}

	var chain []ratecarddomain.TitleRateCard
	for _, c := range family {
		if succeeded[c.ID] {
			continue
		}
		cur, ok := c, true
		for ok {
			chain = append(chain, cur)
			if cur.SupersededBy == nil {
				break
			}
			cur, ok = byID[*cur.SupersededBy]
		}
		break
	}
	return chain, nil
}

func sameState(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
