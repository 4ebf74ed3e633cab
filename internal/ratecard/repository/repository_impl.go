package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ratecarddomain.Repository {
	return &repo{}
}

// ResolvePMI applies the selection rule: current beats retired, then
// state-specific beats nationwide, and version breaks any remaining tie.
// A current nationwide card outranks a retired state card that is still
// inside its effective window.
func (r *repo) ResolvePMI(ctx context.Context, db *gorm.DB, carrierID snowflake.ID, premiumType ratecarddomain.PremiumType, state string, asOf time.Time) (*ratecarddomain.PMIRateCard, error) {
	var card ratecarddomain.PMIRateCard
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_pmi_rate_cards
		 WHERE carrier_id = ?
		   AND premium_type = ?
		   AND (state = ? OR state IS NULL)
		   AND effective_date <= ?
		   AND (expiration_date IS NULL OR expiration_date > ?)
		 ORDER BY
		   is_current DESC,
		   CASE WHEN state IS NOT NULL THEN 0 ELSE 1 END,
		   version DESC
		 LIMIT 1`,
		carrierID,
		premiumType,
		state,
		asOf,
		asOf,
	).Scan(&card).Error
	if err != nil {
		return nil, err
	}
	if card.ID == 0 {
		return nil, nil
	}
	return &card, nil
}

func (r *repo) ResolveTitle(ctx context.Context, db *gorm.DB, carrierID snowflake.ID, policyType ratecarddomain.PolicyType, state string, asOf time.Time) (*ratecarddomain.TitleRateCard, error) {
	var card ratecarddomain.TitleRateCard
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_title_rate_cards
		 WHERE carrier_id = ?
		   AND policy_type = ?
		   AND state = ?
		   AND effective_date <= ?
		   AND (expiration_date IS NULL OR expiration_date > ?)
		 ORDER BY is_current DESC, version DESC
		 LIMIT 1`,
		carrierID,
		policyType,
		state,
		asOf,
		asOf,
	).Scan(&card).Error
	if err != nil {
		return nil, err
	}
	if card.ID == 0 {
		return nil, nil
	}
	return &card, nil
}

func (r *repo) FindPMIByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ratecarddomain.PMIRateCard, error) {
	var card ratecarddomain.PMIRateCard
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_pmi_rate_cards WHERE id = ?`, id,
	).Scan(&card).Error
	if err != nil {
		return nil, err
	}
	if card.ID == 0 {
		return nil, nil
	}
	return &card, nil
}

func (r *repo) FindTitleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ratecarddomain.TitleRateCard, error) {
	var card ratecarddomain.TitleRateCard
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_title_rate_cards WHERE id = ?`, id,
	).Scan(&card).Error
	if err != nil {
		return nil, err
	}
	if card.ID == 0 {
		return nil, nil
	}
	return &card, nil
}

func (r *repo) ListPMIFamily(ctx context.Context, db *gorm.DB, carrierID snowflake.ID, premiumType ratecarddomain.PremiumType, state *string) ([]ratecarddomain.PMIRateCard, error) {
	var cards []ratecarddomain.PMIRateCard
	stmt := db.WithContext(ctx).
		Where("carrier_id = ? AND premium_type = ?", carrierID, premiumType)
	if state == nil {
		stmt = stmt.Where("state IS NULL")
	} else {
		stmt = stmt.Where("state = ?", *state)
	}
	err := stmt.Order("version ASC").Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *repo) ListTitleFamily(ctx context.Context, db *gorm.DB, carrierID snowflake.ID, policyType ratecarddomain.PolicyType, state string) ([]ratecarddomain.TitleRateCard, error) {
	var cards []ratecarddomain.TitleRateCard
	err := db.WithContext(ctx).
		Where("carrier_id = ? AND policy_type = ? AND state = ?", carrierID, policyType, state).
		Order("version ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}
