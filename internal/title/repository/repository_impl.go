package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	titledomain "github.com/hermeshq/hermes/internal/title/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() titledomain.Repository {
	return &repo{}
}

func (r *repo) ListTiers(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID) ([]titledomain.RateTier, error) {
	var tiers []titledomain.RateTier
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_title_rates
		 WHERE rate_card_id = ?
		 ORDER BY coverage_min ASC`,
		rateCardID,
	).Scan(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *repo) FindSimultaneousIssue(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID, loanAmount float64) (*titledomain.SimultaneousIssue, error) {
	var row titledomain.SimultaneousIssue
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_title_simultaneous_issue
		 WHERE rate_card_id = ?
		   AND ? BETWEEN loan_min AND loan_max
		 ORDER BY loan_min ASC
		 LIMIT 1`,
		rateCardID,
		loanAmount,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) ListReissueCredits(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID) ([]titledomain.ReissueCredit, error) {
	var credits []titledomain.ReissueCredit
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_title_reissue_credits
		 WHERE rate_card_id = ?
		 ORDER BY years_since_min ASC`,
		rateCardID,
	).Scan(&credits).Error
	if err != nil {
		return nil, err
	}
	return credits, nil
}

func (r *repo) ListEndorsements(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID, codes []string) ([]titledomain.Endorsement, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var endorsements []titledomain.Endorsement
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_title_endorsements
		 WHERE rate_card_id = ?
		   AND endorsement_code IN ?
		 ORDER BY endorsement_code`,
		rateCardID,
		codes,
	).Scan(&endorsements).Error
	if err != nil {
		return nil, err
	}
	return endorsements, nil
}
