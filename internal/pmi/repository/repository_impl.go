package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	pmidomain "github.com/hermeshq/hermes/internal/pmi/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pmidomain.Repository {
	return &repo{}
}

func (r *repo) ListCells(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID) ([]pmidomain.RateCell, error) {
	var cells []pmidomain.RateCell
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_pmi_rates
		 WHERE rate_card_id = ?
		 ORDER BY ltv_min, fico_min, coverage_pct`,
		rateCardID,
	).Scan(&cells).Error
	if err != nil {
		return nil, err
	}
	return cells, nil
}

func (r *repo) ListAdjustments(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID) ([]pmidomain.Adjustment, error) {
	var adjustments []pmidomain.Adjustment
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM hermes_pmi_adjustments
		 WHERE rate_card_id = ?
		 ORDER BY priority, created_at, id`,
		rateCardID,
	).Scan(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}
