package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() carrierdomain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*carrierdomain.Carrier, error) {
	var carrier carrierdomain.Carrier
	err := db.WithContext(ctx).Raw(
		`SELECT id, naic_code, legal_name, slug, am_best_rating, status, created_at, updated_at
		 FROM hermes_carriers WHERE id = ?`,
		id,
	).Scan(&carrier).Error
	if err != nil {
		return nil, err
	}
	if carrier.ID == 0 {
		return nil, nil
	}
	return &carrier, nil
}

func (r *repo) ListEligible(ctx context.Context, db *gorm.DB, state string, line carrierdomain.Line) ([]carrierdomain.Carrier, error) {
	var carriers []carrierdomain.Carrier
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT c.id, c.naic_code, c.legal_name, c.slug, c.am_best_rating, c.status, c.created_at, c.updated_at
		 FROM hermes_carriers c
		 JOIN hermes_carrier_licenses l ON l.carrier_id = c.id
		 WHERE c.status = ? AND l.state = ? AND l.line = ? AND l.active = ?
		 ORDER BY c.legal_name ASC`,
		carrierdomain.CarrierStatusActive,
		state,
		line,
		true,
	).Scan(&carriers).Error
	if err != nil {
		return nil, err
	}
	return carriers, nil
}
