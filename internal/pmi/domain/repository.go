package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListCells(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID) ([]RateCell, error)
	ListAdjustments(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID) ([]Adjustment, error)
}
