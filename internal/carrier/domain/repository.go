package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Carrier, error)
	ListEligible(ctx context.Context, db *gorm.DB, state string, line Line) ([]Carrier, error)
}
