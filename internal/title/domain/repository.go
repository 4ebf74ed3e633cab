package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListTiers(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID) ([]RateTier, error)
	FindSimultaneousIssue(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID, loanAmount float64) (*SimultaneousIssue, error)
	ListReissueCredits(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID) ([]ReissueCredit, error)
	ListEndorsements(ctx context.Context, db *gorm.DB, rateCardID snowflake.ID, codes []string) ([]Endorsement, error)
}
