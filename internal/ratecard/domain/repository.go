package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ResolvePMI(ctx context.Context, db *gorm.DB, carrierID snowflake.ID, premiumType PremiumType, state string, asOf time.Time) (*PMIRateCard, error)
	ResolveTitle(ctx context.Context, db *gorm.DB, carrierID snowflake.ID, policyType PolicyType, state string, asOf time.Time) (*TitleRateCard, error)
	FindPMIByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PMIRateCard, error)
	FindTitleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TitleRateCard, error)
	ListPMIFamily(ctx context.Context, db *gorm.DB, carrierID snowflake.ID, premiumType PremiumType, state *string) ([]PMIRateCard, error)
	ListTitleFamily(ctx context.Context, db *gorm.DB, carrierID snowflake.ID, policyType PolicyType, state string) ([]TitleRateCard, error)
}
