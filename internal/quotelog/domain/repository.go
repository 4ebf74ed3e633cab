package domain

import (
	"context"

	"github.com/hermeshq/hermes/pkg/db/option"
	"gorm.io/gorm"
)

type Repository interface {
	InsertPMI(ctx context.Context, db *gorm.DB, row *PMIQuoteLog) error
	InsertTitle(ctx context.Context, db *gorm.DB, row *TitleQuoteLog) error
	ListPMI(ctx context.Context, db *gorm.DB, opts ...option.QueryOption) ([]*PMIQuoteLog, error)
	ListTitle(ctx context.Context, db *gorm.DB, opts ...option.QueryOption) ([]*TitleQuoteLog, error)
}
