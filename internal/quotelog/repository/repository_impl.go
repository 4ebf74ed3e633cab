package repository

import (
	"context"

	quotelogdomain "github.com/hermeshq/hermes/internal/quotelog/domain"
	"github.com/hermeshq/hermes/pkg/db/option"
	"github.com/hermeshq/hermes/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() quotelogdomain.Repository {
	return &repo{}
}

func (r *repo) InsertPMI(ctx context.Context, db *gorm.DB, row *quotelogdomain.PMIQuoteLog) error {
	return repository.ProvideStore[quotelogdomain.PMIQuoteLog](db).Create(ctx, row)
}

func (r *repo) InsertTitle(ctx context.Context, db *gorm.DB, row *quotelogdomain.TitleQuoteLog) error {
	return repository.ProvideStore[quotelogdomain.TitleQuoteLog](db).Create(ctx, row)
}

func (r *repo) ListPMI(ctx context.Context, db *gorm.DB, opts ...option.QueryOption) ([]*quotelogdomain.PMIQuoteLog, error) {
	return repository.ProvideStore[quotelogdomain.PMIQuoteLog](db).Find(ctx, &quotelogdomain.PMIQuoteLog{}, opts...)
}

func (r *repo) ListTitle(ctx context.Context, db *gorm.DB, opts ...option.QueryOption) ([]*quotelogdomain.TitleQuoteLog, error) {
	return repository.ProvideStore[quotelogdomain.TitleQuoteLog](db).Find(ctx, &quotelogdomain.TitleQuoteLog{}, opts...)
}
