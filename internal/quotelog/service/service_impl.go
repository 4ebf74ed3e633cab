package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/hermeshq/hermes/internal/observability/metrics"
	quotelogdomain "github.com/hermeshq/hermes/internal/quotelog/domain"
	"github.com/hermeshq/hermes/pkg/db/option"
	"github.com/hermeshq/hermes/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    quotelogdomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    quotelogdomain.Repository
	metrics *metrics.Metrics
}

func NewService(p Params) quotelogdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("quotelog.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// AppendPMI writes the audit row for one PMI quote request. The write is
// attempted exactly once; a failure is logged and counted, never returned,
// so the quote response is not held hostage by the audit store.
func (s *Service) AppendPMI(ctx context.Context, entry quotelogdomain.Entry) {
	req, resp, ok := s.marshalPayloads(entry)
	if !ok {
		return
	}
	row := &quotelogdomain.PMIQuoteLog{
		ID:               s.genID.Generate(),
		RequestData:      req,
		ResponseData:     resp,
		CarriersQuoted:   entry.CarriersQuoted,
		BestRate:         entry.BestRate,
		BestCarrierID:    entry.BestCarrierID,
		ProcessingTimeMS: entry.ProcessingMS,
		Source:           sourceOrDefault(entry.Source),
	}
	if err := s.repo.InsertPMI(ctx, s.db, row); err != nil {
		s.log.Warn("pmi quote log write failed", zap.Error(err))
		s.metrics.ObserveQuoteLogFailure()
	}
}

// AppendTitle writes the audit row for one title quote request.
func (s *Service) AppendTitle(ctx context.Context, entry quotelogdomain.Entry) {
	req, resp, ok := s.marshalPayloads(entry)
	if !ok {
		return
	}
	row := &quotelogdomain.TitleQuoteLog{
		ID:               s.genID.Generate(),
		RequestData:      req,
		ResponseData:     resp,
		CarriersQuoted:   entry.CarriersQuoted,
		BestPremium:      entry.BestPremium,
		BestCarrierID:    entry.BestCarrierID,
		ProcessingTimeMS: entry.ProcessingMS,
		Source:           sourceOrDefault(entry.Source),
	}
	if err := s.repo.InsertTitle(ctx, s.db, row); err != nil {
		s.log.Warn("title quote log write failed", zap.Error(err))
		s.metrics.ObserveQuoteLogFailure()
	}
}

func (s *Service) ListPMI(ctx context.Context, page pagination.Pagination) ([]quotelogdomain.PMIQuoteLog, *pagination.PageInfo, error) {
	opts, err := pageOptions(page)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.ListPMI(ctx, s.db, opts...)
	if err != nil {
		return nil, nil, err
	}

	info := pagination.BuildCursorPageInfo(rows, int32(pageSize(page)), func(row *quotelogdomain.PMIQuoteLog) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: strconv.FormatInt(int64(row.ID), 10)})
		return token
	})
	if len(rows) > pageSize(page) {
		rows = rows[:pageSize(page)]
	}
	out := make([]quotelogdomain.PMIQuoteLog, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out, info, nil
}

func (s *Service) ListTitle(ctx context.Context, page pagination.Pagination) ([]quotelogdomain.TitleQuoteLog, *pagination.PageInfo, error) {
	opts, err := pageOptions(page)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.ListTitle(ctx, s.db, opts...)
	if err != nil {
		return nil, nil, err
	}

	info := pagination.BuildCursorPageInfo(rows, int32(pageSize(page)), func(row *quotelogdomain.TitleQuoteLog) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: strconv.FormatInt(int64(row.ID), 10)})
		return token
	})
	if len(rows) > pageSize(page) {
		rows = rows[:pageSize(page)]
	}
	out := make([]quotelogdomain.TitleQuoteLog, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out, info, nil
}

func (s *Service) marshalPayloads(entry quotelogdomain.Entry) ([]byte, []byte, bool) {
	req, err := json.Marshal(entry.Request)
	if err != nil {
		s.log.Warn("quote log request marshal failed", zap.Error(err))
		s.metrics.ObserveQuoteLogFailure()
		return nil, nil, false
	}
	resp, err := json.Marshal(entry.Response)
	if err != nil {
		s.log.Warn("quote log response marshal failed", zap.Error(err))
		s.metrics.ObserveQuoteLogFailure()
		return nil, nil, false
	}
	return req, resp, true
}

func pageOptions(page pagination.Pagination) ([]option.QueryOption, error) {
	opts := []option.QueryOption{
		option.WithOrder("id DESC"),
		// One extra row tells the cursor builder whether more pages exist.
		option.WithLimit(pageSize(page) + 1),
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithWhere("id < ?", id))
	}
	return opts, nil
}

func pageSize(page pagination.Pagination) int {
	if page.PageSize <= 0 {
		return 10
	}
	if page.PageSize > 250 {
		return 250
	}
	return page.PageSize
}

func sourceOrDefault(source string) string {
	if source == "" {
		return "api"
	}
	return source
}
