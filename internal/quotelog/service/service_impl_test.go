package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	quotelogdomain "github.com/hermeshq/hermes/internal/quotelog/domain"
	"github.com/hermeshq/hermes/internal/quotelog/repository"
	"github.com/hermeshq/hermes/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*gorm.DB, quotelogdomain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&quotelogdomain.PMIQuoteLog{},
		&quotelogdomain.TitleQuoteLog{},
	))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return db, svc
}

func TestAppendPMI_WritesOneRow(t *testing.T) {
	db, svc := newTestService(t)

	rate := 0.62
	carrier := snowflake.ID(42)
	svc.AppendPMI(context.Background(), quotelogdomain.Entry{
		Request:        map[string]any{"state": "TX", "fico": 735},
		Response:       map[string]any{"carriers_quoted": 3},
		CarriersQuoted: 3,
		BestRate:       &rate,
		BestCarrierID:  &carrier,
		ProcessingMS:   12.5,
		Source:         "cli",
	})

	var rows []quotelogdomain.PMIQuoteLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, 3, rows[0].CarriersQuoted)
	require.Equal(t, "cli", rows[0].Source)
	require.NotNil(t, rows[0].BestRate)
	require.Equal(t, 0.62, *rows[0].BestRate)
	require.JSONEq(t, `{"state":"TX","fico":735}`, string(rows[0].RequestData))
}

func TestAppendTitle_DefaultsSource(t *testing.T) {
	db, svc := newTestService(t)

	svc.AppendTitle(context.Background(), quotelogdomain.Entry{
		Request:  map[string]any{"state": "TX"},
		Response: map[string]any{"carriers_quoted": 0},
	})

	var row quotelogdomain.TitleQuoteLog
	require.NoError(t, db.First(&row).Error)
	require.Equal(t, "api", row.Source)
	require.Nil(t, row.BestPremium)
}

func TestListPMI_PagesNewestFirst(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.AppendPMI(ctx, quotelogdomain.Entry{
			Request:        map[string]any{"n": i},
			Response:       map[string]any{},
			CarriersQuoted: i,
		})
	}

	first, info, err := svc.ListPMI(ctx, pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.True(t, info.HasMore)
	require.Equal(t, 4, first[0].CarriersQuoted)

	second, info, err := svc.ListPMI(ctx, pagination.Pagination{PageSize: 2, PageToken: info.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.True(t, info.HasMore)
	require.Equal(t, 2, second[0].CarriersQuoted)

	last, info, err := svc.ListPMI(ctx, pagination.Pagination{PageSize: 2, PageToken: info.NextPageToken})
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.False(t, info.HasMore)
}

func TestListPMI_ClampsOversizedPage(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 251; i++ {
		svc.AppendPMI(ctx, quotelogdomain.Entry{
			Request:  map[string]any{"n": i},
			Response: map[string]any{},
		})
	}

	// A request above the 250 cap is served as a 250-row page.
	rows, info, err := svc.ListPMI(ctx, pagination.Pagination{PageSize: 10_000})
	require.NoError(t, err)
	require.Len(t, rows, 250)
	require.True(t, info.HasMore)

	rest, info, err := svc.ListPMI(ctx, pagination.Pagination{PageSize: 10_000, PageToken: info.NextPageToken})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.False(t, info.HasMore)
}
