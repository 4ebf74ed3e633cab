package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	"github.com/hermeshq/hermes/internal/carrier/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) carrierdomain.Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&carrierdomain.Carrier{},
		&carrierdomain.CarrierLicense{},
	))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	return NewService(Params{
		In:    fx.In{},
		DB:    gdb,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestRegisterAndEligibility(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, carrierdomain.RegisterRequest{
		NAICCode:  "29858",
		LegalName: "Keystone Mortgage Guaranty",
		Licenses: map[carrierdomain.Line][]string{
			carrierdomain.LinePMI: {"TX", "oh"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "keystone-mortgage-guaranty", created.Slug)
	require.Equal(t, carrierdomain.CarrierStatusActive, created.Status)

	eligible, err := svc.EligibleCarriers(ctx, "tx", carrierdomain.LinePMI)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	require.Equal(t, created.ID, eligible[0].ID)

	// License states are normalized on write.
	eligible, err = svc.EligibleCarriers(ctx, "OH", carrierdomain.LinePMI)
	require.NoError(t, err)
	require.Len(t, eligible, 1)

	eligible, err = svc.EligibleCarriers(ctx, "TX", carrierdomain.LineTitle)
	require.NoError(t, err)
	require.Empty(t, eligible)

	eligible, err = svc.EligibleCarriers(ctx, "CA", carrierdomain.LinePMI)
	require.NoError(t, err)
	require.Empty(t, eligible)
}

func TestRegisterRejectsDuplicateNAIC(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, carrierdomain.RegisterRequest{
		NAICCode:  "29858",
		LegalName: "Keystone Mortgage Guaranty",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, carrierdomain.RegisterRequest{
		NAICCode:  "29858",
		LegalName: "Keystone Mortgage Guaranty II",
	})
	require.ErrorIs(t, err, carrierdomain.ErrCarrierExists)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, carrierdomain.RegisterRequest{NAICCode: " ", LegalName: "X"})
	require.ErrorIs(t, err, carrierdomain.ErrInvalidCarrier)

	_, err = svc.Register(ctx, carrierdomain.RegisterRequest{
		NAICCode:  "11111",
		LegalName: "Bad States Title",
		Licenses: map[carrierdomain.Line][]string{
			carrierdomain.LineTitle: {"Texas"},
		},
	})
	require.ErrorIs(t, err, carrierdomain.ErrInvalidState)

	// The failed transaction must not leave the carrier behind.
	_, err = svc.EligibleCarriers(ctx, "TX", carrierdomain.LineTitle)
	require.NoError(t, err)
}

func TestGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, carrierdomain.RegisterRequest{
		NAICCode:  "50028",
		LegalName: "Alamo Title Insurance",
	})
	require.NoError(t, err)

	found, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Alamo Title Insurance", found.LegalName)

	_, err = svc.Get(ctx, snowflake.ID(999999))
	require.ErrorIs(t, err, carrierdomain.ErrCarrierNotFound)

	_, err = svc.Get(ctx, 0)
	require.ErrorIs(t, err, carrierdomain.ErrInvalidCarrier)
}
