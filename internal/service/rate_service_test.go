package service

import (
	"context"
	"errors"
	"testing"

	"karat-desk/internal/clock"
	"karat-desk/internal/domain"
	"karat-desk/internal/rate"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecordRate_FlowsIntoLiveSource(t *testing.T) {
	clk := clock.NewFakeClock(testEpoch)
	repo := &mockRateRepository{}
	source := rate.NewSource(d("95"), clk)
	refresher := rate.NewRefresher(rate.NewStoreFeed(repo), source, nil, nil, rate.RefresherConfig{}, zap.NewNop())
	svc := NewRateService(repo, source, refresher, clk)
	ctx := context.Background()

	before, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RateSourceFallback, before.Source)

	recorded, err := svc.RecordRate(ctx, d("98.25"), "morning board")
	require.NoError(t, err)
	assert.Equal(t, testEpoch, recorded.RecordedAt)
	assert.Equal(t, "morning board", recorded.Note)

	after, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, after.RatePerGram.Equal(d("98.25")))
	assert.Equal(t, domain.RateSourceFeed, after.Source)
	assert.Equal(t, testEpoch, after.ReadAt)
}

func TestRecordRate_Validation(t *testing.T) {
	svc := NewRateService(&mockRateRepository{}, liveRate("95"), nil, nil)

	for _, bad := range []decimal.Decimal{decimal.Zero, d("-1")} {
		_, err := svc.RecordRate(context.Background(), bad, "")
		assert.ErrorIs(t, err, domain.ErrInvalidPricingInput)
	}
}

func TestRecordRate_StoreFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	svc := NewRateService(&mockRateRepository{err: storeErr}, liveRate("95"), nil, nil)

	_, err := svc.RecordRate(context.Background(), d("96"), "")
	assert.ErrorIs(t, err, storeErr)
}

func TestCurrent_Unavailable(t *testing.T) {
	svc := NewRateService(&mockRateRepository{}, stubRates{err: domain.ErrRateUnavailable}, nil, nil)

	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
}
