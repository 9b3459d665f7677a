package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	testhelpers "github.com/polkiloo/acesshop/internal/test"
)

func TestSweepExpiresOnlyStaleOrders(t *testing.T) {
	now := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC)
	repo := testhelpers.NewOrderRepositoryStub(nil, nil)
	stale := repo.Put(model.Order{Status: model.OrderStatusPending, CreatedAt: now.Add(-49 * time.Hour)})
	fresh := repo.Put(model.Order{Status: model.OrderStatusPending, CreatedAt: now.Add(-time.Hour)})
	paid := repo.Put(model.Order{Status: model.OrderStatusPaid, CreatedAt: now.Add(-72 * time.Hour)})
	code := "settled-code"
	reverted := repo.Put(model.Order{Status: model.OrderStatusPending, VerificationCode: &code, CreatedAt: now.Add(-72 * time.Hour)})

	uc := NewSweepUseCase(repo, discardLogger())
	uc.now = func() time.Time { return now }
	ctx := context.Background()

	n, err := uc.Sweep(ctx, 48*time.Hour, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	order, err := repo.GetByID(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status, "dry run must not write")

	n, err = uc.Sweep(ctx, 48*time.Hour, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = uc.Sweep(ctx, 48*time.Hour, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	want := map[int64]model.OrderStatus{stale: model.OrderStatusFailed, fresh: model.OrderStatusPending, paid: model.OrderStatusPaid, reverted: model.OrderStatusPending}
	for id, status := range want {
		order, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, order.Status, "order %d", id)
	}
}

func TestSweepRejectsNonPositiveAge(t *testing.T) {
	uc := NewSweepUseCase(testhelpers.NewOrderRepositoryStub(nil, nil), discardLogger())
	_, err := uc.Sweep(context.Background(), 0, false)
	require.ErrorIs(t, err, domainErrors.ErrInvalidThreshold)
}
