package service

import (
	"context"
	"testing"
	"time"

	"budgetbook/models"
	"budgetbook/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(store.NewMemoryStore(), nil)
	svc.now = func() time.Time { return fixedNow }

	_, err := svc.Create(ctx, models.Goal{Name: ""})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	g, err := svc.Create(ctx, models.Goal{
		Name:          "Vacation",
		TargetAmount:  decimal.NewFromInt(2000),
		CurrentAmount: decimal.NewFromInt(500),
		TargetDate:    time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, g.CreatedAt)

	// 当前金额可以超过目标金额
	g.CurrentAmount = decimal.NewFromInt(2500)
	g.CreatedAt = time.Time{}
	updated, err := svc.Update(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, updated.CreatedAt)
	assert.InDelta(t, 125.0, updated.Progress(), 1e-9)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-12-01", list[0].TargetDate.Format(models.DateLayout))

	require.NoError(t, svc.Delete(ctx, g.ID))
	_, err = svc.Get(ctx, g.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
