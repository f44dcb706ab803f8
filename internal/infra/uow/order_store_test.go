//go:build unit

package uow_test

import (
	"context"
	"errors"
	"testing"

	"order-service/internal/domain/order"
	"order-service/internal/infra/uow"
	sqlc "order-service/internal/infra/sqlc/generated"
	"order-service/internal/pkg/errs"
	"order-service/internal/usecase/shared"
	"order-service/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	created []*order.Order
	err     error
}

func (r *fakeOrderRepo) Create(_ context.Context, _ sqlc.DBTX, o *order.Order) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.created = append(r.created, o)
	return int64(len(r.created)), nil
}

type fakeTx struct {
	repo *fakeOrderRepo
}

func (t *fakeTx) Orders() shared.OrderRepository { return t.repo }
func (t *fakeTx) DB() sqlc.DBTX                  { return nil }

type fakeUoW struct {
	tx       *fakeTx
	beginErr error
	calls    int
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.calls++
	if u.beginErr != nil {
		return u.beginErr
	}
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

func TestOrderStore_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("success: returns the order number", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		u := &fakeUoW{tx: &fakeTx{repo: repo}}
		store := uow.NewOrderStore(u)
		o, err := builder.NewOrderBuilder().BuildNew()
		require.NoError(t, err)

		number, err := store.Save(ctx, o)

		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber(), number)
		assert.Equal(t, 1, u.calls)
		require.Len(t, repo.created, 1)
		assert.Same(t, o, repo.created[0])
	})

	testCases := []struct {
		name string
		uow  *fakeUoW
	}{
		{
			name: "error: repository insert fails",
			uow:  &fakeUoW{tx: &fakeTx{repo: &fakeOrderRepo{err: errors.New("insert failed")}}},
		},
		{
			name: "error: transaction cannot begin",
			uow:  &fakeUoW{beginErr: errors.New("pool exhausted")},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := uow.NewOrderStore(tc.uow)
			o, err := builder.NewOrderBuilder().BuildNew()
			require.NoError(t, err)

			number, err := store.Save(ctx, o)

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrOrderPersistFailed)
			assert.Empty(t, number)
		})
	}
}
