//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"

	"order-service/internal/domain/order"
	"order-service/internal/infra"
	"order-service/internal/infra/repository"
	sqlc "order-service/internal/infra/sqlc/generated"
	"order-service/internal/pkg/pgconv"
	"order-service/tests/common/builder"
	repositorymock "order-service/tests/mock/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// =============================================================================
// Create Order Tests
// =============================================================================

func TestOrderRepository_Create(t *testing.T) {
	ctx := context.Background()
	const orderID = int64(42)

	twoItems := []order.LineItem{
		{SkuCode: "iphone_13", Quantity: 2, UnitPrice: decimal.RequireFromString("1200.00")},
		{SkuCode: "galaxy_s24", Quantity: 1, UnitPrice: decimal.RequireFromString("999.99")},
	}

	testCases := []struct {
		name          string
		items         []order.LineItem
		setupMock     func(*repositorymock.MockOrderWriteQueries, *order.Order, sqlc.DBTX)
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{
			name:  "success: header and every line item are written",
			items: twoItems,
			setupMock: func(mock *repositorymock.MockOrderWriteQueries, o *order.Order, tx sqlc.DBTX) {
				gomock.InOrder(
					mock.EXPECT().CreateOrder(ctx, tx, sqlc.CreateOrderParams{
						OrderNumber: o.OrderNumber(),
						CreatedAt:   pgconv.TimeToPgtype(o.CreatedAt()),
					}).Return(orderID, nil),
					mock.EXPECT().CreateOrderLineItem(ctx, tx, gomock.Any()).DoAndReturn(expectLineItem(t, orderID, 1, "iphone_13", 2)),
					mock.EXPECT().CreateOrderLineItem(ctx, tx, gomock.Any()).DoAndReturn(expectLineItem(t, orderID, 2, "galaxy_s24", 1)),
				)
			},
		},
		{
			name:  "error: order header insert fails",
			items: twoItems,
			setupMock: func(mock *repositorymock.MockOrderWriteQueries, o *order.Order, tx sqlc.DBTX) {
				mock.EXPECT().CreateOrder(ctx, tx, gomock.Any()).Return(int64(0), errors.New("database connection error"))
			},
			expectedError: true,
			expectKind:    infra.KindDBFailure,
		},
		{
			name:  "error: duplicate order number",
			items: twoItems,
			setupMock: func(mock *repositorymock.MockOrderWriteQueries, o *order.Order, tx sqlc.DBTX) {
				dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
				mock.EXPECT().CreateOrder(ctx, tx, gomock.Any()).Return(int64(0), dup)
			},
			expectedError: true,
			expectKind:    infra.KindDuplicateKey,
		},
		{
			name:  "error: line item insert fails after the header",
			items: twoItems,
			setupMock: func(mock *repositorymock.MockOrderWriteQueries, o *order.Order, tx sqlc.DBTX) {
				mock.EXPECT().CreateOrder(ctx, tx, gomock.Any()).Return(orderID, nil)
				mock.EXPECT().CreateOrderLineItem(ctx, tx, gomock.Any()).Return(nil)
				fk := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
				mock.EXPECT().CreateOrderLineItem(ctx, tx, gomock.Any()).Return(fk)
			},
			expectedError: true,
			expectKind:    infra.KindForeignKeyViolated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockOrderWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewOrderRepository(mockQueries, mockDB)

			domainOrder, err := builder.NewOrderBuilder().WithItems(tc.items...).BuildNew()
			require.NoError(t, err)

			tc.setupMock(mockQueries, domainOrder, mockDB)

			id, actualError := repo.Create(ctx, mockDB, domainOrder)

			if tc.expectedError {
				require.Error(t, actualError)
				if tc.expectKind != "" {
					assert.True(t, infra.IsKind(actualError, tc.expectKind), "expected kind [%v] but got [%T] (%v)", tc.expectKind, actualError, actualError)
				}
				assert.Zero(t, id, "order id should be zero when error occurs")
			} else {
				assert.NoError(t, actualError)
				assert.Equal(t, orderID, id)
			}
		})
	}
}

// =============================================================================
// Test Helper Functions
// =============================================================================

func expectLineItem(t *testing.T, orderID int64, position int32, sku string, qty int32) func(context.Context, sqlc.DBTX, sqlc.CreateOrderLineItemParams) error {
	return func(_ context.Context, _ sqlc.DBTX, p sqlc.CreateOrderLineItemParams) error {
		assert.Equal(t, orderID, p.OrderID)
		assert.Equal(t, position, p.Position)
		assert.Equal(t, sku, p.SkuCode)
		assert.Equal(t, qty, p.Quantity)
		return nil
	}
}

// mockDBTX is a mock implementation of sqlc.DBTX interface
type mockDBTX struct{}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("mockDBTX.QueryRow was called unexpectedly. Use sqlc mock instead.")
}
