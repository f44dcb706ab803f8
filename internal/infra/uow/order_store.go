package uow

import (
	"context"

	"order-service/internal/domain/order"
	"order-service/internal/pkg/errs"
	"order-service/internal/usecase/shared"
)

// OrderStore persists a whole order (header plus line items) in one transaction.
type OrderStore struct {
	uow shared.UnitOfWork
}

func NewOrderStore(u shared.UnitOfWork) *OrderStore {
	return &OrderStore{uow: u}
}

func (s *OrderStore) Save(ctx context.Context, o *order.Order) (string, error) {
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Orders().Create(ctx, tx.DB(), o)
		return err
	})
	if err != nil {
		return "", errs.Mark(errs.Wrapf(err, "save order %s", o.OrderNumber()), errs.ErrOrderPersistFailed)
	}
	return o.OrderNumber(), nil
}
