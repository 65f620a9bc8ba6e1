package contract

import (
	"context"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/repository/specification"
)

type CardRepository interface {
	Create(ctx context.Context, card *entity.Card) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Card, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Card, error)
	Block(ctx context.Context, customerId, cardId string) (int64, error)
	BlockAllByCustomer(ctx context.Context, customerId string) (int64, error)
}
