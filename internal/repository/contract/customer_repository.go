package contract

import (
	"context"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/repository/specification"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Customer, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Freeze sets account_frozen. There is deliberately no inverse.
	Freeze(ctx context.Context, customerId string) (int64, error)
	// SetIntlTransactions returns the number of rows whose value actually changed.
	SetIntlTransactions(ctx context.Context, customerId string, enabled bool) (int64, error)
}
