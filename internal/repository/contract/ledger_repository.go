package contract

import (
	"context"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/repository/specification"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transaction, error)
}

type LoanRepository interface {
	Create(ctx context.Context, loan *entity.Loan) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Loan, error)
}
