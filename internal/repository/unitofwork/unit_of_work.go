package unitofwork

import (
	"context"

	"vaulta-banking-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CustomerRepository() contract.CustomerRepository
	CardRepository() contract.CardRepository
	TransactionRepository() contract.TransactionRepository
	LoanRepository() contract.LoanRepository
	ServiceRequestRepository() contract.ServiceRequestRepository
	FeedbackRepository() contract.FeedbackRepository
}
