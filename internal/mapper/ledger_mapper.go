package mapper

import (
	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/model"
)

// Transactions and loans are read-only from the assistant, so only the
// model-to-entity direction is needed outside the seeder.

type TransactionMapper struct{}

func NewTransactionMapper() *TransactionMapper {
	return &TransactionMapper{}
}

func (m *TransactionMapper) ToEntity(t *model.Transaction) *entity.Transaction {
	if t == nil {
		return nil
	}
	return &entity.Transaction{
		Id:          t.Id,
		CustomerId:  t.CustomerId,
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount,
		Status:      t.Status,
		PostedAt:    t.PostedAt,
	}
}

func (m *TransactionMapper) ToModel(t *entity.Transaction) *model.Transaction {
	if t == nil {
		return nil
	}
	return &model.Transaction{
		Id:          t.Id,
		CustomerId:  t.CustomerId,
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount,
		Status:      t.Status,
		PostedAt:    t.PostedAt,
	}
}

func (m *TransactionMapper) ToEntities(txns []*model.Transaction) []*entity.Transaction {
	entities := make([]*entity.Transaction, len(txns))
	for i, t := range txns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

type LoanMapper struct{}

func NewLoanMapper() *LoanMapper {
	return &LoanMapper{}
}

func (m *LoanMapper) ToEntity(l *model.Loan) *entity.Loan {
	if l == nil {
		return nil
	}
	return &entity.Loan{
		Id:               l.Id,
		CustomerId:       l.CustomerId,
		LoanType:         l.LoanType,
		Amount:           l.Amount,
		InterestRate:     l.InterestRate,
		TermMonths:       l.TermMonths,
		Status:           l.Status,
		MonthlyPayment:   l.MonthlyPayment,
		RemainingBalance: l.RemainingBalance,
		ApprovedAt:       l.ApprovedAt,
	}
}

func (m *LoanMapper) ToModel(l *entity.Loan) *model.Loan {
	if l == nil {
		return nil
	}
	return &model.Loan{
		Id:               l.Id,
		CustomerId:       l.CustomerId,
		LoanType:         l.LoanType,
		Amount:           l.Amount,
		InterestRate:     l.InterestRate,
		TermMonths:       l.TermMonths,
		Status:           l.Status,
		MonthlyPayment:   l.MonthlyPayment,
		RemainingBalance: l.RemainingBalance,
		ApprovedAt:       l.ApprovedAt,
	}
}

func (m *LoanMapper) ToEntities(loans []*model.Loan) []*entity.Loan {
	entities := make([]*entity.Loan, len(loans))
	for i, l := range loans {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
