package implementation

import (
	"context"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/mapper"
	"vaulta-banking-be/internal/model"
	"vaulta-banking-be/internal/repository/contract"
	"vaulta-banking-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

type TransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TransactionMapper
}

func NewTransactionRepository(db *gorm.DB) contract.TransactionRepository {
	return &TransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewTransactionMapper(),
	}
}

func (r *TransactionRepositoryImpl) Create(ctx context.Context, txn *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(txn)).Error
}

func (r *TransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transaction, error) {
	var models []*model.Transaction
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type LoanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LoanMapper
}

func NewLoanRepository(db *gorm.DB) contract.LoanRepository {
	return &LoanRepositoryImpl{
		db:     db,
		mapper: mapper.NewLoanMapper(),
	}
}

func (r *LoanRepositoryImpl) Create(ctx context.Context, loan *entity.Loan) error {
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(loan)).Error
}

func (r *LoanRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Loan, error) {
	var models []*model.Loan
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
