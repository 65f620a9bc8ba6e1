package implementation

import (
	"context"
	"errors"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/mapper"
	"vaulta-banking-be/internal/model"
	"vaulta-banking-be/internal/repository/contract"
	"vaulta-banking-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CustomerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CustomerMapper
}

func NewCustomerRepository(db *gorm.DB) contract.CustomerRepository {
	return &CustomerRepositoryImpl{
		db:     db,
		mapper: mapper.NewCustomerMapper(),
	}
}

func (r *CustomerRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CustomerRepositoryImpl) Create(ctx context.Context, customer *entity.Customer) error {
	m := r.mapper.ToModel(customer)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*customer = *r.mapper.ToEntity(m)
	return nil
}

func (r *CustomerRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Customer, error) {
	var m model.Customer
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CustomerRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Customer{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CustomerRepositoryImpl) Freeze(ctx context.Context, customerId string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", customerId).
		Update("account_frozen", true)
	return res.RowsAffected, res.Error
}

func (r *CustomerRepositoryImpl) SetIntlTransactions(ctx context.Context, customerId string, enabled bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ? AND intl_transactions_enabled <> ?", customerId, enabled).
		Update("intl_transactions_enabled", enabled)
	return res.RowsAffected, res.Error
}
