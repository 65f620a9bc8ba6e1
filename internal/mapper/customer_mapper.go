package mapper

import (
	"time"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/model"
)

type CustomerMapper struct{}

func NewCustomerMapper() *CustomerMapper {
	return &CustomerMapper{}
}

func (m *CustomerMapper) ToEntity(c *model.Customer) *entity.Customer {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Customer{
		Id:                      c.Id,
		FullName:                c.FullName,
		PinHash:                 c.PinHash,
		Email:                   c.Email,
		Phone:                   c.Phone,
		Address:                 c.Address,
		AccountType:             c.AccountType,
		AccountNumber:           c.AccountNumber,
		Currency:                c.Currency,
		Balance:                 c.Balance,
		AccountFrozen:           c.AccountFrozen,
		IntlTransactionsEnabled: c.IntlTransactionsEnabled,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               updatedAt,
	}
}

func (m *CustomerMapper) ToModel(c *entity.Customer) *model.Customer {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Customer{
		Id:                      c.Id,
		FullName:                c.FullName,
		PinHash:                 c.PinHash,
		Email:                   c.Email,
		Phone:                   c.Phone,
		Address:                 c.Address,
		AccountType:             c.AccountType,
		AccountNumber:           c.AccountNumber,
		Currency:                c.Currency,
		Balance:                 c.Balance,
		AccountFrozen:           c.AccountFrozen,
		IntlTransactionsEnabled: c.IntlTransactionsEnabled,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               updatedAt,
	}
}

func (m *CustomerMapper) ToEntities(customers []*model.Customer) []*entity.Customer {
	entities := make([]*entity.Customer, len(customers))
	for i, c := range customers {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
