package mapper

import (
	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/model"
)

type CardMapper struct{}

func NewCardMapper() *CardMapper {
	return &CardMapper{}
}

func (m *CardMapper) ToEntity(c *model.Card) *entity.Card {
	if c == nil {
		return nil
	}
	return &entity.Card{
		Id:                c.Id,
		CustomerId:        c.CustomerId,
		CardType:          c.CardType,
		LastFour:          c.LastFour,
		Status:            c.Status,
		Expiry:            c.Expiry,
		CreditLimit:       c.CreditLimit,
		Balance:           c.Balance,
		RewardsPoints:     c.RewardsPoints,
		PaymentDueDate:    c.PaymentDueDate,
		MinimumPaymentDue: c.MinimumPaymentDue,
		CreatedAt:         c.CreatedAt,
	}
}

func (m *CardMapper) ToModel(c *entity.Card) *model.Card {
	if c == nil {
		return nil
	}
	return &model.Card{
		Id:                c.Id,
		CustomerId:        c.CustomerId,
		CardType:          c.CardType,
		LastFour:          c.LastFour,
		Status:            c.Status,
		Expiry:            c.Expiry,
		CreditLimit:       c.CreditLimit,
		Balance:           c.Balance,
		RewardsPoints:     c.RewardsPoints,
		PaymentDueDate:    c.PaymentDueDate,
		MinimumPaymentDue: c.MinimumPaymentDue,
		CreatedAt:         c.CreatedAt,
	}
}

func (m *CardMapper) ToEntities(cards []*model.Card) []*entity.Card {
	entities := make([]*entity.Card, len(cards))
	for i, c := range cards {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
