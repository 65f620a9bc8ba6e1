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

type CardRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CardMapper
}

func NewCardRepository(db *gorm.DB) contract.CardRepository {
	return &CardRepositoryImpl{
		db:     db,
		mapper: mapper.NewCardMapper(),
	}
}

func (r *CardRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CardRepositoryImpl) Create(ctx context.Context, card *entity.Card) error {
	m := r.mapper.ToModel(card)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*card = *r.mapper.ToEntity(m)
	return nil
}

func (r *CardRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Card, error) {
	var m model.Card
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CardRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Card, error) {
	var models []*model.Card
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// Block only touches an active card, so a second call affects no rows.
func (r *CardRepositoryImpl) Block(ctx context.Context, customerId, cardId string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ? AND customer_id = ? AND status = ?", cardId, customerId, entity.CardStatusActive).
		Update("status", entity.CardStatusBlocked)
	return res.RowsAffected, res.Error
}

func (r *CardRepositoryImpl) BlockAllByCustomer(ctx context.Context, customerId string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("customer_id = ? AND status = ?", customerId, entity.CardStatusActive).
		Update("status", entity.CardStatusBlocked)
	return res.RowsAffected, res.Error
}
