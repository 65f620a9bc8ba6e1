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

type ServiceRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ServiceRequestMapper
}

func NewServiceRequestRepository(db *gorm.DB) contract.ServiceRequestRepository {
	return &ServiceRequestRepositoryImpl{
		db:     db,
		mapper: mapper.NewServiceRequestMapper(),
	}
}

func (r *ServiceRequestRepositoryImpl) Create(ctx context.Context, request *entity.ServiceRequest) error {
	m, err := r.mapper.ToModel(request)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.ToEntity(m)
	return nil
}

func (r *ServiceRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ServiceRequest, error) {
	var models []*model.ServiceRequest
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type FeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

func (r *FeedbackRepositoryImpl) Create(ctx context.Context, feedback *entity.Feedback) error {
	m := r.mapper.ToModel(feedback)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*feedback = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeedbackRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feedback, error) {
	var m model.Feedback
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
