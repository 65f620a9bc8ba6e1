package mapper

import (
	"encoding/json"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/model"

	"gorm.io/datatypes"
)

type ServiceRequestMapper struct{}

func NewServiceRequestMapper() *ServiceRequestMapper {
	return &ServiceRequestMapper{}
}

func (m *ServiceRequestMapper) ToEntity(r *model.ServiceRequest) *entity.ServiceRequest {
	if r == nil {
		return nil
	}

	var details map[string]interface{}
	if len(r.Details) > 0 {
		// A malformed details blob should not hide the audit row itself.
		_ = json.Unmarshal(r.Details, &details)
	}

	return &entity.ServiceRequest{
		Id:          r.Id,
		CustomerId:  r.CustomerId,
		RequestType: r.RequestType,
		Reference:   r.Reference,
		Status:      r.Status,
		Details:     details,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *ServiceRequestMapper) ToModel(r *entity.ServiceRequest) (*model.ServiceRequest, error) {
	if r == nil {
		return nil, nil
	}

	var details datatypes.JSON
	if len(r.Details) > 0 {
		raw, err := json.Marshal(r.Details)
		if err != nil {
			return nil, err
		}
		details = datatypes.JSON(raw)
	}

	return &model.ServiceRequest{
		Id:          r.Id,
		CustomerId:  r.CustomerId,
		RequestType: r.RequestType,
		Reference:   r.Reference,
		Status:      r.Status,
		Details:     details,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func (m *ServiceRequestMapper) ToEntities(requests []*model.ServiceRequest) []*entity.ServiceRequest {
	entities := make([]*entity.ServiceRequest, len(requests))
	for i, r := range requests {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

func (m *FeedbackMapper) ToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}
	return &entity.Feedback{
		Id:               f.Id,
		CustomerId:       f.CustomerId,
		FeedbackType:     f.FeedbackType,
		Text:             f.Text,
		ResolutionStatus: f.ResolutionStatus,
		Reference:        f.Reference,
		CreatedAt:        f.CreatedAt,
	}
}

func (m *FeedbackMapper) ToModel(f *entity.Feedback) *model.Feedback {
	if f == nil {
		return nil
	}
	return &model.Feedback{
		Id:               f.Id,
		CustomerId:       f.CustomerId,
		FeedbackType:     f.FeedbackType,
		Text:             f.Text,
		ResolutionStatus: f.ResolutionStatus,
		Reference:        f.Reference,
		CreatedAt:        f.CreatedAt,
	}
}
