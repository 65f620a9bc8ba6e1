package contract

import (
	"context"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/repository/specification"
)

type ServiceRequestRepository interface {
	Create(ctx context.Context, request *entity.ServiceRequest) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ServiceRequest, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feedback, error)
}
