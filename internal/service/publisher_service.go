package service

import (
	"context"
	"encoding/json"
	"fmt"

	"vaulta-banking-be/pkg/banking"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	publisher message.Publisher
	topicName string
}

func NewPublisherService(publisher message.Publisher, topicName string) IPublisherService {
	return &publisherService{publisher: publisher, topicName: topicName}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}

// StatementDispatcher queues statement requests on the in-process bus. It
// returns as soon as the message is handed off.
type StatementDispatcher struct {
	publisher IPublisherService
}

var _ banking.StatementDispatcher = (*StatementDispatcher)(nil)

func NewStatementDispatcher(publisher IPublisherService) *StatementDispatcher {
	return &StatementDispatcher{publisher: publisher}
}

func (d *StatementDispatcher) Dispatch(ctx context.Context, req banking.StatementRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal statement request: %w", err)
	}
	return d.publisher.Publish(ctx, payload)
}
