package service

import (
	"context"
	"encoding/json"

	"vaulta-banking-be/internal/pkg/logger"
	"vaulta-banking-be/internal/pkg/mailer"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/credentials"
	"vaulta-banking-be/pkg/flow"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	moduleStatement    = "STATEMENT"
	statementLineLimit = 10
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// StatementSource is the part of the banking service a statement needs.
type StatementSource interface {
	Account(ctx context.Context, customerID string) (banking.Customer, error)
	RecentTransactions(ctx context.Context, customerID string, limit, offset int) ([]banking.Transaction, error)
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	bank       StatementSource
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

// NewConsumerService builds the statement email worker. A nil mailer means
// SMTP is not configured; requests are then logged and dropped.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	bank StatementSource,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		bank:       bank,
		mailer:     emailService,
		logger:     log,
	}
}

// Consume subscribes and processes messages until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

// processMessage always acks. Statement delivery is best effort and a
// failure is never surfaced to the customer.
func (cs *consumerService) processMessage(msg *message.Message) {
	defer msg.Ack()
	ctx := msg.Context()

	var req banking.StatementRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		cs.logger.Error(moduleStatement, "Failed to unmarshal statement request", map[string]interface{}{"error": err})
		return
	}
	if err := cs.send(ctx, req); err != nil {
		cs.logger.Error(moduleStatement, "Statement delivery failed", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		return
	}
	cs.logger.Info(moduleStatement, "Statement sent", map[string]interface{}{"message_id": msg.UUID})
}

func (cs *consumerService) send(ctx context.Context, req banking.StatementRequest) error {
	customer, err := cs.bank.Account(ctx, req.CustomerID)
	if err != nil {
		return err
	}
	txns, err := cs.bank.RecentTransactions(ctx, req.CustomerID, statementLineLimit, 0)
	if err != nil {
		return err
	}
	if cs.mailer == nil || customer.Email == "" {
		cs.logger.Warn(moduleStatement, "Statement email skipped: no mailer or address", nil)
		return nil
	}
	return cs.mailer.SendStatement(customer.Email, buildStatement(customer, txns, req.Period))
}

func buildStatement(c banking.Customer, txns []banking.Transaction, period string) mailer.Statement {
	st := mailer.Statement{
		CustomerName:  c.Name,
		AccountType:   c.AccountType,
		AccountNumber: credentials.MaskNumber(c.AccountNumber),
		Period:        period,
		Balance:       flow.FormatMoney(c.Balance),
	}
	for _, t := range txns {
		st.Lines = append(st.Lines, mailer.StatementLine{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Amount:      flow.FormatMoney(t.Amount),
		})
	}
	return st
}
