package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vaulta-banking-be/internal/entity"
	"vaulta-banking-be/internal/repository/specification"
	"vaulta-banking-be/internal/repository/unitofwork"
	"vaulta-banking-be/pkg/banking"
)

// Provider serves customers stored in Postgres through the unit of work.
type Provider struct {
	repoFactory unitofwork.RepositoryFactory
}

func NewProvider(repoFactory unitofwork.RepositoryFactory) *Provider {
	return &Provider{repoFactory: repoFactory}
}

func (p *Provider) Name() string { return "postgres" }

// classify maps storage errors onto the banking error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", banking.ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23" {
		return fmt.Errorf("%w: %s", banking.ErrInvalid, pgErr.Code)
	}
	return fmt.Errorf("%w: %v", banking.ErrUnavailable, err)
}

func newID() string {
	return ulid.Make().String()
}

func (p *Provider) FindCustomer(ctx context.Context, customerID string) banking.Lookup[banking.Customer] {
	uow := p.repoFactory.NewUnitOfWork(ctx)
	c, err := uow.CustomerRepository().FindOne(ctx, specification.ByID{ID: customerID})
	if err != nil {
		return banking.LookupUnavailable[banking.Customer](classify(err))
	}
	if c == nil {
		return banking.LookupNotFound[banking.Customer]()
	}
	return banking.LookupFound(toCustomer(c))
}

func (p *Provider) CheckPIN(ctx context.Context, customerID, pin string) banking.Lookup[bool] {
	uow := p.repoFactory.NewUnitOfWork(ctx)
	c, err := uow.CustomerRepository().FindOne(ctx, specification.ByID{ID: customerID})
	if err != nil {
		return banking.LookupUnavailable[bool](classify(err))
	}
	if c == nil {
		return banking.LookupNotFound[bool]()
	}
	match := bcrypt.CompareHashAndPassword([]byte(c.PinHash), []byte(pin)) == nil
	return banking.LookupFound(match)
}

func (p *Provider) ListCards(ctx context.Context, customerID string) banking.Lookup[[]banking.Card] {
	uow := p.repoFactory.NewUnitOfWork(ctx)
	cards, err := uow.CardRepository().FindAll(ctx,
		specification.ByCustomerID{CustomerID: customerID},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return banking.LookupUnavailable[[]banking.Card](classify(err))
	}
	out := make([]banking.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCard(c))
	}
	return banking.LookupFound(out)
}

func (p *Provider) RecentTransactions(ctx context.Context, customerID string, limit, offset int) banking.Lookup[[]banking.Transaction] {
	uow := p.repoFactory.NewUnitOfWork(ctx)
	txns, err := uow.TransactionRepository().FindAll(ctx,
		specification.ByCustomerID{CustomerID: customerID},
		specification.OrderBy{Field: "posted_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return banking.LookupUnavailable[[]banking.Transaction](classify(err))
	}
	out := make([]banking.Transaction, 0, len(txns))
	for _, t := range txns {
		out = append(out, banking.Transaction{
			ID:          t.Id,
			Date:        t.PostedAt,
			Amount:      t.Amount,
			Description: t.Description,
			Category:    t.Category,
			Status:      t.Status,
		})
	}
	return banking.LookupFound(out)
}

func (p *Provider) ListLoans(ctx context.Context, customerID string) banking.Lookup[[]banking.Loan] {
	uow := p.repoFactory.NewUnitOfWork(ctx)
	loans, err := uow.LoanRepository().FindAll(ctx,
		specification.ByCustomerID{CustomerID: customerID},
		specification.OrderBy{Field: "approved_at", Desc: true},
	)
	if err != nil {
		return banking.LookupUnavailable[[]banking.Loan](classify(err))
	}
	out := make([]banking.Loan, 0, len(loans))
	for _, l := range loans {
		out = append(out, banking.Loan{
			ID:               l.Id,
			Type:             l.LoanType,
			Amount:           l.Amount,
			InterestRate:     l.InterestRate,
			TermMonths:       l.TermMonths,
			Status:           l.Status,
			MonthlyPayment:   l.MonthlyPayment,
			RemainingBalance: l.RemainingBalance,
		})
	}
	return banking.LookupFound(out)
}

// inTx runs fn inside one transaction and rolls back on any error.
func (p *Provider) inTx(ctx context.Context, fn func(uow unitofwork.UnitOfWork) error) (err error) {
	uow := p.repoFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return classify(err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback()
			panic(r)
		}
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	if err = fn(uow); err != nil {
		return err
	}
	if err = uow.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

func (p *Provider) FreezeAccount(ctx context.Context, customerID string, audit banking.AuditRecord) error {
	return p.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		n, err := uow.CustomerRepository().Freeze(ctx, customerID)
		if err != nil {
			return classify(err)
		}
		if n == 0 {
			return banking.ErrNotFound
		}
		if _, err := uow.CardRepository().BlockAllByCustomer(ctx, customerID); err != nil {
			return classify(err)
		}
		return p.writeRequest(ctx, uow, audit)
	})
}

func (p *Provider) BlockCard(ctx context.Context, customerID, cardID string, audit banking.AuditRecord) (bool, error) {
	already := false
	err := p.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		n, err := uow.CardRepository().Block(ctx, customerID, cardID)
		if err != nil {
			return classify(err)
		}
		if n == 0 {
			card, err := uow.CardRepository().FindOne(ctx,
				specification.ByID{ID: cardID},
				specification.ByCustomerID{CustomerID: customerID},
			)
			if err != nil {
				return classify(err)
			}
			if card == nil {
				return fmt.Errorf("card %s: %w", cardID, banking.ErrNotFound)
			}
			already = true
			return nil
		}
		return p.writeRequest(ctx, uow, audit)
	})
	return already, err
}

func (p *Provider) SetInternationalTransactions(ctx context.Context, customerID string, enabled bool, audit banking.AuditRecord) (bool, error) {
	changed := false
	err := p.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		n, err := uow.CustomerRepository().SetIntlTransactions(ctx, customerID, enabled)
		if err != nil {
			return classify(err)
		}
		if n == 0 {
			return nil
		}
		changed = true
		return p.writeRequest(ctx, uow, audit)
	})
	return changed, err
}

func (p *Provider) RecordRequest(ctx context.Context, audit banking.AuditRecord) error {
	uow := p.repoFactory.NewUnitOfWork(ctx)
	return p.writeRequest(ctx, uow, audit)
}

func (p *Provider) writeRequest(ctx context.Context, uow unitofwork.UnitOfWork, audit banking.AuditRecord) error {
	var customerID *string
	if audit.CustomerID != "" {
		id := audit.CustomerID
		customerID = &id
	}
	err := uow.ServiceRequestRepository().Create(ctx, &entity.ServiceRequest{
		Id:          newID(),
		CustomerId:  customerID,
		RequestType: string(audit.Type),
		Reference:   audit.Reference,
		Status:      audit.Status,
		Details:     audit.Details,
		CreatedAt:   createdAt(audit.CreatedAt),
	})
	return classify(err)
}

func (p *Provider) RecordFeedback(ctx context.Context, feedback banking.FeedbackRecord) error {
	var customerID *string
	if feedback.CustomerID != "" {
		id := feedback.CustomerID
		customerID = &id
	}
	uow := p.repoFactory.NewUnitOfWork(ctx)
	err := uow.FeedbackRepository().Create(ctx, &entity.Feedback{
		Id:               newID(),
		CustomerId:       customerID,
		FeedbackType:     string(feedback.Type),
		Text:             feedback.Text,
		ResolutionStatus: feedback.Status,
		Reference:        feedback.Reference,
		CreatedAt:        createdAt(feedback.CreatedAt),
	})
	return classify(err)
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func toCustomer(c *entity.Customer) banking.Customer {
	return banking.Customer{
		ID:            c.Id,
		Name:          c.FullName,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		AccountType:   c.AccountType,
		AccountNumber: c.AccountNumber,
		Currency:      c.Currency,
		Balance:       c.Balance,
		Frozen:        c.AccountFrozen,
		IntlEnabled:   c.IntlTransactionsEnabled,
	}
}

func toCard(c *entity.Card) banking.Card {
	return banking.Card{
		ID:                c.Id,
		CustomerID:        c.CustomerId,
		Type:              c.CardType,
		LastFour:          c.LastFour,
		Status:            banking.CardStatus(c.Status),
		Expiry:            c.Expiry,
		CreditLimit:       c.CreditLimit,
		Balance:           c.Balance,
		RewardsPoints:     c.RewardsPoints,
		PaymentDueDate:    c.PaymentDueDate,
		MinimumPaymentDue: c.MinimumPaymentDue,
	}
}
