package banking

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fastpath_seed.yaml
var demoSeed []byte

const seedDateLayout = "2006-01-02"

// Seed is the YAML shape of fast-path data. Amounts are strings so that
// no value passes through a float.
type Seed struct {
	Customers []SeedCustomer `yaml:"customers"`
}

type SeedCustomer struct {
	ID            string            `yaml:"id"`
	PIN           string            `yaml:"pin"`
	Name          string            `yaml:"name"`
	Email         string            `yaml:"email"`
	Phone         string            `yaml:"phone"`
	Address       string            `yaml:"address"`
	AccountType   string            `yaml:"account_type"`
	AccountNumber string            `yaml:"account_number"`
	Currency      string            `yaml:"currency"`
	Balance       string            `yaml:"balance"`
	Frozen        bool              `yaml:"frozen"`
	IntlEnabled   bool              `yaml:"intl_enabled"`
	Cards         []SeedCard        `yaml:"cards"`
	Loans         []SeedLoan        `yaml:"loans"`
	Transactions  []SeedTransaction `yaml:"transactions"`
}

type SeedCard struct {
	ID                string `yaml:"id"`
	Type              string `yaml:"type"`
	LastFour          string `yaml:"last_four"`
	Status            string `yaml:"status"`
	Expiry            string `yaml:"expiry"`
	CreditLimit       string `yaml:"credit_limit"`
	Balance           string `yaml:"balance"`
	RewardsPoints     int    `yaml:"rewards_points"`
	PaymentDueDate    string `yaml:"payment_due_date"`
	MinimumPaymentDue string `yaml:"minimum_payment_due"`
}

type SeedLoan struct {
	ID               string `yaml:"id"`
	Type             string `yaml:"type"`
	Amount           string `yaml:"amount"`
	InterestRate     string `yaml:"interest_rate"`
	TermMonths       int    `yaml:"term_months"`
	Status           string `yaml:"status"`
	MonthlyPayment   string `yaml:"monthly_payment"`
	RemainingBalance string `yaml:"remaining_balance"`
}

type SeedTransaction struct {
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	Amount      string `yaml:"amount"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Status      string `yaml:"status"`
}

// DemoSeed returns the embedded demo identities.
func DemoSeed() (Seed, error) {
	return ParseSeed(demoSeed)
}

func ParseSeed(data []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

func parseAmount(field, v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func parseNullAmount(field, v string) (decimal.NullDecimal, error) {
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseAmount(field, v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func parseDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(seedDateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &t, nil
}

// Customer converts the seed row into domain values.
func (c SeedCustomer) Customer() (Customer, error) {
	balance, err := parseAmount("balance", c.Balance)
	if err != nil {
		return Customer{}, fmt.Errorf("customer %s: %w", c.ID, err)
	}
	currency := c.Currency
	if currency == "" {
		currency = "USD"
	}
	return Customer{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		AccountType:   c.AccountType,
		AccountNumber: c.AccountNumber,
		Currency:      currency,
		Balance:       balance,
		Frozen:        c.Frozen,
		IntlEnabled:   c.IntlEnabled,
	}, nil
}

func (c SeedCustomer) DomainCards() ([]Card, error) {
	out := make([]Card, 0, len(c.Cards))
	for _, sc := range c.Cards {
		limit, err := parseNullAmount("credit_limit", sc.CreditLimit)
		if err != nil {
			return nil, err
		}
		balance, err := parseAmount("balance", sc.Balance)
		if err != nil {
			return nil, err
		}
		minDue, err := parseNullAmount("minimum_payment_due", sc.MinimumPaymentDue)
		if err != nil {
			return nil, err
		}
		due, err := parseDate("payment_due_date", sc.PaymentDueDate)
		if err != nil {
			return nil, err
		}
		status := CardStatus(sc.Status)
		if status == "" {
			status = CardActive
		}
		out = append(out, Card{
			ID:                sc.ID,
			CustomerID:        c.ID,
			Type:              sc.Type,
			LastFour:          sc.LastFour,
			Status:            status,
			Expiry:            sc.Expiry,
			CreditLimit:       limit,
			Balance:           balance,
			RewardsPoints:     sc.RewardsPoints,
			PaymentDueDate:    due,
			MinimumPaymentDue: minDue,
		})
	}
	return out, nil
}

func (c SeedCustomer) DomainLoans() ([]Loan, error) {
	out := make([]Loan, 0, len(c.Loans))
	for _, sl := range c.Loans {
		amount, err := parseAmount("amount", sl.Amount)
		if err != nil {
			return nil, err
		}
		rate, err := parseAmount("interest_rate", sl.InterestRate)
		if err != nil {
			return nil, err
		}
		monthly, err := parseNullAmount("monthly_payment", sl.MonthlyPayment)
		if err != nil {
			return nil, err
		}
		remaining, err := parseNullAmount("remaining_balance", sl.RemainingBalance)
		if err != nil {
			return nil, err
		}
		out = append(out, Loan{
			ID:               sl.ID,
			Type:             sl.Type,
			Amount:           amount,
			InterestRate:     rate,
			TermMonths:       sl.TermMonths,
			Status:           sl.Status,
			MonthlyPayment:   monthly,
			RemainingBalance: remaining,
		})
	}
	return out, nil
}

// DomainTransactions returns the seed transactions in the order given.
func (c SeedCustomer) DomainTransactions() ([]Transaction, error) {
	out := make([]Transaction, 0, len(c.Transactions))
	for _, st := range c.Transactions {
		amount, err := parseAmount("amount", st.Amount)
		if err != nil {
			return nil, err
		}
		date, err := parseDate("date", st.Date)
		if err != nil {
			return nil, err
		}
		status := st.Status
		if status == "" {
			status = "completed"
		}
		var posted time.Time
		if date != nil {
			posted = *date
		}
		out = append(out, Transaction{
			ID:          st.ID,
			Date:        posted,
			Amount:      amount,
			Description: st.Description,
			Category:    st.Category,
			Status:      status,
		})
	}
	return out, nil
}
