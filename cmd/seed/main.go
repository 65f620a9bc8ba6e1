package main

import (
	"log"
	"os"

	"vaulta-banking-be/internal/model"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.DefaultPoolConfig())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	seed, err := banking.DemoSeed()
	if err != nil {
		log.Fatalf("Error: Failed to parse demo seed: %v", err)
	}

	log.Printf("Seeding %d demo customers...", len(seed.Customers))
	for _, sc := range seed.Customers {
		if err := db.Transaction(func(tx *gorm.DB) error { return seedCustomer(tx, sc) }); err != nil {
			log.Fatalf("Error: customer %s: %v", sc.ID, err)
		}
		log.Printf("  seeded %s (%s)", sc.ID, sc.Name)
	}
	log.Println("Seeding completed.")
}

// seedCustomer upserts one customer and its children. Rerunning it restores
// the demo state, including unfreezing accounts and unblocking cards.
func seedCustomer(tx *gorm.DB, sc banking.SeedCustomer) error {
	c, err := sc.Customer()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(sc.PIN), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	upsert := clause.OnConflict{UpdateAll: true}
	if err := tx.Clauses(upsert).Create(&model.Customer{
		Id:                      c.ID,
		FullName:                c.Name,
		PinHash:                 string(hash),
		Email:                   c.Email,
		Phone:                   c.Phone,
		Address:                 c.Address,
		AccountType:             c.AccountType,
		AccountNumber:           c.AccountNumber,
		Currency:                c.Currency,
		Balance:                 c.Balance,
		AccountFrozen:           c.Frozen,
		IntlTransactionsEnabled: c.IntlEnabled,
	}).Error; err != nil {
		return err
	}

	cards, err := sc.DomainCards()
	if err != nil {
		return err
	}
	for _, card := range cards {
		if err := tx.Clauses(upsert).Create(&model.Card{
			Id:                card.ID,
			CustomerId:        c.ID,
			CardType:          card.Type,
			LastFour:          card.LastFour,
			Status:            string(card.Status),
			Expiry:            card.Expiry,
			CreditLimit:       card.CreditLimit,
			Balance:           card.Balance,
			RewardsPoints:     card.RewardsPoints,
			PaymentDueDate:    card.PaymentDueDate,
			MinimumPaymentDue: card.MinimumPaymentDue,
		}).Error; err != nil {
			return err
		}
	}

	loans, err := sc.DomainLoans()
	if err != nil {
		return err
	}
	for _, loan := range loans {
		if err := tx.Clauses(upsert).Create(&model.Loan{
			Id:               loan.ID,
			CustomerId:       c.ID,
			LoanType:         loan.Type,
			Amount:           loan.Amount,
			InterestRate:     loan.InterestRate,
			TermMonths:       loan.TermMonths,
			Status:           loan.Status,
			MonthlyPayment:   loan.MonthlyPayment,
			RemainingBalance: loan.RemainingBalance,
		}).Error; err != nil {
			return err
		}
	}

	txns, err := sc.DomainTransactions()
	if err != nil {
		return err
	}
	for _, t := range txns {
		id := t.ID
		if id == "" {
			id = ulid.Make().String()
		}
		if err := tx.Clauses(upsert).Create(&model.Transaction{
			Id:          id,
			CustomerId:  c.ID,
			Description: t.Description,
			Category:    t.Category,
			Amount:      t.Amount,
			Status:      t.Status,
			PostedAt:    t.Date,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
