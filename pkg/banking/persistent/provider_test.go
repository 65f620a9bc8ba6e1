package persistent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vaulta-banking-be/internal/model"
	"vaulta-banking-be/internal/repository/unitofwork"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/database"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, want: banking.ErrNotFound},
		{name: "unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: banking.ErrInvalid},
		{name: "fk violation", err: &pgconn.PgError{Code: "23503"}, want: banking.ErrInvalid},
		{name: "connection failure", err: &pgconn.PgError{Code: "08006"}, want: banking.ErrUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, want: banking.ErrUnavailable},
		{name: "anything else", err: errors.New("boom"), want: banking.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
	assert.NoError(t, classify(nil))
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}
	db, err := database.NewGormDBFromDSN(dsn, database.DefaultPoolConfig())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Customer{}, &model.Card{}, &model.Transaction{},
		&model.Loan{}, &model.ServiceRequest{}, &model.Feedback{},
	))
	return db
}

func TestProviderAgainstPostgres(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("9090"), bcrypt.MinCost)
	require.NoError(t, err)

	customer := model.Customer{
		Id:                      "IT-7001",
		FullName:                "Integration Test",
		PinHash:                 string(hash),
		AccountType:             "Checking",
		AccountNumber:           "IT-ACC-7001",
		Currency:                "USD",
		Balance:                 decimal.RequireFromString("99.95"),
		IntlTransactionsEnabled: true,
	}
	card := model.Card{Id: "IT-CARD-7001", CustomerId: customer.Id, CardType: "Debit", LastFour: "7001", Status: "active"}
	require.NoError(t, db.Create(&customer).Error)
	require.NoError(t, db.Create(&card).Error)
	t.Cleanup(func() {
		db.Where("customer_id = ?", customer.Id).Delete(&model.ServiceRequest{})
		db.Where("customer_id = ?", customer.Id).Delete(&model.Card{})
		db.Where("id = ?", customer.Id).Delete(&model.Customer{})
	})

	p := NewProvider(unitofwork.NewRepositoryFactory(db))
	svc := banking.NewService([]banking.Provider{p})

	_, err = svc.VerifyIdentity(ctx, customer.Id, "9090")
	require.NoError(t, err)
	_, err = svc.VerifyIdentity(ctx, customer.Id, "0909")
	assert.ErrorIs(t, err, banking.ErrInvalid)

	res, err := svc.BlockCard(ctx, customer.Id, card.Id)
	require.NoError(t, err)
	assert.False(t, res.AlreadyBlocked)

	res, err = svc.BlockCard(ctx, customer.Id, card.Id)
	require.NoError(t, err)
	assert.True(t, res.AlreadyBlocked)

	_, err = svc.ReportFraud(ctx, customer.Id, "test")
	require.NoError(t, err)

	acct, err := svc.Account(ctx, customer.Id)
	require.NoError(t, err)
	assert.True(t, acct.Frozen)
}
