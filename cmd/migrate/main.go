package main

import (
	"log"
	"os"

	"vaulta-banking-be/internal/model"
	"vaulta-banking-be/pkg/database"

	"github.com/joho/godotenv"
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

	log.Println("Running AutoMigrate for the banking schema...")

	models := []interface{}{
		&model.Customer{},
		&model.Card{},
		&model.Loan{},
		&model.Transaction{},
		&model.ServiceRequest{},
		&model.Feedback{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Card status and request types are closed sets; the checks keep manual
	// edits from smuggling in values the assistant cannot render.
	constraints := []string{
		`DO $$ BEGIN ALTER TABLE cards ADD CONSTRAINT chk_cards_status CHECK (status IN ('active', 'blocked')); EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN ALTER TABLE service_requests ADD CONSTRAINT chk_service_requests_type CHECK (request_type IN ('FRAUD_REPORT', 'CHEQUE_BOOK', 'INTL_TOGGLE', 'CARD_BLOCK')); EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN ALTER TABLE feedback ADD CONSTRAINT chk_feedback_type CHECK (feedback_type IN ('Complaint', 'Praise', 'Suggestion')); EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	}
	for _, sql := range constraints {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to add constraint: %v. Continuing...", err)
		}
	}

	log.Println("Migration completed.")
}
