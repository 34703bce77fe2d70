package db

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		log.Fatal("could not open database connection:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("database is not responding:", err)
	}

	log.Println("connected to database")
	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100),
			email VARCHAR(100),
			full_name VARCHAR(255),
			role VARCHAR(50),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS banking_accounts (
			account_number VARCHAR(50) PRIMARY KEY,
			user_id INT NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0,
			account_type VARCHAR(20) NOT NULL DEFAULT 'spending',
			holder_full_name VARCHAR(255),
			holder_email VARCHAR(100),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_account_user_id (user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS debt_list (
			debt_id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			debt_account_number VARCHAR(50) NOT NULL,
			debt_amount BIGINT NOT NULL,
			debt_message TEXT,
			debt_status VARCHAR(20) NOT NULL DEFAULT 'NOT_PAID',
			debt_cancel_message TEXT,
			paid_transaction_id INT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_debt_user_id (user_id),
			INDEX idx_debt_account_number (debt_account_number)
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			transaction_id INT AUTO_INCREMENT PRIMARY KEY,
			src_account_number VARCHAR(50) NOT NULL,
			des_account_number VARCHAR(50) NOT NULL,
			transaction_amount BIGINT NOT NULL,
			otp_code VARCHAR(100),
			otp_expired_at DATETIME,
			transaction_message TEXT,
			pay_transaction_fee VARCHAR(10) NOT NULL DEFAULT 'DES',
			is_success BOOLEAN NOT NULL DEFAULT FALSE,
			transaction_type VARCHAR(30) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			notification_id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			transaction_id INT,
			debt_id INT,
			notification_message TEXT,
			is_seen BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_notification_user_id (user_id)
		);`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("migration failed:", err)
		}
	}
	log.Println("migrations completed")
}
