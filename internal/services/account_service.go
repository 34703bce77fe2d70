package services

import (
	"database/sql"
	"fmt"
	"sync"

	"solar-banking/internal/models"

	"github.com/rs/zerolog"
)

type AccountService struct {
	db     *sql.DB
	logger zerolog.Logger
	mu     sync.Map
}

func NewAccountService(db *sql.DB, logger zerolog.Logger) *AccountService {
	return &AccountService{
		db:     db,
		logger: logger,
	}
}

func (s *AccountService) getMutex(accountNumber string) *sync.Mutex {
	mu, _ := s.mu.LoadOrStore(accountNumber, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *AccountService) GetByAccountNumber(accountNumber string) (*models.BankingAccount, error) {
	var account models.BankingAccount

	err := s.db.QueryRow(
		`SELECT account_number, user_id, balance, account_type, holder_full_name, holder_email, created_at
		 FROM banking_accounts WHERE account_number = ?`,
		accountNumber,
	).Scan(
		&account.AccountNumber, &account.UserID, &account.Balance,
		&account.AccountType, &account.HolderFullName, &account.HolderEmail, &account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("account_number", accountNumber).Msg("Error fetching account")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &account, nil
}

// GetSpendingAccountByUserID resolves the account a user settles with.
func (s *AccountService) GetSpendingAccountByUserID(userID int) (*models.BankingAccount, error) {
	var account models.BankingAccount

	err := s.db.QueryRow(
		`SELECT account_number, user_id, balance, account_type, holder_full_name, holder_email, created_at
		 FROM banking_accounts WHERE user_id = ? AND account_type = ?`,
		userID, string(models.AccountTypeSpending),
	).Scan(
		&account.AccountNumber, &account.UserID, &account.Balance,
		&account.AccountType, &account.HolderFullName, &account.HolderEmail, &account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching spending account")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &account, nil
}

// AdjustBalanceInTx applies a signed delta to an account balance inside the
// caller's transaction. The row is locked for the duration of the transaction
// and the balance is never allowed to go negative.
func (s *AccountService) AdjustBalanceInTx(tx *sql.Tx, accountNumber string, delta int64) error {
	var currentBalance int64
	err := tx.QueryRow(
		"SELECT balance FROM banking_accounts WHERE account_number = ? FOR UPDATE",
		accountNumber,
	).Scan(&currentBalance)

	if err == sql.ErrNoRows {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch balance: %w", err)
	}

	newBalance := currentBalance + delta
	if newBalance < 0 {
		return ErrInsufficientBalance
	}

	_, err = tx.Exec(
		"UPDATE banking_accounts SET balance = ? WHERE account_number = ?",
		newBalance, accountNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	return nil
}

func (s *AccountService) AdjustBalance(accountNumber string, delta int64) error {
	mu := s.getMutex(accountNumber)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting balance update transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err = s.AdjustBalanceInTx(tx, accountNumber, delta); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing balance update")
		return fmt.Errorf("failed to commit balance update: %w", err)
	}

	s.logger.Info().
		Str("account_number", accountNumber).
		Int64("amount_change", delta).
		Msg("Balance updated successfully")

	return nil
}
