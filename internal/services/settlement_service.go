package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"solar-banking/internal/mailer"
	"solar-banking/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const verifyPaymentEmailSubject = "Solar Banking: Please verify your payment"

// SettlementService drives the OTP-gated payment of a debt: it issues the
// challenge, verifies the response and moves the money between the debtor's
// account and the requester's spending account.
type SettlementService struct {
	db            *sql.DB
	logger        zerolog.Logger
	debts         *DebtService
	accounts      *AccountService
	notifications *NotificationService
	mail          mailer.Mailer
	otpLength     int
	otpTTL        time.Duration
	debtMu        sync.Map
}

func NewSettlementService(db *sql.DB, logger zerolog.Logger, debts *DebtService, accounts *AccountService, notifications *NotificationService, mail mailer.Mailer, otpLength int, otpTTL time.Duration) *SettlementService {
	return &SettlementService{
		db:            db,
		logger:        logger,
		debts:         debts,
		accounts:      accounts,
		notifications: notifications,
		mail:          mail,
		otpLength:     otpLength,
		otpTTL:        otpTTL,
	}
}

// getMutex serializes RequestOTP and VerifyAndSettle per debt so that two
// concurrent verifications can never both commit for the same debt.
func (s *SettlementService) getMutex(debtID int) *sync.Mutex {
	mu, _ := s.debtMu.LoadOrStore(debtID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// RequestOTP creates a pending settlement transaction for a NOT_PAID debt and
// mails a fresh OTP to the debtor. Calling it again supersedes the previous
// code: verification only ever looks at the debt's current linked transaction.
func (s *SettlementService) RequestOTP(callerID, debtID int) error {
	mu := s.getMutex(debtID)
	mu.Lock()
	defer mu.Unlock()

	debt, err := s.debts.GetByID(debtID)
	if err != nil {
		return err
	}
	if debt.Status != string(models.DebtStatusNotPaid) {
		return ErrInvalidDebtState
	}

	debtor, err := s.accounts.GetByAccountNumber(debt.DebtAccountNumber)
	if err != nil {
		return err
	}
	if debtor.UserID != callerID {
		return ErrForbidden
	}
	if debtor.AccountType != string(models.AccountTypeSpending) {
		return ErrAccountNotSpending
	}

	destination, err := s.accounts.GetSpendingAccountByUserID(debt.UserID)
	if err != nil {
		return err
	}

	// The debtor is the paying side, so the debtor's balance gates issuance.
	// Solvency is checked again at settlement time regardless.
	if debtor.Balance < debt.Amount {
		return ErrInsufficientBalance
	}

	code, err := GenerateOTP(s.otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	expiresAt := time.Now().Add(s.otpTTL)

	result, err := s.db.Exec(
		`INSERT INTO transactions (src_account_number, des_account_number, transaction_amount, otp_code, otp_expired_at, transaction_message, pay_transaction_fee, is_success, transaction_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debtor.AccountNumber, destination.AccountNumber, debt.Amount, string(hash), expiresAt,
		"", string(models.FeePayerDestination), false, string(models.TransactionTypeDebtSettlement),
	)
	if err != nil {
		s.logger.Error().Err(err).Int("debt_id", debtID).Msg("Error creating settlement transaction")
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	transactionID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get transaction ID: %w", err)
	}

	_, err = s.db.Exec(
		"UPDATE debt_list SET paid_transaction_id = ? WHERE debt_id = ?",
		transactionID, debtID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("debt_id", debtID).Msg("Error linking transaction to debt")
		return fmt.Errorf("failed to link transaction: %w", err)
	}

	go func() {
		body := fmt.Sprintf(
			"Dear %s,\n\nHere is the OTP code you need to verified payment: %s.\nThis code will be expired %d minutes after this email was sent. If you did not make this request, you can ignore this email.",
			debtor.HolderFullName, code, int(s.otpTTL.Minutes()),
		)
		if err := s.mail.Send(debtor.HolderEmail, verifyPaymentEmailSubject, body); err != nil {
			s.logger.Warn().Err(err).Int("debt_id", debtID).Msg("Failed to send OTP email")
		}
	}()

	s.logger.Info().
		Int("debt_id", debtID).
		Int64("transaction_id", transactionID).
		Time("otp_expired_at", expiresAt).
		Msg("OTP issued for debt settlement")

	return nil
}

// VerifyAndSettle checks the submitted OTP against the debt's current linked
// transaction and, if it matches and has not expired, settles the debt: the
// status flips and both balance legs run inside one database transaction, so
// a rejected debit leaves no partial effects.
func (s *SettlementService) VerifyAndSettle(debtID int, code string) (*models.Debt, error) {
	mu := s.getMutex(debtID)
	mu.Lock()
	defer mu.Unlock()

	debt, err := s.debts.GetByID(debtID)
	if err != nil {
		return nil, err
	}
	if debt.Status != string(models.DebtStatusNotPaid) {
		return nil, ErrInvalidDebtState
	}
	if debt.PaidTransactionID == nil {
		return nil, ErrTransactionNotFound
	}

	txn, err := s.loadTransaction(*debt.PaidTransactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsSuccess {
		return nil, ErrInvalidDebtState
	}

	if time.Now().After(txn.OTPExpiredAt) {
		return nil, ErrOTPInvalidOrExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(txn.OTPCode), []byte(code)) != nil {
		return nil, ErrOTPInvalidOrExpired
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting settlement transaction")
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"UPDATE debt_list SET debt_status = ? WHERE debt_id = ? AND debt_status = ?",
		string(models.DebtStatusPaid), debtID, string(models.DebtStatusNotPaid),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update debt status: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return nil, ErrInvalidDebtState
	}

	result, err = tx.Exec(
		"UPDATE transactions SET is_success = TRUE WHERE transaction_id = ? AND is_success = FALSE",
		txn.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	} else if affected == 0 {
		return nil, ErrInvalidDebtState
	}

	if err := s.accounts.AdjustBalanceInTx(tx, txn.DesAccountNumber, txn.Amount); err != nil {
		return nil, fmt.Errorf("failed to credit destination: %w", err)
	}

	if err := s.accounts.AdjustBalanceInTx(tx, txn.SrcAccountNumber, -txn.Amount); err != nil {
		// The balance can shrink between OTP issuance and verification; the
		// whole settlement rolls back rather than leaving a negative balance.
		if errors.Is(err, ErrInsufficientBalance) {
			return nil, ErrSettlementInsufficientBalance
		}
		return nil, fmt.Errorf("failed to debit source: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Int("debt_id", debtID).Msg("Error committing settlement")
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	message := fmt.Sprintf("Debit code %d has just been paid. Please check your account", debtID)
	if _, err := s.notifications.Create(debt.UserID, debt.PaidTransactionID, &debtID, message); err != nil {
		s.logger.Warn().Err(err).Int("debt_id", debtID).Msg("Failed to create settlement notification")
	}

	s.logger.Info().
		Int("debt_id", debtID).
		Int("transaction_id", txn.ID).
		Int64("amount", txn.Amount).
		Str("src_account_number", txn.SrcAccountNumber).
		Str("des_account_number", txn.DesAccountNumber).
		Msg("Debt settled")

	debt.Status = string(models.DebtStatusPaid)
	return debt, nil
}

func (s *SettlementService) loadTransaction(transactionID int) (*models.Transaction, error) {
	var txn models.Transaction

	err := s.db.QueryRow(
		`SELECT transaction_id, src_account_number, des_account_number, transaction_amount, otp_code, otp_expired_at, is_success
		 FROM transactions WHERE transaction_id = ?`,
		transactionID,
	).Scan(
		&txn.ID, &txn.SrcAccountNumber, &txn.DesAccountNumber, &txn.Amount,
		&txn.OTPCode, &txn.OTPExpiredAt, &txn.IsSuccess,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("transaction_id", transactionID).Msg("Error fetching transaction")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &txn, nil
}
