package services

import (
	"database/sql"
	"fmt"

	"solar-banking/internal/mailer"
	"solar-banking/internal/models"

	"github.com/rs/zerolog"
)

const newDebtEmailSubject = "Solar Banking: You have new debt"

// DebtService owns the debt lifecycle: creation, listing and cancellation.
// Payment of a debt is handled by SettlementService.
type DebtService struct {
	db            *sql.DB
	logger        zerolog.Logger
	users         *UserService
	accounts      *AccountService
	notifications *NotificationService
	mail          mailer.Mailer
}

func NewDebtService(db *sql.DB, logger zerolog.Logger, users *UserService, accounts *AccountService, notifications *NotificationService, mail mailer.Mailer) *DebtService {
	return &DebtService{
		db:            db,
		logger:        logger,
		users:         users,
		accounts:      accounts,
		notifications: notifications,
		mail:          mail,
	}
}

const debtColumns = "debt_id, user_id, debt_account_number, debt_amount, debt_message, debt_status, debt_cancel_message, paid_transaction_id, created_at"

func scanDebt(row interface{ Scan(...interface{}) error }) (*models.Debt, error) {
	var debt models.Debt
	var message, cancelMessage sql.NullString
	var paidTransactionID sql.NullInt64

	err := row.Scan(
		&debt.ID, &debt.UserID, &debt.DebtAccountNumber, &debt.Amount,
		&message, &debt.Status, &cancelMessage, &paidTransactionID, &debt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	debt.Message = message.String
	debt.CancelMessage = cancelMessage.String
	if paidTransactionID.Valid {
		val := int(paidTransactionID.Int64)
		debt.PaidTransactionID = &val
	}

	return &debt, nil
}

func (s *DebtService) ListSelfMade(userID int) ([]*models.Debt, error) {
	return s.list("SELECT "+debtColumns+" FROM debt_list WHERE user_id = ?", userID)
}

func (s *DebtService) ListReceived(accountNumber string) ([]*models.Debt, error) {
	return s.list("SELECT "+debtColumns+" FROM debt_list WHERE debt_account_number = ?", accountNumber)
}

func (s *DebtService) list(query string, arg interface{}) ([]*models.Debt, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching debts")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var debts []*models.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning debt: %w", err)
		}
		debts = append(debts, debt)
	}

	return debts, nil
}

func (s *DebtService) GetByID(debtID int) (*models.Debt, error) {
	debt, err := scanDebt(s.db.QueryRow("SELECT "+debtColumns+" FROM debt_list WHERE debt_id = ?", debtID))
	if err == sql.ErrNoRows {
		return nil, ErrDebtNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("debt_id", debtID).Msg("Error fetching debt")
		return nil, fmt.Errorf("database error: %w", err)
	}
	return debt, nil
}

// Create persists a new NOT_PAID debt and mails the debtor account holder.
// Mail delivery is fire-and-forget; a failed send never rolls the debt back.
func (s *DebtService) Create(requesterID int, accountNumber string, amount int64, message string) (*models.Debt, error) {
	if amount <= 0 || accountNumber == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.users.GetByID(requesterID); err != nil {
		return nil, err
	}

	debtor, err := s.accounts.GetByAccountNumber(accountNumber)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		"INSERT INTO debt_list (user_id, debt_account_number, debt_amount, debt_message, debt_status, debt_cancel_message) VALUES (?, ?, ?, ?, ?, ?)",
		requesterID, accountNumber, amount, message, string(models.DebtStatusNotPaid), "",
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", requesterID).Msg("Error creating debt")
		return nil, fmt.Errorf("failed to create debt: %w", err)
	}

	debtID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get debt ID: %w", err)
	}

	go func() {
		body := fmt.Sprintf(
			"Dear %s,\n\nWe've noted you have a payment reminder. Debit code is: %d.",
			debtor.HolderFullName, debtID,
		)
		if err := s.mail.Send(debtor.HolderEmail, newDebtEmailSubject, body); err != nil {
			s.logger.Warn().Err(err).Int64("debt_id", debtID).Msg("Failed to send new debt email")
		}
	}()

	s.logger.Info().
		Int64("debt_id", debtID).
		Int("user_id", requesterID).
		Str("debt_account_number", accountNumber).
		Int64("amount", amount).
		Msg("Debt created")

	return s.GetByID(int(debtID))
}

// Cancel moves a NOT_PAID debt to CANCELLED and notifies the party who did
// not initiate the cancellation. Any outstanding OTP on the linked transaction
// is expired so a superseded payment attempt can never settle.
func (s *DebtService) Cancel(debtID, actingUserID int, cancelMessage string) error {
	debt, err := s.GetByID(debtID)
	if err != nil {
		return err
	}

	if debt.Status != string(models.DebtStatusNotPaid) {
		return ErrInvalidDebtState
	}

	recipientID := debt.UserID
	if actingUserID != debt.UserID {
		debtorAccount, err := s.accounts.GetByAccountNumber(debt.DebtAccountNumber)
		if err != nil {
			return err
		}
		if debtorAccount.UserID != actingUserID {
			return ErrForbidden
		}
		recipientID = debtorAccount.UserID
	}

	result, updateErr := s.db.Exec(
		"UPDATE debt_list SET debt_status = ?, debt_cancel_message = ? WHERE debt_id = ? AND debt_status = ?",
		string(models.DebtStatusCancelled), cancelMessage, debtID, string(models.DebtStatusNotPaid),
	)
	if updateErr == nil {
		var affected int64
		affected, updateErr = result.RowsAffected()
		if updateErr == nil && affected == 0 {
			updateErr = ErrInvalidDebtState
		}
	}
	if updateErr != nil && updateErr != ErrInvalidDebtState {
		s.logger.Error().Err(updateErr).Int("debt_id", debtID).Msg("Error cancelling debt")
		updateErr = fmt.Errorf("failed to cancel debt: %w", updateErr)
	}

	if debt.PaidTransactionID != nil {
		_, err := s.db.Exec(
			"UPDATE transactions SET otp_expired_at = NOW() WHERE transaction_id = ? AND is_success = FALSE",
			*debt.PaidTransactionID,
		)
		if err != nil {
			s.logger.Warn().Err(err).Int("transaction_id", *debt.PaidTransactionID).Msg("Failed to expire OTP of cancelled debt")
		}
	}

	// The notification is attempted even when the status update failed;
	// the two side effects are independent and best-effort.
	if _, err := s.notifications.Create(recipientID, debt.PaidTransactionID, &debtID, cancelMessage); err != nil {
		s.logger.Warn().Err(err).Int("debt_id", debtID).Msg("Failed to create cancellation notification")
	}

	if updateErr != nil {
		return updateErr
	}

	s.logger.Info().
		Int("debt_id", debtID).
		Int("acting_user_id", actingUserID).
		Msg("Debt cancelled")

	return nil
}
