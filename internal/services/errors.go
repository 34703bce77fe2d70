package services

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUserNotFound         = errors.New("user not found")
	ErrDebtNotFound         = errors.New("debt not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrAccountNotFound      = errors.New("banking account not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("not allowed")

	// ErrInvalidDebtState is returned for any transition attempted out of a
	// terminal debt status (PAID or CANCELLED).
	ErrInvalidDebtState = errors.New("debt is already paid or cancelled")

	ErrOTPInvalidOrExpired = errors.New("otp code is incorrect or the session has expired")

	// ErrInsufficientBalance is the issuance-time check; the settlement
	// variant covers balances that changed between OTP issuance and verification.
	ErrInsufficientBalance           = errors.New("balance is not enough to make the payment")
	ErrSettlementInsufficientBalance = errors.New("balance became insufficient at settlement")

	ErrAccountNotSpending = errors.New("spending account is locked")
)
