package models

import "time"

type Debt struct {
	ID                int       `json:"debt_id"`
	UserID            int       `json:"user_id"`
	DebtAccountNumber string    `json:"debt_account_number"`
	Amount            int64     `json:"debt_amount"`
	Message           string    `json:"debt_message"`
	Status            string    `json:"debt_status"`
	CancelMessage     string    `json:"debt_cancel_message"`
	PaidTransactionID *int      `json:"paid_transaction_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type DebtStatus string

// NOT_PAID is the only non-terminal status; a debt leaves it exactly once.
const (
	DebtStatusNotPaid   DebtStatus = "NOT_PAID"
	DebtStatusPaid      DebtStatus = "PAID"
	DebtStatusCancelled DebtStatus = "CANCELLED"
)

type CreateDebtRequest struct {
	AccountNumber string `json:"accountNumber"`
	Amount        int64  `json:"debt_amount"`
	Message       string `json:"debt_message"`
}

type CancelDebtRequest struct {
	CancelMessage string `json:"debt_cancel_message"`
}

type SendOTPRequest struct {
	DebtID int `json:"debt_id"`
}

type VerifyPaymentRequest struct {
	DebtID int    `json:"debt_id"`
	OTP    string `json:"otp"`
}
