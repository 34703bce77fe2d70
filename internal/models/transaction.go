package models

import "time"

type Transaction struct {
	ID               int       `json:"transaction_id"`
	SrcAccountNumber string    `json:"src_account_number"`
	DesAccountNumber string    `json:"des_account_number"`
	Amount           int64     `json:"transaction_amount"`
	OTPCode          string    `json:"-"`
	OTPExpiredAt     time.Time `json:"-"`
	Message          string    `json:"transaction_message"`
	FeePayer         string    `json:"pay_transaction_fee"`
	IsSuccess        bool      `json:"is_success"`
	Type             string    `json:"transaction_type"`
	CreatedAt        time.Time `json:"created_at"`
}

type FeePayer string

const (
	FeePayerSource      FeePayer = "SRC"
	FeePayerDestination FeePayer = "DES"
)

type TransactionType string

const (
	TransactionTypeDebtSettlement TransactionType = "debt_settlement"
	TransactionTypeTransfer       TransactionType = "transfer"
)
