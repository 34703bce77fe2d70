package models

import "time"

type BankingAccount struct {
	AccountNumber  string    `json:"account_number"`
	UserID         int       `json:"user_id"`
	Balance        int64     `json:"balance"`
	AccountType    string    `json:"account_type"`
	HolderFullName string    `json:"holder_full_name"`
	HolderEmail    string    `json:"holder_email"`
	CreatedAt      time.Time `json:"created_at"`
}

type AccountType string

const (
	// AccountTypeSpending is the active account type; only spending
	// accounts may send or receive a settlement.
	AccountTypeSpending AccountType = "spending"
	AccountTypeSaving   AccountType = "saving"
)
