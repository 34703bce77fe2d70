package models

import "time"

type Notification struct {
	ID            int       `json:"notification_id"`
	UserID        int       `json:"user_id"`
	TransactionID *int      `json:"transaction_id,omitempty"`
	DebtID        *int      `json:"debt_id,omitempty"`
	Message       string    `json:"notification_message"`
	IsSeen        bool      `json:"is_seen"`
	CreatedAt     time.Time `json:"created_at"`
}
