package services_test

import (
	"regexp"
	"testing"

	"solar-banking/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_AdjustBalance(t *testing.T) {
	tests := []struct {
		name           string
		currentBalance int64
		delta          int64
		wantErr        error
		wantNewBalance int64
	}{
		{name: "credit", currentBalance: 1000, delta: 500, wantNewBalance: 1500},
		{name: "debit", currentBalance: 1000, delta: -400, wantNewBalance: 600},
		{name: "debit to zero", currentBalance: 400, delta: -400, wantNewBalance: 0},
		{name: "debit below zero", currentBalance: 100, delta: -500, wantErr: services.ErrInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			svc := services.NewAccountService(db, zerolog.Nop())

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("SELECT balance FROM banking_accounts WHERE account_number = ? FOR UPDATE")).
				WithArgs("SB001").
				WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(tt.currentBalance))

			if tt.wantErr == nil {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE banking_accounts SET balance = ? WHERE account_number = ?")).
					WithArgs(tt.wantNewBalance, "SB001").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err = svc.AdjustBalance("SB001", tt.delta)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountService_AdjustBalance_AccountMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := services.NewAccountService(db, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT balance FROM banking_accounts WHERE account_number = ? FOR UPDATE")).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectRollback()

	err = svc.AdjustBalance("NOPE", 100)
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
