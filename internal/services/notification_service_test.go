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

func TestNotificationService_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := services.NewNotificationService(db, zerolog.Nop())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(3, 1))

	debtID := 12
	notification, err := svc.Create(10, nil, &debtID, "Debit code 12 has just been paid. Please check your account")
	require.NoError(t, err)
	assert.Equal(t, 3, notification.ID)
	assert.Equal(t, 10, notification.UserID)
	require.NotNil(t, notification.DebtID)
	assert.Equal(t, 12, *notification.DebtID)
	assert.Nil(t, notification.TransactionID)
	assert.False(t, notification.IsSeen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationService_MarkSeen(t *testing.T) {
	tests := []struct {
		name         string
		affectedRows int64
		wantErr      error
	}{
		{name: "owned notification", affectedRows: 1},
		{name: "not the recipient", affectedRows: 0, wantErr: services.ErrNotificationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			svc := services.NewNotificationService(db, zerolog.Nop())

			mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_seen = TRUE WHERE notification_id = ? AND user_id = ?")).
				WithArgs(5, 10).
				WillReturnResult(sqlmock.NewResult(0, tt.affectedRows))

			err = svc.MarkSeen(5, 10)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
