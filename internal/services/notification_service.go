package services

import (
	"database/sql"
	"fmt"

	"solar-banking/internal/models"

	"github.com/rs/zerolog"
)

type NotificationService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewNotificationService(db *sql.DB, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		db:     db,
		logger: logger,
	}
}

func (s *NotificationService) Create(userID int, transactionID, debtID *int, message string) (*models.Notification, error) {
	result, err := s.db.Exec(
		"INSERT INTO notifications (user_id, transaction_id, debt_id, notification_message, is_seen) VALUES (?, ?, ?, ?, ?)",
		userID, toNullableInt(transactionID), toNullableInt(debtID), message, false,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error creating notification")
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	notificationID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification ID: %w", err)
	}

	return &models.Notification{
		ID:            int(notificationID),
		UserID:        userID,
		TransactionID: transactionID,
		DebtID:        debtID,
		Message:       message,
	}, nil
}

func (s *NotificationService) ListByUser(userID int) ([]*models.Notification, error) {
	rows, err := s.db.Query(
		`SELECT notification_id, user_id, transaction_id, debt_id, notification_message, is_seen, created_at
		 FROM notifications WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching notifications")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var notification models.Notification
		var transactionID, debtID sql.NullInt64

		err := rows.Scan(
			&notification.ID, &notification.UserID, &transactionID, &debtID,
			&notification.Message, &notification.IsSeen, &notification.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}

		if transactionID.Valid {
			val := int(transactionID.Int64)
			notification.TransactionID = &val
		}
		if debtID.Valid {
			val := int(debtID.Int64)
			notification.DebtID = &val
		}

		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

// MarkSeen flips is_seen for a notification owned by userID.
func (s *NotificationService) MarkSeen(notificationID, userID int) error {
	result, err := s.db.Exec(
		"UPDATE notifications SET is_seen = TRUE WHERE notification_id = ? AND user_id = ?",
		notificationID, userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("notification_id", notificationID).Msg("Error marking notification seen")
		return fmt.Errorf("failed to update notification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func toNullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
