package services

import (
	"database/sql"
	"fmt"

	"solar-banking/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserService(db *sql.DB, logger zerolog.Logger) *UserService {
	return &UserService{
		db:     db,
		logger: logger,
	}
}

func (s *UserService) GetByID(userID int) (*models.User, error) {
	var user models.User

	err := s.db.QueryRow(
		"SELECT user_id, username, email, full_name, role, created_at FROM users WHERE user_id = ?",
		userID,
	).Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Role, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}
