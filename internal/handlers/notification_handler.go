package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"solar-banking/internal/middleware"
	"solar-banking/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	logger              zerolog.Logger
}

func NewNotificationHandler(notificationService *services.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized user!")
		return
	}

	notifications, err := h.notificationService.ListByUser(userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list notifications")
		respondWithError(w, http.StatusInternalServerError, "Could not fetch notifications")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess":         true,
		"list_notification": notifications,
	})
}

func (h *NotificationHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized user!")
		return
	}

	notificationID, err := strconv.Atoi(mux.Vars(r)["notificationId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkSeen(notificationID, userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			respondWithError(w, http.StatusInternalServerError, "Could not find this notification")
			return
		}
		h.logger.Error().Err(err).Int("notification_id", notificationID).Msg("Failed to mark notification seen")
		respondWithError(w, http.StatusInternalServerError, "Could not update this notification")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess": true,
		"message":   "Notification updated",
	})
}
