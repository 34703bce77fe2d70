package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"solar-banking/internal/middleware"
	"solar-banking/internal/models"
	"solar-banking/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type DebtHandler struct {
	debtService       *services.DebtService
	settlementService *services.SettlementService
	accountService    *services.AccountService
	logger            zerolog.Logger
}

func NewDebtHandler(debtService *services.DebtService, settlementService *services.SettlementService, accountService *services.AccountService, logger zerolog.Logger) *DebtHandler {
	return &DebtHandler{
		debtService:       debtService,
		settlementService: settlementService,
		accountService:    accountService,
		logger:            logger,
	}
}

func (h *DebtHandler) ListSelfMade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized user!")
		return
	}

	debts, err := h.debtService.ListSelfMade(userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list self-made debts")
		respondWithError(w, http.StatusInternalServerError, "You do not have access")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess": true,
		"message":   "This is all debts of you",
		"list_debt": debts,
	})
}

func (h *DebtHandler) ListOtherMade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized user!")
		return
	}

	account, err := h.accountService.GetSpendingAccountByUserID(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "You do not have access")
		return
	}

	debts, err := h.debtService.ListReceived(account.AccountNumber)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list received debts")
		respondWithError(w, http.StatusInternalServerError, "You do not have access")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess": true,
		"message":   "This is all debts of you",
		"list_debt": debts,
	})
}

func (h *DebtHandler) GetDebt(w http.ResponseWriter, r *http.Request) {
	debtID, err := strconv.Atoi(mux.Vars(r)["debtId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid debt ID")
		return
	}

	debt, err := h.debtService.GetByID(debtID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not find this debt")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess": true,
		"message":   "This is detail of debt",
		"objDebt":   debt,
	})
}

func (h *DebtHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized user!")
		return
	}

	var req models.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.debtService.Create(userID, req.AccountNumber, req.Amount, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "Invalid debt information")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusBadRequest, "You do not have access")
		case errors.Is(err, services.ErrAccountNotFound):
			respondWithError(w, http.StatusBadRequest, "Could not find this banking account")
		default:
			h.logger.Error().Err(err).Msg("Failed to create debt")
			respondWithError(w, http.StatusInternalServerError, "Could not create debt")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess": true,
		"message":   "Create new debt successful!",
	})
}

func (h *DebtHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized user!")
		return
	}

	var req models.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.settlementService.RequestOTP(userID, req.DebtID); err != nil {
		switch {
		case errors.Is(err, services.ErrDebtNotFound):
			respondWithError(w, http.StatusInternalServerError, "Could not find this debt")
		case errors.Is(err, services.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "Not allowed user!")
		case errors.Is(err, services.ErrInsufficientBalance):
			respondWithError(w, http.StatusInternalServerError, "Your balance is not enough to make the payment")
		case errors.Is(err, services.ErrAccountNotSpending):
			respondWithError(w, http.StatusInternalServerError, "You can not send or receive money because spending account is locked!")
		case errors.Is(err, services.ErrInvalidDebtState):
			respondWithError(w, http.StatusInternalServerError, "This debt has already been paid or cancelled")
		case errors.Is(err, services.ErrAccountNotFound):
			respondWithError(w, http.StatusInternalServerError, "Could not find this banking account")
		default:
			h.logger.Error().Err(err).Int("debt_id", req.DebtID).Msg("Failed to issue OTP")
			respondWithError(w, http.StatusInternalServerError, "Could not send OTP")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess": true,
		"message":   "OTP code has been sent. Please check your email",
	})
}

func (h *DebtHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	debt, err := h.settlementService.VerifyAndSettle(req.DebtID, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDebtNotFound):
			respondWithError(w, http.StatusInternalServerError, "Could not find this debt")
		case errors.Is(err, services.ErrTransactionNotFound):
			respondWithError(w, http.StatusInternalServerError, "Could not find this transaction")
		case errors.Is(err, services.ErrOTPInvalidOrExpired):
			respondWithError(w, http.StatusInternalServerError, "Validation failed. OTP code may be incorrect or the session was expired!")
		case errors.Is(err, services.ErrInvalidDebtState):
			respondWithError(w, http.StatusInternalServerError, "This debt has already been paid or cancelled")
		case errors.Is(err, services.ErrSettlementInsufficientBalance):
			respondWithError(w, http.StatusInternalServerError, "Your balance is not enough to make the payment")
		default:
			h.logger.Error().Err(err).Int("debt_id", req.DebtID).Msg("Failed to settle debt")
			respondWithError(w, http.StatusInternalServerError, "Could not verify the payment")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess": true,
		"message":   "Payment Successful",
		"status":    debt.Status,
	})
}

func (h *DebtHandler) CancelDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized user!")
		return
	}

	debtID, err := strconv.Atoi(mux.Vars(r)["debtId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid debt ID")
		return
	}

	var req models.CancelDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.debtService.Cancel(debtID, userID, req.CancelMessage); err != nil {
		switch {
		case errors.Is(err, services.ErrDebtNotFound):
			respondWithError(w, http.StatusInternalServerError, "Could not find this debt")
		case errors.Is(err, services.ErrInvalidDebtState):
			respondWithError(w, http.StatusInternalServerError, "This debt has already been paid or cancelled")
		case errors.Is(err, services.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "Not allowed user!")
		default:
			h.logger.Error().Err(err).Int("debt_id", debtID).Msg("Failed to cancel debt")
			respondWithError(w, http.StatusInternalServerError, "Could not cancel this debt")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"isSuccess": true,
		"message":   "Cancel successful",
	})
}
