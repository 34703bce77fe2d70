package router

import (
	"database/sql"
	"net/http"

	"solar-banking/internal/config"
	"solar-banking/internal/handlers"
	"solar-banking/internal/mailer"
	"solar-banking/internal/middleware"
	"solar-banking/internal/models"
	"solar-banking/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(db *sql.DB, cfg config.Config, logger zerolog.Logger) *mux.Router {
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)

	userService := services.NewUserService(db, logger)
	accountService := services.NewAccountService(db, logger)
	notificationService := services.NewNotificationService(db, logger)
	debtService := services.NewDebtService(db, logger, userService, accountService, notificationService, mail)
	settlementService := services.NewSettlementService(db, logger, debtService, accountService, notificationService, mail, cfg.OTPLength, cfg.OTPTTL)

	debtHandler := handlers.NewDebtHandler(debtService, settlementService, accountService, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()

	debts := api.PathPrefix("/debtList").Subrouter()
	debts.Use(middleware.Authentication(cfg.JWTSecret, logger))
	debts.Use(middleware.RequireRole(string(models.RoleCustomer)))
	debts.HandleFunc("/selfMade", debtHandler.ListSelfMade).Methods("GET")
	debts.HandleFunc("/otherMade", debtHandler.ListOtherMade).Methods("GET")
	debts.HandleFunc("/sendOtp", debtHandler.SendOTP).Methods("POST")
	debts.HandleFunc("/internal/verified-payment", debtHandler.VerifyPayment).Methods("POST")
	debts.HandleFunc("/cancelDebt/{debtId}", debtHandler.CancelDebt).Methods("DELETE")
	debts.HandleFunc("/{debtId}", debtHandler.GetDebt).Methods("GET")
	debts.HandleFunc("", debtHandler.CreateDebt).Methods("POST")
	debts.HandleFunc("/", debtHandler.CreateDebt).Methods("POST")

	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.Use(middleware.Authentication(cfg.JWTSecret, logger))
	notifications.Use(middleware.RequireRole(string(models.RoleCustomer)))
	notifications.HandleFunc("", notificationHandler.List).Methods("GET")
	notifications.HandleFunc("/{notificationId}/seen", notificationHandler.MarkSeen).Methods("PUT")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
