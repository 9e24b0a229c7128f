package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/tmfaria/o-meu-bolso/internal/config"
	"github.com/tmfaria/o-meu-bolso/internal/handler"
	"github.com/tmfaria/o-meu-bolso/internal/integrations/ecb"
	"github.com/tmfaria/o-meu-bolso/internal/middleware"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
	"github.com/tmfaria/o-meu-bolso/internal/repository"
	"github.com/tmfaria/o-meu-bolso/internal/service"
	"github.com/tmfaria/o-meu-bolso/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration (.env first, then environment)
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env file")
	}
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	rec := reconciler.New(repo, logger)
	var mailer *email.Sender
	if cfg.MailEnabled() {
		mailer = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, rec, mailer, logger, cfg)
	rates := ecb.NewClient(cfg, logger)
	h := handler.NewHandler(svc, rates, logger)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg))
	api.HandleFunc("/user", h.User).Methods("GET")
	api.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	api.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	api.HandleFunc("/accounts/{id}", h.UpdateAccount).Methods("PUT")
	api.HandleFunc("/accounts/{id}", h.DeleteAccount).Methods("DELETE")
	api.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	api.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	api.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT")
	api.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	api.HandleFunc("/budgets", h.ListBudgets).Methods("GET")
	api.HandleFunc("/budgets", h.CreateBudget).Methods("POST")
	api.HandleFunc("/budgets/{id}", h.UpdateBudget).Methods("PUT")
	api.HandleFunc("/budgets/{id}", h.DeleteBudget).Methods("DELETE")
	api.HandleFunc("/goals", h.ListGoals).Methods("GET")
	api.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	api.HandleFunc("/goals/{id}", h.UpdateGoal).Methods("PUT")
	api.HandleFunc("/goals/{id}", h.DeleteGoal).Methods("DELETE")
	api.HandleFunc("/goals/{id}/contributions", h.ListContributions).Methods("GET")
	api.HandleFunc("/goals/{id}/contributions", h.CreateContribution).Methods("POST")
	api.HandleFunc("/categories", h.ListCategories).Methods("GET")
	api.HandleFunc("/categories", h.CreateCategory).Methods("POST")
	api.HandleFunc("/summary", h.Summary).Methods("GET")
	api.HandleFunc("/rates", h.Rates).Methods("GET")
	api.HandleFunc("/rates/convert", h.Convert).Methods("GET")

	// Daily jobs: refresh exchange rates, expire overdue goals
	jobs := cron.New()
	jobs.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := rates.Refresh(ctx); err != nil {
			logger.Errorf("Exchange rate refresh failed: %v", err)
		}
		if err := svc.ExpireOverdueGoals(ctx); err != nil {
			logger.Errorf("Goal expiry sweep failed: %v", err)
		}
	})
	jobs.Start()
	defer jobs.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
