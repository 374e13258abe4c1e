package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/PayGate/config"
	"github.com/Govind-619/PayGate/controllers"
	"github.com/Govind-619/PayGate/repository"
	"github.com/Govind-619/PayGate/routes"
	"github.com/Govind-619/PayGate/services"
	"github.com/Govind-619/PayGate/utils"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir, cfg.LogStdout); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	var (
		users        repository.UserRepository
		transactions repository.TransactionRepository
		paymentLogs  repository.PaymentLogRepository
		sequencer    repository.OrderSequencer
		pinger       controllers.Pinger
	)

	switch cfg.Storage {
	case config.StorageMemory:
		utils.LogWarn("Using in-memory storage, data is lost on restart")
		store := repository.NewMemoryStore()
		users, transactions, paymentLogs, sequencer = store.Users(), store.Transactions(), store.Logs(), store.Sequencer()
	default:
		db, err := config.InitDB(cfg)
		if err != nil {
			utils.LogError("Database initialization failed: %v", err)
			log.Fatal("Database initialization failed:", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("Failed to get database handle:", err)
		}
		defer sqlDB.Close()

		users = repository.NewGormUserRepository(db)
		transactions = repository.NewGormTransactionRepository(db)
		paymentLogs = repository.NewGormPaymentLogRepository(db)
		sequencer = repository.NewPostgresSequencer(db)
		pinger = sqlDB
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			utils.LogError("Redis unreachable at %s: %v", cfg.RedisAddr, err)
			log.Fatal("Redis unreachable:", err)
		}
		defer client.Close()
		sequencer = repository.NewRedisSequencer(client, "")
		utils.LogInfo("Order numbers drawn from Redis at %s", cfg.RedisAddr)
	}

	var publisher services.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaPaymentTopic)
		if err != nil {
			utils.LogError("Kafka publisher disabled: %v", err)
		} else {
			defer kafka.Close()
			publisher = kafka
			utils.LogInfo("Publishing payment events to topic %s", cfg.KafkaPaymentTopic)
		}
	}

	var notifier services.ReceiptNotifier
	if cfg.SMTP.Enabled() {
		notifier = services.NewEmailNotifier(cfg.SMTP)
		utils.LogInfo("Receipt e-mails enabled via %s", cfg.SMTP.Host)
	}

	if !cfg.Razorpay.Configured() {
		utils.LogWarn("Razorpay keys not configured, order creation will fail")
	}

	accounts := services.NewAccountService(users)
	payments := services.NewPaymentService(services.PaymentDeps{
		Transactions: transactions,
		Users:        users,
		Sequencer:    sequencer,
		Events:       services.NewEventLog(paymentLogs, publisher),
		Provider:     services.NewRazorpayProvider(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Timeout, cfg.Razorpay.MaxAttempts),
		Notifier:     notifier,
		Config:       cfg.Razorpay,
	})

	router := routes.SetupRouter(routes.Dependencies{
		Config:   cfg,
		Accounts: accounts,
		Payments: payments,
		DB:       pinger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	utils.LogInfo("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.LogError("Graceful shutdown failed: %v", err)
	}
	payments.Wait()
}
