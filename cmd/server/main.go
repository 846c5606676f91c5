package main

import (
	"context"
	"log"
	netHttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ostech-hub/config"
	"ostech-hub/db"
	apphttp "ostech-hub/http"
	"ostech-hub/http/handlers"
	"ostech-hub/logger"
	"ostech-hub/services"
	"ostech-hub/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	// Initialize database
	database, err := db.Init(cfg.DBConnString())
	if err != nil {
		logger.Fatal("Error initializing database: %v", err)
	}
	defer database.Close()

	// Initialize event publishing (non-fatal when brokers are absent)
	events := services.NewPublisher(cfg)

	mailer := services.NewMailer(cfg)
	sms := services.NewSMSClient(cfg)

	paymentStore := store.NewPaymentStore(database)
	courseStore := store.NewCourseStore(database)
	enrollmentStore := store.NewEnrollmentStore(database)

	paymentService := services.NewPaymentService(paymentStore, sms, events, mailer)
	enrollmentService := services.NewEnrollmentService(courseStore, enrollmentStore, events, mailer)

	router := apphttp.NewRouter(
		handlers.NewPaymentHandler(paymentService),
		handlers.NewCourseHandler(courseStore),
		handlers.NewEnrollmentHandler(enrollmentService),
	)

	server := &netHttp.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != netHttp.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down server: %v", err)
	}

	// Close the Kafka producer gracefully
	if err := events.Close(); err != nil {
		logger.Error("Error closing Kafka producer: %v", err)
	}

	logger.Info("Server shutdown complete")
}
