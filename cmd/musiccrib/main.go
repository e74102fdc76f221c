package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"musiccrib/internal/config"
	"musiccrib/internal/storefront"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := "./config.toml"

	// Load .env if present (MAIL_PASSWORD lives there in development)
	_ = godotenv.Load()

	// Initialize basic logger for startup
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Error loading configuration")
	}

	configureLogger(logger, cfg.Logging)

	// Assemble the storefront session
	session, err := storefront.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error starting storefront")
	}
	defer session.Close()

	// Print notices as they arrive
	notices := session.Notifier.Subscribe()
	go func() {
		for notice := range notices {
			fmt.Printf("%s %s\n", notice.Icon, notice.Message)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	console := newConsole(session, os.Stdin, os.Stdout)
	done := make(chan struct{})
	go func() {
		console.run()
		close(done)
	}()

	select {
	case <-c:
		logger.Info("Received shutdown signal")
	case <-done:
	}
}

// configureLogger applies the logging section of the config.
func configureLogger(logger *logrus.Logger, cfg config.LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.WithError(err).Warn("Could not open log file, logging to stderr")
		} else {
			logger.SetOutput(f)
		}
	}
}
