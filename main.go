// main.go
package main

import (
	"log"

	"phone-auth/cmd"
	"phone-auth/internal/data/repository"
	"phone-auth/internal/wire"
	"phone-auth/pkg/database"
	"phone-auth/pkg/sms"
	"phone-auth/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// SMS delivery sink: real gateway when an API key is configured,
	// otherwise codes are written to the log (development mode)
	var sender sms.Sender
	if config.SMS.APIKey != "" {
		sender = sms.NewClient(config.SMS, logger)
	} else {
		sender = sms.NewLogSender(logger)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, sender, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
