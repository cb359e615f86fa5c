package main

import (
	"log"

	"github.com/joho/godotenv"
	"billing/cmd"
	"billing/internal/config"
	"billing/internal/logger"
)

func main() {
	// A missing .env file is normal; settings then come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting billing CLI")

	cmd.Execute()
}
