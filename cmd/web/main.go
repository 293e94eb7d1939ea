package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/config"
	"github.com/phonebook-parser/internal/web"
)

func main() {
	config.LoadEnv()

	fmt.Println("=== Phonebook Parser Web API ===")

	portStr := config.GetEnv("WEB_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port number: %s", portStr)
	}

	host := config.GetEnv("WEB_HOST", "0.0.0.0")
	dbName := config.GetEnv("DB_NAME", "phonebook")

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if config.GetEnvBool("DEBUG", false) {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	webConfig := &web.Config{
		Server: web.ServerConfig{
			Port: port,
			Host: host,
		},
		Database: web.DatabaseConfig{
			URL: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				config.GetEnv("DB_USER", "phonebook"),
				config.GetEnv("DB_PASSWORD", "phonebook"),
				config.GetEnv("DB_HOST", "localhost"),
				config.GetEnv("DB_PORT", "5432"),
				dbName),
			MaxConnections: config.GetEnvInt("DB_MAX_CONNECTIONS", 25),
		},
		Parser: web.ParserConfig{
			Strategy:        config.GetEnv("CLASSIFIER_STRATEGY", "heuristic"),
			Threshold:       config.GetEnvInt("CLASSIFIER_THRESHOLD", 65),
			DefaultProvince: config.GetEnv("DEFAULT_PROVINCE", ""),
			DefaultAreaCode: config.GetEnv("DEFAULT_AREA_CODE", ""),
			BatchWorkers:    config.GetEnvInt("BATCH_WORKERS", 8),
			LearningEnabled: config.GetEnvBool("LEARNING_ENABLED", false),
			Debug:           config.GetEnvBool("DEBUG", false),
		},
	}

	server, err := web.NewServer(webConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	fmt.Printf("Server: http://%s:%d\n", host, port)
	fmt.Printf("Database: %s\n", dbName)
	fmt.Printf("Classifier strategy: %s (threshold %d)\n",
		webConfig.Parser.Strategy, webConfig.Parser.Threshold)

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
