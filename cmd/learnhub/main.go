package main

import (
	"crypto/rand"
	"flag"
	"log"

	"github.com/caarlos0/env/v6"

	"github.com/learnhub-dev/learnhub/internal/app/config"
	"github.com/learnhub-dev/learnhub/internal/app/logger"
	"github.com/learnhub-dev/learnhub/internal/app/server"
)

func main() {
	randBytes := make([]byte, 16)
	_, err := rand.Read(randBytes)
	if err != nil {
		log.Fatal(err)
		return
	}
	secretKey := string(randBytes)

	cfg := config.Config{
		RunAddress:    "localhost:8080",
		DatabaseURI:   "postgres://localhost:5432/learnhub",
		SecretKey:     secretKey,
		LogLevel:      "info",
		ClientTimeout: 5,
	}

	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
		return
	}

	flag.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "run address")
	flag.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "database URI")
	flag.StringVar(&cfg.NoticeEndpoint, "n", cfg.NoticeEndpoint, "notice push endpoint")
	flag.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	flag.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	flag.Parse()

	logger.SetLevel(cfg.LogLevel)

	log.Fatal(server.Serve(&cfg))
}
