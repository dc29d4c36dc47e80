package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/amakodev/ADM-travels/internal/sandbox"
)

func main() {
	_ = godotenv.Load()

	port := getEnv("SANDBOX_PORT", "8081")
	secret := getEnv("SANDBOX_SECRET_KEY", "sk_test_sandbox")
	baseURL := getEnv("SANDBOX_BASE_URL", "http://localhost:"+port)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           sandbox.NewServer(secret, baseURL).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Msg("Yoco sandbox starting")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Sandbox stopped")
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
