package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	SearchTopic  string

	KhaltiSecretKey string
	KhaltiBaseURL   string

	MailerURL string

	MarginThreshold float64

	AllowedOrigins []string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    getEnv("APP_PORT", "4000"),
		AppEnv:     os.Getenv("APP_ENV"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		SearchTopic:  getEnv("SEARCH_TOPIC", "catalog.search"),

		KhaltiSecretKey: os.Getenv("KHALTI_SECRET_KEY"),
		KhaltiBaseURL:   getEnv("KHALTI_BASE_URL", "https://a.khalti.com/api/v2"),

		MailerURL: os.Getenv("MAILER_URL"),

		MarginThreshold: getEnvFloat("MARGIN_THRESHOLD", 1000),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
