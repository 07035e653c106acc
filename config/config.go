package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	APIBaseURL     string
	RequestTimeout string
	RedisURL       string
	KafkaBrokers   string
	KafkaTopic     string
	SessionTTL     time.Duration
	CartTTL        time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Port:           getEnv("PORT", "8000"),
		Env:            getEnv("ENV", "development"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080/api"),
		RequestTimeout: getEnv("REQUEST_TIMEOUT", "10s"),
		RedisURL:       getEnv("REDIS_URL", ""),
		KafkaBrokers:   getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "checkout.requested"),
		SessionTTL:     getDuration("SESSION_TTL", time.Hour*24*30),
		CartTTL:        getDuration("CART_TTL", time.Hour*24*7),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("invalid duration for %s, using default %s", key, defaultVal)
	}
	return defaultVal
}
