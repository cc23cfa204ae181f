package cmd

import (
	"fmt"
	"os"
	"strings"
)

// Config carries everything the process needs from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers []string

	RedisAddr     string
	RedisPassword string

	PawapayBaseURL  string
	PawapayAPIToken string

	ProofStorePath string
}

// LoadConfig reads the configuration from environment variables, falling back
// to local-development defaults. The pawapay API token has no default.
func LoadConfig() Config {
	return Config{
		HTTPPort:   getEnv("HTTP_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "fulfillment"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		PawapayBaseURL:  getEnv("PAWAPAY_BASE_URL", "https://api.sandbox.pawapay.cloud"),
		PawapayAPIToken: os.Getenv("PAWAPAY_API_TOKEN"),

		ProofStorePath: getEnv("PROOF_STORE_PATH", "./proofs"),
	}
}

// DBConnString renders the postgres DSN for the gorm driver.
func (c Config) DBConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
