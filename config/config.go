package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	apperrors "ostech-hub/errors"
)

// Config carries every environment-sourced setting. It is loaded once in main
// and handed to each component at construction instead of being read from
// globals at call time.
type Config struct {
	HTTPAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Africa's Talking SMS gateway
	SMSAPIKey   string
	SMSUsername string
	SMSBaseURL  string

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// Kafka (comma-separated brokers; empty disables event publishing)
	KafkaBrokers string
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	// Try loading .env from different locations
	envLocations := []string{
		".env",              // project root
		"config/.env",       // config subdirectory
		"../config/.env",    // one level up
		"../../config/.env", // two levels up
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: getEnvWithDefault("DB_PASSWORD", "postgres"),
		DBName:     getEnvWithDefault("DB_NAME", "ostechhub"),

		SMSAPIKey:   os.Getenv("AFRICASTALKING_API_KEY"),
		SMSUsername: os.Getenv("AFRICASTALKING_USERNAME"),
		SMSBaseURL:  getEnvWithDefault("AFRICASTALKING_BASE_URL", "https://api.africastalking.com"),

		SMTPHost:  getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvWithDefault("SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		KafkaBrokers: getEnvWithDefault("KAFKA_BROKERS", "127.0.0.1:9092"),
	}

	if cfg.DBName == "" || cfg.DBHost == "" {
		return nil, apperrors.NewConfigError("database connection settings are incomplete")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// DBConnString builds the postgres connection string.
func (c *Config) DBConnString() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=disable"
}
