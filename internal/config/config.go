package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AppEnv         string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	JWTExpireHours int
	FrontendURL    string

	// CallMeBot gateway used for WhatsApp reminders.
	GatewayBaseURL string

	// How often the reminder scan runs. Zero disables the scheduler.
	ReminderInterval time.Duration
	// Window (minutes) ahead of now in which a reminder counts as due.
	ReminderWindowMinutes int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		AppEnv:                getEnv("APP_ENV", "development"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:               getEnv("MONGO_DB", "mytrade"),
		JWTSecret:             getEnv("JWT_SECRET", "secret"),
		JWTExpireHours:        getEnvInt("JWT_EXPIRE_HOURS", 24),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:3000"),
		GatewayBaseURL:        getEnv("CALLMEBOT_BASE_URL", "https://api.callmebot.com"),
		ReminderInterval:      getEnvDuration("REMINDER_INTERVAL", 5*time.Minute),
		ReminderWindowMinutes: getEnvInt("REMINDER_WINDOW_MINUTES", 5),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid value for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}
