package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	// Turso (remote sqlite); local file is used when unset
	TursoDatabaseURL string
	TursoAuthToken   string
	// Firebase auth
	FirebaseServiceAccount string // JSON credentials, as provided by the console
	// n8n chat automation
	N8nWebhookURL string
	// Evolution API (WhatsApp gateway)
	EvolutionAPIURL string
	EvolutionAPIKey string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Scheduling
	FallbackTimezone   string // used when an owner's timezone is missing or invalid
	DisplayTimezone    string // all returned slots are converted to this zone
	DefaultSlotMinutes int    // slot width when neither service nor owner supplies one
	// Other
	AllowedOrigins []string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		DBPath:                 getEnv("DB_PATH", "db/app.db"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		TursoDatabaseURL:       getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:         getEnv("TURSO_AUTH_TOKEN", ""),
		FirebaseServiceAccount: getEnv("FIREBASE_SERVICE_ACCOUNT", ""),
		N8nWebhookURL:          getEnv("N8N_WEBHOOK_URL", ""),
		EvolutionAPIURL:        getEnv("EVOLUTION_API_URL", ""),
		EvolutionAPIKey:        getEnv("EVOLUTION_API_KEY", ""),
		ResendAPIKey:           getEnv("RESEND_API_KEY", ""),
		EmailFrom:              getEnv("EMAIL_FROM", "noreply@bothub.app"),
		EmailFromName:          getEnv("EMAIL_FROM_NAME", "Bot Hub"),
		EmailTestMode:          getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		FallbackTimezone:       getEnv("FALLBACK_TIMEZONE", "UTC"),
		DisplayTimezone:        getEnv("DISPLAY_TIMEZONE", "America/Sao_Paulo"),
		DefaultSlotMinutes:     getEnvInt("DEFAULT_SLOT_MINUTES", 30),
		AllowedOrigins:         strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Default returns a config with built-in defaults, independent of the
// environment. Used as a fallback when no config was injected into a request.
func Default() *Config {
	return &Config{
		ServerPort:         "8080",
		DBPath:             "db/app.db",
		Environment:        "development",
		EmailFrom:          "noreply@bothub.app",
		EmailFromName:      "Bot Hub",
		EmailTestMode:      true,
		FallbackTimezone:   "UTC",
		DisplayTimezone:    "America/Sao_Paulo",
		DefaultSlotMinutes: 30,
		AllowedOrigins:     []string{"*"},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
