package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	Database                  DatabaseConfig
	Clinic                    ClinicConfig
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	StoreTimeoutSeconds       int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// ClinicConfig holds the published clinic hours and slot granularity. The
// allowed time slots are derived from these values rather than hard-coded,
// since clinics publish different hours.
type ClinicConfig struct {
	OpenHour    int
	CloseHour   int
	SlotMinutes int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	openHour, err := getEnvInt("CLINIC_OPEN_HOUR", 8)
	if err != nil {
		return nil, err
	}
	closeHour, err := getEnvInt("CLINIC_CLOSE_HOUR", 18)
	if err != nil {
		return nil, err
	}
	slotMinutes, err := getEnvInt("CLINIC_SLOT_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	if closeHour <= openHour {
		return nil, fmt.Errorf("CLINIC_CLOSE_HOUR (%d) must be after CLINIC_OPEN_HOUR (%d)", closeHour, openHour)
	}
	if slotMinutes <= 0 || slotMinutes > 60 {
		return nil, fmt.Errorf("CLINIC_SLOT_MINUTES must be between 1 and 60, got %d", slotMinutes)
	}

	jwtExpMinutes, err := getEnvInt("JWT_EXPIRATION_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	jwtRefreshExpHours, err := getEnvInt("JWT_REFRESH_EXPIRATION_HOURS", 168) // 7 days
	if err != nil {
		return nil, err
	}
	storeTimeout, err := getEnvInt("STORE_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	// Return complete configuration
	return &Config{
		Port:             getEnv("PORT", "3001"),
		Origin:           getEnv("ORIGIN", "http://localhost:4200"),
		Environment:      getEnv("APP_ENV", "development"),
		JWTSecret:        getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:         dbConfig,
		Clinic: ClinicConfig{
			OpenHour:    openHour,
			CloseHour:   closeHour,
			SlotMinutes: slotMinutes,
		},
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		StoreTimeoutSeconds:       storeTimeout,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
