package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Security SecurityConfig
	SMS      SMSConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

// SecurityConfig holds the verification-code and abuse-throttling knobs.
type SecurityConfig struct {
	CodeTTLMinutes       int // verification code lifetime
	BlockMinutes         int // how long a blocked ip/number stays blocked
	FailureWindowMinutes int // trailing window for the failure trigger
	FailureThreshold     int // failures inside the window that cause a block
	CodeRetryCap         int // max redraws on a code collision
}

type SMSConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("CODE_TTL_MINUTES", 60)
	viper.SetDefault("BLOCK_MINUTES", 60)
	viper.SetDefault("FAILURE_WINDOW_MINUTES", 5)
	viper.SetDefault("FAILURE_THRESHOLD", 3)
	viper.SetDefault("CODE_RETRY_CAP", 20)
	viper.SetDefault("SMS_BASE_URL", "https://api.mobizon.kz")
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Security: SecurityConfig{
			CodeTTLMinutes:       viper.GetInt("CODE_TTL_MINUTES"),
			BlockMinutes:         viper.GetInt("BLOCK_MINUTES"),
			FailureWindowMinutes: viper.GetInt("FAILURE_WINDOW_MINUTES"),
			FailureThreshold:     viper.GetInt("FAILURE_THRESHOLD"),
			CodeRetryCap:         viper.GetInt("CODE_RETRY_CAP"),
		},
		SMS: SMSConfig{
			BaseURL: viper.GetString("SMS_BASE_URL"),
			APIKey:  viper.GetString("SMS_API_KEY"),
			From:    viper.GetString("SMS_FROM"),
		},
	}

	return config, nil
}
