package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	RapidStorAPIURL     string // base URL of the storage-unit inventory API
	RapidStorAPIKey     string
	RapidStorLocationID string // default location when a request names none
	RemoteTimeout       time.Duration
	RedisURL            string
	AuditDatabaseURL    string // optional Postgres DSN; sqlite file fallback when empty
	AuditDatabasePath   string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	timeoutSec := viper.GetInt("RAPIDSTOR_TIMEOUT_SECONDS")
	if timeoutSec <= 0 {
		timeoutSec = 15
	}

	auditPath := viper.GetString("AUDIT_DATABASE_PATH")
	if auditPath == "" {
		auditPath = "rapidstor-audit.db"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		RapidStorAPIURL:     viper.GetString("RAPIDSTOR_API_URL"),
		RapidStorAPIKey:     viper.GetString("RAPIDSTOR_API_KEY"),
		RapidStorLocationID: viper.GetString("RAPIDSTOR_LOCATION_ID"),
		RemoteTimeout:       time.Duration(timeoutSec) * time.Second,
		RedisURL:            viper.GetString("REDIS_URL"),
		AuditDatabaseURL:    viper.GetString("AUDIT_DATABASE_URL"),
		AuditDatabasePath:   auditPath,
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}
