package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr              string `mapstructure:"REDIS_ADDR"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB           int    `mapstructure:"REDIS_CACHE_DB"`
	RedisRealtimeDB        int    `mapstructure:"REDIS_REALTIME_DB"`
	RedisAutomationQueueDB int    `mapstructure:"REDIS_AUTOMATION_QUEUE_DB"`

	// Firebase service account used for FCM pushes.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Counseling session parameters.
	SessionDurationMin          int `mapstructure:"SESSION_DURATION_MIN"`
	PreSessionNoticeMin         int `mapstructure:"PRE_SESSION_NOTICE_MIN"`
	DefaultMaxConcurrentSess    int `mapstructure:"DEFAULT_MAX_CONCURRENT_SESSIONS"`
	ReconcileIntervalMin        int `mapstructure:"RECONCILE_INTERVAL_MIN"`
	AutomationWorkerConcurrency int `mapstructure:"AUTOMATION_WORKER_CONCURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_REALTIME_DB", 1)
	viper.SetDefault("REDIS_AUTOMATION_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("SESSION_DURATION_MIN", 60)
	viper.SetDefault("PRE_SESSION_NOTICE_MIN", 10)
	viper.SetDefault("DEFAULT_MAX_CONCURRENT_SESSIONS", 2)
	viper.SetDefault("RECONCILE_INTERVAL_MIN", 1)
	viper.SetDefault("AUTOMATION_WORKER_CONCURRENCY", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
