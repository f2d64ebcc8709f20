package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB         int    `mapstructure:"REDIS_QUEUE_DB"`
	AvailabilityCacheTTL int    `mapstructure:"AVAILABILITY_CACHE_TTL_SECONDS"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Civil timezone all workshop-local computations are expressed in.
	// Injected into the availability calculator, never hard-coded there.
	WorkshopTimezone string `mapstructure:"WORKSHOP_TIMEZONE"`

	// Candidate slots are generated at this stride within open hours.
	SlotStrideMinutes int `mapstructure:"SLOT_STRIDE_MINUTES"`

	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

// Location is the parsed WorkshopTimezone.
var Location *time.Location

func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "mechanio")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("WORKSHOP_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("SLOT_STRIDE_MINUTES", 30)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "firebase-service-account.json")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(AppConfig.WorkshopTimezone)
	if err != nil {
		log.Fatalf("Invalid WORKSHOP_TIMEZONE %q: %v", AppConfig.WorkshopTimezone, err)
	}
	Location = loc
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
