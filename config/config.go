package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	ClientURL         string `mapstructure:"CLIENT_URL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Provider result cache.
	ProviderCacheBackend  string        `mapstructure:"PROVIDER_CACHE_BACKEND"`
	ProviderCacheCapacity int           `mapstructure:"PROVIDER_CACHE_CAPACITY"`
	ProviderCacheTTL      time.Duration `mapstructure:"PROVIDER_CACHE_TTL"`

	// Search provider.
	SerpAPIKey     string `mapstructure:"SERPAPI_ACCESS_TOKEN"`
	SerpAPIBaseURL string `mapstructure:"SERPAPI_BASE_URL"`

	// GDS provider.
	AmadeusClientID     string `mapstructure:"AMADEUS_CLIENT_ID"`
	AmadeusClientSecret string `mapstructure:"AMADEUS_CLIENT_SECRET"`
	AmadeusBaseURL      string `mapstructure:"AMADEUS_BASE_URL"`
	AmadeusTokenURL     string `mapstructure:"AMADEUS_TOKEN_URL"`

	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Operator contact sent with every flight order.
	OperatorFirstName   string `mapstructure:"OPERATOR_FIRST_NAME"`
	OperatorLastName    string `mapstructure:"OPERATOR_LAST_NAME"`
	OperatorCompany     string `mapstructure:"OPERATOR_COMPANY"`
	OperatorEmail       string `mapstructure:"OPERATOR_EMAIL"`
	OperatorPhoneCode   string `mapstructure:"OPERATOR_PHONE_CODE"`
	OperatorPhoneNumber string `mapstructure:"OPERATOR_PHONE_NUMBER"`
	OperatorAddress     string `mapstructure:"OPERATOR_ADDRESS"`
	OperatorPostalCode  string `mapstructure:"OPERATOR_POSTAL_CODE"`
	OperatorCity        string `mapstructure:"OPERATOR_CITY"`
	OperatorCountry     string `mapstructure:"OPERATOR_COUNTRY"`
	BookingRemark       string `mapstructure:"BOOKING_REMARK"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("CLIENT_URL", "http://localhost:3000")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "itinera")
	viper.SetDefault("PROVIDER_CACHE_BACKEND", "memory")
	viper.SetDefault("PROVIDER_CACHE_CAPACITY", 5000)
	viper.SetDefault("PROVIDER_CACHE_TTL", "6h")
	viper.SetDefault("SERPAPI_ACCESS_TOKEN", "")
	viper.SetDefault("SERPAPI_BASE_URL", "https://serpapi.com")
	viper.SetDefault("AMADEUS_CLIENT_ID", "")
	viper.SetDefault("AMADEUS_CLIENT_SECRET", "")
	viper.SetDefault("AMADEUS_BASE_URL", "https://test.api.amadeus.com")
	viper.SetDefault("AMADEUS_TOKEN_URL", "https://test.api.amadeus.com/v1/security/oauth2/token")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("OPERATOR_FIRST_NAME", "")
	viper.SetDefault("OPERATOR_LAST_NAME", "")
	viper.SetDefault("OPERATOR_COMPANY", "Itinera")
	viper.SetDefault("OPERATOR_EMAIL", "")
	viper.SetDefault("OPERATOR_PHONE_CODE", "")
	viper.SetDefault("OPERATOR_PHONE_NUMBER", "")
	viper.SetDefault("OPERATOR_ADDRESS", "")
	viper.SetDefault("OPERATOR_POSTAL_CODE", "")
	viper.SetDefault("OPERATOR_CITY", "")
	viper.SetDefault("OPERATOR_COUNTRY", "")
	viper.SetDefault("BOOKING_REMARK", "ONLINE BOOKING FROM ITINERA")

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
