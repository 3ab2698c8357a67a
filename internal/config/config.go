package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Inventory InventoryConfig
	Mpesa     MpesaConfig
	Etims     EtimsConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type InventoryConfig struct {
	// AllowNegative keeps the observed oversell behavior: decrements may drive
	// quantity below zero and the underflow is logged, not corrected. When false,
	// the decrement is guarded and checkout fails on insufficient stock.
	AllowNegative bool
}

type MpesaConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
	Environment    string
	BaseURL        string // overrides the environment-derived URL when set
	Timeout        time.Duration
}

type EtimsConfig struct {
	Enabled             bool
	TaxPIN              string
	DeviceID            string
	APIURL              string
	CertificatePath     string
	CertificatePassword string
	QueuePath           string
	Timeout             time.Duration
	RetryInterval       time.Duration
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "cloudsales-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "cloudsales")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("INVENTORY_ALLOW_NEGATIVE", true)
	viper.SetDefault("MPESA_ENVIRONMENT", "sandbox")
	viper.SetDefault("MPESA_TIMEOUT_SECONDS", 30)
	viper.SetDefault("ETIMS_ENABLED", false)
	viper.SetDefault("ETIMS_CERTIFICATE_PATH", "instance/etims_certificate.p12")
	viper.SetDefault("ETIMS_QUEUE_PATH", "instance/etims_offline_queue.json")
	viper.SetDefault("ETIMS_TIMEOUT_SECONDS", 10)
	viper.SetDefault("ETIMS_RETRY_INTERVAL_MINUTES", 15)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Inventory: InventoryConfig{
			AllowNegative: viper.GetBool("INVENTORY_ALLOW_NEGATIVE"),
		},
		Mpesa: MpesaConfig{
			ConsumerKey:    viper.GetString("MPESA_CONSUMER_KEY"),
			ConsumerSecret: viper.GetString("MPESA_CONSUMER_SECRET"),
			Shortcode:      viper.GetString("MPESA_SHORTCODE"),
			Passkey:        viper.GetString("MPESA_PASSKEY"),
			CallbackURL:    viper.GetString("MPESA_CALLBACK_URL"),
			Environment:    viper.GetString("MPESA_ENVIRONMENT"),
			BaseURL:        viper.GetString("MPESA_BASE_URL"),
			Timeout:        time.Duration(viper.GetInt("MPESA_TIMEOUT_SECONDS")) * time.Second,
		},
		Etims: EtimsConfig{
			Enabled:             viper.GetBool("ETIMS_ENABLED"),
			TaxPIN:              viper.GetString("ETIMS_TAX_PIN"),
			DeviceID:            viper.GetString("ETIMS_DEVICE_ID"),
			APIURL:              viper.GetString("ETIMS_API_URL"),
			CertificatePath:     viper.GetString("ETIMS_CERTIFICATE_PATH"),
			CertificatePassword: viper.GetString("ETIMS_CERTIFICATE_PASSWORD"),
			QueuePath:           viper.GetString("ETIMS_QUEUE_PATH"),
			Timeout:             time.Duration(viper.GetInt("ETIMS_TIMEOUT_SECONDS")) * time.Second,
			RetryInterval:       time.Duration(viper.GetInt("ETIMS_RETRY_INTERVAL_MINUTES")) * time.Minute,
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
