package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	// Database: DATABASE_URL wins over the individual DB_* settings.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	RedisURL string

	JWTSecret   string
	TokenTTL    time.Duration
	AdminAPIKey string

	TaxRate     decimal.Decimal // percent
	DeliveryFee decimal.Decimal

	LatencyMin time.Duration
	LatencyMax time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	BackupDir       string
	BackupHour      int
	BackupRetention time.Duration

	SeedDemoData bool
	CORSOrigins  []string

	Log LogConfig
}

type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// devJWTSecret is only accepted with APP_ENV=development.
const devJWTSecret = "dev-secret-change-me"

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("TAX_RATE", "0")
	v.SetDefault("DELIVERY_FEE", "50")
	v.SetDefault("MOCK_LATENCY_MIN_MS", 0)
	v.SetDefault("MOCK_LATENCY_MAX_MS", 0)
	v.SetDefault("KAFKA_TOPIC", "order-events")
	v.SetDefault("BACKUP_DIR", "backups")
	v.SetDefault("BACKUP_HOUR", 2)
	v.SetDefault("BACKUP_RETENTION", "96h")
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("LOG_FILE", "logs/app.log")
	v.SetDefault("LOG_MAX_SIZE", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 10)
	v.SetDefault("LOG_MAX_AGE", 30)
	v.SetDefault("LOG_COMPRESS", true)
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment")
	}
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	taxRate, err := decimal.NewFromString(v.GetString("TAX_RATE"))
	if err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("TAX_RATE must not be negative")
	}
	fee, err := decimal.NewFromString(v.GetString("DELIVERY_FEE"))
	if err != nil {
		return nil, fmt.Errorf("DELIVERY_FEE: %w", err)
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("DELIVERY_FEE must not be negative")
	}

	latMin := time.Duration(v.GetInt("MOCK_LATENCY_MIN_MS")) * time.Millisecond
	latMax := time.Duration(v.GetInt("MOCK_LATENCY_MAX_MS")) * time.Millisecond
	if latMax < latMin {
		latMax = latMin
	}

	hour := v.GetInt("BACKUP_HOUR")
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("BACKUP_HOUR must be between 0 and 23, got %d", hour)
	}

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		if !strings.EqualFold(v.GetString("APP_ENV"), "development") {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		slog.Warn("JWT_SECRET not set, using the development secret")
		secret = devJWTSecret
	}

	cfg := &Config{
		Port:            v.GetString("PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		RedisURL:        v.GetString("REDIS_URL"),
		JWTSecret:       secret,
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		AdminAPIKey:     v.GetString("ADMIN_API_KEY"),
		TaxRate:         taxRate,
		DeliveryFee:     fee,
		LatencyMin:      latMin,
		LatencyMax:      latMax,
		KafkaBrokers:    splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:      v.GetString("KAFKA_TOPIC"),
		BackupDir:       v.GetString("BACKUP_DIR"),
		BackupHour:      hour,
		BackupRetention: v.GetDuration("BACKUP_RETENTION"),
		SeedDemoData:    v.GetBool("SEED_DEMO_DATA"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			Output:     v.GetString("LOG_OUTPUT"),
			FilePath:   v.GetString("LOG_FILE"),
			MaxSize:    v.GetInt("LOG_MAX_SIZE"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAge:     v.GetInt("LOG_MAX_AGE"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}
	return cfg, nil
}

// DSN builds the postgres connection string from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
