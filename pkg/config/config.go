package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Payroll    PayrollConfig
	Allocation AllocationConfig
	Bank       BankConfig
	Exports    ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PayrollConfig tunes pay-run behaviour outside of the award rules themselves.
type PayrollConfig struct {
	PublicHolidays []string
	RateCacheTTL   time.Duration
}

// AllocationConfig controls the offer cascade and geo checks.
type AllocationConfig struct {
	OfferFanout      int
	OfferTTL         time.Duration
	MaxDistanceKm    float64
	GeoFenceRadiusKm float64
	SweepInterval    time.Duration
	DashboardTTL     time.Duration
}

// BankConfig carries the fixed ABA header/lodgement identity for bank files.
type BankConfig struct {
	InstitutionCode  string
	UserName         string
	UserID           string
	Description      string
	LodgementBSB     string
	LodgementAccount string
	RemitterName     string
}

// ExportsConfig controls where generated files land and how downloads are signed.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// Load reads configuration from .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Payroll = PayrollConfig{
		PublicHolidays: splitAndTrim(v.GetString("PAYROLL_PUBLIC_HOLIDAYS")),
		RateCacheTTL:   parseDuration(v.GetString("PAYROLL_RATE_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Allocation = AllocationConfig{
		OfferFanout:      v.GetInt("ALLOCATION_OFFER_FANOUT"),
		OfferTTL:         parseDuration(v.GetString("ALLOCATION_OFFER_TTL"), 2*time.Hour),
		MaxDistanceKm:    v.GetFloat64("ALLOCATION_MAX_DISTANCE_KM"),
		GeoFenceRadiusKm: v.GetFloat64("ALLOCATION_GEOFENCE_RADIUS_KM"),
		SweepInterval:    parseDuration(v.GetString("ALLOCATION_SWEEP_INTERVAL"), 5*time.Minute),
		DashboardTTL:     parseDuration(v.GetString("ALLOCATION_DASHBOARD_TTL"), time.Minute),
	}

	cfg.Bank = BankConfig{
		InstitutionCode:  v.GetString("BANK_INSTITUTION_CODE"),
		UserName:         v.GetString("BANK_USER_NAME"),
		UserID:           v.GetString("BANK_USER_ID"),
		Description:      v.GetString("BANK_DESCRIPTION"),
		LodgementBSB:     v.GetString("BANK_LODGEMENT_BSB"),
		LodgementAccount: v.GetString("BANK_LODGEMENT_ACCOUNT"),
		RemitterName:     v.GetString("BANK_REMITTER_NAME"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ndis_ops")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PAYROLL_PUBLIC_HOLIDAYS", "")
	v.SetDefault("PAYROLL_RATE_CACHE_TTL", "10m")

	v.SetDefault("ALLOCATION_OFFER_FANOUT", 5)
	v.SetDefault("ALLOCATION_OFFER_TTL", "2h")
	v.SetDefault("ALLOCATION_MAX_DISTANCE_KM", 30)
	v.SetDefault("ALLOCATION_GEOFENCE_RADIUS_KM", 0.5)
	v.SetDefault("ALLOCATION_SWEEP_INTERVAL", "5m")
	v.SetDefault("ALLOCATION_DASHBOARD_TTL", "1m")

	v.SetDefault("BANK_INSTITUTION_CODE", "CBA")
	v.SetDefault("BANK_USER_NAME", "CareOps Payroll")
	v.SetDefault("BANK_USER_ID", "123456")
	v.SetDefault("BANK_DESCRIPTION", "Payroll")
	v.SetDefault("BANK_LODGEMENT_BSB", "062-000")
	v.SetDefault("BANK_LODGEMENT_ACCOUNT", "87654321")
	v.SetDefault("BANK_REMITTER_NAME", "CareOps")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
