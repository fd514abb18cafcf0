package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Log      LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	AllowedOrigins []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string // used when Driver is sqlite
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// JWTConfig holds token settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig lists the accounts allowed to log in. The shop runs with a
// handful of fixed operators, so accounts live in configuration rather
// than a user table.
type AuthConfig struct {
	TenantID string
	Users    []UserConfig
}

// UserConfig is a single configured operator account.
type UserConfig struct {
	Username     string
	PasswordHash string // bcrypt
	Role         string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load reads configuration from config files and environment variables.
// Environment variables use the SEALSHOP_ prefix, e.g. SEALSHOP_DATABASE_HOST.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/sealshop")

	v.SetEnvPrefix("SEALSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// config file is optional; env and defaults carry a bare deployment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sealshop-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("http.readtimeout", 15*time.Second)
	v.SetDefault("http.writetimeout", 15*time.Second)
	v.SetDefault("http.idletimeout", 60*time.Second)
	v.SetDefault("http.maxheaderbytes", 1<<20)
	v.SetDefault("http.allowedorigins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "sealshop")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "sealshop")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlitepath", "sealshop.db")
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", 12*time.Hour)
	v.SetDefault("jwt.issuer", "sealshop")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// IsProduction reports whether the app runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}
