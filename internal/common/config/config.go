// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Email       EmailConfig       `mapstructure:"email"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Document    DocumentConfig    `mapstructure:"document"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // milliseconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig holds settings for the object-storage upload adapter.
type StorageConfig struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// EmailConfig holds settings for the email dispatch adapter.
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Region       string `mapstructure:"region"`
	FromEmail    string `mapstructure:"from_email"`
	Subject      string `mapstructure:"subject"`
	Text         string `mapstructure:"text"`
	HTML         string `mapstructure:"html"`
	PDFFilename  string `mapstructure:"pdf_filename"`
}

// PersistenceConfig holds settings for the draft snapshot store.
type PersistenceConfig struct {
	Key        string `mapstructure:"key"`
	DebounceMs int    `mapstructure:"debounce_ms"`
	TTLHours   int    `mapstructure:"ttl_hours"` // 0 means no expiry
}

// DocumentConfig holds settings for the assembly pipeline.
type DocumentConfig struct {
	Scale          int     `mapstructure:"scale"`           // raster upscaling factor
	Quality        int     `mapstructure:"quality"`         // JPEG quality 1-100
	MarginPt       float64 `mapstructure:"margin_pt"`       // A4 margin, points
	ContentWidthPx int     `mapstructure:"content_width_px"`
	PaddingPx      int     `mapstructure:"padding_px"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
