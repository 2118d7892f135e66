package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Email      EmailConfig      `mapstructure:"email"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Admissions AdmissionsConfig `mapstructure:"admissions"`
	Security   SecurityConfig   `mapstructure:"security"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EmailConfig holds transactional email configuration
type EmailConfig struct {
	Provider  string `mapstructure:"provider"` // "sendgrid" or "console"
	APIKey    string `mapstructure:"api_key"`
	FromName  string `mapstructure:"from_name"`
	FromEmail string `mapstructure:"from_email"`
	PortalURL string `mapstructure:"portal_url"`
}

// StorageConfig holds completed-form storage configuration
type StorageConfig struct {
	BaseDir          string        `mapstructure:"base_dir"`
	SigningSecret    string        `mapstructure:"signing_secret"`
	SignedURLTTL     time.Duration `mapstructure:"signed_url_ttl"`
	DownloadBasePath string        `mapstructure:"download_base_path"`
}

// AdmissionsConfig holds admissions-cycle configuration
type AdmissionsConfig struct {
	FormLinks map[string]string `mapstructure:"form_links"` // track -> application form PDF URL
}

// SecurityConfig holds the admin capability tokens
type SecurityConfig struct {
	AdminTokens []AdminToken `mapstructure:"admin_tokens"`
}

// AdminToken is a shared-secret capability granting access to the admin API.
// The token identifies its holder only by label; this is not a full
// authentication scheme.
type AdminToken struct {
	ID    string `mapstructure:"id"`
	Token string `mapstructure:"token"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   string   `mapstructure:"allowed_methods"`
	AllowedHeaders   string   `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("ADMISSIONS")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("email.provider", "console")
	v.SetDefault("storage.base_dir", "./data/forms")
	v.SetDefault("storage.signed_url_ttl", 10*time.Minute)
	v.SetDefault("storage.download_base_path", "/api/v1/forms")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.Hostname == "" {
		return fmt.Errorf("database hostname is required")
	}

	if config.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Email.Provider == "sendgrid" && config.Email.APIKey == "" {
		return fmt.Errorf("email API key is required when provider is sendgrid")
	}

	if config.Email.FromEmail == "" {
		return fmt.Errorf("email from address is required")
	}

	if config.Storage.SigningSecret == "" {
		return fmt.Errorf("storage signing secret is required")
	}

	if len(config.Security.AdminTokens) == 0 {
		return fmt.Errorf("at least one admin token is required")
	}
	for i, t := range config.Security.AdminTokens {
		if t.ID == "" || t.Token == "" {
			return fmt.Errorf("admin token %d is missing id or token", i)
		}
	}

	return nil
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}

// ResolveAdminToken returns the label of the admin holding the given token,
// or false when the token is not recognized.
func (s *SecurityConfig) ResolveAdminToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	for _, t := range s.AdminTokens {
		if t.Token == token {
			return t.ID, true
		}
	}
	return "", false
}

// FormLink returns the application form download link for a track.
func (a *AdmissionsConfig) FormLink(track string) string {
	return a.FormLinks[track]
}
