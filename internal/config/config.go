package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type UploadBackend string

const (
	UploadBackendLocal UploadBackend = "local"
	UploadBackendS3    UploadBackend = "s3"
)

// Config holds the configuration for the club site.
type Config struct {
	// Listen is the address the HTTP server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the public base URL, used to build links in e-mails.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SecretKey signs session cookies and e-mail tokens.
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	// SessionMaxAge is the maximum age of a regular session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// RememberMaxAge is the session lifetime in seconds when "remember me" is ticked on login.
	RememberMaxAge int `yaml:"remember_max_age" mapstructure:"remember_max_age"`
	// PostsPerPage controls pagination of the news feed and past tournaments.
	PostsPerPage int `yaml:"posts_per_page" mapstructure:"posts_per_page"`
	// AdminEmail is the account promoted by the init-admin command.
	AdminEmail string `yaml:"admin_email" mapstructure:"admin_email"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Email holds the outgoing mail configuration.
	Email *EmailConfig `yaml:"email" mapstructure:"email"`
	// Cache holds the cache configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Uploads holds the image storage configuration.
	Uploads *UploadsConfig `yaml:"uploads" mapstructure:"uploads"`
	// Gravatar holds the configuration for Gravatar profile pictures.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver DatabaseDriver `yaml:"driver" mapstructure:"driver"`
	// Path is the path to the sqlite database file.
	Path string `yaml:"path" mapstructure:"path"`
	// DSN is the postgres connection string.
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// EmailConfig holds the SMTP configuration.
type EmailConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled"`
	SMTPHost           string `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort           int    `yaml:"smtp_port" mapstructure:"smtp_port"`
	Username           string `yaml:"username" mapstructure:"username"`
	Password           string `yaml:"password" mapstructure:"password"`
	FromEmail          string `yaml:"from_email" mapstructure:"from_email"`
	FromName           string `yaml:"from_name" mapstructure:"from_name"`
	UseTLS             bool   `yaml:"use_tls" mapstructure:"use_tls"`
	UseSSL             bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
	// Recipient receives the messages sent through the contact form.
	Recipient string `yaml:"recipient" mapstructure:"recipient"`
}

// CacheConfig holds the cache configuration.
type CacheConfig struct {
	// Type is the cache backend, "memory" or "redis".
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the redis server.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// UploadsConfig holds the configuration for uploaded images.
type UploadsConfig struct {
	Backend UploadBackend `yaml:"backend" mapstructure:"backend"`
	// Dir is the local directory for the "local" backend. It is served under /uploads.
	Dir string    `yaml:"dir" mapstructure:"dir"`
	S3  *S3Config `yaml:"s3" mapstructure:"s3"`
}

// S3Config holds the S3 compatible bucket configuration.
type S3Config struct {
	Bucket          string `yaml:"bucket" mapstructure:"bucket"`
	Region          string `yaml:"region" mapstructure:"region"`
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	// PublicURL is the base URL objects are reachable at.
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar profile pictures are enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image type (404, mp, identicon, monsterid, wavatar, retro, robohash, blank).
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating (g, pg, r, x).
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, the default search paths are used. A missing config file is not an error.
func Load(path string) (*Config, error) {
	// .env files are optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("IPBA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.ipba")
		v.AddConfigPath("/etc/ipba")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:5000")
	v.SetDefault("server_url", "http://localhost:5000")
	v.SetDefault("secret_key", "")
	v.SetDefault("session_max_age", 86400)
	v.SetDefault("remember_max_age", 30*86400)
	v.SetDefault("posts_per_page", 9)
	v.SetDefault("admin_email", "")

	v.SetDefault("database.driver", DatabaseDriverSQLite)
	v.SetDefault("database.path", "./data/ipba.db")
	v.SetDefault("database.dsn", "")

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "smtp.gmail.com")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_email", "")
	v.SetDefault("email.from_name", "IPBA")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("email.insecure_skip_verify", false)
	v.SetDefault("email.recipient", "")

	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")

	v.SetDefault("uploads.backend", UploadBackendLocal)
	v.SetDefault("uploads.dir", "./data/uploads")
	v.SetDefault("uploads.s3.bucket", "")
	v.SetDefault("uploads.s3.region", "auto")
	v.SetDefault("uploads.s3.endpoint", "")
	v.SetDefault("uploads.s3.access_key_id", "")
	v.SetDefault("uploads.s3.secret_access_key", "")
	v.SetDefault("uploads.s3.public_url", "")

	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 80)
}

func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing config")
	}

	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}

	if c.PostsPerPage <= 0 {
		return fmt.Errorf("posts per page must be greater than 0")
	}

	if c.Database == nil {
		return fmt.Errorf("missing database config")
	}
	switch c.Database.Driver {
	case DatabaseDriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case DatabaseDriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Email != nil && c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required when email is enabled")
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("from email is required when email is enabled")
		}
	}

	if c.Cache == nil {
		c.Cache = &CacheConfig{Type: CacheTypeMemory}
	}
	switch c.Cache.Type {
	case CacheTypeMemory:
	case CacheTypeRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	default:
		return fmt.Errorf("unknown cache type %q", c.Cache.Type)
	}

	if c.Uploads == nil {
		c.Uploads = &UploadsConfig{Backend: UploadBackendLocal, Dir: "./data/uploads"}
	}
	switch c.Uploads.Backend {
	case UploadBackendLocal:
		if c.Uploads.Dir == "" {
			return fmt.Errorf("uploads dir is required for the local backend")
		}
	case UploadBackendS3:
		if c.Uploads.S3 == nil || c.Uploads.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 upload backend")
		}
	default:
		return fmt.Errorf("unknown uploads backend %q", c.Uploads.Backend)
	}

	if c.Gravatar != nil && c.Gravatar.Enabled {
		if c.Gravatar.Size < 1 || c.Gravatar.Size > 2048 {
			return fmt.Errorf("gravatar size must be between 1 and 2048")
		}
		switch c.Gravatar.Rating {
		case "g", "pg", "r", "x":
		default:
			return fmt.Errorf("invalid gravatar rating %q", c.Gravatar.Rating)
		}
	}

	return nil
}

func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)
	c.ServerURL = urlSanitize(c.ServerURL)

	if c.Uploads != nil && c.Uploads.S3 != nil {
		c.Uploads.S3.Endpoint = urlSanitize(c.Uploads.S3.Endpoint)
		c.Uploads.S3.PublicURL = urlSanitize(c.Uploads.S3.PublicURL)
	}
	if c.Email != nil {
		c.Email.Recipient = strings.TrimSpace(c.Email.Recipient)
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}

// SecureCookies reports whether the site is served over https, in which case cookies get the Secure flag.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.ServerURL, "https://")
}
