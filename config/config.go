package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Session SessionConfig `mapstructure:"session"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Blog    BlogConfig    `mapstructure:"blog"`
	Upload  UploadConfig  `mapstructure:"upload"`
}

// SessionConfig controls the signed session cookie. TTL is explicit:
// tokens carry an exp claim derived from it, so session lifetime is
// configuration, not an accident of signature validity.
type SessionConfig struct {
	SecretKey  string        `mapstructure:"secretKey"`
	Issuer     string        `mapstructure:"issuer"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookieName"`
	Secure     bool          `mapstructure:"secure"`
}

type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	From         string `mapstructure:"from"`
	ContactEmail string `mapstructure:"contactEmail"`
	OwnerName    string `mapstructure:"ownerName"`
}

// AdminConfig bootstraps the initial admin user at startup when the
// users table is empty. Replaces the out-of-band seed script.
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// BlogConfig carries the public page size and the slug policy:
// "recompute" re-derives the slug whenever the title changes (legacy
// behavior, the public URL moves with the title), "stable" keeps the
// slug assigned at creation.
type BlogConfig struct {
	PublicPageSize int    `mapstructure:"publicPageSize"`
	SlugPolicy     string `mapstructure:"slugPolicy"`
}

type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"baseURL"`
}

const (
	SlugPolicyRecompute = "recompute"
	SlugPolicyStable    = "stable"
)

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment, never from the YAML file.
	v.SetEnvPrefix("PORTFOLIO")
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"repositories.postgres.password": "PORTFOLIO_DB_PASSWORD",
		"session.secretKey":              "PORTFOLIO_SESSION_SECRET",
		"smtp.password":                  "PORTFOLIO_SMTP_PASSWORD",
		"admin.password":                 "PORTFOLIO_ADMIN_PASSWORD",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env var %s: %w", env, err)
		}
	}

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if config.Blog.SlugPolicy == "" {
		config.Blog.SlugPolicy = SlugPolicyRecompute
	}
	if config.Blog.SlugPolicy != SlugPolicyRecompute && config.Blog.SlugPolicy != SlugPolicyStable {
		return Config{}, fmt.Errorf("invalid blog.slugPolicy %q", config.Blog.SlugPolicy)
	}
	if config.Blog.PublicPageSize <= 0 {
		config.Blog.PublicPageSize = 9
	}
	if config.Session.CookieName == "" {
		config.Session.CookieName = "portfolio_session"
	}
	return config, nil
}
