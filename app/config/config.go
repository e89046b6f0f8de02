package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env             string
	Port            string
	Store           string
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
	RedisAddr       string
	CacheTTL        time.Duration
	CA1Max          float64
	CA2Max          float64
	ExamMax         float64
	Timezone        string
	CORSOrigins     string
	AdminEmail      string
	AdminPassword   string
}

// IsDev reports whether the application runs in local development mode.
func (c *Config) IsDev() bool {
	return c.Env == "DEV"
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "DEV")
	v.SetDefault("port", "8080")
	v.SetDefault("store", StorePostgres)
	v.SetDefault("database_url", "postgres://postgres@localhost:5432/school?sslmode=disable")
	v.SetDefault("jwt_secret", "school-dashboard-dev-secret")
	v.SetDefault("access_token_ttl", 15*time.Minute)
	v.SetDefault("refresh_token_ttl", 7*24*time.Hour)
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("ca1_max", 20.0)
	v.SetDefault("ca2_max", 20.0)
	v.SetDefault("exam_max", 60.0)
	v.SetDefault("timezone", "Africa/Lagos")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("admin_email", "")
	v.SetDefault("admin_password", "")
}

// Load reads configuration from defaults, an optional .env file in dir and
// SCHOOL_* environment variables, in increasing order of precedence.
func Load(dir string) (*Config, error) {
	dotEnvPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.SetEnvPrefix("SCHOOL")
	v.AutomaticEnv()

	conf := &Config{
		Env:             strings.ToUpper(v.GetString("env")),
		Port:            v.GetString("port"),
		Store:           strings.ToLower(v.GetString("store")),
		DatabaseURL:     v.GetString("database_url"),
		JWTSecret:       v.GetString("jwt_secret"),
		AccessTokenTTL:  v.GetDuration("access_token_ttl"),
		RefreshTokenTTL: v.GetDuration("refresh_token_ttl"),
		BcryptCost:      v.GetInt("bcrypt_cost"),
		RedisAddr:       v.GetString("redis_addr"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		CA1Max:          v.GetFloat64("ca1_max"),
		CA2Max:          v.GetFloat64("ca2_max"),
		ExamMax:         v.GetFloat64("exam_max"),
		Timezone:        v.GetString("timezone"),
		CORSOrigins:     v.GetString("cors_origins"),
		AdminEmail:      v.GetString("admin_email"),
		AdminPassword:   v.GetString("admin_password"),
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return errors.Errorf("config: unknown store %q", c.Store)
	}
	if c.JWTSecret == "" {
		return errors.New("config: jwt_secret must not be empty")
	}
	if c.CA1Max <= 0 || c.CA2Max <= 0 || c.ExamMax <= 0 {
		return errors.New("config: score maxima must be positive")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	return nil
}
