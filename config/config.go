package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Redis        Redis
	Auth         Auth
	Log          Log
	GeminiApiKey string
	GeminiModel  string
}

type Server struct {
	Port string
	Mode string // gin mode: debug, release, test
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Redis is optional. An empty Addr disables the exam summary cache.
type Redis struct {
	Addr     string
	Password string
	DB       int
	ExamTTL  time.Duration
}

type Auth struct {
	JWTSecret string
	Issuer    string
}

type Log struct {
	Level  string
	Format string // console or json
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_EXAM_TTL", "10m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.Mode = viper.GetString("GIN_MODE")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.ExamTTL = viper.GetDuration("REDIS_EXAM_TTL")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.Issuer = viper.GetString("JWT_ISSUER")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Format = viper.GetString("LOG_FORMAT")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.GeminiModel = viper.GetString("GEMINI_MODEL")

	if config.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set. Authenticated endpoints will reject every request.")
	}

	return &config, nil
}

// Redacted returns a copy with every secret masked, safe to log.
func (c Config) Redacted() Config {
	const mask = "******"
	if c.Database.Password != "" {
		c.Database.Password = mask
	}
	if c.Redis.Password != "" {
		c.Redis.Password = mask
	}
	if c.Auth.JWTSecret != "" {
		c.Auth.JWTSecret = mask
	}
	if c.GeminiApiKey != "" {
		c.GeminiApiKey = mask
	}
	return c
}
