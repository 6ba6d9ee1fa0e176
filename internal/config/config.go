package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string        `mapstructure:"SERVER_PORT"`
	PostgresURL    string        `mapstructure:"POSTGRES_URL"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	DraftTTL       time.Duration `mapstructure:"DRAFT_TTL"`
	BodyLimitBytes int           `mapstructure:"BODY_LIMIT_BYTES"`
	StaticDir      string        `mapstructure:"STATIC_DIR"`
	CORSOrigins    string        `mapstructure:"CORS_ORIGINS"`
}

var envFiles = []string{".env"}

func Load() Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("no .env file found, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":3000")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("DRAFT_TTL", "24h")
	v.SetDefault("BODY_LIMIT_BYTES", 5*1024*1024)
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ORIGINS", "*")

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}
