package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string        `env:"PORT" envDefault:"8080"`
	GinMode   string        `env:"GIN_MODE" envDefault:"release"`
	MongoURI  string        `env:"MONGO_URI,required,notEmpty"`
	DBName    string        `env:"DB_NAME,required,notEmpty"`
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	CartTTL   time.Duration `env:"CART_TTL" envDefault:"12h"`
}

// LoadEnv reads a .env file if one exists. Variables already set in the
// environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

func Load() (Config, error) {
	LoadEnv()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
