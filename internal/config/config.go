package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Database Database `envPrefix:"DATABASE_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Paystack Paystack `envPrefix:"PAYSTACK_"`
}

type Paystack struct {
	BaseApiURL  string        `env:"BASE_API_URL" envDefault:"https://api.paystack.co"`
	SecretKey   string        `env:"SECRET_KEY,required"`
	CallbackURL string        `env:"CALLBACK_URL,required"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type Database struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"` // sqlite | mysql
	URL             string        `env:"URL" envDefault:"storefront.db?_txlock=immediate&_busy_timeout=5000"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET,required"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

func (h HTTPServer) Address() string {
	return h.Host + ":" + h.Port
}

// Load reads an optional .env file into the process environment and parses
// the result into a Config. Values already set in the environment win.
func Load(envFiles ...string) (*Config, bool, error) {
	dotenvLoaded := godotenv.Load(envFiles...) == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, dotenvLoaded, fmt.Errorf("parse config: %w", err)
	}

	return cfg, dotenvLoaded, nil
}
