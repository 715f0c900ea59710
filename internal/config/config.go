package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/princekumarofficial/courses-service/internal/services/video"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	PGSQL      PQSQL      `yaml:"pgsql"`
	Redis      Redis      `yaml:"redis"`
	HTTPServer HTTPServer `yaml:"http_server"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	Bunny      Bunny      `yaml:"bunny"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	Seed       bool       `yaml:"seed" env:"SEED_COURSES" env-default:"false"`
}

type HTTPServer struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
}

type PQSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"courses_db"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Bunny holds the Bunny Stream credentials used to sign playback URLs.
// The video signer validates them at startup.
type Bunny struct {
	LibraryID          string `yaml:"library_id" env:"BUNNY_LIBRARY_ID"`
	SigningKey         string `yaml:"signing_key" env:"BUNNY_SIGNING_KEY"`
	DeliveryEndpoint   string `yaml:"delivery_endpoint" env:"BUNNY_DELIVERY_ENDPOINT" env-default:"https://iframe.mediadelivery.net/embed"`
	URLLifetimeSeconds int    `yaml:"url_lifetime_seconds" env:"BUNNY_URL_LIFETIME_SECONDS" env-default:"120"`
}

type RateLimit struct {
	VideoURLPerMinute int64 `yaml:"video_url_per_minute" env:"RATE_LIMIT_VIDEO_URL" env-default:"30"`
}

// Video returns the signer configuration for the Bunny section.
func (b Bunny) Video() video.Config {
	return video.Config{
		LibraryID:        b.LibraryID,
		SigningKey:       b.SigningKey,
		DeliveryEndpoint: b.DeliveryEndpoint,
	}
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return cfg
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
