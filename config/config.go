package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	ProviderPostmark = "postmark"
	ProviderBrevo    = "brevo"
)

type Config struct {
	Database Database `json:"database"`
	Provider Provider `json:"provider"`
	Webhook  Webhook  `json:"webhook"`
	Seed     Seed     `json:"seed"`
	EventBus EventBus `json:"event_bus"`
	CORS     CORS     `json:"cors"`
}

type Database struct {
	Driver                 string `json:"driver" validate:"oneof=postgres mysql"`
	Username               string `json:"username"`
	Password               string `json:"password"`
	Host                   string `json:"host" validate:"required"`
	Port                   int    `json:"port" validate:"gt=0"`
	Database               string `json:"database" validate:"required"`
	SSLMode                string `json:"ssl_mode"`
	MaxOpenConns           int    `json:"max_open_conns" validate:"gte=0"`
	MaxIdleConns           int    `json:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeSeconds int    `json:"conn_max_lifetime_seconds" validate:"gte=0"`
	ConnectRetries         uint64 `json:"connect_retries"`
	AutoMigrate            bool   `json:"auto_migrate"`
}

type Provider struct {
	Name           string  `json:"name" validate:"oneof=postmark brevo"`
	APIKey         string  `json:"api_key"`
	FromEmail      string  `json:"from_email"`
	MessageStream  string  `json:"message_stream"`
	BaseURL        string  `json:"base_url"`
	TimeoutSeconds int     `json:"timeout_seconds" validate:"gt=0"`
	RateLimit      float64 `json:"rate_limit" validate:"gte=0"`
	Burst          int     `json:"burst" validate:"gte=0"`
}

type Webhook struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash" validate:"required_with=Username"`
}

type Seed struct {
	Enabled    bool  `json:"enabled"`
	Recipients int   `json:"recipients" validate:"gt=0"`
	Emails     int   `json:"emails" validate:"gte=0"`
	Days       int   `json:"days" validate:"gt=0"`
	BatchSize  int   `json:"batch_size" validate:"gt=0"`
	RandSeed   int64 `json:"rand_seed"`
}

type EventBus struct {
	Brokers []string          `json:"brokers"`
	Topics  map[uint32]string `json:"topics"`
}

type CORS struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

func (db *Database) ToDSN() string {
	switch db.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
			db.Username, db.Password, db.Host, db.Port, db.Database)
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			db.Host, db.Port, db.Username, db.Password, db.Database, db.GetSSLMode())
	}
}

// ToURL returns the database url understood by golang-migrate.
func (db *Database) ToURL() string {
	switch db.Driver {
	case DriverMySQL:
		return fmt.Sprintf("mysql://%s:%s@tcp(%s:%d)/%s?multiStatements=true&parseTime=true",
			db.Username, db.Password, db.Host, db.Port, db.Database)
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(db.Username, db.Password),
			Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
			Path:     db.Database,
			RawQuery: "sslmode=" + db.GetSSLMode(),
		}
		return u.String()
	}
}

func (db *Database) GetSSLMode() string {
	if db.SSLMode == "" {
		return "disable"
	}
	return db.SSLMode
}

func NewConfig() *Config {
	return &Config{
		Database: Database{
			Driver:                 DriverPostgres,
			Username:               "wave",
			Password:               "",
			Host:                   "127.0.0.1",
			Port:                   5432,
			Database:               "email_service",
			SSLMode:                "disable",
			MaxOpenConns:           20,
			MaxIdleConns:           10,
			ConnMaxLifetimeSeconds: 3600,
			ConnectRetries:         5,
			AutoMigrate:            true,
		},
		Provider: Provider{
			Name:           ProviderPostmark,
			MessageStream:  "outbound",
			TimeoutSeconds: 10,
			RateLimit:      0,
			Burst:          1,
		},
		Seed: Seed{
			Enabled:    true,
			Recipients: 1000,
			Emails:     10_000,
			Days:       90,
			BatchSize:  100,
		},
		CORS: CORS{
			AllowedOrigins: []string{"*"},
		},
	}
}

func (c *Config) Load(ctx context.Context, path string) error {
	if path == "" {
		log.Ctx(ctx).Warn().Msgf("empty config file")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Ctx(ctx).Warn().Msgf("config file does not exist, file path: %s", path)
			return nil
		}
		return err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			log.Ctx(ctx).Error().Msgf("config file close failed, file path: %s", path)
		}
	}(f)

	p := json.NewDecoder(f)
	if err := p.Decode(&c); err != nil {
		return err
	}

	return nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validate.Struct(c)
}
