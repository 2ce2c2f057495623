package config

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// env lists the variables that override the JSON config. Unset values leave the config untouched.
type env struct {
	DBDriver      string   `envconfig:"DB_DRIVER"`
	DBUser        string   `envconfig:"DB_USER"`
	DBPassword    string   `envconfig:"DB_PASSWORD"`
	DBHost        string   `envconfig:"DB_HOST"`
	DBPort        int      `envconfig:"DB_PORT"`
	DBName        string   `envconfig:"DB_NAME"`
	DBSSLMode     string   `envconfig:"DB_SSLMODE"`
	EmailProvider string   `envconfig:"EMAIL_PROVIDER"`
	PostmarkKey   string   `envconfig:"POSTMARK_API_KEY"`
	BrevoKey      string   `envconfig:"BREVO_API_KEY"`
	FromEmail     string   `envconfig:"FROM_EMAIL"`
	SeedOnStart   *bool    `envconfig:"SEED_ON_START"`
	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS"`
}

// LoadDotEnv loads variables from the given .env files into the process environment.
// Missing files are ignored.
func LoadDotEnv(ctx context.Context, filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Ctx(ctx).Debug().Msgf("no env file at %s", filename)
				continue
			}
			return err
		}
	}

	return nil
}

func (c *Config) LoadEnv(_ context.Context) error {
	e := new(env)
	if err := envconfig.Process("", e); err != nil {
		return err
	}

	setStr(&c.Database.Driver, e.DBDriver)
	setStr(&c.Database.Username, e.DBUser)
	setStr(&c.Database.Password, e.DBPassword)
	setStr(&c.Database.Host, e.DBHost)
	setStr(&c.Database.Database, e.DBName)
	setStr(&c.Database.SSLMode, e.DBSSLMode)
	if e.DBPort != 0 {
		c.Database.Port = e.DBPort
	}

	setStr(&c.Provider.Name, e.EmailProvider)
	setStr(&c.Provider.FromEmail, e.FromEmail)
	switch c.Provider.Name {
	case ProviderBrevo:
		setStr(&c.Provider.APIKey, e.BrevoKey)
	default:
		setStr(&c.Provider.APIKey, e.PostmarkKey)
	}

	if e.SeedOnStart != nil {
		c.Seed.Enabled = *e.SeedOnStart
	}

	if len(e.KafkaBrokers) > 0 {
		c.EventBus.Brokers = e.KafkaBrokers
	}

	return nil
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
