package hash_password

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"mailer/pkg/goutil"
	"mailer/pkg/service"

	"github.com/rs/zerolog/log"
)

var ErrEmptyPassword = errors.New("password is empty")

// HashPassword prints the bcrypt hash to use as webhook.password_hash.
type HashPassword struct {
	password string
	out      io.Writer
}

func New(password string) service.Job {
	return &HashPassword{
		password: password,
		out:      os.Stdout,
	}
}

func (j *HashPassword) Init(_ context.Context) error {
	if j.password == "" {
		return ErrEmptyPassword
	}
	return nil
}

func (j *HashPassword) Run(ctx context.Context) error {
	hash, err := goutil.BCrypt(j.password)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("hash password failed: %v", err)
		return err
	}

	_, err = fmt.Fprintln(j.out, hash)
	return err
}

func (j *HashPassword) CleanUp(_ context.Context) error {
	return nil
}
