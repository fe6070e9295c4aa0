package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/okian/secretsanta/internal/domain/model"
)

// SMTP holds the mail submission settings from the secrets file.
type SMTP struct {
	Host     string `env:"SMTP_HOST" validate:"required,hostname|ip"`
	Port     int    `env:"SMTP_PORT,default=587" validate:"min=1,max=65535"`
	Username string `env:"SMTP_USR"`
	Password string `env:"SMTP_PSW"`
	From     string `env:"SMTP_FROM" validate:"required,email"`
}

// Secrets is everything read from the secrets file: SMTP settings and the
// participant list.
type Secrets struct {
	SMTP         SMTP
	Participants []model.Participant
}

// LoadSecrets reads the dotenv file at path over the process environment.
// Keys in the file win. An explicitly named file must exist; the default
// .env.secret is optional so everything can come from the environment.
func LoadSecrets(_ context.Context, path string) (*Secrets, error) {
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSecrets, err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		for k, v := range values {
			es[k] = v
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case errors.Is(err, fs.ErrNotExist):
		return nil, model.NewConfigError(model.ErrInvalidConfig, path, "The secrets file %q was not found.", path)
	default:
		return nil, model.NewConfigError(model.ErrInvalidConfig, path, "cannot parse secrets file %s: %v", path, err)
	}

	s := &Secrets{}
	if err := env.Unmarshal(es, &s.SMTP); err != nil {
		return nil, model.NewConfigError(model.ErrInvalidConfig, path, "invalid SMTP settings: %v", err)
	}
	s.Participants = ScanParticipants(es)
	return s, nil
}

// ScanParticipants collects SANTA_<i>_NAME / SANTA_<i>_MAIL pairs, 1-indexed,
// stopping at the first index where either key is missing.
func ScanParticipants(vars map[string]string) []model.Participant {
	var out []model.Participant
	for i := 1; ; i++ {
		idx := strconv.Itoa(i)
		name, okName := vars["SANTA_"+idx+"_NAME"]
		mail, okMail := vars["SANTA_"+idx+"_MAIL"]
		if !okName || !okMail {
			return out
		}
		out = append(out, model.Participant{Name: name, Email: mail})
	}
}
