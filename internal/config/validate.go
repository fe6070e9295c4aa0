package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/secretsanta/internal/domain/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// Letter placeholders the body must carry.
var requiredPlaceholders = []string{"{santa}", "{recipient}"} //nolint:gochecknoglobals // fixed list

// Validate checks the configuration schema. Call it after ApplySecrets so the
// sender address can default to SMTP_FROM.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return toConfigError(err)
	}
	for _, ph := range requiredPlaceholders {
		if !strings.Contains(c.Template.Body, ph) {
			return model.NewConfigError(model.ErrInvalidConfig, "template.body",
				"The letter body must contain the %s placeholder.", ph)
		}
	}
	return nil
}

// ValidateForSending checks the settings needed to open SMTP sessions.
func (s *Secrets) ValidateForSending() error {
	if err := validate.Struct(s.SMTP); err != nil {
		return toConfigError(err)
	}
	return nil
}

// toConfigError reports the first failed field in the operator's terms.
func toConfigError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	fe := verrs[0]
	field := fe.Namespace()
	if fe.Param() != "" {
		return model.NewConfigError(model.ErrInvalidConfig, field,
			"%s is invalid: must satisfy %s=%s (got %q).", field, fe.Tag(), fe.Param(), fmt.Sprint(fe.Value()))
	}
	return model.NewConfigError(model.ErrInvalidConfig, field,
		"%s is invalid: must satisfy %s (got %q).", field, fe.Tag(), fmt.Sprint(fe.Value()))
}
