package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/secretsanta/internal/config"
	"github.com/okian/secretsanta/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.RecordFile, convey.ShouldEqual, "secret-santa-record-file.txt")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Template.Body, convey.ShouldContainSubstring, "{santa}")
			convey.So(cfg.Template.Body, convey.ShouldContainSubstring, "{recipient}")
		})

		convey.Convey("Then it needs a sender address before it validates", func() {
			err := cfg.Validate()
			convey.So(errors.Is(err, model.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "FromEmail")
		})

		convey.Convey("When the secrets provide SMTP_FROM", func() {
			cfg.ApplySecrets(&config.Secrets{SMTP: config.SMTP{From: "santa@northpole.org"}})

			convey.Convey("Then the sender defaults to it and the config validates", func() {
				convey.So(cfg.Template.FromEmail, convey.ShouldEqual, "santa@northpole.org")
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the body lacks the recipient placeholder", func() {
			cfg.Template.FromEmail = "santa@northpole.org"
			cfg.Template.Body = "Hi {santa}!"

			convey.Convey("Then validation names the missing placeholder", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, model.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "{recipient}")
			})
		})

		convey.Convey("When the log level is unknown", func() {
			cfg.Template.FromEmail = "santa@northpole.org"
			cfg.LogLevel = "loud"

			convey.Convey("Then validation fails", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestLoadSecrets(t *testing.T) {
	convey.Convey("Given a secrets file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), ".env.secret")
		content := `SMTP_HOST=smtp.example.com
SMTP_USR=santa
SMTP_PSW="s3cr3t pass"
SMTP_FROM=santa@example.com
SANTA_1_NAME=Alice
SANTA_1_MAIL=alice@example.com
SANTA_2_NAME=Bob
SANTA_2_MAIL=bob@example.com
SANTA_3_NAME=Carol
SANTA_4_NAME=Dave
SANTA_4_MAIL=dave@example.com
`
		convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)

		convey.Convey("When loading it", func() {
			s, err := config.LoadSecrets(ctx, path)

			convey.Convey("Then SMTP settings are decoded with the default port", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.SMTP.Host, convey.ShouldEqual, "smtp.example.com")
				convey.So(s.SMTP.Port, convey.ShouldEqual, 587)
				convey.So(s.SMTP.Password, convey.ShouldEqual, "s3cr3t pass")
				convey.So(s.ValidateForSending(), convey.ShouldBeNil)
			})

			convey.Convey("Then participants stop at the first incomplete pair", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Participants, convey.ShouldResemble, []model.Participant{
					{Name: "Alice", Email: "alice@example.com"},
					{Name: "Bob", Email: "bob@example.com"},
				})
			})
		})

		convey.Convey("When the named file does not exist", func() {
			_, err := config.LoadSecrets(ctx, filepath.Join(t.TempDir(), "missing"))

			convey.Convey("Then it reports a config error", func() {
				convey.So(model.IsConfigError(err), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given SMTP settings missing the host", t, func() {
		s := &config.Secrets{SMTP: config.SMTP{Port: 587, From: "santa@example.com"}}

		convey.Convey("Then they are not usable for sending", func() {
			err := s.ValidateForSending()
			convey.So(errors.Is(err, model.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "Host")
		})
	})
}

func TestScanParticipants(t *testing.T) {
	convey.Convey("Given numbered participant variables", t, func() {
		vars := map[string]string{
			"SANTA_2_NAME": "Bob",
			"SANTA_2_MAIL": "bob@x.com",
		}

		convey.Convey("When the first index is missing", func() {
			convey.Convey("Then nothing is scanned", func() {
				convey.So(config.ScanParticipants(vars), convey.ShouldBeEmpty)
			})
		})
	})
}
