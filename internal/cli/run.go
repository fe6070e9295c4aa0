package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/secretsanta/internal/adapters/mailer"
	service "github.com/okian/secretsanta/internal/app"
	"github.com/okian/secretsanta/internal/config"
	"github.com/okian/secretsanta/internal/domain/assign"
	"github.com/okian/secretsanta/internal/domain/model"
	"github.com/okian/secretsanta/pkg/logger"
	"github.com/okian/secretsanta/pkg/metrics"
)

func run(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Log to stderr until the config says otherwise.
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}

	cfg, secrets, err := loadSettings(ctx, opts)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithJSON(cfg.LogFormat == "json")); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.Named("santa")

	var transport mailer.Transport
	if opts.Official || opts.TestEmail != "" {
		if err := secrets.ValidateForSending(); err != nil {
			return err
		}
		transport = mailer.NewSMTPTransport(smtpConfig(secrets.SMTP))
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithEngine(assign.New(assign.WithMaxAttempts(cfg.MaxAttempts))),
		service.WithMailer(mailer.New(letterTemplate(cfg.Template), transport)),
		service.WithRecordFile(cfg.RecordFile),
		service.WithTestRecordFile(cfg.TestRecordFile),
	)

	var report *service.Report
	if opts.TestEmail != "" {
		report, err = svc.SendTest(ctx, opts.TestEmail)
	} else {
		report, err = svc.Run(ctx, secrets.Participants, cfg.Exclusions, !opts.Official)
	}
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}

	if cfg.MetricsFile != "" {
		if mErr := metrics.WriteTextfile(cfg.MetricsFile); mErr != nil {
			log.Warn(ctx, "failed to write metrics", logger.String("metrics_file", cfg.MetricsFile), logger.Error(mErr))
		}
	}
	return err
}

// loadSettings reads the config file and the secrets file and checks the
// merged result.
func loadSettings(ctx context.Context, opts *Options) (*config.Config, *config.Secrets, error) {
	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	secrets, err := config.LoadSecrets(ctx, opts.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplySecrets(secrets)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, secrets, nil
}

func smtpConfig(s config.SMTP) mailer.SMTPConfig {
	return mailer.SMTPConfig{
		Host:     s.Host,
		Port:     s.Port,
		Username: s.Username,
		Password: s.Password,
	}
}

func letterTemplate(t config.Template) mailer.Template {
	return mailer.Template{
		FromName:  t.FromName,
		FromEmail: t.FromEmail,
		Subject:   t.Subject,
		Body:      t.Body,
	}
}

// PrintError writes err for the operator. Configuration errors get their own
// heading since they are always fixable by editing the config or secrets.
func PrintError(w io.Writer, err error) {
	var ce *model.ConfigError
	if errors.As(err, &ce) {
		_, _ = fmt.Fprintf(w, "Configuration error:\n%s\n", ce.Error())
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}
