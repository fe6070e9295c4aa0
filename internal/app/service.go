// Package service runs a secret santa batch: draw the cycle, record every
// letter, and optionally mail them.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/okian/secretsanta/internal/adapters/mailer"
	"github.com/okian/secretsanta/internal/adapters/record"
	"github.com/okian/secretsanta/internal/domain/assign"
	"github.com/okian/secretsanta/internal/domain/model"
	"github.com/okian/secretsanta/pkg/logger"
	"github.com/okian/secretsanta/pkg/metrics"
)

// Run modes.
const (
	ModeDryRun   = "dry_run"
	ModeOfficial = "official"
	ModeTest     = "test"
)

// Names used for the synthetic test letter.
const (
	TestSantaName     = "Test Santa"
	TestRecipientName = "Test Recipient"
)

// Delivery statuses.
const (
	StatusRecorded = "recorded"
	StatusSent     = "sent"
	StatusFailed   = "failed"
)

// Delivery is the outcome for one santa.
type Delivery struct {
	Santa  model.Participant
	Status string
	Err    error
}

// Report summarizes a run. It never contains recipients.
type Report struct {
	RunID      string
	Mode       string
	RecordPath string
	Attempts   int
	Deliveries []Delivery
}

// Failed counts deliveries the transport rejected.
func (r *Report) Failed() int {
	return lo.CountBy(r.Deliveries, func(d Delivery) bool { return d.Status == StatusFailed })
}

// Service implements the secret santa run.
type Service struct {
	engine         *assign.Engine
	mailer         *mailer.Mailer
	recordFile     string
	testRecordFile string
	recordOpts     []record.Option
	now            func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine sets the assignment engine.
func WithEngine(e *assign.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithMailer sets the mailer used to render and send letters.
func WithMailer(m *mailer.Mailer) Option {
	return func(s *Service) {
		if m != nil {
			s.mailer = m
		}
	}
}

// WithRecordFile sets where the audit record of a batch is written.
func WithRecordFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.recordFile = path
		}
	}
}

// WithTestRecordFile sets where the test letter is recorded.
func WithTestRecordFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.testRecordFile = path
		}
	}
}

// WithRecordOptions passes options to the record file.
func WithRecordOptions(opts ...record.Option) Option {
	return func(s *Service) {
		s.recordOpts = append(s.recordOpts, opts...)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:         assign.New(),
		recordFile:     "secret-santa-record-file.txt",
		testRecordFile: "secret-santa-test-email.txt",
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Run draws a cycle over participants and dispatches the letters. With
// dryRun set, letters are only recorded.
func (s *Service) Run(ctx context.Context, participants []model.Participant, exclusions model.Exclusions, dryRun bool) (*Report, error) {
	mode := ModeOfficial
	if dryRun {
		mode = ModeDryRun
	}
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID), logger.String("mode", mode))

	if dryRun {
		log.Info(ctx, "performing a sample dry-run")
	} else {
		log.Info(ctx, "officially sending all secret santa emails")
	}

	metrics.UpdateParticipants(len(participants))
	res, err := s.engine.Assign(ctx, participants, exclusions)
	if err != nil {
		var ce *model.ConfigError
		if errors.As(err, &ce) {
			metrics.RecordConfigError(ce.Kind.Error())
		}
		return nil, err
	}
	metrics.ObserveAssignmentAttempts(res.Attempts)
	log.Debug(ctx, "cycle drawn", logger.Int("participants", res.Cycle.Len()), logger.Int("attempts", res.Attempts))

	report, err := s.dispatch(ctx, log, res.Cycle.Assignments(), s.recordFile, dryRun)
	if err != nil {
		return nil, err
	}
	report.RunID = runID
	report.Mode = mode
	report.Attempts = res.Attempts
	metrics.RecordRun(mode, s.now().Unix())
	return report, nil
}

// Dispatch records and, unless dryRun, sends the letter of every assignment
// in santa name order. A failed send is logged and the batch continues.
func (s *Service) Dispatch(ctx context.Context, cycle model.Cycle, dryRun bool) (*Report, error) {
	return s.dispatch(ctx, s.logger, cycle.Assignments(), s.recordFile, dryRun)
}

func (s *Service) dispatch(ctx context.Context, log logger.Logger, assignments []model.Assignment, path string, dryRun bool) (*Report, error) {
	if s.mailer == nil {
		return nil, mailer.ErrNoTransport
	}

	rec, err := record.Open(ctx, path, s.recordOpts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rec.Close(); err != nil {
			log.Warn(ctx, "failed to release record lock", logger.Error(err))
		}
	}()

	report := &Report{RecordPath: rec.Path(), Deliveries: make([]Delivery, 0, len(assignments))}
	for _, a := range assignments {
		letter := s.mailer.Render(a.Santa, a.Recipient)
		if err := rec.Append(letter.Message); err != nil {
			return nil, fmt.Errorf("recording letter for %s: %w", a.Santa.Name, err)
		}
		metrics.RecordLetterRendered()

		d := Delivery{Santa: a.Santa, Status: StatusRecorded}
		if !dryRun {
			d = s.send(ctx, log, letter)
		}
		report.Deliveries = append(report.Deliveries, d)
	}

	log.Info(ctx, "mail record saved", logger.String("record_file", rec.Path()),
		logger.Int("letters", len(report.Deliveries)), logger.Int("failed", report.Failed()))
	return report, nil
}

func (s *Service) send(ctx context.Context, log logger.Logger, letter mailer.Letter) Delivery {
	d := Delivery{Santa: letter.Santa}
	if err := s.mailer.Send(ctx, letter); err != nil {
		metrics.RecordLetterFailed()
		log.Error(ctx, "failed to mail letter; verify that the SMTP settings are correct",
			logger.String("santa", letter.Santa.Name), logger.String("email", letter.To), logger.Error(err))
		d.Status, d.Err = StatusFailed, err
		return d
	}
	metrics.RecordLetterSent()
	log.Info(ctx, "successfully mailed letter", logger.String("santa", letter.Santa.Name), logger.String("email", letter.To))
	d.Status = StatusSent
	return d
}

// SendTest mails one synthetic letter to address without drawing a cycle,
// to check the SMTP settings. The letter goes to the test record file so the
// batch record is left alone. A send failure is returned as an error.
func (s *Service) SendTest(ctx context.Context, address string) (*Report, error) {
	if !assign.ValidEmail(address) {
		metrics.RecordConfigError(model.ErrInvalidEmail.Error())
		return nil, model.NewConfigError(model.ErrInvalidEmail, address, "The test address is invalid: %s.", address)
	}
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID), logger.String("mode", ModeTest))
	log.Info(ctx, "sending test email", logger.String("email", address))

	test := []model.Assignment{{
		Santa:     model.Participant{Name: TestSantaName, Email: address},
		Recipient: model.Participant{Name: TestRecipientName},
	}}
	report, err := s.dispatch(ctx, log, test, s.testRecordFile, false)
	if err != nil {
		return nil, err
	}
	report.RunID = runID
	report.Mode = ModeTest
	metrics.RecordRun(ModeTest, s.now().Unix())

	if d := report.Deliveries[0]; d.Err != nil {
		return report, d.Err
	}
	return report, nil
}
