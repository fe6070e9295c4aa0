package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// Default SMTP configuration constants.
const (
	defaultSMTPTimeout = 30 * time.Second
	defaultSMTPPort    = 587
)

// SMTPConfig holds the submission server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Addr returns host:port, falling back to the submission port.
func (c SMTPConfig) Addr() string {
	port := c.Port
	if port == 0 {
		port = defaultSMTPPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// SMTPOption applies a configuration option to the SMTPTransport.
type SMTPOption func(*SMTPTransport)

// WithTimeout bounds a whole session: dial, handshake and data transfer.
func WithTimeout(d time.Duration) SMTPOption {
	return func(t *SMTPTransport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithTLSConfig overrides the STARTTLS configuration.
func WithTLSConfig(cfg *tls.Config) SMTPOption {
	return func(t *SMTPTransport) {
		if cfg != nil {
			t.tlsConfig = cfg
		}
	}
}

// SMTPTransport opens one authenticated session per message. The session is
// upgraded with STARTTLS whenever the server offers it.
type SMTPTransport struct {
	cfg       SMTPConfig
	timeout   time.Duration
	tlsConfig *tls.Config
}

// NewSMTPTransport creates an SMTP transport for cfg.
func NewSMTPTransport(cfg SMTPConfig, opts ...SMTPOption) *SMTPTransport {
	t := &SMTPTransport{
		cfg:       cfg,
		timeout:   defaultSMTPTimeout,
		tlsConfig: &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send delivers msg to every address in to over a fresh connection.
func (t *SMTPTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.cfg.Addr())
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.cfg.Addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() { _ = c.Close() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(t.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if t.cfg.Username != "" {
		auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, addr := range to {
		if err := c.Rcpt(addr); err != nil {
			return fmt.Errorf("rcpt to %s: %w", addr, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	return c.Quit()
}
