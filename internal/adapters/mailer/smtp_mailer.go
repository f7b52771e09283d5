package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/nzbget-notify/internal/config"
	"github.com/mikey/nzbget-notify/internal/core"
	"github.com/mikey/nzbget-notify/internal/recipients"
)

// SMTPMailer submits notifications to a mail relay
type SMTPMailer struct {
	server      string
	port        string
	encryption  config.EncryptionMode
	username    string
	password    string
	tlsConfig   *tls.Config
	dialTimeout time.Duration
	logger      *zap.Logger
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(
	server string,
	port string,
	encryption config.EncryptionMode,
	username string,
	password string,
	dialTimeout time.Duration,
	logger *zap.Logger,
) *SMTPMailer {
	return &SMTPMailer{
		server:      server,
		port:        port,
		encryption:  encryption,
		username:    username,
		password:    password,
		tlsConfig:   &tls.Config{ServerName: server},
		dialTimeout: dialTimeout,
		logger:      logger,
	}
}

// WithTLSConfig replaces the TLS configuration used for implicit TLS and
// STARTTLS
func (m *SMTPMailer) WithTLSConfig(cfg *tls.Config) *SMTPMailer {
	m.tlsConfig = cfg
	return m
}

// Send implements core.Mailer. The message is submitted once; rejected
// recipients are logged and only a rejection of every recipient fails.
func (m *SMTPMailer) Send(ctx context.Context, n *core.Notification) error {
	addr := net.JoinHostPort(m.server, m.port)

	c, err := m.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer c.Close()

	// Get hostname for EHLO
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if m.username != "" && m.password != "" {
		if err := c.Auth(m.saslClient(c)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := c.Mail(n.From.Address, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, rcpt := range recipients.Envelope(n.To) {
		if err := c.Rcpt(rcpt, nil); err != nil {
			m.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", rcpt),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if err := WriteMessage(wc, n); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The relay has accepted the message at this point
		m.logger.Warn("QUIT command failed", zap.Error(err))
	}

	m.logger.Debug("Message submitted",
		zap.String("server", addr),
		zap.String("encryption", string(m.encryption)))
	return nil
}

func (m *SMTPMailer) dial(ctx context.Context, addr string) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: m.dialTimeout}

	if m.encryption == config.EncryptionForce {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: m.tlsConfig}
		conn, err := tlsDialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn), nil
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if m.encryption == config.EncryptionStartTLS {
		c, err := smtp.NewClientStartTLS(conn, m.tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("STARTTLS failed: %w", err)
		}
		return c, nil
	}
	return smtp.NewClient(conn), nil
}

// saslClient prefers PLAIN and falls back to LOGIN when the relay only
// advertises LOGIN
func (m *SMTPMailer) saslClient(c *smtp.Client) sasl.Client {
	if !c.SupportsAuth(sasl.Plain) && c.SupportsAuth(sasl.Login) {
		m.logger.Debug("Relay only offers LOGIN authentication")
		return sasl.NewLoginClient(m.username, m.password)
	}
	return sasl.NewPlainClient("", m.username, m.password)
}
