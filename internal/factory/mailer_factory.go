package factory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/nzbget-notify/internal/adapters/mailer"
	"github.com/mikey/nzbget-notify/internal/config"
	"github.com/mikey/nzbget-notify/internal/core"
)

// Timeout for establishing the SMTP connection
const smtpDialTimeout = 30 * time.Second

// MailerFactory creates mail transports based on configuration
type MailerFactory struct {
	settings *config.Settings
	logger   *zap.Logger
}

// NewMailerFactory creates a new mailer factory
func NewMailerFactory(settings *config.Settings, logger *zap.Logger) *MailerFactory {
	return &MailerFactory{
		settings: settings,
		logger:   logger,
	}
}

// CreateMailer creates the transport selected by the TRANSPORT option
func (f *MailerFactory) CreateMailer() (core.Mailer, error) {
	mailCfg := f.settings.Mail

	switch mailCfg.Transport {
	case config.TransportSMTP:
		return mailer.NewSMTPMailer(
			mailCfg.Server,
			mailCfg.Port,
			mailCfg.Encryption,
			mailCfg.Username,
			mailCfg.Password,
			smtpDialTimeout,
			f.logger,
		), nil
	case config.TransportSES:
		client, err := mailer.NewSESClient(context.Background(), f.settings.SES.Region)
		if err != nil {
			return nil, err
		}
		return mailer.NewSESMailer(client, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail transport: %s", mailCfg.Transport)
	}
}
