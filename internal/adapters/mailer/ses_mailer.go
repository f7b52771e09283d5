package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/mikey/nzbget-notify/internal/core"
	"github.com/mikey/nzbget-notify/internal/recipients"
)

// SESAPI is the subset of the SES client used by SESMailer
type SESAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SESMailer delivers the rendered message through Amazon SES
type SESMailer struct {
	client SESAPI
	logger *zap.Logger
}

// NewSESMailer creates a new SES mailer
func NewSESMailer(client SESAPI, logger *zap.Logger) *SESMailer {
	return &SESMailer{
		client: client,
		logger: logger,
	}
}

// NewSESClient creates an SES client from the default AWS credential chain
func NewSESClient(ctx context.Context, region string) (*ses.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ses.NewFromConfig(cfg), nil
}

// Send implements core.Mailer
func (m *SESMailer) Send(ctx context.Context, n *core.Notification) error {
	raw, err := Bytes(n)
	if err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}

	out, err := m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(n.From.Address),
		Destinations: recipients.Envelope(n.To),
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("SES rejected the message: %w", err)
	}

	m.logger.Debug("Message submitted to SES", zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
