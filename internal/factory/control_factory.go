package factory

import (
	"time"

	"go.uber.org/zap"

	"github.com/mikey/nzbget-notify/internal/adapters/nzbget"
	"github.com/mikey/nzbget-notify/internal/config"
	"github.com/mikey/nzbget-notify/internal/core"
)

const controlTimeout = 30 * time.Second

// ControlFactory creates clients for NZBGet's control API
type ControlFactory struct {
	settings *config.Settings
	logger   *zap.Logger
}

// NewControlFactory creates a new control factory
func NewControlFactory(settings *config.Settings, logger *zap.Logger) *ControlFactory {
	return &ControlFactory{
		settings: settings,
		logger:   logger,
	}
}

// CreateControlClient validates the NZBOP_ connection variables and returns
// a client. It is only called when a message section needs the API.
func (f *ControlFactory) CreateControlClient() (core.ControlClient, error) {
	control := f.settings.Control
	if err := control.Validate(); err != nil {
		return nil, err
	}

	client := nzbget.NewClient(control.Address(), control.Username, control.Password, controlTimeout, f.logger)
	f.logger.Debug("Using control API", zap.String("endpoint", client.Endpoint()))
	return client, nil
}

// Provider returns CreateControlClient as a lazy provider
func (f *ControlFactory) Provider() core.ControlClientProvider {
	return f.CreateControlClient
}
