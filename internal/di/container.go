package di

import (
	"flag"

	"github.com/spf13/afero"
	"go.uber.org/dig"

	"github.com/mikey/nzbget-notify/internal/config"
	"github.com/mikey/nzbget-notify/internal/core"
	"github.com/mikey/nzbget-notify/internal/factory"
	"github.com/mikey/nzbget-notify/internal/logging"
	"github.com/mikey/nzbget-notify/internal/utils"
)

// Flags contains the command line flags. NZBGet starts the script without
// arguments; they exist for running it by hand.
type Flags struct {
	ConfigFile string
	EnvFile    string
}

// ParseFlags parses command line arguments (without the program name)
func ParseFlags(args []string) (*Flags, error) {
	flags := &Flags{}

	fs := flag.NewFlagSet("nzbget-notify", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to a YAML file with option defaults")
	fs.StringVar(&flags.EnvFile, "env-file", "", "Load NZBPO_/NZBPP_/NZBOP_ variables from a dotenv file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(flags *Flags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *Flags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *Flags) (*config.Config, error) {
		if err := config.LoadEnvFile(flags.EnvFile); err != nil {
			return nil, err
		}
		return config.New(flags.ConfigFile)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register validated settings
	if err := container.Provide(func(cfg *config.Config) (*config.Settings, error) {
		return cfg.Settings()
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewMailerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewControlFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register mail transport
	if err := container.Provide(func(f *factory.MailerFactory) (core.Mailer, error) {
		return f.CreateMailer()
	}); err != nil {
		return nil, err
	}

	// Register control API client; created only when a section needs it
	if err := container.Provide(func(f *factory.ControlFactory) core.ControlClientProvider {
		return f.Provider()
	}); err != nil {
		return nil, err
	}

	// Register filesystem
	if err := container.Provide(func() afero.Fs {
		return afero.NewOsFs()
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register notifier service
	if err := container.Provide(core.NewNotifierService); err != nil {
		return nil, err
	}

	return container, nil
}
