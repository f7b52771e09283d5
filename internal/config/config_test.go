package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/nzbget-notify/internal/config"
)

func requiredViper() *viper.Viper {
	v := config.NewEmptyViper()
	v.Set(config.KeyFrom, "nzbget@example.com")
	v.Set(config.KeyTo, "me@example.com")
	v.Set(config.KeyServer, "smtp.example.com")
	v.Set(config.KeyPort, "25")
	v.Set(config.KeyEncryption, "no")
	v.Set(config.KeyUsername, "")
	v.Set(config.KeyPassword, "")
	return v
}

func TestSettingsReportsEachMissingOption(t *testing.T) {
	required := map[string]string{
		config.KeyFrom:       "FROM",
		config.KeyTo:         "TO",
		config.KeyServer:     "SERVER",
		config.KeyPort:       "PORT",
		config.KeyEncryption: "ENCRYPTION",
		config.KeyUsername:   "USERNAME",
		config.KeyPassword:   "PASSWORD",
	}

	for missing, name := range required {
		t.Run(name, func(t *testing.T) {
			v := config.NewEmptyViper()
			for key := range required {
				if key != missing {
					v.Set(key, "x")
				}
			}

			_, err := config.NewFromViper(v).Settings()
			var cfgErr *config.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, name, cfgErr.Option)
			assert.Equal(t, "Option "+name+" is missing in configuration file. Please check script settings", cfgErr.Error())
		})
	}
}

func TestSettingsFromEnvironmentAcceptsEmptyValues(t *testing.T) {
	t.Setenv("NZBPO_FROM", "NZBGet <nzbget@example.com>")
	t.Setenv("NZBPO_TO", "a@example.com,b@example.com")
	t.Setenv("NZBPO_SERVER", "smtp.example.com")
	t.Setenv("NZBPO_PORT", "587")
	t.Setenv("NZBPO_ENCRYPTION", "yes")
	t.Setenv("NZBPO_USERNAME", "")
	t.Setenv("NZBPO_PASSWORD", "")
	t.Setenv("NZBPO_STATISTICS", "yes")
	t.Setenv("NZBPO_NZBLOG", "OnFailure")
	t.Setenv("NZBPO_SENDMAIL", "OnFailure")
	t.Setenv("NZBPP_NZBNAME", "Some.Show.S01E01")
	t.Setenv("NZBPP_NZBID", "42")
	t.Setenv("NZBPP_STATUS", "FAILURE/PAR")
	t.Setenv("NZBPP_TOTALSTATUS", "FAILURE")

	cfg, err := config.New(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err, "an explicit config file must exist")
	assert.Nil(t, cfg)

	cfg, err = config.New("")
	require.NoError(t, err)

	settings, err := cfg.Settings()
	require.NoError(t, err)

	assert.Equal(t, config.EncryptionStartTLS, settings.Mail.Encryption)
	assert.Equal(t, "587", settings.Mail.Port)
	assert.Empty(t, settings.Mail.Username)
	assert.Equal(t, config.TransportSMTP, settings.Mail.Transport)
	assert.True(t, settings.Features.Statistics)
	assert.False(t, settings.Features.FileList)
	assert.Equal(t, config.LogOnFailure, settings.Features.NzbLog)
	assert.Equal(t, config.SendOnFailure, settings.Features.SendMail)
	assert.Equal(t, "FAILURE", settings.Job.TotalStatus)
	assert.False(t, settings.TestMode)

	id, err := settings.Job.NzbID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = settings.Job.Directory()
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "NZBPP_DIRECTORY", cfgErr.Option)
}

func TestSettingsCommand(t *testing.T) {
	v := requiredViper()
	v.Set(config.KeyCommand, "ConnectionTest")
	v.Set(config.KeyTotalStatus, "FAILURE")

	settings, err := config.NewFromViper(v).Settings()
	require.NoError(t, err)
	assert.True(t, settings.TestMode)
	assert.Equal(t, "SUCCESS", settings.Job.TotalStatus)
	assert.Equal(t, "SUCCESS/ALL", settings.Job.Status)
	assert.Equal(t, "Test download", settings.Job.DisplayName())

	v = requiredViper()
	v.Set(config.KeyCommand, "Reindex")
	_, err = config.NewFromViper(v).Settings()
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Invalid command Reindex", cfgErr.Error())
}

func TestSettingsChecksRequiredBeforeCommand(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set(config.KeyCommand, "Reindex")

	_, err := config.NewFromViper(v).Settings()
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "FROM", cfgErr.Option)
}

func TestSettingsRejectsInvalidValues(t *testing.T) {
	v := requiredViper()
	v.Set(config.KeyEncryption, "maybe")
	_, err := config.NewFromViper(v).Settings()
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "ENCRYPTION", cfgErr.Option)

	v = requiredViper()
	v.Set(config.KeyTransport, "pigeon")
	_, err = config.NewFromViper(v).Settings()
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "TRANSPORT", cfgErr.Option)
}

func TestSendMailFallsBackToAlways(t *testing.T) {
	for _, value := range []string{"", "Sometimes", "onfailure"} {
		t.Run(value, func(t *testing.T) {
			v := requiredViper()
			v.Set(config.KeySendMail, value)

			settings, err := config.NewFromViper(v).Settings()
			require.NoError(t, err)
			assert.Equal(t, config.SendAlways, settings.Features.SendMail)
		})
	}

	v := requiredViper()
	v.Set(config.KeySendMail, "OnFailure")
	settings, err := config.NewFromViper(v).Settings()
	require.NoError(t, err)
	assert.Equal(t, config.SendOnFailure, settings.Features.SendMail)
}

func TestJobNzbIDValidation(t *testing.T) {
	v := requiredViper()
	v.Set(config.KeyNzbID, "abc")
	settings, err := config.NewFromViper(v).Settings()
	require.NoError(t, err)

	_, err = settings.Job.NzbID()
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "NZBPP_NZBID", cfgErr.Option)
}

func TestControlConfig(t *testing.T) {
	v := requiredViper()
	v.Set(config.KeyControlIP, "0.0.0.0")
	v.Set(config.KeyControlPort, "6789")
	v.Set(config.KeyControlUsername, "nzbget")

	settings, err := config.NewFromViper(v).Settings()
	require.NoError(t, err)

	err = settings.Control.Validate()
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "NZBOP_CONTROLPASSWORD", cfgErr.Option)

	v.Set(config.KeyControlPassword, "tegbzn6789")
	settings, err = config.NewFromViper(v).Settings()
	require.NoError(t, err)
	require.NoError(t, settings.Control.Validate())
	assert.Equal(t, "127.0.0.1:6789", settings.Control.Address())

	settings.Control.Host = "192.168.1.10"
	assert.Equal(t, "192.168.1.10:6789", settings.Control.Address())
}

func TestConfigFileIsLayeredUnderEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nzbget-notify.yaml")
	content := []byte("nzbpo:\n  from: file@example.com\n  to: file@example.com\n  server: smtp.file\n  port: \"25\"\n  encryption: \"no\"\n  username: \"\"\n  password: \"\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("NZBPO_SERVER", "smtp.env")

	cfg, err := config.New(path)
	require.NoError(t, err)
	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, "smtp.env", settings.Mail.Server)
	assert.Equal(t, "file@example.com", settings.Mail.From)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NZBNOTIFY_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("NZBNOTIFY_TEST_VALUE", "")
	os.Unsetenv("NZBNOTIFY_TEST_VALUE")

	require.NoError(t, config.LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("NZBNOTIFY_TEST_VALUE"))

	require.NoError(t, config.LoadEnvFile(""))
	assert.Error(t, config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
