package config

import (
	"net"
	"strconv"
	"strings"
)

// Script options (NZBPO_*)
const (
	KeyFrom       = "nzbpo.from"
	KeyTo         = "nzbpo.to"
	KeyServer     = "nzbpo.server"
	KeyPort       = "nzbpo.port"
	KeyEncryption = "nzbpo.encryption"
	KeyUsername   = "nzbpo.username"
	KeyPassword   = "nzbpo.password"
	KeySendMail   = "nzbpo.sendmail"
	KeyStatistics = "nzbpo.statistics"
	KeyFileList   = "nzbpo.filelist"
	KeyBrokenLog  = "nzbpo.brokenlog"
	KeyNzbLog     = "nzbpo.nzblog"
	KeyTransport  = "nzbpo.transport"
	KeySESRegion  = "nzbpo.sesregion"
	KeyLogLevel   = "nzbpo.loglevel"
	KeyLogFormat  = "nzbpo.logformat"
)

// Job context (NZBPP_*)
const (
	KeyNzbName      = "nzbpp.nzbname"
	KeyNzbID        = "nzbpp.nzbid"
	KeyDirectory    = "nzbpp.directory"
	KeyStatus       = "nzbpp.status"
	KeyTotalStatus  = "nzbpp.totalstatus"
	KeyScriptStatus = "nzbpp.scriptstatus"
)

// Host options (NZBOP_*) and custom commands (NZBCP_*)
const (
	KeyControlIP       = "nzbop.controlip"
	KeyControlPort     = "nzbop.controlport"
	KeyControlUsername = "nzbop.controlusername"
	KeyControlPassword = "nzbop.controlpassword"
	KeyCommand         = "nzbcp.command"
)

// CommandConnectionTest is sent by the "Send test e-mail" button on the
// settings page.
const CommandConnectionTest = "ConnectionTest"

// Transports
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

// requiredOptions are checked in order; the first missing one is reported.
var requiredOptions = []string{
	KeyFrom,
	KeyTo,
	KeyServer,
	KeyPort,
	KeyEncryption,
	KeyUsername,
	KeyPassword,
}

// EncryptionMode selects how the SMTP connection is secured
type EncryptionMode string

const (
	EncryptionNone     EncryptionMode = "no"
	EncryptionStartTLS EncryptionMode = "yes"
	EncryptionForce    EncryptionMode = "force"
)

// SendPolicy decides whether successful downloads are reported
type SendPolicy string

const (
	SendAlways    SendPolicy = "Always"
	SendOnFailure SendPolicy = "OnFailure"
)

// LogPolicy decides when the item log is attached
type LogPolicy string

const (
	LogNever     LogPolicy = "Never"
	LogAlways    LogPolicy = "Always"
	LogOnFailure LogPolicy = "OnFailure"
)

// MailConfig represents the outbound mail configuration
type MailConfig struct {
	Transport  string
	Server     string
	Port       string
	Encryption EncryptionMode
	Username   string
	Password   string
	From       string
	To         string
}

// SESConfig represents the configuration for the Amazon SES transport
type SESConfig struct {
	Region string
}

// FeatureConfig holds the optional message sections
type FeatureConfig struct {
	SendMail   SendPolicy
	Statistics bool
	FileList   bool
	BrokenLog  bool
	NzbLog     LogPolicy
}

// JobConfig describes the download the script was started for
type JobConfig struct {
	Name         string
	Status       string
	TotalStatus  string
	ScriptStatus string

	id        string
	idSet     bool
	directory string
	dirSet    bool
}

// ControlConfig holds the connection parameters of NZBGet's control API
type ControlConfig struct {
	Host     string
	Port     string
	Username string
	Password string

	missing string
}

// LoggingConfig represents the logger configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Settings is the validated, typed view of the configuration
type Settings struct {
	Mail     MailConfig
	SES      SESConfig
	Features FeatureConfig
	Job      JobConfig
	Control  ControlConfig
	TestMode bool
}

// Settings validates the configuration and returns its typed form. Required
// options are checked first, then the custom command.
func (c *Config) Settings() (*Settings, error) {
	for _, key := range requiredOptions {
		if !c.IsSet(key) {
			return nil, missingOption(optionName(key))
		}
	}

	testMode := false
	if c.IsSet(KeyCommand) {
		command := c.GetString(KeyCommand)
		if command != CommandConnectionTest {
			return nil, invalidCommand(command)
		}
		testMode = true
	}

	mail, err := c.GetMail()
	if err != nil {
		return nil, err
	}

	return &Settings{
		Mail:     mail,
		SES:      c.GetSES(),
		Features: c.GetFeatures(),
		Job:      c.GetJob(testMode),
		Control:  c.GetControl(),
		TestMode: testMode,
	}, nil
}

// GetMail returns the outbound mail configuration
func (c *Config) GetMail() (MailConfig, error) {
	encryption := EncryptionMode(strings.ToLower(c.GetString(KeyEncryption)))
	switch encryption {
	case EncryptionNone, EncryptionStartTLS, EncryptionForce:
	default:
		return MailConfig{}, invalidOption(optionName(KeyEncryption), c.GetString(KeyEncryption))
	}

	transport := strings.ToLower(c.GetString(KeyTransport))
	switch transport {
	case TransportSMTP, TransportSES:
	default:
		return MailConfig{}, invalidOption(optionName(KeyTransport), c.GetString(KeyTransport))
	}

	return MailConfig{
		Transport:  transport,
		Server:     c.GetString(KeyServer),
		Port:       c.GetString(KeyPort),
		Encryption: encryption,
		Username:   c.GetString(KeyUsername),
		Password:   c.GetString(KeyPassword),
		From:       c.GetString(KeyFrom),
		To:         c.GetString(KeyTo),
	}, nil
}

// GetSES returns the SES configuration
func (c *Config) GetSES() SESConfig {
	return SESConfig{
		Region: c.GetString(KeySESRegion),
	}
}

// GetFeatures returns the section toggles
func (c *Config) GetFeatures() FeatureConfig {
	// Only OnFailure suppresses messages; any other value sends them
	sendMail := SendPolicy(c.GetString(KeySendMail))
	if sendMail != SendOnFailure {
		sendMail = SendAlways
	}

	// Anything other than Always/OnFailure disables the log, like NZBGet's
	// own "Never" choice.
	nzbLog := LogPolicy(c.GetString(KeyNzbLog))
	if nzbLog != LogAlways && nzbLog != LogOnFailure {
		nzbLog = LogNever
	}

	return FeatureConfig{
		SendMail:   sendMail,
		Statistics: c.GetString(KeyStatistics) == "yes",
		FileList:   c.GetString(KeyFileList) == "yes",
		BrokenLog:  c.GetString(KeyBrokenLog) == "yes",
		NzbLog:     nzbLog,
	}
}

// GetJob returns the job context. In test mode the status is forced to a
// successful download.
func (c *Config) GetJob(testMode bool) JobConfig {
	job := JobConfig{
		Name:         c.GetString(KeyNzbName),
		Status:       c.GetString(KeyStatus),
		TotalStatus:  c.GetString(KeyTotalStatus),
		ScriptStatus: c.GetString(KeyScriptStatus),
		id:           c.GetString(KeyNzbID),
		idSet:        c.IsSet(KeyNzbID),
		directory:    c.GetString(KeyDirectory),
		dirSet:       c.IsSet(KeyDirectory),
	}
	if testMode {
		job.Status = "SUCCESS/ALL"
		job.TotalStatus = "SUCCESS"
		job.ScriptStatus = ""
	}
	return job
}

// GetControl returns the control API parameters
func (c *Config) GetControl() ControlConfig {
	control := ControlConfig{
		Host:     c.GetString(KeyControlIP),
		Port:     c.GetString(KeyControlPort),
		Username: c.GetString(KeyControlUsername),
		Password: c.GetString(KeyControlPassword),
	}
	for _, key := range []string{KeyControlIP, KeyControlPort, KeyControlUsername, KeyControlPassword} {
		if !c.IsSet(key) {
			control.missing = variableName(key)
			break
		}
	}
	return control
}

// GetLogging returns the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:  c.GetString(KeyLogLevel),
		Format: c.GetString(KeyLogFormat),
	}
}

// NzbID returns the numeric job identifier
func (j JobConfig) NzbID() (int64, error) {
	if !j.idSet {
		return 0, missingVariable(variableName(KeyNzbID))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(j.id), 10, 64)
	if err != nil {
		return 0, invalidOption(variableName(KeyNzbID), j.id)
	}
	return id, nil
}

// Directory returns the job's destination directory
func (j JobConfig) Directory() (string, error) {
	if !j.dirSet {
		return "", missingVariable(variableName(KeyDirectory))
	}
	return j.directory, nil
}

// DisplayName returns the job name, or a placeholder when none is set
func (j JobConfig) DisplayName() string {
	if j.Name == "" {
		return "Test download"
	}
	return j.Name
}

// Validate reports the first missing control option
func (c ControlConfig) Validate() error {
	if c.missing != "" {
		return missingVariable(c.missing)
	}
	return nil
}

// Address returns host:port of the control API. NZBGet listening on all
// interfaces is reached via loopback.
func (c ControlConfig) Address() string {
	host := c.Host
	if host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, c.Port)
}

// optionName turns "nzbpo.from" into "FROM"
func optionName(key string) string {
	_, name, _ := strings.Cut(key, ".")
	return strings.ToUpper(name)
}

// variableName turns "nzbpp.nzbid" into "NZBPP_NZBID"
func variableName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
