package config

import "fmt"

// ConfigurationError reports a missing or invalid option, or an unknown
// custom command. Option holds the option name as shown on NZBGet's
// settings page (without the NZBPO_ prefix) or the raw variable name for
// job context and host options.
type ConfigurationError struct {
	Option string
	Msg    string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

func missingOption(name string) *ConfigurationError {
	return &ConfigurationError{
		Option: name,
		Msg:    fmt.Sprintf("Option %s is missing in configuration file. Please check script settings", name),
	}
}

func missingVariable(name string) *ConfigurationError {
	return &ConfigurationError{
		Option: name,
		Msg:    fmt.Sprintf("Variable %s is not set. The script must be started by NZBGet", name),
	}
}

func invalidOption(name, value string) *ConfigurationError {
	return &ConfigurationError{
		Option: name,
		Msg:    fmt.Sprintf("Option %s has invalid value %q. Please check script settings", name, value),
	}
}

func invalidCommand(command string) *ConfigurationError {
	return &ConfigurationError{
		Option: "COMMAND",
		Msg:    "Invalid command " + command,
	}
}
