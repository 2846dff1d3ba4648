//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// ConfigError is raised while reading or validating the configuration.
type ConfigError struct {
	Base

	File    string
	Section string
	Key     string
}

// NewConfigError reports a file that could not be read or parsed.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{Base: Base{Code: CodeConfigParse, Message: message, Cause: cause}}
}

// NewMissingConfigError reports a required file, section or value that is
// absent.
func NewMissingConfigError(message string) *ConfigError {
	return &ConfigError{Base: Base{Code: CodeConfigMissing, Message: message}}
}

// NewInvalidConfigError reports a key whose value cannot be used.
func NewInvalidConfigError(key, message string, cause error) *ConfigError {
	return &ConfigError{
		Base: Base{Code: CodeConfigInvalid, Message: message, Cause: cause},
		Key:  key,
	}
}

func (e *ConfigError) WithFile(file string) *ConfigError {
	e.File = file
	return e
}

func (e *ConfigError) WithSection(section string) *ConfigError {
	e.Section = section
	return e
}

func (e *ConfigError) WithHint(hint string) *ConfigError {
	e.Hint = hint
	return e
}

func (e *ConfigError) WithExample(example string) *ConfigError {
	e.Example = example
	return e
}

func (e *ConfigError) details() []detail {
	return []detail{
		{label: "File", value: e.File, tone: toneResource},
		{label: "Section", value: e.Section},
		{label: "Key", value: e.Key},
	}
}
