//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"strconv"
	"strings"
)

// InstallError wraps a failed step while installing drush, a command
// package or the wrapper.
type InstallError struct {
	Base

	// Resource names what was being installed.
	Resource string

	// Action is the failed step: download, verify, extract or generate.
	Action string

	URL string
}

func NewInstallError(resource, action string, cause error) *InstallError {
	return &InstallError{
		Base:     Base{Code: CodeInstallFailed, Message: action + " failed", Cause: cause},
		Resource: resource,
		Action:   action,
	}
}

func (e *InstallError) WithURL(url string) *InstallError {
	e.URL = url
	return e
}

func (e *InstallError) details() []detail {
	return []detail{
		{label: "Resource", value: e.Resource, tone: toneResource},
		{label: "URL", value: e.URL},
	}
}

// ChecksumError reports a downloaded archive whose digest differs from the
// configured one.
type ChecksumError struct {
	Base

	Resource string
	URL      string
	Expected string
	Got      string
}

func NewChecksumError(resource, url, expected, got string) *ChecksumError {
	return &ChecksumError{
		Base: Base{
			Code:    CodeChecksumMismatch,
			Message: "checksum verification failed",
			Hint:    "The archive may have been corrupted during download.\nRe-run drushgen, or update drush-checksum in your configuration file.",
		},
		Resource: resource,
		URL:      url,
		Expected: expected,
		Got:      got,
	}
}

func (e *ChecksumError) details() []detail {
	return []detail{
		{label: "Resource", value: e.Resource, tone: toneResource},
		{label: "URL", value: e.URL},
		{label: "Expected", value: e.Expected, tone: toneExpected},
		{label: "Got", value: e.Got, tone: toneActual},
	}
}

// CommandError reports an external tool (wget, tar) that could not start
// or exited non-zero.
type CommandError struct {
	Base

	Command string
	Args    []string

	// ExitCode is -1 when the command never ran.
	ExitCode int

	// Output is the command's combined stdout and stderr.
	Output string
}

func NewCommandError(command string, args []string, exitCode int, output string, cause error) *CommandError {
	return &CommandError{
		Base:     Base{Code: CodeCommandFailed, Message: "command " + command + " failed", Cause: cause},
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
		Output:   output,
	}
}

// CommandLine returns the command and its arguments joined by spaces.
func (e *CommandError) CommandLine() string {
	return strings.Join(append([]string{e.Command}, e.Args...), " ")
}

func (e *CommandError) details() []detail {
	d := []detail{{label: "Command", value: e.CommandLine(), tone: toneResource}}
	if e.ExitCode >= 0 {
		d = append(d, detail{label: "Exit", value: strconv.Itoa(e.ExitCode), tone: toneActual})
	}
	return d
}
