// Package errors defines the failures drushgen reports to the user. Each
// kind embeds Base, which carries the code, message and remediation text,
// and Formatter renders them for the terminal.
//
//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// Code identifies a failure class and is shown next to the message.
type Code string

// Codes are grouped by hundreds: 2xx configuration, 3xx installation,
// 4xx network, 5xx locking, 6xx filesystem.
const (
	CodeConfigParse   Code = "E201"
	CodeConfigMissing Code = "E202"
	CodeConfigInvalid Code = "E203"

	CodeInstallFailed    Code = "E301"
	CodeChecksumMismatch Code = "E302"
	CodeCommandFailed    Code = "E303"

	CodeNetworkFailed Code = "E401"
	CodeHTTPError     Code = "E402"

	CodeLockHeld Code = "E501"

	CodeNotDirectory Code = "E601"
	CodeWriteFailed  Code = "E602"
)

// Base is embedded by every drushgen error type.
type Base struct {
	Code    Code
	Message string

	// Hint suggests what to do next. It may span several lines.
	Hint string

	// Example is a configuration snippet printed after the hint.
	Example string

	Cause error
}

func (b *Base) Error() string {
	if b.Cause == nil {
		return b.Message
	}
	return b.Message + ": " + b.Cause.Error()
}

func (b *Base) Unwrap() error {
	return b.Cause
}

func (b *Base) base() *Base {
	return b
}

// detail is one labeled line printed under the error header.
type detail struct {
	label string
	value string
	tone  tone
}

type tone int

const (
	tonePlain tone = iota
	toneResource
	toneExpected
	toneActual
)

// reportable is satisfied by the typed errors of this package.
type reportable interface {
	error
	base() *Base
	details() []detail
}
