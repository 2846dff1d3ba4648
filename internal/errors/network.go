//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "strconv"

// NetworkError reports a builtin HTTP fetch that failed.
type NetworkError struct {
	Base

	URL string

	// StatusCode is zero when no response was received.
	StatusCode int
}

// NewNetworkError wraps a transport failure for url.
func NewNetworkError(url string, cause error) *NetworkError {
	return &NetworkError{
		Base: Base{
			Code:    CodeNetworkFailed,
			Message: "failed to download from " + url,
			Hint:    "Check network connectivity, then re-run drushgen.",
			Cause:   cause,
		},
		URL: url,
	}
}

// NewHTTPError reports a response other than 200 OK.
func NewHTTPError(url string, statusCode int) *NetworkError {
	return &NetworkError{
		Base:       Base{Code: CodeHTTPError, Message: "failed to download: HTTP " + strconv.Itoa(statusCode)},
		URL:        url,
		StatusCode: statusCode,
	}
}

func (e *NetworkError) details() []detail {
	d := []detail{{label: "URL", value: e.URL}}
	if e.StatusCode > 0 {
		d = append(d, detail{label: "Status", value: strconv.Itoa(e.StatusCode), tone: toneActual})
	}
	return d
}
