package ddns

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome is the verdict of one update pass.
type Outcome int

const (
	Success Outcome = iota
	ConfigurationError
	ResolutionFailure
	TransportFailure
	ProviderRejected
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ConfigurationError:
		return "configuration error"
	case ResolutionFailure:
		return "resolution failure"
	case TransportFailure:
		return "transport failure"
	case ProviderRejected:
		return "provider rejected"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ExitCode is the process exit status for o.
// Only Success exits zero.
func (o Outcome) ExitCode() int {
	if o == Success {
		return 0
	}
	return 1
}

// Classify maps an error returned by RunDDNS (or any Resolver or Provider in this package) to an Outcome.
// Unrecognized errors are treated as transport failures.
func Classify(err error) Outcome {
	if err == nil {
		return Success
	}
	var (
		ce *ConfigError
		re *ResolveError
		te *TransportError
		pe *RejectedError
	)
	switch {
	case errors.As(err, &re):
		return ResolutionFailure
	case errors.As(err, &ce):
		return ConfigurationError
	case errors.As(err, &pe):
		return ProviderRejected
	case errors.As(err, &te):
		return TransportFailure
	}
	return TransportFailure
}

// ConfigError reports required settings that were absent.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}

// ResolveError is returned when every address source failed.
type ResolveError struct {
	Errs []error
}

func (e *ResolveError) Error() string {
	if len(e.Errs) == 0 {
		return "IP fetch failed"
	}
	return fmt.Sprintf("IP fetch failed: %s", errors.Join(e.Errs...))
}

func (e *ResolveError) Unwrap() []error {
	return e.Errs
}

// TransportError means a request did not complete,
// timed out, or came back with a non-success status.
type TransportError struct {
	Op         string
	StatusCode int    // zero when no response was received
	Detail     string // provider error detail recovered from the body, if any
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError is a well-formed provider response with success=false.
type RejectedError struct {
	Errors []string
}

func (e *RejectedError) Error() string {
	return "cloudflare API error: [" + strings.Join(e.Errors, "; ") + "]"
}
