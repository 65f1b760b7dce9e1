package sim

import "fmt"

// ConfigError reports a rejected configuration value. Field carries the
// yaml key so the message points at the offending config line.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvariantError reports a protocol contract violation observed during a
// run. A run that raises one is aborted; its partial records are discarded.
type InvariantError struct {
	Protocol string
	Epoch    int
	Detail   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated: protocol=%s epoch=%d: %s", e.Protocol, e.Epoch, e.Detail)
}

func invariantErrorf(protocol string, epoch int, format string, args ...any) *InvariantError {
	return &InvariantError{Protocol: protocol, Epoch: epoch, Detail: fmt.Sprintf(format, args...)}
}
