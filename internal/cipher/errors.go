package cipher

import "fmt"

// #region malformed-input

// MalformedInputError reports a binary token or frequency-table line that
// could not be parsed. Line is 1-based for line-oriented sources and 0 when
// the source is a token stream; Token is the offending token or line text.
type MalformedInputError struct {
	Source string
	Line   int
	Token  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed %s at line %d (%q): %s", e.Source, e.Line, e.Token, e.Reason)
	}
	if e.Token != "" {
		return fmt.Sprintf("malformed %s %q: %s", e.Source, e.Token, e.Reason)
	}
	return fmt.Sprintf("malformed %s: %s", e.Source, e.Reason)
}

// #endregion malformed-input

// #region configuration

// ConfigurationError reports a tuning parameter rejected at construction time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// #endregion configuration
