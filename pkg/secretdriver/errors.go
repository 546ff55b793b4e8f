package secretdriver

import "fmt"

// ValidationError reports invalid input to the driver surface itself,
// such as an empty URL.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// InvalidSecretError reports a secret identifier that did not resolve
// to any secret in the cache.
type InvalidSecretError struct {
	SecretID string
}

func (e *InvalidSecretError) Error() string {
	return fmt.Sprintf("%q is not a valid URL starting with scheme %q or a retrievable secret identifier", e.SecretID, Scheme)
}

// ParseError reports a secret payload that is not valid JSON or lacks
// required fields. It is terminal: the payload will not become valid
// by refreshing, so the connect flow never retries it.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return "could not parse secret JSON: " + e.Reason
	}
	return "could not parse secret JSON"
}

func (e *ParseError) Unwrap() error { return e.Err }

// RetryExhaustedError reports that the bounded refresh-and-retry loop
// completed without a successful authentication. It wraps the final
// authentication error.
type RetryExhaustedError struct {
	SecretID string
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("connect failed to authenticate after %d attempts: reached max connection retries", e.Attempts)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

// ConfigError reports a setup problem, such as a real driver name that
// is not registered. It signals a misconfiguration, not a transient
// condition.
type ConfigError struct {
	Message    string
	Suggestion string
}

func (e *ConfigError) Error() string {
	msg := "configuration error: " + e.Message
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}
