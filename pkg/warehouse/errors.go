package warehouse

import (
	"fmt"
	"regexp"
)

// secretFieldNames never appear in an OpError's parameter dump in the
// clear, mirroring the teacher's pkg/masking regex-substitution approach
// but scoped to the handful of secret-carrying columns this schema has,
// rather than a configurable pattern registry.
var secretFieldNames = map[string]bool{
	"webhook_secret":                true,
	"provider_webhook_secret":       true,
	"transcript_provider_credential": true,
}

// bearerLike catches values that look like opaque credentials even when
// passed under an unexpected key (defense in depth alongside the
// field-name denylist above).
var bearerLike = regexp.MustCompile(`^(?i)(sk-|bearer\s+|token\s+)`)

const redacted = "***"

// OpError wraps a warehouse operation failure with the operation name and
// its bound parameters, secrets elided, so a caller or log line can see
// enough to diagnose without leaking a credential (§4.1 failure
// semantics: "operation name and bound parameters elided of secrets").
type OpError struct {
	Op     string
	Params map[string]any
	Err    error
}

// NewOpError builds an OpError, masking any parameter whose key is a
// known secret field or whose value looks like a bearer credential.
func NewOpError(op string, params map[string]any, err error) *OpError {
	safe := make(map[string]any, len(params))
	for k, v := range params {
		if secretFieldNames[k] {
			safe[k] = redacted
			continue
		}
		if s, ok := v.(string); ok && bearerLike.MatchString(s) {
			safe[k] = redacted
			continue
		}
		safe[k] = v
	}
	return &OpError{Op: op, Params: safe, Err: err}
}

func (e *OpError) Error() string {
	return fmt.Sprintf("warehouse: %s failed with params=%v: %v", e.Op, e.Params, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
