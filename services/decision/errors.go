package decision

import "errors"

// Advisory failure taxonomy. None of these ever escape the orchestrator; every
// one of them routes the evaluation to the rule-based fallback.
var (
	// ErrAdvisoryUnavailable means no usable endpoint/credential is configured.
	// Calls fail fast without network I/O.
	ErrAdvisoryUnavailable = errors.New("advisory service not configured")
	// ErrAdvisoryTimeout covers deadline expiry and exhausted retries.
	ErrAdvisoryTimeout = errors.New("advisory service timed out")
	// ErrAdvisoryRejected covers client-side (4xx) failures; never retried.
	ErrAdvisoryRejected = errors.New("advisory service rejected the request")
	// ErrAdvisoryMalformed covers responses that are not valid decision JSON.
	ErrAdvisoryMalformed = errors.New("advisory response malformed")
)
