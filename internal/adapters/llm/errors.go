package llm

import "errors"

// Sentinel kinds for transport failures. Timeouts, cancellations, and
// unreachable endpoints all surface as ErrTransport so the extraction
// gateway can treat them uniformly.
var (
	ErrTransport     = errors.New("llm transport failed")
	ErrEmptyResponse = errors.New("llm returned no choices")
)
