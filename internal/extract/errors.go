package extract

import "errors"

// Sentinel kinds distinguishing the retryable parse failures from the
// terminal semantic ones.
var (
	ErrMalformedOutput = errors.New("model output is not a parseable JSON object")
	ErrMissingDates    = errors.New("model output lacks usable dates")
	ErrInvertedRange   = errors.New("model output has end date before start date")
)

// User-facing clarification questions for the terminal failure paths.
const (
	questionUnreachable = "I couldn't reach the scheduling assistant just now. Could you try again in a moment?"
	questionMalformed   = "I couldn't work out the details of that request. Could you rephrase it with the dates, duration, and participants?"
	questionBadDates    = "I couldn't pin down the date range. Which dates should I search, and in what order?"
)
