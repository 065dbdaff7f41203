package middleware

import (
	"mercator-hq/harbor/pkg/apperror"
	"mercator-hq/harbor/pkg/router"
)

// OutcomeKind classifies how a request ended.
type OutcomeKind int

const (
	// OutcomeSuccess means the handler returned a response.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeApplicationError means the handler returned an error.
	OutcomeApplicationError
	// OutcomeAbnormalTermination means the handler panicked.
	OutcomeAbnormalTermination
)

// String returns the label used in logs and metrics.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeApplicationError:
		return "application_error"
	case OutcomeAbnormalTermination:
		return "abnormal_termination"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one request.
type Outcome struct {
	Kind OutcomeKind

	// Response is set for OutcomeSuccess.
	Response *router.Response

	// Err is set for both failure kinds. For OutcomeAbnormalTermination it
	// is a *apperror.PanicError.
	Err error
}

// Failed reports whether the outcome is not a success.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeSuccess
}

// Success wraps a handler response.
func Success(resp *router.Response) Outcome {
	return Outcome{Kind: OutcomeSuccess, Response: resp}
}

// ApplicationError wraps an error returned by a handler.
func ApplicationError(err error) Outcome {
	return Outcome{Kind: OutcomeApplicationError, Err: err}
}

// AbnormalTermination wraps a recovered panic.
func AbnormalTermination(pe *apperror.PanicError) Outcome {
	return Outcome{Kind: OutcomeAbnormalTermination, Err: pe}
}
