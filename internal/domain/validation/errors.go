package validation

import "errors"

// ErrValidation is matched by every error returned from this package.
var ErrValidation = errors.New("validation failed")

// Sentinel kinds for individual validation failures.
var (
	ErrInvalidSubject        = errors.New("invalid subject")
	ErrInvalidRegion         = errors.New("invalid region")
	ErrInvalidYear           = errors.New("invalid year")
	ErrInvalidPage           = errors.New("invalid page")
	ErrInvalidLimit          = errors.New("invalid limit")
	ErrInvalidWeightsFormat  = errors.New("invalid weights format")
	ErrInvalidWeightSubjects = errors.New("invalid weight subjects")
	ErrInvalidWeightValues   = errors.New("invalid weight values")
	ErrWeightsNotNormalized  = errors.New("weights not normalized")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) Error() string { return e.Message }

// Is matches ErrValidation and the error's own kind.
func (e *Error) Is(target error) bool {
	return target == ErrValidation || target == e.Kind
}

// KindName returns a short label for the kind, used for metrics.
func KindName(err error) string {
	var verr *Error
	if !errors.As(err, &verr) || verr.Kind == nil {
		return "unknown"
	}
	switch verr.Kind {
	case ErrInvalidSubject:
		return "subject"
	case ErrInvalidRegion:
		return "region"
	case ErrInvalidYear:
		return "year"
	case ErrInvalidPage:
		return "page"
	case ErrInvalidLimit:
		return "limit"
	case ErrInvalidWeightsFormat:
		return "weights_format"
	case ErrInvalidWeightSubjects:
		return "weight_subjects"
	case ErrInvalidWeightValues:
		return "weight_values"
	case ErrWeightsNotNormalized:
		return "weights_total"
	default:
		return "unknown"
	}
}
