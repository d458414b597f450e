package membind

import (
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/membind/errors"
	"github.com/ygrebnov/membind/internal/core"
)

// Sentinel errors re-exported from the errors package. Use errors.Is to match.
var (
	ErrMemberNotFound   = errors.ErrMemberNotFound
	ErrAmbiguousMatch   = errors.ErrAmbiguousMatch
	ErrTypeMismatch     = errors.ErrTypeMismatch
	ErrConfiguration    = errors.ErrConfiguration
	ErrInvalidOperation = errors.ErrInvalidOperation
	ErrNoInstance       = errors.ErrNoInstance

	ErrInvalidDefinition = errors.ErrInvalidDefinition
	ErrDuplicateMember   = errors.ErrDuplicateMember
)

// InvocationError reports a panic raised inside an invoked member.
type InvocationError = errors.InvocationError

func typeMismatch(member string, want, got string) error {
	return errorc.With(
		errors.ErrTypeMismatch,
		errorc.String(errors.ErrorFieldMemberName, member),
		errorc.String(errors.ErrorFieldMemberType, want),
		errorc.String(errors.ErrorFieldValueType, got),
	)
}

func invalidOperation(member string, kind core.Kind, reason string) error {
	return errorc.With(
		errors.ErrInvalidOperation,
		errorc.String(errors.ErrorFieldMemberName, member),
		errorc.String(errors.ErrorFieldMemberKind, kind.String()),
		errorc.String(errors.ErrorFieldReason, reason),
	)
}
