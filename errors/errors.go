package errors

import (
	"fmt"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/membind/constants"
)

var namespace = errorc.Namespace(constants.Namespace)

// Sentinel errors. Use errors.Is to match.
var (
	// ErrMemberNotFound is returned when no field, property, indexer, method or
	// constructor matches the requested name and signature under the active flags.
	ErrMemberNotFound = namespace.NewError("member not found")
	// ErrAmbiguousMatch is returned when several overloads match a signature exactly.
	ErrAmbiguousMatch = namespace.NewError("ambiguous member match")
	// ErrTypeMismatch is returned when a value cannot be converted to the requested type.
	ErrTypeMismatch = namespace.NewError("type mismatch")
	// ErrConfiguration is returned when an accessor is requested from options
	// that were never scoped to a type. Obtain options through TypeBinder.Bind.
	ErrConfiguration = namespace.NewError("binding options are not scoped to a type")
	// ErrInvalidOperation is returned for writes to read-only members and similar misuse.
	ErrInvalidOperation = namespace.NewError("invalid operation")
	// ErrNoInstance is returned when an instance member is used without a bound instance.
	ErrNoInstance = namespace.NewError("instance member requires a bound instance")
	// ErrInvalidDefinition is returned by Register for malformed member definitions.
	ErrInvalidDefinition = namespace.NewError("invalid member definition")
	// ErrDuplicateMember is returned by Register when a member with the same
	// name and signature is already registered for the type.
	ErrDuplicateMember = namespace.NewError("duplicate member")
)

var newKey = errorc.KeyFactory(constants.ErrorFieldNamespace)

const (
	keySegmentMember = "member"
	keySegmentValue  = "value"
	keySegmentTarget = "target"
)

// Exported structured error field keys
var (
	ErrorFieldMemberName = newKey("name", keySegmentMember) // membind.member.name
	ErrorFieldMemberKind = newKey("kind", keySegmentMember) // membind.member.kind
	ErrorFieldMemberType = newKey("type", keySegmentMember) // membind.member.type
)

var (
	ErrorFieldValueType  = newKey("type", keySegmentValue)  // membind.value.type
	ErrorFieldTargetType = newKey("type", keySegmentTarget) // membind.target.type
)

var (
	ErrorFieldSignature = newKey("signature")
	ErrorFieldFlags     = newKey("flags")
	ErrorFieldReason    = newKey("reason")
	ErrorFieldCause     = newKey("cause")
)

// InvocationError reports a panic raised by an invoked method, constructor,
// property accessor or indexer. Errors returned by the member itself are
// never wrapped in an InvocationError.
type InvocationError struct {
	Member    string
	Recovered any
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %s panicked: %v", constants.Namespace, e.Member, e.Recovered)
}

// Unwrap returns the panic value when it is an error.
func (e *InvocationError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}
