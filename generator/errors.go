package generator

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched with errors.Is against a *GenerationError.
var (
	// ErrUnresolvable: no matcher claimed the type, or a forward reference
	// was missing from the environment.
	ErrUnresolvable = errors.New("unresolvable type")
	// ErrMalformed: a matcher returned a generator that produced nothing on
	// its first pull with budget still available.
	ErrMalformed = errors.New("malformed generator")
	// ErrFailed: a generator failed while producing a value.
	ErrFailed = errors.New("generation failed")
)

// GenerationError is a generation failure attributed to the nested type
// node it happened at.
type GenerationError struct {
	kind    error
	Path    []string
	Type    string
	Matcher string
	Reason  string
	cause   error
}

func newError(kind error, c *Context, reason string) *GenerationError {
	return &GenerationError{
		kind:   kind,
		Path:   append([]string(nil), c.Path...),
		Type:   Describe(c.Source),
		Reason: reason,
	}
}

// Error returns the message with the accumulated path.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString(e.kind.Error())
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	fmt.Fprintf(&b, " at %s (%s)", strings.Join(e.Path, " "), e.Type)
	if e.Matcher != "" {
		fmt.Fprintf(&b, " from matcher %s", e.Matcher)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Is matches the sentinel kind of the error.
func (e *GenerationError) Is(target error) bool { return target == e.kind }

// Unwrap returns the underlying cause for errors.As/errors.Is support.
func (e *GenerationError) Unwrap() error { return e.cause }
