package openmusic

// Error taxonomy: NotFound maps to 404, Authorization to 403 and
// Invariant to 400. Anything else is a server fault and surfaces as a
// generic 500.

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

type authorizationError struct {
	msg string
}

func (e *authorizationError) Error() string { return e.msg }

type invariantError struct {
	msg string
}

func (e *invariantError) Error() string { return e.msg }

func errNotFound(msg string) error      { return &notFoundError{msg: msg} }
func errAuthorization(msg string) error { return &authorizationError{msg: msg} }
func errInvariant(msg string) error     { return &invariantError{msg: msg} }
