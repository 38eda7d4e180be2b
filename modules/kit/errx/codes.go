package errx

// System-level error codes shared across the whole server. Domain codes
// (NOT_ENOUGH_TROOPS, KINGDOM_NOT_FOUND, ...) belong to their own packages.

const (
	// CodeInternal is the fallback for unexpected server failures.
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable marks an unreachable dependency (DB, downstream).
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout marks a request or dependency call timeout.
	CodeTimeout Code = "TIMEOUT"
	// CodeForbidden marks an authorization failure.
	CodeForbidden Code = "FORBIDDEN"
	// CodeBadParam marks malformed request input.
	CodeBadParam Code = "BAD_PARAM"
)

// Shared sentinels; derive request-scoped copies with WithData/WithCause.
var (
	ErrInternal    = NewSys(CodeInternal, "internal server error")
	ErrUnavailable = NewSys(CodeUnavailable, "service unavailable")
	ErrTimeout     = NewSys(CodeTimeout, "request timed out")
	ErrForbidden   = NewBiz(CodeForbidden, "not allowed")
	ErrBadParam    = NewBiz(CodeBadParam, "invalid request parameter")
)
