package transport

// BizCode wraps the business result code carried in responses and access
// logs, typed to avoid accidental int mixups.
type BizCode int

const (
	OK           = 0
	InvalidParam = 400
	Unauthorized = 401
	Forbidden    = 403
	NotFound     = 404
	SystemError  = 500
)
