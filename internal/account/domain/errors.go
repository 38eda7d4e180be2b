package domain

import "DewanRaja/modules/kit/errx"

var (
	ErrUserNotFound      = errx.NewBiz("USER_NOT_FOUND", "user not found")
	ErrSystemUnavailable = errx.NewSys(errx.CodeUnavailable, "account store unavailable")
)
