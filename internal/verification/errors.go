package verification

import "errors"

var (
	ErrServiceUnavailable = errors.New("face recognition service unavailable")
	ErrEmptyResponse      = errors.New("empty response from face recognition service")
	ErrInvalidResponse    = errors.New("invalid response from face recognition service")
	ErrEmptyImage         = errors.New("image is empty")
)
