package tenants

import "errors"

var (
	ErrNotInitialized     = errors.New("tenant store not initialised")
	ErrStorageUnavailable = errors.New("tenant storage unavailable")
	ErrFileNotFound       = errors.New("tenant store file not found")
	ErrFormat             = errors.New("malformed tenant store content")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrNotImplemented     = errors.New("operation not implemented")
	ErrInvalidTenant      = errors.New("invalid tenant")
)
