package lawdex

import "github.com/lawdex/lawdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery         = domain.ErrInvalidQuery
	ErrRemoteUnavailable    = domain.ErrRemoteUnavailable
	ErrRemoteError          = domain.ErrRemoteError
	ErrSecondaryUnavailable = domain.ErrSecondaryUnavailable
	ErrSecondaryError       = domain.ErrSecondaryError
)
