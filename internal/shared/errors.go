package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Upstream API errors. Transient failures (rate limits, 5xx) are
	// retried with bounded backoff; not-found failures skip the entity
	// and the run continues.
	ErrUpstreamTransient = fmt.Errorf("transient upstream error")
	ErrUpstreamNotFound  = fmt.Errorf("upstream entity not found")
	ErrRetriesExhausted  = fmt.Errorf("retry attempts exhausted")

	// Storage errors. Both are fatal: an integrity violation means the
	// pipeline broke its own insert ordering, a schema error means the
	// database cannot be brought to a usable state.
	ErrIntegrity = fmt.Errorf("integrity constraint violated")
	ErrSchema    = fmt.Errorf("schema migration failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
