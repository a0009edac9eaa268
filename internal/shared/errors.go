package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication and session errors
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrSessionCreate  = fmt.Errorf("browser session creation failed")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// Recipient source errors
	ErrSourceUnavailable = fmt.Errorf("recipient source unavailable")
	ErrColumnNotFound    = fmt.Errorf("recipient column not found")

	// Zight UI errors
	ErrAssetNotFound  = fmt.Errorf("asset not found on dashboard")
	ErrShareSurface   = fmt.Errorf("share surface unavailable")
	ErrSubmitControl  = fmt.Errorf("submit control unavailable")
	ErrRateLimited    = fmt.Errorf("provider invitee limit reached")
	ErrShareRejected  = fmt.Errorf("share rejected by provider")
	ErrReconcile      = fmt.Errorf("invitee reconciliation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
