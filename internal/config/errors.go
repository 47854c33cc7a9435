package config

import "errors"

// Error kinds for malformed requests. They are raised before any
// sub-operation runs and abort the whole provisioning run.
var (
	// ErrConfigurationConflict indicates mutually exclusive options were set.
	ErrConfigurationConflict = errors.New("configuration conflict")

	// ErrMissingDependency indicates an option needs a value that was not
	// supplied or could not be derived.
	ErrMissingDependency = errors.New("missing dependency")
)

// IsConfigError reports whether err is one of the request error kinds.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigurationConflict) || errors.Is(err, ErrMissingDependency)
}
