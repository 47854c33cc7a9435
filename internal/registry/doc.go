// Package registry provides the central "glue" between state kinds and the
// compiled Go handlers that converge them.
//
// The Registry maps the state kind names used by the engine (for example
// "file.directory") to the handler that implements them. Modules register
// their handlers at startup, and the registry is validated before any
// provisioning run so that a missing handler is reported once, up front,
// instead of as a failure in the middle of a run.
package registry
