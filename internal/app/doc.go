// Package app wires the project loader, the pillar, the module registry and
// the provisioning orchestrator into one runnable App. It knows nothing
// about flags or process exit codes.
package app
