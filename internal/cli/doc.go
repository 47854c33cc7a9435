// Package cli turns the funwith command line into an app.Config and maps
// application errors onto process exit codes.
package cli
