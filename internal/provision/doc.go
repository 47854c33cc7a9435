// Package provision turns a project description into calls of the
// sub-operation engine and merges their outcomes into one result.
//
// Every run has two phases. The first derives all paths and generated
// content and fails fast on malformed requests; nothing external is touched
// before it succeeds. The second invokes the sub-operations in a fixed
// order. Their failures are recorded in the aggregate and never stop the
// run.
package provision
