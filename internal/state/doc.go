// Package state defines the result record shared by every sub-operation and
// the aggregator that folds sub-operation results into the single result of
// a provisioning run.
package state
