// Package engine is the contract between the provisioning orchestrator and
// the state-execution engine. Each sub-operation kind has one method on
// Engine and one argument type; the Dispatcher implements Engine by routing
// every call to the handler registered for that kind.
package engine
