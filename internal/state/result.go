package state

import "fmt"

// Status is the outcome of a sub-operation or of a whole provisioning run.
type Status int

const (
	// Pending means changes would be made but the run is a dry run.
	Pending Status = iota
	// Success means the state is (now) converged.
	Success
	// Failure means the sub-operation could not converge its state.
	Failure
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText lets reports print the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Mode selects whether sub-operations may mutate external state.
type Mode struct {
	DryRun bool
}

// Apply is the mode in which sub-operations converge their state.
var Apply = Mode{}

// DryRun is the mode in which sub-operations only report what would change.
var DryRun = Mode{DryRun: true}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m.DryRun {
		return "dry-run"
	}
	return "apply"
}

// Initial is the status a fresh aggregate starts with in this mode.
func (m Mode) Initial() Status {
	if m.DryRun {
		return Pending
	}
	return Success
}

// Result is the outcome of one sub-operation, or the aggregate of a full run.
// Changes maps a change key (usually a path) to a description of the change.
type Result struct {
	Name    string         `json:"name" yaml:"name"`
	Changes map[string]any `json:"changes" yaml:"changes"`
	Status  Status         `json:"result" yaml:"result"`
	Comment string         `json:"comment" yaml:"comment"`
}

// New returns an empty aggregate for the named project.
func New(name string, mode Mode) *Result {
	return &Result{
		Name:    name,
		Changes: make(map[string]any),
		Status:  mode.Initial(),
	}
}

// Unchanged builds a result for a state that is already converged.
func Unchanged(name, comment string) Result {
	return Result{Name: name, Changes: map[string]any{}, Status: Success, Comment: comment}
}

// Changed builds a result for a state that was (or, in dry-run mode, would
// be) converged. The status is pending in dry-run mode.
func Changed(mode Mode, name string, changes map[string]any, comment string) Result {
	status := Success
	if mode.DryRun {
		status = Pending
	}
	return Result{Name: name, Changes: changes, Status: status, Comment: comment}
}

// Failed builds a result for a sub-operation that could not converge.
func Failed(name string, err error) Result {
	return Result{Name: name, Changes: map[string]any{}, Status: Failure, Comment: err.Error()}
}
