package state

// Merge folds part into whole. It must be called once per sub-operation, in
// invocation order, from a single goroutine.
//
// In apply mode a failed part marks the whole run as failed. Change keys are
// unioned with the later part winning on collision, and the part's comment is
// appended on a new line.
func Merge(mode Mode, whole *Result, part Result) {
	if !mode.DryRun && part.Status == Failure {
		whole.Status = Failure
	}
	if whole.Changes == nil {
		whole.Changes = make(map[string]any, len(part.Changes))
	}
	for key, change := range part.Changes {
		whole.Changes[key] = change
	}
	if part.Comment != "" {
		whole.Comment += "\n" + part.Comment
	}
}
