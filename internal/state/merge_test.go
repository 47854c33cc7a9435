package state

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InitialStatusFollowsMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Success, New("p", Apply).Status)
	assert.Equal(t, Pending, New("p", DryRun).Status)
	assert.Empty(t, New("p", Apply).Changes)
	assert.Empty(t, New("p", Apply).Comment)
}

func TestMerge_DisjointChangesAreUnioned(t *testing.T) {
	t.Parallel()

	whole := New("proj", Apply)
	Merge(Apply, whole, Result{Changes: map[string]any{"/a": "created"}, Status: Success})
	Merge(Apply, whole, Result{Changes: map[string]any{"/b": "created"}, Status: Success})

	want := map[string]any{"/a": "created", "/b": "created"}
	if diff := cmp.Diff(want, whole.Changes); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_LaterChangeWinsOnCollision(t *testing.T) {
	t.Parallel()

	whole := New("proj", Apply)
	Merge(Apply, whole, Result{Changes: map[string]any{"/a": "first"}})
	Merge(Apply, whole, Result{Changes: map[string]any{"/a": "second"}})

	require.Len(t, whole.Changes, 1)
	assert.Equal(t, "second", whole.Changes["/a"])
}

func TestMerge_IdenticalCommentsAreBothKept(t *testing.T) {
	t.Parallel()

	whole := New("proj", Apply)
	Merge(Apply, whole, Result{Comment: "directory present"})
	Merge(Apply, whole, Result{Comment: "directory present"})

	assert.Equal(t, "\ndirectory present\ndirectory present", whole.Comment)
}

func TestMerge_EmptyCommentIsSkipped(t *testing.T) {
	t.Parallel()

	whole := New("proj", Apply)
	Merge(Apply, whole, Result{Comment: "one"})
	Merge(Apply, whole, Result{})
	Merge(Apply, whole, Result{Comment: "two"})

	assert.Equal(t, "\none\ntwo", whole.Comment)
}

// A failed part in apply mode fails the aggregate.
func TestMerge_FailureInApplyModeFailsTheAggregate(t *testing.T) {
	t.Parallel()

	whole := New("proj", Apply)
	Merge(Apply, whole, Failed("github.present", errors.New("clone failed")))
	Merge(Apply, whole, Unchanged("file.directory", "ok"))

	assert.Equal(t, Failure, whole.Status)
	assert.Contains(t, whole.Comment, "clone failed")
}

func TestMerge_FailureInDryRunLeavesStatusPending(t *testing.T) {
	t.Parallel()

	whole := New("proj", DryRun)
	Merge(DryRun, whole, Failed("github.present", errors.New("unreachable")))

	assert.Equal(t, Pending, whole.Status)
}

func TestMerge_SuccessDoesNotClearFailure(t *testing.T) {
	t.Parallel()

	whole := New("proj", Apply)
	whole.Status = Failure
	Merge(Apply, whole, Unchanged("x", ""))

	assert.Equal(t, Failure, whole.Status)
}

func TestChanged_StatusFollowsMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Success, Changed(Apply, "n", nil, "").Status)
	assert.Equal(t, Pending, Changed(DryRun, "n", nil, "").Status)
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failure", Failure.String())
	assert.Equal(t, "Status(7)", Status(7).String())
}
