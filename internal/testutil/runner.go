package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call is one command recorded by FakeRunner.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Reply is what FakeRunner answers for a call. A non-zero ExitCode without
// Err still fails the call.
type Reply struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// FakeRunner is a scripted runner.CommandRunner. Hook decides the reply of
// each call; without a Hook every call succeeds with no output.
type FakeRunner struct {
	Hook func(call Call) Reply

	mu    sync.Mutex
	calls []Call
}

// Run implements runner.CommandRunner.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.Hook == nil {
		return nil, nil, 0, nil
	}
	reply := f.Hook(call)
	if reply.ExitCode != 0 && reply.Err == nil {
		reply.Err = fmt.Errorf("exit status %d", reply.ExitCode)
	}
	if reply.Err != nil && reply.ExitCode == 0 {
		reply.ExitCode = 1
	}
	return []byte(reply.Stdout), []byte(reply.Stderr), reply.ExitCode, reply.Err
}

// Commands returns every recorded call as a command line.
func (f *FakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.String()
	}
	return out
}

// Calls returns a copy of the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
