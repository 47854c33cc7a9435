package engine

import (
	"context"

	"github.com/specialistvlad/funwith/internal/state"
	"github.com/zclconf/go-cty/cty"
)

// Kind names a sub-operation kind.
type Kind string

const (
	KindDirectory  Kind = "file.directory"
	KindManaged    Kind = "file.managed"
	KindCheckout   Kind = "github.present"
	KindTags       Kind = "ctags.run"
	KindVirtualenv Kind = "virtualenv.managed"
	KindPackages   Kind = "spack.installed"
)

// Kinds lists every kind the orchestrator may invoke.
var Kinds = []Kind{KindDirectory, KindManaged, KindCheckout, KindTags, KindVirtualenv, KindPackages}

// KindNames is Kinds as strings, for registry validation.
func KindNames() []string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return names
}

// DirectoryArgs asks for a directory to exist.
type DirectoryArgs struct {
	Path string
}

// FileArgs asks for a file to hold exact content. The content is Contents
// when Template is empty, otherwise Template rendered with Variables.
type FileArgs struct {
	Path      string
	Contents  string
	Template  string
	Variables map[string]cty.Value
	Options   map[string]string
}

// CheckoutArgs asks for a repository to be checked out at Target, with an
// optional commit identity configured in the clone.
type CheckoutArgs struct {
	Repository string
	Target     string
	Email      string
	Username   string
}

// TagsArgs asks for a tags index of Dir, skipping the Exclude patterns.
type TagsArgs struct {
	Dir     string
	Exclude []string
}

// VirtualenvArgs asks for a Python virtual environment at Path.
type VirtualenvArgs struct {
	Path    string
	Options map[string]string
}

// PackagesArgs asks for a package set to be installed.
type PackagesArgs struct {
	Packages []string
}

// Engine executes sub-operations. Every method honours mode and returns one
// result; external failures are reported in the result, never as a panic.
type Engine interface {
	Directory(ctx context.Context, mode state.Mode, args DirectoryArgs) state.Result
	ManagedFile(ctx context.Context, mode state.Mode, args FileArgs) state.Result
	Checkout(ctx context.Context, mode state.Mode, args CheckoutArgs) state.Result
	Tags(ctx context.Context, mode state.Mode, args TagsArgs) state.Result
	Virtualenv(ctx context.Context, mode state.Mode, args VirtualenvArgs) state.Result
	InstallPackages(ctx context.Context, mode state.Mode, args PackagesArgs) state.Result
}
