package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/fsutil"
	"github.com/specialistvlad/funwith/internal/schema"
)

// Extension of project files found in directories.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL project file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every project file under paths into one model. Directories
// are searched for *.hcl files; files are read whatever their extension.
// Projects keep their declaration order across files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.File
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.merge(ctx, model, &root); err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.", "projects", len(model.Projects), "compilers", len(model.Compilers), "defaults", len(model.Defaults))
	return model, nil
}

func (l *Loader) merge(ctx context.Context, model *config.Model, root *schema.File) error {
	for _, d := range root.Defaults {
		attrs, diags := d.Body.JustAttributes()
		if diags.HasErrors() {
			return fmt.Errorf("defaults: %w", diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return fmt.Errorf("defaults.%s: %w", name, diags)
			}
			model.Defaults[name] = val
		}
	}

	for _, c := range root.Compilers {
		if _, exists := model.Compilers[c.Name]; exists {
			return fmt.Errorf("compiler %q is declared more than once", c.Name)
		}
		model.Compilers[c.Name] = translateCompiler(c)
	}

	for _, p := range root.Projects {
		if _, exists := model.Project(p.Name); exists {
			return fmt.Errorf("project %q is declared more than once", p.Name)
		}
		project, err := translateProject(ctx, p)
		if err != nil {
			return err
		}
		model.Projects = append(model.Projects, project)
	}
	return nil
}

// findFiles expands paths into the list of files to parse. Missing paths
// are an error because every path was named explicitly.
func (l *Loader) findFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}

