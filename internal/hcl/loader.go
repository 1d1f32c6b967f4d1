package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/roprogo/internal/config"
	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/fsutil"
)

// Extension is the file extension of diagram files.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL diagram loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges their blocks into one
// model. All problems of a file are reported together.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
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

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.merge(model, &root); err != nil {
			return nil, fmt.Errorf("invalid diagram file %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.", "subroutines", len(model.Subroutines), "sensors", len(model.Sensors))
	return model, nil
}

// merge translates one file's blocks into the model.
func (l *Loader) merge(model *config.Model, root *fileRoot) error {
	var errs *multierror.Error
	for _, sb := range root.Subroutines {
		if _, exists := model.Subroutines[sb.Name]; exists {
			errs = multierror.Append(errs, fmt.Errorf("subroutine %q is defined more than once", sb.Name))
			continue
		}
		sub, err := translateSubroutine(sb)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		model.Subroutines[sub.Name] = sub
	}
	for _, s := range root.Sensors {
		model.Sensors = append(model.Sensors, &config.Sensor{Module: s.Module, Port: s.Port, Value: s.Value})
	}
	return errs.ErrorOrNil()
}

// findAllHCLFiles returns every diagram file under paths, once each.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			allFiles = append(allFiles, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == Extension {
				add(path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return allFiles, nil
}
