package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/bakeplan/internal/ctxlog"
	"github.com/vk/bakeplan/internal/fsutil"
	"github.com/vk/bakeplan/internal/model"
	"github.com/vk/bakeplan/internal/schema"
)

// Loader parses bake files into the declaration model.
type Loader struct{}

// NewLoader creates a new bake file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the given path, either a single .hcl file or a directory
// searched recursively, and aggregates all declarations into one set.
func (l *Loader) Load(ctx context.Context, path string) (*model.Bake, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("bake path %q: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find bake files in %q: %w", path, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl bake files found in %q", path)
	}
	logger.Debug("Parsing bake files.", "count", len(files))

	bake := model.NewBake()
	parser := hclparse.NewParser()
	for _, file := range files {
		if err := l.loadFile(file, parser, bake); err != nil {
			return nil, err
		}
	}
	return bake, nil
}

// loadFile parses and decodes a single bake file into the shared set.
func (l *Loader) loadFile(path string, parser *hclparse.Parser, bake *model.Bake) error {
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	var file schema.BakeFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &file)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	return translate(&file, bake, path)
}
