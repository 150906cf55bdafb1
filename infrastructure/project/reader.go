package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/domain"
)

// Reader discovers module manifests by walking a project tree.
type Reader struct {
	root    string
	formats *Registry
}

// NewReader creates a project reader rooted at the given directory, using
// the built-in manifest formats.
func NewReader(root string) *Reader {
	return &Reader{
		root:    root,
		formats: DefaultRegistry(),
	}
}

// ListModules walks the project tree and parses every module manifest found.
// The ".git" directory and other hidden directories are skipped. A directory
// holding more than one manifest flavor is an error.
func (r *Reader) ListModules(ctx context.Context) ([]domain.ModuleDefinition, error) {
	var definitions []domain.ModuleDefinition
	manifests := make(map[string]string)

	err := filepath.WalkDir(r.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if entry.IsDir() {
			if path != r.root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if r.formats.Get(entry.Name()) == nil {
			return nil
		}

		dir := filepath.Dir(path)
		if existing, found := manifests[dir]; found {
			return fmt.Errorf("multiple module manifests in %s (%s and %s)", dir, existing, entry.Name())
		}
		manifests[dir] = entry.Name()

		def, err := r.readManifest(path, entry.Name())
		if err != nil {
			return err
		}

		definitions = append(definitions, def)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return definitions, nil
}

func (r *Reader) readManifest(path, filename string) (domain.ModuleDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ModuleDefinition{}, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	def, err := r.formats.Get(filename).Parse(data)
	if err != nil {
		return domain.ModuleDefinition{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if def.Name == "" {
		return domain.ModuleDefinition{}, fmt.Errorf("manifest %s is missing a module name", path)
	}
	if def.Version == "" {
		return domain.ModuleDefinition{}, fmt.Errorf("manifest %s is missing a version", path)
	}

	def.Dir = r.moduleDir(path)
	logger.Debugf("[project] Found module %s (%s) at %s", def.Name, def.Version, def.Dir)

	return def, nil
}

// moduleDir converts a manifest path into the module's directory handle,
// relative to the project root with forward slashes. The root module is ".".
func (r *Reader) moduleDir(manifestPath string) string {
	rel, err := filepath.Rel(r.root, filepath.Dir(manifestPath))
	if err != nil {
		return "."
	}
	return filepath.ToSlash(rel)
}
