// Package corpus locates metadata and definition documents under a
// catalog root.
//
// The layout is fixed: every workflow lives somewhere below
// <root>/workflows as a pair of files, <id>.json (the definition) and
// <id>-metadata.json (the metadata document).
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	wferrors "github.com/caphetech/wfcatalog/internal/errors"
)

const (
	// DefaultWorkflowsDir is the root-relative directory holding the corpus.
	DefaultWorkflowsDir = "workflows"

	// MetadataSuffix marks a metadata document.
	MetadataSuffix = "-metadata.json"

	// DefinitionSuffix marks a definition document.
	DefinitionSuffix = ".json"

	// TemplateName is a metadata template, never treated as a definition.
	TemplateName = "metadata-template.json"
)

// ScanOptions configures a scan.
type ScanOptions struct {
	// WorkflowsDir overrides DefaultWorkflowsDir.
	WorkflowsDir string
}

func (o ScanOptions) workflowsDir() string {
	if o.WorkflowsDir == "" {
		return DefaultWorkflowsDir
	}
	return o.WorkflowsDir
}

// Ref points at one metadata document.
type Ref struct {
	// Path is the OS path used to read the file.
	Path string

	// Rel is the slash-separated path relative to the catalog root,
	// e.g. "workflows/hr/onboarding-metadata.json".
	Rel string
}

// ID returns the file base name with the metadata suffix removed.
func (r Ref) ID() string {
	return strings.TrimSuffix(path.Base(r.Rel), MetadataSuffix)
}

// DefinitionRel returns the root-relative path of the paired definition.
// Only the first occurrence of the metadata suffix is replaced.
func (r Ref) DefinitionRel() string {
	return strings.Replace(r.Rel, MetadataSuffix, DefinitionSuffix, 1)
}

// MetadataURL returns the site URL of the metadata document.
func (r Ref) MetadataURL() string {
	return "/" + r.Rel
}

// FileURL returns the site URL of the paired definition.
func (r Ref) FileURL() string {
	return "/" + r.DefinitionRel()
}

// Scan returns every metadata document below <root>/<workflows dir>, at any
// depth, in lexical walk order. Entries whose names start with "." are
// skipped, as are files named exactly MetadataSuffix (they have no id).
//
// A missing workflows directory yields no refs and no error. An inaccessible
// root is an ErrIO.
func Scan(root string, opts ScanOptions) ([]Ref, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	var refs []Ref
	err := walk(root, opts.workflowsDir(), func(p, rel string, d fs.DirEntry) {
		name := d.Name()
		if !strings.HasSuffix(name, MetadataSuffix) || name == MetadataSuffix {
			return
		}
		refs = append(refs, Ref{Path: p, Rel: rel})
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Definition points at a definition document that has no metadata.
type Definition struct {
	Path string
	Rel  string

	// WorkflowsDir is the slash-separated workflows dir Rel starts with.
	WorkflowsDir string
}

// Stem returns the file base name without the .json suffix.
func (d Definition) Stem() string {
	return strings.TrimSuffix(path.Base(d.Rel), DefinitionSuffix)
}

// MetadataPath returns the OS path the paired metadata document would have.
func (d Definition) MetadataPath() string {
	return strings.TrimSuffix(d.Path, DefinitionSuffix) + MetadataSuffix
}

// MetadataRel returns the root-relative path of the paired metadata document.
func (d Definition) MetadataRel() string {
	return strings.TrimSuffix(d.Rel, DefinitionSuffix) + MetadataSuffix
}

// Dirs returns the directories between the workflows dir and the file,
// e.g. ["healthcare", "patient-intake"].
func (d Definition) Dirs() []string {
	dir := strings.TrimPrefix(path.Dir(d.Rel), d.WorkflowsDir)
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return nil
	}
	return strings.Split(dir, "/")
}

// Orphans returns definition documents that have no paired metadata
// document. Files directly in the workflows dir and metadata templates
// are not definitions.
func Orphans(root string, opts ScanOptions) ([]Definition, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	dir := opts.workflowsDir()
	var defs []Definition
	err := walk(root, dir, func(p, rel string, d fs.DirEntry) {
		name := d.Name()
		switch {
		case !strings.HasSuffix(name, DefinitionSuffix),
			strings.HasSuffix(name, MetadataSuffix),
			name == TemplateName,
			filepath.Dir(p) == filepath.Join(root, dir):
			return
		}

		def := Definition{Path: p, Rel: rel, WorkflowsDir: filepath.ToSlash(filepath.Clean(dir))}
		if _, err := os.Stat(def.MetadataPath()); err == nil {
			return
		}
		defs = append(defs, def)
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: corpus root %s: %v", wferrors.ErrIO, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: corpus root %s is not a directory", wferrors.ErrIO, root)
	}
	f, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("%w: corpus root %s: %v", wferrors.ErrIO, root, err)
	}
	return f.Close()
}

// walk visits every regular file below root/dir, skipping dot entries and
// unreadable subdirectories.
func walk(root, dir string, visit func(p, rel string, d fs.DirEntry)) error {
	base := filepath.Join(root, dir)
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p != base && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isFile(p, d) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		visit(p, filepath.ToSlash(rel), d)
		return nil
	})
}

func isFile(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(p)
		return err == nil && info.Mode().IsRegular()
	}
	return false
}
