// Package storage provides persistence primitives used by the relational
// kernel. This file implements the name-keyed registry of DbFiles the
// Database catalog exposes: exclusive ownership, lookup, and removal.
package storage

import "fmt"

// catalog maps a name to the single DbFile registered under it. It exists
// as its own type (rather than a bare map on Database) so Database's own
// file stays focused on singleton lifecycle and buffer pool ownership.
type catalog struct {
	files map[string]DbFile
}

func newCatalog() *catalog {
	return &catalog{files: make(map[string]DbFile)}
}

// add registers file under its own name. Fails with ErrDuplicateName if
// that name is already registered.
func (c *catalog) add(file DbFile) error {
	name := file.GetName()
	if _, exists := c.files[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	c.files[name] = file
	return nil
}

// remove unregisters and returns the file under name. Fails with
// ErrUnknownName if no file is registered under that name.
func (c *catalog) remove(name string) (DbFile, error) {
	file, exists := c.files[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	delete(c.files, name)
	return file, nil
}

// get looks up the file registered under name. Fails with ErrUnknownName if
// absent.
func (c *catalog) get(name string) (DbFile, error) {
	file, exists := c.files[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return file, nil
}
