// Package fs writes extraction output to files.
package fs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/htmltable"
)

// File writes output atomically. Data goes to a temporary file next to the
// target, which replaces the target on Commit and is removed on Abort.
type File struct {
	path string
	tmp  *os.File
	done bool
}

// Create opens a temporary file for the output at path.
func Create(path string) (*File, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "failed to create output file: %v", err)
	}
	return &File{path: path, tmp: tmp}, nil
}

// Write appends p to the temporary file.
func (f *File) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit moves the temporary file into place.
func (f *File) Commit() error {
	if f.done {
		return nil
	}
	f.done = true

	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Chmod(f.tmp.Name(), 0644); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	// Atomically rename temp to final
	return os.Rename(f.tmp.Name(), f.path)
}

// Abort discards the temporary file. It is a no-op after Commit.
func (f *File) Abort() error {
	if f.done {
		return nil
	}
	f.done = true

	_ = f.tmp.Close()
	return os.Remove(f.tmp.Name())
}
