// Package mapfs exposes a set of files scattered over the OS file system
// as one fs.FS, keyed by the names they are configured under.
package mapfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MapFS maps names to OS paths.
type MapFS map[string]string

var _ fs.FS = MapFS(nil)

// Resolve maps each of names to a path below dir. Absolute names are kept
// as they are.
func Resolve(dir string, names ...string) MapFS {
	m := make(MapFS)
	for _, name := range names {
		m.Add(name, resolve(dir, name))
	}
	return m
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(dir, name)
}

// Open opens the file mapped to name. Names are not required to be valid
// fs paths, since configured names may be absolute.
func (m MapFS) Open(name string) (fs.File, error) {
	path, ok := m[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	return f, nil
}

func (m MapFS) Add(name, path string) {
	m[name] = path
}

// Path returns the OS path name is mapped to.
func (m MapFS) Path(name string) (string, bool) {
	path, ok := m[name]
	return path, ok
}
