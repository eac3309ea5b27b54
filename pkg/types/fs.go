package types

import "io/fs"

// FS is the narrow filesystem abstraction the orchestrator and its
// collaborators depend on. Production code uses the OS filesystem;
// tests substitute an afero MemMapFs-backed implementation.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Lstat should fall back to Stat on filesystems without symlink support.
	Lstat(name string) (fs.FileInfo, error)
}
