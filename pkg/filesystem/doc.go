// Package filesystem provides filesystem implementations for monobuild.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed test filesystem.
package filesystem
