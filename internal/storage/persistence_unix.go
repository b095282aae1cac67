//go:build unix

package storage

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/WhatFor/wackdb/internal/dberr"
)

// createWriteThrough creates path with O_DSYNC so every write is forced
// to stable storage without a separate fsync, matching spec.md §4.4
// ("create under the data directory with write-through flag ...
// implementations on Unix may use O_DSYNC"). Mirrors the
// golang.org/x/sys/unix.Mmap/Munmap-via-syscall idiom gdbx's
// mmap_unix.go uses for its own platform-specific file operations.
func createWriteThrough(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_DSYNC, 0644)
	if err != nil {
		if err == unix.EEXIST {
			return nil, &dberr.StorageError{Kind: dberr.FileExists, Err: err}
		}
		return nil, &dberr.StorageError{Kind: dberr.OpenFailed, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}

// openWriteThrough opens an existing file at path with O_DSYNC, for
// re-opening a database's primary/log file at engine init.
func openWriteThrough(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_DSYNC, 0644)
	if err != nil {
		return nil, &dberr.StorageError{Kind: dberr.OpenFailed, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}
