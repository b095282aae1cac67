//go:build !unix

package storage

import (
	"os"

	"github.com/WhatFor/wackdb/internal/dberr"
)

// createWriteThrough creates path write-through. Non-Unix platforms fall
// back to os.O_SYNC; a true FILE_FLAG_WRITE_THROUGH open (spec.md §4.4)
// would need golang.org/x/sys/windows, left for a Windows-specific build
// tag file when that platform is targeted.
func createWriteThrough(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL|os.O_SYNC, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, &dberr.StorageError{Kind: dberr.FileExists, Err: err}
		}
		return nil, &dberr.StorageError{Kind: dberr.OpenFailed, Err: err}
	}
	return f, nil
}

func openWriteThrough(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0644)
	if err != nil {
		return nil, &dberr.StorageError{Kind: dberr.OpenFailed, Err: err}
	}
	return f, nil
}
