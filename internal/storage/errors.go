package storage

import "github.com/WhatFor/wackdb/internal/dberr"

func errNoSuchFile(databaseID uint16) error {
	return &dberr.StorageError{Kind: dberr.OpenFailed}
}
