// Package storage composes internal/page and internal/codec into the
// persistent layers described in spec.md §4.4–§4.7 and §6: seek-based
// page I/O, the file manager's open-handle table, the page cache, and
// FILE_INFO/DATABASE_INFO/SCHEMA_INFO bootstrap. It plays the role
// gdbx's env.go/meta.go pair plays for MDBX — except where gdbx memory
// maps the whole file and walks meta pages through unsafe.Pointer casts,
// this package always goes through explicit seek+read/write, since v1
// is single-threaded, non-transactional, and has no COW page model
// (spec.md §5, §9).
package storage

import (
	"os"

	"github.com/WhatFor/wackdb/internal/dberr"
	"github.com/WhatFor/wackdb/internal/page"
)

// FileKind distinguishes a database's primary data file from its
// write-ahead log file (spec.md §3, "File identity").
type FileKind uint8

const (
	KindPrimary FileKind = iota
	KindLog
)

func (k FileKind) String() string {
	if k == KindLog {
		return "Log"
	}
	return "Primary"
}

// Extension returns the on-disk file extension for this kind, per
// spec.md §6 ("<name>.wak and <name>.wal").
func (k FileKind) Extension() string {
	if k == KindLog {
		return ".wal"
	}
	return ".wak"
}

// writePage seeks to page_index·8192 in file and writes all 8192 bytes,
// then forces durability. Mirrors gdbx's own seek-then-syscall pattern
// in mmap_unix.go, but over a plain os.File rather than a mapped region.
func writePage(file *os.File, data page.Bytes, pageIndex uint32) error {
	offset := int64(pageIndex) * page.Size
	if _, err := file.Seek(offset, 0); err != nil {
		return &dberr.StorageError{Kind: dberr.SeekFailed, Err: err}
	}
	if _, err := file.Write(data[:]); err != nil {
		return &dberr.StorageError{Kind: dberr.WriteFailed, Err: err}
	}
	if err := file.Sync(); err != nil {
		return &dberr.StorageError{Kind: dberr.WriteFailed, Err: err}
	}
	return nil
}

// readPage seeks to page_index·8192 in file and reads exactly 8192
// bytes. Seeking past EOF and reading is a ReadFailed error per
// spec.md §4.4 ("Seek-past-EOF behavior on read is an error").
func readPage(file *os.File, pageIndex uint32) (page.Bytes, error) {
	var buf page.Bytes

	offset := int64(pageIndex) * page.Size
	if _, err := file.Seek(offset, 0); err != nil {
		return buf, &dberr.StorageError{Kind: dberr.SeekFailed, Err: err}
	}
	if _, err := readFull(file, buf[:]); err != nil {
		return buf, &dberr.StorageError{Kind: dberr.ReadFailed, Err: err}
	}
	return buf, nil
}

// PageCount returns how many whole pages file currently holds, derived
// from its size on disk — used to recover the file manager's
// high-water allocation counter when reopening an existing file rather
// than bootstrapping a new one.
func PageCount(file *os.File) (uint32, error) {
	info, err := file.Stat()
	if err != nil {
		return 0, &dberr.StorageError{Kind: dberr.ReadFailed, Err: err}
	}
	return uint32(info.Size() / page.Size), nil
}

func readFull(file *os.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := file.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, os.ErrClosed
		}
	}
	return total, nil
}
