package storage

import (
	"time"

	"github.com/WhatFor/wackdb/internal/codec"
	"github.com/WhatFor/wackdb/internal/dberr"
)

// fileInfoMagic is the 4-byte tag every FILE_INFO record starts with,
// per spec.md §3.
var fileInfoMagic = [4]byte{0x00, 0x01, 0x06, 0x01}

const (
	maxDatabaseNameLen = 128
	databaseSchemaVersion uint8 = 1
)

// FileInfo is slot 0 of page 0 of every file (spec.md §3).
type FileInfo struct {
	Kind               FileKind
	SectorSize         uint16
	CreatedUnixSeconds uint64 // widened per SPEC_FULL.md §6
}

// NewFileInfo builds a FileInfo for a freshly created file of the given
// kind, stamped with the current wall-clock time.
func NewFileInfo(kind FileKind) FileInfo {
	return FileInfo{
		Kind:               kind,
		SectorSize:         0,
		CreatedUnixSeconds: uint64(time.Now().Unix()),
	}
}

// Encode writes the widened (header_version=2) FILE_INFO layout: magic,
// file_kind, sector_size, created_unix_seconds (8 bytes).
func (fi FileInfo) Encode() []byte {
	w := codec.NewWriter(4 + 1 + 2 + 8)
	w.PutBytes(fileInfoMagic[:])
	w.PutUint8(uint8(fi.Kind))
	w.PutUint16(fi.SectorSize)
	w.PutUint64(fi.CreatedUnixSeconds)
	return w.Bytes()
}

// DecodeFileInfo parses a widened FILE_INFO record, the only shape this
// module produces (SPEC_FULL.md §6 — the legacy 16-bit-truncated layout
// is not written, only read via DecodeLegacyFileInfo for compatibility).
func DecodeFileInfo(body []byte) (FileInfo, error) {
	r := codec.NewReader(body)
	var fi FileInfo

	magic, err := r.Bytes(4)
	if err != nil {
		return fi, err
	}
	if string(magic) != string(fileInfoMagic[:]) {
		return fi, &dberr.CodecError{Kind: dberr.BadTag}
	}

	kind, err := r.Uint8()
	if err != nil {
		return fi, err
	}
	fi.Kind = FileKind(kind)

	if fi.SectorSize, err = r.Uint16(); err != nil {
		return fi, err
	}
	if fi.CreatedUnixSeconds, err = r.Uint64(); err != nil {
		return fi, err
	}
	return fi, nil
}

// LegacyFileInfo is the original 16-bit-truncated created_unix_seconds
// shape (spec.md §3's literal wording), kept decodable for compatibility
// per SPEC_FULL.md §6, though this module never writes it.
type LegacyFileInfo struct {
	Kind                   FileKind
	SectorSize             uint16
	CreatedUnixSecondsLow16 uint16
}

// DecodeLegacyFileInfo parses the original truncated-timestamp layout.
func DecodeLegacyFileInfo(body []byte) (LegacyFileInfo, error) {
	r := codec.NewReader(body)
	var fi LegacyFileInfo

	magic, err := r.Bytes(4)
	if err != nil {
		return fi, err
	}
	if string(magic) != string(fileInfoMagic[:]) {
		return fi, &dberr.CodecError{Kind: dberr.BadTag}
	}

	kind, err := r.Uint8()
	if err != nil {
		return fi, err
	}
	fi.Kind = FileKind(kind)

	if fi.SectorSize, err = r.Uint16(); err != nil {
		return fi, err
	}
	if fi.CreatedUnixSecondsLow16, err = r.Uint16(); err != nil {
		return fi, err
	}
	return fi, nil
}

// DatabaseInfo is slot 0 of page 1 of every primary file (spec.md §3).
type DatabaseInfo struct {
	Name           string
	SchemaVersion  uint8
	DatabaseID     uint16
}

// NewDatabaseInfo builds a DatabaseInfo record, rejecting names longer
// than the 128-byte field width.
func NewDatabaseInfo(name string, databaseID uint16) (DatabaseInfo, error) {
	if len(name) > maxDatabaseNameLen {
		return DatabaseInfo{}, &dberr.CodecError{Kind: dberr.LengthOverrun}
	}
	return DatabaseInfo{Name: name, SchemaVersion: databaseSchemaVersion, DatabaseID: databaseID}, nil
}

// Encode writes name_len(1) + name(<=128) + schema_version(1) + database_id(2).
func (di DatabaseInfo) Encode() ([]byte, error) {
	w := codec.NewWriter(1 + len(di.Name) + 1 + 2)
	if err := w.PutVarBytes([]byte(di.Name), maxDatabaseNameLen); err != nil {
		return nil, err
	}
	w.PutUint8(di.SchemaVersion)
	w.PutUint16(di.DatabaseID)
	return w.Bytes(), nil
}

// DecodeDatabaseInfo parses a DATABASE_INFO record.
func DecodeDatabaseInfo(body []byte) (DatabaseInfo, error) {
	r := codec.NewReader(body)
	var di DatabaseInfo

	name, err := r.VarBytes()
	if err != nil {
		return di, err
	}
	di.Name = string(name)

	if di.SchemaVersion, err = r.Uint8(); err != nil {
		return di, err
	}
	if di.DatabaseID, err = r.Uint16(); err != nil {
		return di, err
	}
	return di, nil
}

// SchemaInfo is slot 0 of page 2 of the master primary file (spec.md
// §6's reserved SCHEMA_INFO page). Layout fixed by SPEC_FULL.md §6,
// an Open Question the distilled spec left unresolved: two root page
// indexes, one for the databases index and one for the tables index.
type SchemaInfo struct {
	DatabasesRootPageID uint32
	TablesRootPageID    uint32
}

// Encode writes databases_root_page_id(4) + tables_root_page_id(4).
func (si SchemaInfo) Encode() []byte {
	w := codec.NewWriter(8)
	w.PutUint32(si.DatabasesRootPageID)
	w.PutUint32(si.TablesRootPageID)
	return w.Bytes()
}

// DecodeSchemaInfo parses a SCHEMA_INFO record.
func DecodeSchemaInfo(body []byte) (SchemaInfo, error) {
	r := codec.NewReader(body)
	var si SchemaInfo
	var err error

	if si.DatabasesRootPageID, err = r.Uint32(); err != nil {
		return si, err
	}
	if si.TablesRootPageID, err = r.Uint32(); err != nil {
		return si, err
	}
	return si, nil
}

// NameRecord is a single entry in the databases or tables index: a
// name paired with the root page index of what it points at (another
// index, for a table; SCHEMA_INFO's own root for a database entry
// pointing at that database's tables index is out of scope for v1 —
// see DESIGN.md). Grounded on the same name+id shape as DatabaseInfo,
// generalized to "name -> root page id" for both built-in indexes.
type NameRecord struct {
	Name       string
	RootPageID uint32
}

// Encode writes name_len(1) + name(<=128) + root_page_id(4).
func (nr NameRecord) Encode() ([]byte, error) {
	w := codec.NewWriter(1 + len(nr.Name) + 4)
	if err := w.PutVarBytes([]byte(nr.Name), maxDatabaseNameLen); err != nil {
		return nil, err
	}
	w.PutUint32(nr.RootPageID)
	return w.Bytes(), nil
}

// DecodeNameRecord parses a NameRecord.
func DecodeNameRecord(body []byte) (NameRecord, error) {
	r := codec.NewReader(body)
	var nr NameRecord

	name, err := r.VarBytes()
	if err != nil {
		return nr, err
	}
	nr.Name = string(name)

	if nr.RootPageID, err = r.Uint32(); err != nil {
		return nr, err
	}
	return nr, nil
}
