package storage

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/WhatFor/wackdb/internal/dberr"
	"github.com/WhatFor/wackdb/internal/page"
)

// Reserved page indexes per primary file, per spec.md §6.
const (
	FileInfoPageIndex     uint32 = 0
	DatabaseInfoPageIndex uint32 = 1
	SchemaInfoPageIndex   uint32 = 2
)

// CreateDatabaseFiles creates dbName's primary and log files, writes
// the FILE_INFO and DATABASE_INFO bootstrap pages into the primary
// file, and returns both handles plus the primary file's allocated
// page count (2: FILE_INFO and DATABASE_INFO, so the next free index
// is 2).
// Grounded on the Rust original's db.rs::create_db_data_file /
// create_db_log_file pair.
func CreateDatabaseFiles(paths Paths, dbName string, databaseID uint16) (primary, log *os.File, allocatedPages uint32, err error) {
	primary, err = paths.CreatePrimaryFile(dbName)
	if err != nil {
		return nil, nil, 0, err
	}

	if err = writeFileInfoPage(primary, KindPrimary); err != nil {
		primary.Close()
		return nil, nil, 0, err
	}

	dbInfo, err := NewDatabaseInfo(dbName, databaseID)
	if err != nil {
		primary.Close()
		return nil, nil, 0, err
	}
	if err = writeDatabaseInfoPage(primary, dbInfo); err != nil {
		primary.Close()
		return nil, nil, 0, err
	}

	log, err = paths.CreateLogFile(dbName)
	if err != nil {
		primary.Close()
		return nil, nil, 0, err
	}

	return primary, log, DatabaseInfoPageIndex + 1, nil
}

func writeFileInfoPage(file *os.File, kind FileKind) error {
	enc := page.NewEncoder(page.TypeFileInfo)
	enc.SetPageID(FileInfoPageIndex)
	enc.SetHeaderVersion(page.FileInfoHeaderVersion)

	if _, err := enc.AddSlot(NewFileInfo(kind).Encode()); err != nil {
		return err
	}

	return writePage(file, enc.Collect(), FileInfoPageIndex)
}

func writeDatabaseInfoPage(file *os.File, info DatabaseInfo) error {
	enc := page.NewEncoder(page.TypeDatabaseInfo)
	enc.SetPageID(DatabaseInfoPageIndex)

	body, err := info.Encode()
	if err != nil {
		return err
	}
	if _, err := enc.AddSlot(body); err != nil {
		return err
	}

	return writePage(file, enc.Collect(), DatabaseInfoPageIndex)
}

// BootstrapMaster creates master.wak/master.wal if they do not already
// exist: FILE_INFO, DATABASE_INFO (id 0), and a SCHEMA_INFO page
// pointing at two freshly created, empty databases/tables index root
// pages (pages 3 and 4). Returns the primary handle, log handle, and
// the primary file's allocated page count (5).
func BootstrapMaster(paths Paths) (primary, log *os.File, allocatedPages uint32, err error) {
	primary, log, _, err = CreateDatabaseFiles(paths, MasterDatabaseName, 0)
	if err != nil {
		return nil, nil, 0, err
	}

	const (
		databasesRootPageID uint32 = 3
		tablesRootPageID    uint32 = 4
	)

	emptyLeaf := page.NewEncoder(page.TypeIndexLeaf)
	emptyLeaf.SetPageID(databasesRootPageID)
	if err = writePage(primary, emptyLeaf.Collect(), databasesRootPageID); err != nil {
		primary.Close()
		log.Close()
		return nil, nil, 0, err
	}

	emptyTablesLeaf := page.NewEncoder(page.TypeIndexLeaf)
	emptyTablesLeaf.SetPageID(tablesRootPageID)
	if err = writePage(primary, emptyTablesLeaf.Collect(), tablesRootPageID); err != nil {
		primary.Close()
		log.Close()
		return nil, nil, 0, err
	}

	schemaEnc := page.NewEncoder(page.TypeSchemaInfo)
	schemaEnc.SetPageID(SchemaInfoPageIndex)
	schema := SchemaInfo{DatabasesRootPageID: databasesRootPageID, TablesRootPageID: tablesRootPageID}
	if _, err = schemaEnc.AddSlot(schema.Encode()); err != nil {
		primary.Close()
		log.Close()
		return nil, nil, 0, err
	}
	if err = writePage(primary, schemaEnc.Collect(), SchemaInfoPageIndex); err != nil {
		primary.Close()
		log.Close()
		return nil, nil, 0, err
	}

	return primary, log, tablesRootPageID + 1, nil
}

// ValidationResult reports whether a primary file's FILE_INFO page
// passed its checksum check.
type ValidationResult struct {
	Pass     bool
	Expected uint16
	Actual   uint16
}

// ValidateFile reads and checksums a primary file's FILE_INFO page
// (page 0), per spec.md §7 / §4.4. A failure here concerns only the
// database the file belongs to (SPEC_FULL.md §5): ValidateFiles logs it
// and records false for that database rather than aborting the whole
// process.
func ValidateFile(file *os.File) (ValidationResult, error) {
	bytes, err := readPage(file, FileInfoPageIndex)
	if err != nil {
		return ValidationResult{}, err
	}

	dec := page.NewDecoder(bytes)
	result := dec.VerifyChecksum()

	return ValidationResult{Pass: result.Pass, Expected: result.Expected, Actual: result.Actual}, nil
}

// ValidateFiles validates every open primary file in fm (skipping log
// files, which carry no FILE_INFO page), logging a non-fatal error for
// each failing one via logger. Ported from the Rust original's
// lib.rs::execute_server_statement re-validation flow (SPEC_FULL.md §5).
func ValidateFiles(fm *FileManager, logger zerolog.Logger) map[uint16]bool {
	ok := make(map[uint16]bool)

	for _, f := range fm.IterAll() {
		if f.ID.Kind != KindPrimary {
			continue
		}

		result, err := ValidateFile(f.Handle)
		if err != nil {
			logger.Error().Err(err).Uint16("database_id", f.ID.DatabaseID).Msg("failed to read FILE_INFO page")
			ok[f.ID.DatabaseID] = false
			continue
		}
		if !result.Pass {
			logger.Error().
				Uint16("database_id", f.ID.DatabaseID).
				Uint16("expected_checksum", result.Expected).
				Uint16("actual_checksum", result.Actual).
				Msg("FILE_INFO checksum mismatch; database unavailable")
			ok[f.ID.DatabaseID] = false
			continue
		}
		ok[f.ID.DatabaseID] = true
	}

	return ok
}

// ReadDatabaseInfo reads and decodes a primary file's DATABASE_INFO
// page (page index 1, spec.md §3/§6), used to recover a user
// database's id when reopening it at startup.
func ReadDatabaseInfo(file *os.File) (DatabaseInfo, error) {
	bytes, err := readPage(file, DatabaseInfoPageIndex)
	if err != nil {
		return DatabaseInfo{}, err
	}

	dec := page.NewDecoder(bytes)
	if dec.Header().PageType != page.TypeDatabaseInfo {
		return DatabaseInfo{}, &dberr.PageError{Kind: dberr.SlotOutOfRange}
	}

	return page.ReadSlotAs(dec, 0, DecodeDatabaseInfo)
}

// ReadSchemaInfo reads and decodes the master primary file's
// SCHEMA_INFO page (page index 2, spec.md §4.9/§6).
func ReadSchemaInfo(file *os.File) (SchemaInfo, error) {
	bytes, err := readPage(file, SchemaInfoPageIndex)
	if err != nil {
		return SchemaInfo{}, err
	}

	dec := page.NewDecoder(bytes)
	if dec.Header().PageType != page.TypeSchemaInfo {
		return SchemaInfo{}, &dberr.PageError{Kind: dberr.SlotOutOfRange}
	}

	return page.ReadSlotAs(dec, 0, DecodeSchemaInfo)
}
