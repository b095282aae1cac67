package engine

import (
	"github.com/rs/zerolog"

	"github.com/WhatFor/wackdb/internal/ast"
	"github.com/WhatFor/wackdb/internal/dberr"
	"github.com/WhatFor/wackdb/internal/storage"
)

// Engine owns the file manager and page cache and drives the VM over
// a parsed program, per spec.md §4.9 and original_source's Engine
// (crates/engine/src/engine.rs).
type Engine struct {
	fileManager *storage.FileManager
	pageCache   *storage.PageCache
	paths       storage.Paths
	log         zerolog.Logger
}

// New constructs an Engine against cfg's data directory and cache
// capacity; call Init before executing any statement.
func New(cfg storage.Config, log zerolog.Logger) *Engine {
	fm := storage.NewFileManager()
	return &Engine{
		fileManager: fm,
		pageCache:   storage.NewPageCache(cfg.CacheCapacity(), fm),
		paths:       cfg.Paths(),
		log:         log,
	}
}

// Init opens (creating if absent) the master database, then opens
// every user database found in the data directory, registering each
// with the file manager, then validates every open primary file —
// mirroring original_source's Engine::init.
func (e *Engine) Init() error {
	if err := e.paths.EnsureDataDir(); err != nil {
		return err
	}

	if err := e.openOrCreateMaster(); err != nil {
		return err
	}

	names, err := e.paths.DiscoverUserDatabases()
	if err != nil {
		e.log.Error().Err(err).Msg("failed to discover user databases")
		return err
	}

	for _, name := range names {
		if err := e.openUserDatabase(name); err != nil {
			e.log.Error().Err(err).Str("database", name).Msg("failed to open user database")
			continue
		}
		e.log.Info().Str("database", name).Msg("database loaded")
	}

	e.ValidateFiles()
	return nil
}

func (e *Engine) openOrCreateMaster() error {
	if e.paths.FileExists(storage.MasterDatabaseName, storage.KindPrimary) {
		primary, err := e.paths.OpenFile(storage.MasterDatabaseName, storage.KindPrimary)
		if err != nil {
			return err
		}
		logFile, err := e.paths.OpenFile(storage.MasterDatabaseName, storage.KindLog)
		if err != nil {
			return err
		}
		pageCount, err := storage.PageCount(primary)
		if err != nil {
			return err
		}
		e.fileManager.Add(storage.FileID{DatabaseID: storage.MasterDatabaseID, Kind: storage.KindPrimary}, storage.MasterDatabaseName, primary, pageCount)
		e.fileManager.Add(storage.FileID{DatabaseID: storage.MasterDatabaseID, Kind: storage.KindLog}, storage.MasterDatabaseName, logFile, 0)
		return nil
	}

	primary, logFile, allocated, err := storage.BootstrapMaster(e.paths)
	if err != nil {
		return err
	}
	e.fileManager.Add(storage.FileID{DatabaseID: storage.MasterDatabaseID, Kind: storage.KindPrimary}, storage.MasterDatabaseName, primary, allocated)
	e.fileManager.Add(storage.FileID{DatabaseID: storage.MasterDatabaseID, Kind: storage.KindLog}, storage.MasterDatabaseName, logFile, 0)
	return nil
}

func (e *Engine) openUserDatabase(name string) error {
	primary, err := e.paths.OpenFile(name, storage.KindPrimary)
	if err != nil {
		return err
	}
	logFile, err := e.paths.OpenFile(name, storage.KindLog)
	if err != nil {
		return err
	}

	info, err := storage.ReadDatabaseInfo(primary)
	if err != nil {
		return err
	}
	databaseID := info.DatabaseID

	pageCount, err := storage.PageCount(primary)
	if err != nil {
		return err
	}

	e.fileManager.Add(storage.FileID{DatabaseID: databaseID, Kind: storage.KindPrimary}, name, primary, pageCount)
	e.fileManager.Add(storage.FileID{DatabaseID: databaseID, Kind: storage.KindLog}, name, logFile, 0)
	return nil
}

// Execute runs every statement in prog independently, per spec.md §5's
// batch semantics: a failing statement's error is collected but later
// statements still run.
func (e *Engine) Execute(prog *ast.Program) ExecuteResult {
	result := ExecuteResult{}

	for _, stmt := range prog.Statements {
		var stmtResult StatementResult
		var err error

		switch {
		case stmt.User != nil:
			stmtResult, err = e.executeUserStatement(stmt.User)
		case stmt.Server != nil:
			stmtResult, err = e.executeServerStatement(stmt.Server)
		}

		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Results = append(result.Results, stmtResult)
	}

	return result
}

func (e *Engine) executeUserStatement(stmt *ast.UserStatement) (StatementResult, error) {
	if isConstantStatement(stmt) {
		return evaluateConstantStatement(stmt), nil
	}

	switch stmt.Kind {
	case ast.Select:
		return e.evaluateSelectStatement(stmt.SelectBody)
	case ast.Update, ast.Insert, ast.Delete, ast.CreateTable:
		// Row mutation is out of scope for v1 (spec.md's data model has
		// no row-level write path yet); acknowledged as a no-op result
		// rather than an error so batches containing them still run.
		return StatementResult{}, nil
	default:
		return StatementResult{}, &dberr.ExecuteError{Kind: dberr.TypeMismatch}
	}
}

func (e *Engine) executeServerStatement(stmt *ast.ServerStatement) (StatementResult, error) {
	switch stmt.Kind {
	case ast.CreateDatabase:
		return StatementResult{}, e.CreateDatabase(stmt.CreateDatabase.DatabaseName.Value)
	default:
		return StatementResult{}, &dberr.ExecuteError{Kind: dberr.TypeMismatch}
	}
}

// CreateDatabase allocates the next database id, creates and opens
// both its files, registers them with the file manager, records it in
// the master databases index, and revalidates every open primary
// file — mirroring original_source's
// Engine::execute_server_statement(CreateDatabase).
func (e *Engine) CreateDatabase(name string) error {
	nextID := e.fileManager.NextDatabaseID()

	primary, logFile, allocated, err := storage.CreateDatabaseFiles(e.paths, name, nextID)
	if err != nil {
		return err
	}

	e.fileManager.Add(storage.FileID{DatabaseID: nextID, Kind: storage.KindPrimary}, name, primary, allocated)
	e.fileManager.Add(storage.FileID{DatabaseID: nextID, Kind: storage.KindLog}, name, logFile, 0)

	masterPrimary, _ := e.fileManager.Get(storage.FileID{DatabaseID: storage.MasterDatabaseID, Kind: storage.KindPrimary})
	schema, err := storage.ReadSchemaInfo(masterPrimary)
	if err != nil {
		return err
	}
	if err := storage.AppendIndexEntry(e.fileManager, e.pageCache, storage.MasterDatabaseID, schema.DatabasesRootPageID, storage.NameRecord{Name: name, RootPageID: 0}); err != nil {
		return err
	}

	e.ValidateFiles()
	return nil
}

// ValidateFiles re-checks every open primary file's FILE_INFO checksum,
// logging failures rather than aborting — matching
// original_source's Engine::validate_files.
func (e *Engine) ValidateFiles() map[uint16]bool {
	return storage.ValidateFiles(e.fileManager, e.log)
}
