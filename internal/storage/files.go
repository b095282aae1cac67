package storage

import (
	"os"
	"path/filepath"
)

// Paths resolves database file names to locations under a fixed data
// directory, per spec.md §6 ("Data directory data/ under the
// executable's directory"; here made explicit via Config.DataDir per
// SPEC_FULL.md §3).
type Paths struct {
	DataDir string
}

func (p Paths) pathFor(dbName string, kind FileKind) string {
	return filepath.Join(p.DataDir, dbName+kind.Extension())
}

// EnsureDataDir creates the data directory if it does not already exist.
func (p Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir, 0755)
}

// CreatePrimaryFile creates dbName's primary (.wak) file under the data
// directory, write-through, failing if it already exists (spec.md §4.4).
func (p Paths) CreatePrimaryFile(dbName string) (*os.File, error) {
	return createWriteThrough(p.pathFor(dbName, KindPrimary))
}

// CreateLogFile creates dbName's log (.wal) file under the data
// directory, write-through, failing if it already exists (spec.md §4.4).
func (p Paths) CreateLogFile(dbName string) (*os.File, error) {
	return createWriteThrough(p.pathFor(dbName, KindLog))
}

// OpenFile opens dbName's existing file of the given kind, write-through.
func (p Paths) OpenFile(dbName string, kind FileKind) (*os.File, error) {
	return openWriteThrough(p.pathFor(dbName, kind))
}

// FileExists reports whether dbName's file of the given kind already
// exists under the data directory.
func (p Paths) FileExists(dbName string, kind FileKind) bool {
	_, err := os.Stat(p.pathFor(dbName, kind))
	return err == nil
}

// DiscoverUserDatabases enumerates files in the data directory whose
// extension is .wak or .wal and returns each unique stem, per spec.md
// §4.4. The "master" stem is excluded — master is bootstrapped
// separately and is not a user database.
func (p Paths) DiscoverUserDatabases() ([]string, error) {
	entries, err := os.ReadDir(p.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".wak" && ext != ".wal" {
			continue
		}
		stem := entry.Name()[:len(entry.Name())-len(ext)]
		if stem == MasterDatabaseName || seen[stem] {
			continue
		}
		seen[stem] = true
		names = append(names, stem)
	}

	return names, nil
}
