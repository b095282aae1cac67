package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WhatFor/wackdb/internal/page"
)

func TestAppendAndFindIndexEntry(t *testing.T) {
	paths := Paths{DataDir: tempDataDir(t)}
	require.NoError(t, paths.EnsureDataDir())
	primary, log, allocated, err := BootstrapMaster(paths)
	require.NoError(t, err)
	defer primary.Close()
	defer log.Close()

	fm := NewFileManager()
	fm.Add(FileID{DatabaseID: 0, Kind: KindPrimary}, MasterDatabaseName, primary, allocated)
	pc := NewPageCache(16, fm)

	root := page.NewEncoder(page.TypeIndexLeaf)
	root.SetPageID(3)
	pc.PutPage(PageID{DatabaseID: 0, PageIndex: 3}, root.Collect())

	require.NoError(t, AppendIndexEntry(fm, pc, 0, 3, NameRecord{Name: "shop", RootPageID: 10}))

	found, ok, err := FindIndexEntry(pc, 0, 3, "shop")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(10), found.RootPageID)

	_, ok, err = FindIndexEntry(pc, 0, 3, "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAppendIndexEntrySpillsToNewLeaf(t *testing.T) {
	paths := Paths{DataDir: tempDataDir(t)}
	require.NoError(t, paths.EnsureDataDir())
	primary, log, allocated, err := BootstrapMaster(paths)
	require.NoError(t, err)
	defer primary.Close()
	defer log.Close()

	fm := NewFileManager()
	fm.Add(FileID{DatabaseID: 0, Kind: KindPrimary}, MasterDatabaseName, primary, allocated)
	pc := NewPageCache(32, fm)

	root := page.NewEncoder(page.TypeIndexLeaf)
	root.SetPageID(3)
	pc.PutPage(PageID{DatabaseID: 0, PageIndex: 3}, root.Collect())

	// A name long enough that only about 64 fit per 8KiB leaf, forcing
	// AppendIndexEntry to allocate a chained overflow page well before
	// any realistic test timeout.
	longName := make([]byte, 120)
	for i := range longName {
		longName[i] = 'a'
	}

	for i := 0; i < 80; i++ {
		name := fmt.Sprintf("%s%02d", longName[:118], i)
		require.NoError(t, AppendIndexEntry(fm, pc, 0, 3, NameRecord{Name: name, RootPageID: uint32(100 + i)}))
	}

	it := NewPagerIterator(pc, 0, 3)
	all, err := it.Collect()
	require.NoError(t, err)
	require.Len(t, all, 80)
}
