package storage

import (
	"github.com/WhatFor/wackdb/internal/lrucache"
	"github.com/WhatFor/wackdb/internal/page"
)

// PageID identifies a cached page: which database, and which page
// index within that database's primary file, per spec.md §3 ("Page
// cache entry... Identity is (database_id, page_index)").
type PageID struct {
	DatabaseID uint16
	PageIndex  uint32
}

// PageCache mediates index page reads: a miss resolves the primary file
// via the file manager, reads through persistence, and fills the LRU;
// a hit returns a copy straight from the LRU. The bootstrap-page
// readers (ValidateFile, ReadDatabaseInfo, ReadSchemaInfo) read the
// file directly and do not go through it. Grounds on spec.md §4.7
// and the Rust original's page_cache.rs, structurally identical down
// to "only the primary file backs page reads" (log files are never
// paged through the cache, per §4.7/§4.9).
type PageCache struct {
	lru *lrucache.Cache[PageID, page.Bytes]
	fm  *FileManager
}

// NewPageCache returns a PageCache of the given capacity, backed by fm.
func NewPageCache(capacity int, fm *FileManager) *PageCache {
	return &PageCache{
		lru: lrucache.New[PageID, page.Bytes](capacity),
		fm:  fm,
	}
}

// GetPage returns id's page, filling the cache from disk on a miss.
// The second result is false only if the backing primary file is not
// open or the page could not be read.
func (pc *PageCache) GetPage(id PageID) (page.Bytes, bool) {
	if bytes, ok := pc.lru.Get(id); ok {
		return bytes, true
	}

	file, ok := pc.fm.Get(FileID{DatabaseID: id.DatabaseID, Kind: KindPrimary})
	if !ok {
		var zero page.Bytes
		return zero, false
	}

	bytes, err := readPage(file, id.PageIndex)
	if err != nil {
		var zero page.Bytes
		return zero, false
	}

	pc.lru.Put(id, bytes)
	return bytes, true
}

// PutPage caches bytes under id without writing through to disk.
// spec.md §4.7/§9: the write path bypasses the cache in v1; a future
// flush_dirty operation is required before the cache is authoritative.
func (pc *PageCache) PutPage(id PageID, bytes page.Bytes) {
	pc.lru.Put(id, bytes)
}

// WritePage writes bytes to id's primary file directly (bypassing the
// cache, per the design note above) and then seeds the cache with the
// freshly written bytes, so a subsequent GetPage sees them without a
// disk round-trip.
func (pc *PageCache) WritePage(id PageID, bytes page.Bytes) error {
	file, ok := pc.fm.Get(FileID{DatabaseID: id.DatabaseID, Kind: KindPrimary})
	if !ok {
		return errNoSuchFile(id.DatabaseID)
	}
	if err := writePage(file, bytes, id.PageIndex); err != nil {
		return err
	}
	pc.lru.Put(id, bytes)
	return nil
}
