package storage

import (
	"github.com/WhatFor/wackdb/internal/dberr"
	"github.com/WhatFor/wackdb/internal/page"
)

// PagerIterator walks a chain of index pages via the page cache,
// yielding slot bytes in order, per spec.md §4.10. It holds
// (current_page, current_slot_index) and advances to the next page
// over the leaf's forward-chain pointer (page.Header.NextPageID) once
// the current page's slots are exhausted, terminating at the sentinel
// page.NoNextPage.
type PagerIterator struct {
	cache       *PageCache
	databaseID  uint16
	pageIndex   uint32
	slotIndex   uint16
	done        bool
}

// NewPagerIterator starts an iterator at (databaseID, rootPageIndex).
func NewPagerIterator(cache *PageCache, databaseID uint16, rootPageIndex uint32) *PagerIterator {
	return &PagerIterator{cache: cache, databaseID: databaseID, pageIndex: rootPageIndex}
}

// Next returns the next slot's bytes, or ok=false once the chain is
// exhausted (pageIndex advances past a NoNextPage leaf).
func (it *PagerIterator) Next() (bytes []byte, ok bool, err error) {
	for {
		if it.done {
			return nil, false, nil
		}

		pageBytes, found := it.cache.GetPage(PageID{DatabaseID: it.databaseID, PageIndex: it.pageIndex})
		if !found {
			it.done = true
			return nil, false, &dberr.StorageError{Kind: dberr.ReadFailed}
		}

		dec := page.NewDecoder(pageBytes)
		header := dec.Header()

		if it.slotIndex >= header.AllocatedSlotCount {
			if header.NextPageID == page.NoNextPage {
				it.done = true
				return nil, false, nil
			}
			it.pageIndex = header.NextPageID
			it.slotIndex = 0
			continue
		}

		slot, err := dec.ReadSlotBytes(int(it.slotIndex))
		if err != nil {
			return nil, false, err
		}
		it.slotIndex++
		return slot, true, nil
	}
}

// Collect drains the iterator into a slice. Tests use it; the VM's
// table path (spec.md §4.9) calls Next directly.
func (it *PagerIterator) Collect() ([][]byte, error) {
	var out [][]byte
	for {
		bytes, ok, err := it.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, bytes)
	}
}
