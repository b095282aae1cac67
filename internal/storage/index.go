package storage

import "github.com/WhatFor/wackdb/internal/page"

// AppendIndexEntry appends record to the index chain rooted at
// rootPageIndex in databaseID's primary file, via the page cache. When
// the chain's current last leaf has no room, a fresh leaf is allocated
// through the file manager and linked in via NextPageID, continuing
// the forward chain the index pager iterator (§4.10) walks.
func AppendIndexEntry(fm *FileManager, pc *PageCache, databaseID uint16, rootPageIndex uint32, record NameRecord) error {
	body, err := record.Encode()
	if err != nil {
		return err
	}

	pageIndex := rootPageIndex
	for {
		id := PageID{DatabaseID: databaseID, PageIndex: pageIndex}
		bytes, ok := pc.GetPage(id)
		if !ok {
			return errNoSuchFile(databaseID)
		}

		dec := page.NewDecoder(bytes)
		header := dec.Header()

		if header.NextPageID != page.NoNextPage {
			pageIndex = header.NextPageID
			continue
		}

		enc := rebuildEncoder(dec, bytes)
		if enc.HasSpaceFor(len(body)) {
			if _, err := enc.AddSlot(body); err != nil {
				return err
			}
			enc.SetPageID(pageIndex)
			if err := pc.WritePage(id, enc.Collect()); err != nil {
				return err
			}
			return nil
		}

		newIndex, err := fm.NextPageIndex(FileID{DatabaseID: databaseID, Kind: KindPrimary})
		if err != nil {
			return err
		}

		newLeaf := page.NewEncoder(page.TypeIndexLeaf)
		newLeaf.SetPageID(newIndex)
		if _, err := newLeaf.AddSlot(body); err != nil {
			return err
		}
		if err := pc.WritePage(PageID{DatabaseID: databaseID, PageIndex: newIndex}, newLeaf.Collect()); err != nil {
			return err
		}

		enc.SetPageID(pageIndex)
		enc.SetNextPageID(newIndex)
		if err := pc.WritePage(id, enc.Collect()); err != nil {
			return err
		}
		return nil
	}
}

// rebuildEncoder re-encodes an existing leaf's slots into a fresh
// Encoder so a new slot can be appended; page.Encoder is build-then-
// collect and has no in-place append once Collect has run.
func rebuildEncoder(dec *page.Decoder, bytes page.Bytes) *page.Encoder {
	enc := page.NewEncoder(dec.Header().PageType)
	count := int(dec.Header().AllocatedSlotCount)
	for i := 0; i < count; i++ {
		slot, err := dec.ReadSlotBytes(i)
		if err != nil {
			continue
		}
		_, _ = enc.AddSlot(slot)
	}
	return enc
}

// FindIndexEntry walks the index chain rooted at rootPageIndex looking
// for a NameRecord whose Name matches name, per spec.md §4.9's
// databases/tables index walk.
func FindIndexEntry(pc *PageCache, databaseID uint16, rootPageIndex uint32, name string) (NameRecord, bool, error) {
	it := NewPagerIterator(pc, databaseID, rootPageIndex)
	for {
		slot, ok, err := it.Next()
		if err != nil {
			return NameRecord{}, false, err
		}
		if !ok {
			return NameRecord{}, false, nil
		}

		record, err := DecodeNameRecord(slot)
		if err != nil {
			return NameRecord{}, false, err
		}
		if record.Name == name {
			return record, true, nil
		}
	}
}
