// Package page implements the fixed 8192-byte page format from spec.md
// §3/§4.2/§4.3: a 32-byte big-endian header, a slot directory of
// variable-length bodies written left-to-right from offset 32, and a
// right-to-left array of 2-byte body end-offsets anchored at the end of
// the page. The header's checksum field covers only the body
// ([32:8192)), computed with CRC-16/IBM-SDLC.
//
// The split between Encoder (build-then-collect, write-only) and Decoder
// (parse-on-construction, read-only) mirrors gdbx's own page.go, which
// separates page construction from the read-only accessor methods used
// by cursors — but where gdbx casts mmap'd bytes directly into a Go
// struct via unsafe.Pointer for speed, this package always goes through
// internal/codec's explicit big-endian reader/writer, since pages here
// are copied byte slices rather than a live mmap.
package page

import (
	"github.com/WhatFor/wackdb/internal/codec"
	"github.com/WhatFor/wackdb/internal/dberr"
)

const (
	// Size is the fixed size, in bytes, of every page.
	Size = 8192

	// HeaderSize is the fixed size, in bytes, of the page header.
	HeaderSize = 32

	// SlotPointerSize is the width, in bytes, of one slot directory entry.
	SlotPointerSize = 2

	// CurrentHeaderVersion is the header version written for ordinary
	// pages (index pages, DATABASE_INFO, SCHEMA_INFO).
	CurrentHeaderVersion uint8 = 1

	// FileInfoHeaderVersion is the header version written for FILE_INFO
	// pages, which carry a widened 64-bit created_unix_seconds field (see
	// SPEC_FULL.md §6) instead of the legacy 16-bit truncated field.
	FileInfoHeaderVersion uint8 = 2
)

// Type tags the kind of record a page's slots hold.
type Type uint8

const (
	TypeFileInfo Type = iota
	TypeDatabaseInfo
	TypeSchemaInfo
	TypeIndexInterior
	TypeIndexLeaf
)

func (t Type) String() string {
	switch t {
	case TypeFileInfo:
		return "FileInfo"
	case TypeDatabaseInfo:
		return "DatabaseInfo"
	case TypeSchemaInfo:
		return "SchemaInfo"
	case TypeIndexInterior:
		return "IndexInterior"
	case TypeIndexLeaf:
		return "IndexLeaf"
	default:
		return "Unknown"
	}
}

// NoNextPage is the sentinel value of NextPageID meaning "end of chain",
// per spec.md §4.10.
const NoNextPage uint32 = 0

// Header is the 32-byte, big-endian page header described in spec.md §3.
// The first 4 bytes of the 12-byte reserved region carry NextPageID, the
// forward-chain pointer the index pager iterator (§4.10) follows across
// a table's leaf pages; the spec leaves reserved's content unspecified,
// so this is where that "future version" detail was fixed (see
// SPEC_FULL.md §6 and DESIGN.md).
type Header struct {
	PageID               uint32
	HeaderVersion        uint8
	PageType             Type
	Checksum             uint16
	Flags                uint16
	AllocatedSlotCount   uint16
	FreeSpace            uint16
	FreeSpaceStartOffset uint16
	FreeSpaceEndOffset   uint16
	TotalAllocatedBytes  uint16
	NextPageID           uint32
}

func newHeader(pageType Type) Header {
	return Header{
		HeaderVersion:        CurrentHeaderVersion,
		PageType:             pageType,
		AllocatedSlotCount:   0,
		FreeSpace:            Size - HeaderSize,
		FreeSpaceStartOffset: HeaderSize,
		FreeSpaceEndOffset:   Size,
		TotalAllocatedBytes:  HeaderSize,
		NextPageID:           NoNextPage,
	}
}

func (h Header) encode() []byte {
	w := codec.NewWriter(HeaderSize)
	w.PutUint32(h.PageID)
	w.PutUint8(h.HeaderVersion)
	w.PutUint8(uint8(h.PageType))
	w.PutUint16(h.Checksum)
	w.PutUint16(h.Flags)
	w.PutUint16(h.AllocatedSlotCount)
	w.PutUint16(h.FreeSpace)
	w.PutUint16(h.FreeSpaceStartOffset)
	w.PutUint16(h.FreeSpaceEndOffset)
	w.PutUint16(h.TotalAllocatedBytes)
	// reserved (12 bytes): first 4 are NextPageID, rest are zero-filled.
	w.PutUint32(h.NextPageID)
	w.PutBytes(make([]byte, 8))
	return w.Bytes()
}

func decodeHeader(buf []byte) (Header, error) {
	r := codec.NewReader(buf)
	var h Header
	var err error

	if h.PageID, err = r.Uint32(); err != nil {
		return h, err
	}
	if h.HeaderVersion, err = r.Uint8(); err != nil {
		return h, err
	}
	tag, err := r.Uint8()
	if err != nil {
		return h, err
	}
	h.PageType = Type(tag)
	if h.Checksum, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.Flags, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.AllocatedSlotCount, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.FreeSpace, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.FreeSpaceStartOffset, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.FreeSpaceEndOffset, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.TotalAllocatedBytes, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.NextPageID, err = r.Uint32(); err != nil {
		return h, err
	}
	return h, nil
}

// Bytes is one full page image.
type Bytes = [Size]byte

// Encoder accumulates slot bodies and produces a page image. Collect is
// terminal: no further operations are valid on an Encoder once called.
type Encoder struct {
	header    Header
	slots     [][]byte
	collected bool
}

// NewEncoder starts a fresh page of the given type with an empty slot
// directory and the header counters spec.md §4.2 prescribes.
func NewEncoder(pageType Type) *Encoder {
	return &Encoder{header: newHeader(pageType)}
}

// SetPageID overrides the page_id header field (default 0).
func (e *Encoder) SetPageID(id uint32) { e.header.PageID = id }

// SetHeaderVersion overrides the header_version field (default
// CurrentHeaderVersion). Used by FILE_INFO writers per SPEC_FULL.md §6.
func (e *Encoder) SetHeaderVersion(v uint8) { e.header.HeaderVersion = v }

// SetNextPageID sets the forward-chain pointer a leaf page uses to link
// to the next leaf in its table's index (spec.md §4.10). Defaults to
// NoNextPage.
func (e *Encoder) SetNextPageID(id uint32) { e.header.NextPageID = id }

// HasSpaceFor reports whether a slot body of the given length would fit,
// including its 2-byte slot pointer.
func (e *Encoder) HasSpaceFor(length int) bool {
	return e.header.FreeSpace >= uint16(length)+SlotPointerSize
}

// AddSlot appends a slot body, returning its 0-based pointer index.
func (e *Encoder) AddSlot(body []byte) (uint16, error) {
	if e.collected {
		return 0, &dberr.PageError{Kind: dberr.NotEnoughSpace}
	}
	if !e.HasSpaceFor(len(body)) {
		return 0, &dberr.PageError{Kind: dberr.NotEnoughSpace}
	}

	e.slots = append(e.slots, body)

	length := uint16(len(body))
	e.header.AllocatedSlotCount++
	e.header.FreeSpace -= length + SlotPointerSize
	e.header.TotalAllocatedBytes += length + SlotPointerSize

	return e.header.AllocatedSlotCount - 1, nil
}

// Collect finalizes the page: writes the header, then slot bodies
// left-to-right from offset 32, then slot pointers right-to-left from
// the end of the page, then patches the checksum over bytes [32:8192).
// No further operations are permitted on the Encoder afterward.
func (e *Encoder) Collect() Bytes {
	var out Bytes

	start := HeaderSize
	end := Size

	for _, slot := range e.slots {
		slotEnd := start + len(slot)
		copy(out[start:slotEnd], slot)
		start = slotEnd

		end -= SlotPointerSize
		out[end] = byte(slotEnd >> 8)
		out[end+1] = byte(slotEnd)
	}

	e.header.FreeSpaceStartOffset = uint16(start)
	e.header.FreeSpaceEndOffset = uint16(end)
	e.collected = true

	checksum := checksumIBMSDLC(out[HeaderSize:])
	e.header.Checksum = checksum

	copy(out[:HeaderSize], e.header.encode())

	return out
}

// ChecksumResult is the outcome of verifying a decoded page's checksum.
type ChecksumResult struct {
	Pass     bool
	Expected uint16
	Actual   uint16
}

// Decoder parses a page image's header eagerly and exposes read-only slot
// access.
type Decoder struct {
	buf    Bytes
	header Header
}

// NewDecoder parses the header of buf. The header is malformed only if buf
// is shorter than HeaderSize, which cannot happen given the Bytes type, so
// this never errors in practice; it mirrors spec.md's decoder contract
// that parses eagerly at construction.
func NewDecoder(buf Bytes) *Decoder {
	header, _ := decodeHeader(buf[:])
	return &Decoder{buf: buf, header: header}
}

// Header returns a read-only view of the parsed header.
func (d *Decoder) Header() Header { return d.header }

// VerifyChecksum recomputes the CRC over bytes [32:8192) and compares it
// to the header's stored checksum.
func (d *Decoder) VerifyChecksum() ChecksumResult {
	actual := checksumIBMSDLC(d.buf[HeaderSize:])
	return ChecksumResult{
		Pass:     actual == d.header.Checksum,
		Expected: d.header.Checksum,
		Actual:   actual,
	}
}

// ReadSlotBytes returns slot i's raw body. Slot i's body spans
// [prevEnd, thisEnd) where thisEnd is read from the pointer at offset
// 8192-2*(i+1), and prevEnd is 32 for slot 0 or the previous slot's end
// offset otherwise.
func (d *Decoder) ReadSlotBytes(i int) ([]byte, error) {
	if i < 0 || i >= int(d.header.AllocatedSlotCount) {
		return nil, &dberr.PageError{Kind: dberr.SlotOutOfRange}
	}

	pointerOffset := Size - SlotPointerSize*(i+1)
	thisEnd := int(d.buf[pointerOffset])<<8 | int(d.buf[pointerOffset+1])

	prevEnd := HeaderSize
	if i > 0 {
		prevPointerOffset := Size - SlotPointerSize*i
		prevEnd = int(d.buf[prevPointerOffset])<<8 | int(d.buf[prevPointerOffset+1])
	}

	if prevEnd < 0 || thisEnd > Size || prevEnd > thisEnd {
		return nil, &dberr.PageError{Kind: dberr.SlotOutOfRange}
	}

	body := make([]byte, thisEnd-prevEnd)
	copy(body, d.buf[prevEnd:thisEnd])
	return body, nil
}

// ReadSlotAs decodes slot i's body with decodeFn, e.g. a FILE_INFO or
// DATABASE_INFO record decoder from the storage package.
func ReadSlotAs[T any](d *Decoder, i int, decodeFn func([]byte) (T, error)) (T, error) {
	var zero T
	body, err := d.ReadSlotBytes(i)
	if err != nil {
		return zero, err
	}
	return decodeFn(body)
}
