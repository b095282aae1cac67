// Package codec is the declarative binary layer described in spec.md
// §4.1: given a record's ordered, fixed-width fields, it produces and
// consumes big-endian byte strings. It plays the same role gdbx's
// endian_be.go/endian_le.go pair play for MDBX's native page layout, but
// where gdbx open-codes little-endian field access for mmap speed, this
// module always encodes/decodes explicit big-endian field widths per
// spec.md's wire format and returns dberr.CodecError instead of panicking.
package codec

import "github.com/WhatFor/wackdb/internal/dberr"

// Writer appends fixed-width big-endian fields to an in-memory buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity hinted by size.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

// PutUint8 appends a single byte.
func (w *Writer) PutUint8(v uint8) { w.buf = append(w.buf, v) }

// PutUint16 appends a big-endian uint16.
func (w *Writer) PutUint16(v uint16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

// PutUint32 appends a big-endian uint32.
func (w *Writer) PutUint32(v uint32) {
	w.buf = append(w.buf,
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// PutUint64 appends a big-endian uint64.
func (w *Writer) PutUint64(v uint64) {
	w.buf = append(w.buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// PutBytes appends raw bytes verbatim (caller-declared fixed width).
func (w *Writer) PutBytes(b []byte) { w.buf = append(w.buf, b...) }

// PutVarBytes appends a one-byte length prefix followed by up to maxLen
// bytes of b. Returns a LengthOverrun CodecError if b exceeds maxLen.
func (w *Writer) PutVarBytes(b []byte, maxLen int) error {
	if len(b) > maxLen {
		return &dberr.CodecError{Kind: dberr.LengthOverrun}
	}
	w.PutUint8(uint8(len(b)))
	w.PutBytes(b)
	return nil
}

// Reader consumes fixed-width big-endian fields from a byte slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reads starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return &dberr.CodecError{Kind: dberr.ShortInput}
	}
	return nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// Uint16 reads a big-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := uint16(r.buf[r.pos])<<8 | uint16(r.buf[r.pos+1])
	r.pos += 2
	return v, nil
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	b := r.buf[r.pos : r.pos+4]
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	r.pos += 4
	return v, nil
}

// Uint64 reads a big-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	b := r.buf[r.pos : r.pos+8]
	v := uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
	r.pos += 8
	return v, nil
}

// Bytes reads exactly n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, r.buf[r.pos:r.pos+n])
	r.pos += n
	return v, nil
}

// VarBytes reads a one-byte length prefix followed by that many bytes.
func (r *Reader) VarBytes() ([]byte, error) {
	n, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(n))
}
