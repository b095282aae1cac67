package page

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewEncoder(TypeIndexLeaf)
	enc.SetPageID(7)
	enc.SetNextPageID(9)

	idx0, err := enc.AddSlot([]byte("hello"))
	if err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	idx1, err := enc.AddSlot([]byte("world!"))
	if err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	if idx0 != 0 || idx1 != 1 {
		t.Fatalf("unexpected slot indexes: %d, %d", idx0, idx1)
	}

	bytes := enc.Collect()

	dec := NewDecoder(bytes)
	h := dec.Header()
	if h.PageID != 7 {
		t.Errorf("PageID = %d, want 7", h.PageID)
	}
	if h.NextPageID != 9 {
		t.Errorf("NextPageID = %d, want 9", h.NextPageID)
	}
	if h.PageType != TypeIndexLeaf {
		t.Errorf("PageType = %v, want TypeIndexLeaf", h.PageType)
	}
	if h.AllocatedSlotCount != 2 {
		t.Errorf("AllocatedSlotCount = %d, want 2", h.AllocatedSlotCount)
	}

	body0, err := dec.ReadSlotBytes(0)
	if err != nil {
		t.Fatalf("ReadSlotBytes(0): %v", err)
	}
	if string(body0) != "hello" {
		t.Errorf("slot 0 = %q, want %q", body0, "hello")
	}

	body1, err := dec.ReadSlotBytes(1)
	if err != nil {
		t.Fatalf("ReadSlotBytes(1): %v", err)
	}
	if string(body1) != "world!" {
		t.Errorf("slot 1 = %q, want %q", body1, "world!")
	}

	result := dec.VerifyChecksum()
	if !result.Pass {
		t.Errorf("VerifyChecksum failed: expected %d, actual %d", result.Expected, result.Actual)
	}
}

func TestReadSlotBytesOutOfRange(t *testing.T) {
	enc := NewEncoder(TypeIndexLeaf)
	if _, err := enc.AddSlot([]byte("only")); err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	dec := NewDecoder(enc.Collect())

	if _, err := dec.ReadSlotBytes(1); err == nil {
		t.Error("expected error reading slot past AllocatedSlotCount")
	}
	if _, err := dec.ReadSlotBytes(-1); err == nil {
		t.Error("expected error reading negative slot index")
	}
}

func TestVerifyChecksumDetectsCorruption(t *testing.T) {
	enc := NewEncoder(TypeDatabaseInfo)
	if _, err := enc.AddSlot([]byte("payload")); err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	bytes := enc.Collect()

	// Flip a bit well inside the body region, past the header.
	bytes[HeaderSize+2] ^= 0xFF

	dec := NewDecoder(bytes)
	result := dec.VerifyChecksum()
	if result.Pass {
		t.Error("VerifyChecksum passed despite corrupted body")
	}
}

func TestHasSpaceForAndNotEnoughSpace(t *testing.T) {
	enc := NewEncoder(TypeIndexLeaf)

	big := make([]byte, Size)
	if enc.HasSpaceFor(len(big)) {
		t.Error("HasSpaceFor reported true for a body larger than the whole page")
	}

	if _, err := enc.AddSlot(big); err == nil {
		t.Error("expected AddSlot to fail for an oversized body")
	}
}

func TestAddSlotAfterCollectFails(t *testing.T) {
	enc := NewEncoder(TypeIndexLeaf)
	enc.Collect()

	if _, err := enc.AddSlot([]byte("too late")); err == nil {
		t.Error("expected AddSlot to fail after Collect")
	}
}

func TestEncoderFillsExactlyToCapacity(t *testing.T) {
	enc := NewEncoder(TypeIndexLeaf)
	count := 0
	for enc.HasSpaceFor(4) {
		if _, err := enc.AddSlot([]byte("abcd")); err != nil {
			t.Fatalf("AddSlot #%d: %v", count, err)
		}
		count++
	}
	if count == 0 {
		t.Fatal("expected at least one slot to fit in an empty page")
	}

	bytes := enc.Collect()
	dec := NewDecoder(bytes)
	if int(dec.Header().AllocatedSlotCount) != count {
		t.Errorf("AllocatedSlotCount = %d, want %d", dec.Header().AllocatedSlotCount, count)
	}

	result := dec.VerifyChecksum()
	if !result.Pass {
		t.Error("checksum failed on a maximally packed page")
	}
}
