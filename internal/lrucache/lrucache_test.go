package lrucache

import "testing"

func TestGetPutRoundTrip(t *testing.T) {
	c := New[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) reported found")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, string](2)
	c.Put(1, "one")
	c.Put(2, "two")
	c.Put(3, "three") // evicts 1, the least recently used

	if _, ok := c.Get(1); ok {
		t.Error("expected key 1 to have been evicted")
	}
	if v, ok := c.Get(2); !ok || v != "two" {
		t.Errorf("Get(2) = %q, %v; want 'two', true", v, ok)
	}
	if v, ok := c.Get(3); !ok || v != "three" {
		t.Errorf("Get(3) = %q, %v; want 'three', true", v, ok)
	}
}

func TestGetPromotesToMostRecentlyUsed(t *testing.T) {
	c := New[int, string](2)
	c.Put(1, "one")
	c.Put(2, "two")

	c.Get(1) // 1 is now most recently used; 2 becomes the eviction candidate
	c.Put(3, "three")

	if _, ok := c.Get(2); ok {
		t.Error("expected key 2 to have been evicted after 1 was promoted")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("expected key 1 to survive eviction")
	}
}

func TestPutUpdatesExistingKeyWithoutEviction(t *testing.T) {
	c := New[int, string](2)
	c.Put(1, "one")
	c.Put(2, "two")
	c.Put(1, "ONE")

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if v, ok := c.Get(1); !ok || v != "ONE" {
		t.Errorf("Get(1) = %q, %v; want 'ONE', true", v, ok)
	}
}

func TestNewClampsNonPositiveCapacity(t *testing.T) {
	c := New[int, int](0)
	c.Put(1, 1)
	c.Put(2, 2)

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1 for a clamped zero-capacity cache", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("expected key 1 to have been evicted by key 2")
	}
}
