package fastmap

import (
	"math/rand"
	"testing"
)

func TestUint32Map(t *testing.T) {
	m := &Uint32Map{}

	if _, ok := m.Get(1); ok {
		t.Error("Expected miss for empty map")
	}

	m.Set(1, 100)
	m.Set(2, 200)

	if v, ok := m.Get(1); !ok || v != 100 {
		t.Error("Get(1) failed")
	}
	if v, ok := m.Get(2); !ok || v != 200 {
		t.Error("Get(2) failed")
	}
	if _, ok := m.Get(3); ok {
		t.Error("Get(3) should miss")
	}

	m.Set(1, 300)
	if v, ok := m.Get(1); !ok || v != 300 {
		t.Error("Update failed")
	}

	if m.Len() != 2 {
		t.Errorf("Expected len=2, got %d", m.Len())
	}

	m.Clear()
	if m.Len() != 0 {
		t.Error("Clear failed")
	}
	if _, ok := m.Get(1); ok {
		t.Error("Get after clear should miss")
	}
}

func TestUint32MapGrowth(t *testing.T) {
	m := &Uint32Map{}

	n := 10000
	for i := 0; i < n; i++ {
		m.Set(uint32(i), uint32(i*10))
	}

	if m.Len() != n {
		t.Errorf("Expected len=%d, got %d", n, m.Len())
	}

	for i := 0; i < n; i++ {
		v, ok := m.Get(uint32(i))
		if !ok || v != uint32(i*10) {
			t.Errorf("Get(%d) failed", i)
		}
	}
}

func TestUint32MapZeroKey(t *testing.T) {
	m := &Uint32Map{}

	m.Set(0, 999)

	if v, ok := m.Get(0); !ok || v != 999 {
		t.Error("Zero key failed")
	}
	if m.Len() != 1 {
		t.Error("Len should be 1")
	}
}

func BenchmarkFastMapSeqWrite(b *testing.B) {
	m := &Uint32Map{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Set(uint32(i), uint32(i))
	}
}

func BenchmarkGoMapSeqWrite(b *testing.B) {
	m := make(map[uint32]uint32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m[uint32(i)] = uint32(i)
	}
}

func BenchmarkFastMapRandRead(b *testing.B) {
	m := &Uint32Map{}
	keys := make([]uint32, 100000)
	for i := range keys {
		keys[i] = rand.Uint32()
		m.Set(keys[i], uint32(i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Get(keys[i%100000])
	}
}

func BenchmarkGoMapRandRead(b *testing.B) {
	m := make(map[uint32]uint32)
	keys := make([]uint32, 100000)
	for i := range keys {
		keys[i] = rand.Uint32()
		m[keys[i]] = uint32(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[keys[i%100000]]
	}
}
