// Package fastmap provides a fast hash map from packed uint32 keys to
// uint32 counters. It backs internal/storage's FileManager, which packs
// a file's (database_id, file_kind) identity into a single uint32 key to
// track each open file's next-allocatable page index (spec.md §4.5).
// Uses open addressing with linear probing and fibonacci hashing for
// good distribution over the small, mostly-sequential database ids this
// engine allocates.
package fastmap

// Uint32Map is a fast hash map from uint32 to uint32.
type Uint32Map struct {
	buckets []bucket
	count   int
	mask    uint32
}

type bucket struct {
	key   uint32
	value uint32
	used  bool // needed because key=0 and value=0 are both valid
}

// Fibonacci hash constant: 2^32 / golden ratio.
const fibHash32 = 2654435769

func (m *Uint32Map) hash(key uint32) uint32 {
	return key * fibHash32
}

// Get returns the value for the given key, and whether it was present.
func (m *Uint32Map) Get(key uint32) (uint32, bool) {
	if len(m.buckets) == 0 {
		return 0, false
	}
	h := m.hash(key)
	idx := h & m.mask
	for {
		b := &m.buckets[idx]
		if !b.used {
			return 0, false
		}
		if b.key == key {
			return b.value, true
		}
		idx = (idx + 1) & m.mask
	}
}

// Set stores a key-value pair, growing the table if it's getting full.
func (m *Uint32Map) Set(key uint32, value uint32) {
	if len(m.buckets) == 0 {
		m.buckets = make([]bucket, 16)
		m.mask = 15
	} else if m.count >= len(m.buckets)*3/4 {
		m.grow()
	}

	h := m.hash(key)
	idx := h & m.mask
	for {
		b := &m.buckets[idx]
		if !b.used {
			b.key = key
			b.value = value
			b.used = true
			m.count++
			return
		}
		if b.key == key {
			b.value = value
			return
		}
		idx = (idx + 1) & m.mask
	}
}

func (m *Uint32Map) grow() {
	oldBuckets := m.buckets
	newSize := len(oldBuckets) * 2
	m.buckets = make([]bucket, newSize)
	m.mask = uint32(newSize - 1)
	m.count = 0

	for i := range oldBuckets {
		if oldBuckets[i].used {
			m.Set(oldBuckets[i].key, oldBuckets[i].value)
		}
	}
}

// ForEach iterates over all key-value pairs in unspecified order.
func (m *Uint32Map) ForEach(fn func(uint32, uint32)) {
	for i := range m.buckets {
		if m.buckets[i].used {
			fn(m.buckets[i].key, m.buckets[i].value)
		}
	}
}

// Clear removes all entries but keeps the backing array.
func (m *Uint32Map) Clear() {
	clear(m.buckets)
	m.count = 0
}

// Len returns the number of entries.
func (m *Uint32Map) Len() int {
	return m.count
}
