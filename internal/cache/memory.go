package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryStore keeps recently opened documents in memory with LRU
// eviction by total text size.
type MemoryStore struct {
	capacity int64
	size     int64

	items    map[string]*list.Element // fingerprint → element
	eviction *list.List

	mu    sync.Mutex
	stats Stats
}

type memoryEntry struct {
	doc  Document
	size int64
}

// NewMemoryStore creates a memory store with the given capacity in
// bytes of document text.
func NewMemoryStore(capacity int64) *MemoryStore {
	return &MemoryStore{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		stats:    Stats{Capacity: capacity},
	}
}

// Get retrieves a document by fingerprint and marks it recently used.
func (s *MemoryStore) Get(fingerprint string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[fingerprint]
	if !ok {
		s.stats.Misses++
		return Document{}, false
	}
	s.eviction.MoveToFront(elem)
	entry := elem.Value.(*memoryEntry)
	entry.doc.LastOpened = time.Now()
	s.stats.Hits++
	return entry.doc, true
}

// Put stores a document, evicting least recently used entries as
// needed.
func (s *MemoryStore) Put(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := int64(len(doc.Text))
	if size > s.capacity {
		return ErrDocumentTooLarge
	}

	if elem, ok := s.items[doc.Fingerprint]; ok {
		s.eviction.MoveToFront(elem)
		entry := elem.Value.(*memoryEntry)
		s.size += size - entry.size
		entry.doc = doc
		entry.size = size
		s.stats.Size = s.size
		return nil
	}

	for s.size+size > s.capacity && s.eviction.Len() > 0 {
		s.evictOldest()
	}

	elem := s.eviction.PushFront(&memoryEntry{doc: doc, size: size})
	s.items[doc.Fingerprint] = elem
	s.size += size
	s.stats.Size = s.size
	return nil
}

// Documents returns every stored document, most recently used first.
func (s *MemoryStore) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]Document, 0, s.eviction.Len())
	for elem := s.eviction.Front(); elem != nil; elem = elem.Next() {
		docs = append(docs, elem.Value.(*memoryEntry).doc)
	}
	return docs
}

// GetStats returns a copy of the store metrics.
func (s *MemoryStore) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Documents = s.eviction.Len()
	return st
}

func (s *MemoryStore) evictOldest() {
	elem := s.eviction.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*memoryEntry)
	s.eviction.Remove(elem)
	delete(s.items, entry.doc.Fingerprint)
	s.size -= entry.size
	s.stats.Evictions++
	s.stats.Size = s.size
}
