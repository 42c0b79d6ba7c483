package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const indexFileName = "index.gob"

// DiskStore persists documents across sessions, zstd-compressed, with
// a gob index for fast lookups.
type DiskStore struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskEntry // fingerprint → entry

	mu    sync.Mutex
	stats Stats
}

type diskEntry struct {
	Name        string
	Fingerprint string
	FilePath    string
	Size        int64 // compressed bytes on disk
	WordCount   int
	SavedAt     time.Time
	LastOpened  time.Time
}

// NewDiskStore creates a disk store rooted at basePath with the given
// capacity in bytes of compressed data.
func NewDiskStore(basePath string, capacity int64) (*DiskStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create store directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("unable to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create zstd decoder: %w", err)
	}

	ds := &DiskStore{
		basePath: basePath,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*diskEntry),
		stats:    Stats{Capacity: capacity},
	}

	// A missing or unreadable index just means a fresh store.
	if err := ds.loadIndex(); err != nil {
		ds.index = make(map[string]*diskEntry)
	}
	for _, entry := range ds.index {
		ds.size += entry.Size
	}
	return ds, nil
}

// Put persists one document, evicting the oldest entries when over
// capacity.
func (ds *DiskStore) Put(doc Document) error {
	compressed := ds.encoder.EncodeAll([]byte(doc.Text), nil)
	size := int64(len(compressed))

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if size > ds.capacity {
		return ErrDocumentTooLarge
	}
	for ds.size+size > ds.capacity && len(ds.index) > 0 {
		ds.evictOldestLocked()
	}

	path := filepath.Join(ds.basePath, doc.Fingerprint+".zst")
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}

	if prev, ok := ds.index[doc.Fingerprint]; ok {
		ds.size -= prev.Size
	}
	ds.index[doc.Fingerprint] = &diskEntry{
		Name:        doc.Name,
		Fingerprint: doc.Fingerprint,
		FilePath:    path,
		Size:        size,
		WordCount:   doc.WordCount,
		SavedAt:     doc.SavedAt,
		LastOpened:  doc.LastOpened,
	}
	ds.size += size
	ds.stats.Size = ds.size

	return ds.saveIndexLocked()
}

// Get retrieves and decompresses a document by fingerprint.
func (ds *DiskStore) Get(fingerprint string) (Document, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	entry, ok := ds.index[fingerprint]
	if !ok {
		ds.stats.Misses++
		return Document{}, ErrMiss
	}

	compressed, err := os.ReadFile(entry.FilePath)
	if err != nil {
		// File vanished underneath the index; drop the entry.
		delete(ds.index, fingerprint)
		ds.size -= entry.Size
		ds.stats.Misses++
		return Document{}, ErrMiss
	}

	text, err := ds.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	entry.LastOpened = time.Now()
	ds.stats.Hits++
	return Document{
		Name:        entry.Name,
		Text:        string(text),
		Fingerprint: entry.Fingerprint,
		WordCount:   entry.WordCount,
		SavedAt:     entry.SavedAt,
		LastOpened:  entry.LastOpened,
	}, nil
}

// Entries returns the index as documents without their text, for
// listings and search.
func (ds *DiskStore) Entries() []Document {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	docs := make([]Document, 0, len(ds.index))
	for _, entry := range ds.index {
		docs = append(docs, Document{
			Name:        entry.Name,
			Fingerprint: entry.Fingerprint,
			WordCount:   entry.WordCount,
			SavedAt:     entry.SavedAt,
			LastOpened:  entry.LastOpened,
		})
	}
	return docs
}

// GetStats returns a copy of the store metrics.
func (ds *DiskStore) GetStats() Stats {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	st := ds.stats
	st.Documents = len(ds.index)
	return st
}

// Close flushes the index and releases the compressors.
func (ds *DiskStore) Close() error {
	ds.mu.Lock()
	err := ds.saveIndexLocked()
	ds.mu.Unlock()

	ds.decoder.Close()
	if cerr := ds.encoder.Close(); err == nil {
		err = cerr
	}
	return err
}

func (ds *DiskStore) evictOldestLocked() {
	var oldest *diskEntry
	for _, entry := range ds.index {
		if oldest == nil || entry.LastOpened.Before(oldest.LastOpened) {
			oldest = entry
		}
	}
	if oldest == nil {
		return
	}
	_ = os.Remove(oldest.FilePath)
	delete(ds.index, oldest.Fingerprint)
	ds.size -= oldest.Size
	ds.stats.Evictions++
}

func (ds *DiskStore) loadIndex() error {
	f, err := os.Open(filepath.Join(ds.basePath, indexFileName))
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck
	return gob.NewDecoder(f).Decode(&ds.index)
}

func (ds *DiskStore) saveIndexLocked() error {
	f, err := os.Create(filepath.Join(ds.basePath, indexFileName))
	if err != nil {
		return fmt.Errorf("unable to write store index: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return gob.NewEncoder(f).Encode(ds.index)
}
