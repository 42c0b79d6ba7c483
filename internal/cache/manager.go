package cache

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
)

// Manager fronts the memory and disk stores. All write failures are
// logged and swallowed: the document cache must never block or fail
// playback.
type Manager struct {
	memory *MemoryStore
	disk   *DiskStore // nil when persistence is disabled
}

// NewManager creates a manager. diskPath may be empty to run
// memory-only.
func NewManager(diskPath string, capacity int64) *Manager {
	m := &Manager{memory: NewMemoryStore(capacity)}
	if diskPath == "" {
		return m
	}
	disk, err := NewDiskStore(diskPath, capacity)
	if err != nil {
		log.Warn("document store unavailable, running memory-only", "err", err)
		return m
	}
	m.disk = disk
	return m
}

// Put persists a document under its content fingerprint and returns
// the fingerprint. Never fails from the caller's point of view.
func (m *Manager) Put(name, text string, wordCount int) string {
	now := time.Now()
	doc := Document{
		Name:        name,
		Text:        text,
		Fingerprint: Fingerprint(text),
		WordCount:   wordCount,
		SavedAt:     now,
		LastOpened:  now,
	}
	if err := m.memory.Put(doc); err != nil {
		log.Debug("memory store rejected document", "name", name, "err", err)
	}
	if m.disk != nil {
		if err := m.disk.Put(doc); err != nil {
			log.Warn("unable to persist document", "name", name, "err", err)
		}
	}
	return doc.Fingerprint
}

// Get looks a document up by content fingerprint, memory first.
func (m *Manager) Get(fingerprint string) (Document, bool) {
	if doc, ok := m.memory.Get(fingerprint); ok {
		return doc, true
	}
	if m.disk == nil {
		return Document{}, false
	}
	doc, err := m.disk.Get(fingerprint)
	if err != nil {
		return Document{}, false
	}
	// Promote for faster reopening.
	if err := m.memory.Put(doc); err != nil {
		log.Debug("unable to promote document", "name", doc.Name, "err", err)
	}
	return doc, true
}

// Recent returns up to n documents, most recently saved first, without
// their text.
func (m *Manager) Recent(n int) []Document {
	docs := m.entries()
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].SavedAt.After(docs[j].SavedAt)
	})
	if len(docs) > n {
		docs = docs[:n]
	}
	return docs
}

// Search fuzzy-matches stored document names.
func (m *Manager) Search(query string) []Document {
	docs := m.entries()
	if strings.TrimSpace(query) == "" {
		return docs
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	matches := fuzzy.Find(query, names)
	result := make([]Document, 0, len(matches))
	for _, match := range matches {
		result = append(result, docs[match.Index])
	}
	return result
}

// Close flushes the disk store.
func (m *Manager) Close() {
	if m.disk == nil {
		return
	}
	if err := m.disk.Close(); err != nil {
		log.Debug("error closing document store", "err", err)
	}
}

// entries merges disk and memory listings, deduplicated by
// fingerprint.
func (m *Manager) entries() []Document {
	seen := make(map[string]bool)
	var docs []Document
	if m.disk != nil {
		for _, d := range m.disk.Entries() {
			seen[d.Fingerprint] = true
			docs = append(docs, d)
		}
	}
	for _, d := range m.memory.Documents() {
		if !seen[d.Fingerprint] {
			d.Text = ""
			docs = append(docs, d)
		}
	}
	return docs
}
