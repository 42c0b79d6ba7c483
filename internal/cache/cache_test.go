package cache

import (
	"strings"
	"testing"
	"time"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("some document text")
	b := Fingerprint("some document text")
	c := Fingerprint("other text")
	if a != b {
		t.Error("same text must fingerprint identically")
	}
	if a == c {
		t.Error("different text must fingerprint differently")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}

func doc(name, text string) Document {
	now := time.Now()
	return Document{
		Name:        name,
		Text:        text,
		Fingerprint: Fingerprint(text),
		WordCount:   len(strings.Fields(text)),
		SavedAt:     now,
		LastOpened:  now,
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore(1024)

	d := doc("essay", "a short essay")
	if err := s.Put(d); err != nil {
		t.Fatal(err)
	}

	got, ok := s.Get(d.Fingerprint)
	if !ok {
		t.Fatal("stored document not found")
	}
	if got.Name != "essay" || got.Text != d.Text {
		t.Errorf("got %+v", got)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("unknown fingerprint should miss")
	}

	stats := s.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Documents != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss 1 document", stats)
	}
}

func TestMemoryStoreEvictsLRU(t *testing.T) {
	s := NewMemoryStore(20)

	// 10 bytes of text each.
	first := doc("first", "aaaaaaaaaa")
	second := doc("second", "bbbbbbbbbb")
	if err := s.Put(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(second); err != nil {
		t.Fatal(err)
	}

	// Touch first so second becomes the eviction candidate.
	if _, ok := s.Get(first.Fingerprint); !ok {
		t.Fatal("first doc missing before eviction")
	}

	third := doc("third", "cccccccccc")
	if err := s.Put(third); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Get(second.Fingerprint); ok {
		t.Error("least recently used document should have been evicted")
	}
	if _, ok := s.Get(first.Fingerprint); !ok {
		t.Error("recently used document should survive eviction")
	}
	if s.GetStats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", s.GetStats().Evictions)
	}
}

func TestMemoryStoreRejectsOversized(t *testing.T) {
	s := NewMemoryStore(5)
	err := s.Put(doc("big", "way too large for the store"))
	if err != ErrDocumentTooLarge {
		t.Errorf("err = %v, want ErrDocumentTooLarge", err)
	}
}

func TestDiskStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ds, err := NewDiskStore(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}

	d := doc("article", strings.Repeat("compressible text ", 50))
	if err := ds.Put(d); err != nil {
		t.Fatal(err)
	}

	got, err := ds.Get(d.Fingerprint)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != d.Text {
		t.Error("decompressed text differs from original")
	}
	if got.WordCount != d.WordCount {
		t.Errorf("word count = %d, want %d", got.WordCount, d.WordCount)
	}

	if _, err := ds.Get("missing"); err != ErrMiss {
		t.Errorf("unknown fingerprint err = %v, want ErrMiss", err)
	}

	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}

	// A new store over the same directory finds the persisted index.
	ds2, err := NewDiskStore(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	defer ds2.Close() //nolint:errcheck

	got2, err := ds2.Get(d.Fingerprint)
	if err != nil {
		t.Fatal(err)
	}
	if got2.Text != d.Text {
		t.Error("document did not survive store reopen")
	}
}

func TestDiskStoreEntriesOmitText(t *testing.T) {
	dir := t.TempDir()
	ds, err := NewDiskStore(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close() //nolint:errcheck

	if err := ds.Put(doc("listed", "the text body")); err != nil {
		t.Fatal(err)
	}
	entries := ds.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Text != "" {
		t.Error("listing entries should not carry document text")
	}
	if entries[0].Name != "listed" {
		t.Errorf("entry name = %q", entries[0].Name)
	}
}

func TestManagerMemoryOnly(t *testing.T) {
	m := NewManager("", 1024)
	defer m.Close()

	fp := m.Put("note", "remember this", 2)
	got, ok := m.Get(fp)
	if !ok || got.Text != "remember this" {
		t.Fatalf("Get = (%+v, %v)", got, ok)
	}
	if _, ok := m.Get("nope"); ok {
		t.Error("unknown fingerprint should miss")
	}
}

func TestManagerDiskPromotion(t *testing.T) {
	dir := t.TempDir()

	// Save through one manager session, reopen in another: the document
	// comes back from disk and gets promoted to memory.
	m1 := NewManager(dir, 1<<20)
	fp := m1.Put("kept", "persisted across sessions", 3)
	m1.Close()

	m2 := NewManager(dir, 1<<20)
	defer m2.Close()

	got, ok := m2.Get(fp)
	if !ok {
		t.Fatal("document not found after reopen")
	}
	if got.Text != "persisted across sessions" {
		t.Errorf("text = %q", got.Text)
	}

	// Promoted: a second lookup is served by the memory tier.
	if _, ok := m2.memory.Get(fp); !ok {
		t.Error("document was not promoted to memory")
	}
}

func TestManagerRecentAndSearch(t *testing.T) {
	m := NewManager("", 1<<20)
	defer m.Close()

	m.Put("alpha notes", "text a", 2)
	time.Sleep(2 * time.Millisecond)
	m.Put("beta draft", "text b", 2)
	time.Sleep(2 * time.Millisecond)
	m.Put("gamma essay", "text c", 2)

	recent := m.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Recent(2) = %d docs, want 2", len(recent))
	}
	if recent[0].Name != "gamma essay" {
		t.Errorf("most recent = %q, want gamma essay", recent[0].Name)
	}

	found := m.Search("beta")
	if len(found) != 1 || found[0].Name != "beta draft" {
		t.Errorf("Search(beta) = %+v", found)
	}

	// Blank query returns everything.
	if all := m.Search("  "); len(all) != 3 {
		t.Errorf("blank search = %d docs, want 3", len(all))
	}
}
