package markdown

import (
	"strings"
	"testing"
)

func TestExtractHeadingsAndParagraphs(t *testing.T) {
	src := "# Title\n\nFirst paragraph with **bold** and *italic* text.\n\nSecond paragraph."
	got := Extract(src)

	for _, want := range []string{"Title", "First paragraph with bold and italic text.", "Second paragraph."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "#") || strings.Contains(got, "*") {
		t.Errorf("markdown syntax leaked into output:\n%s", got)
	}

	// Blocks are separated by exactly one blank line.
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("output contains runs of blank lines:\n%s", got)
	}
	if parts := strings.Split(got, "\n\n"); len(parts) != 3 {
		t.Errorf("got %d blocks, want 3:\n%s", len(parts), got)
	}
}

func TestExtractDropsCodeBlocks(t *testing.T) {
	src := "Before code.\n\n```go\nfunc secret() {}\n```\n\n    indented code line\n\nAfter code."
	got := Extract(src)

	if strings.Contains(got, "secret") || strings.Contains(got, "indented code") {
		t.Errorf("code leaked into output:\n%s", got)
	}
	if !strings.Contains(got, "Before code.") || !strings.Contains(got, "After code.") {
		t.Errorf("prose lost around code block:\n%s", got)
	}
}

func TestExtractDropsHTML(t *testing.T) {
	src := "Real text.\n\n<div class=\"banner\">\nhidden\n</div>\n\nMore text."
	got := Extract(src)
	if strings.Contains(got, "banner") || strings.Contains(got, "hidden") {
		t.Errorf("HTML leaked into output:\n%s", got)
	}
}

func TestExtractLists(t *testing.T) {
	src := "- first item\n- second item\n- third item"
	got := Extract(src)
	for _, want := range []string{"first item", "second item", "third item"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "-") {
		t.Errorf("list markers leaked:\n%s", got)
	}
}

func TestExtractLinksKeepLabel(t *testing.T) {
	got := Extract("See [the docs](https://example.com/docs) for more.")
	if !strings.Contains(got, "the docs") {
		t.Errorf("link label lost:\n%s", got)
	}
	if strings.Contains(got, "](") {
		t.Errorf("link syntax leaked:\n%s", got)
	}
}

func TestExtractSoftBreaksBecomeSpaces(t *testing.T) {
	got := Extract("line one\nline two")
	if !strings.Contains(got, "line one line two") {
		t.Errorf("soft break not flattened to space:\n%q", got)
	}
}

func TestExtractEmpty(t *testing.T) {
	if got := Extract(""); got != "" {
		t.Errorf("Extract(\"\") = %q, want empty", got)
	}
	if got := Extract("```\nonly code\n```"); got != "" {
		t.Errorf("code-only document = %q, want empty", got)
	}
}
