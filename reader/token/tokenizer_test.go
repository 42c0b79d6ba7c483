package token

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rogerjs93/rsvp/reader"
)

func texts(tokens []reader.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenizeWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple sentence",
			input: "The quick brown fox.",
			want:  []string{"The", "quick", "brown", "fox."},
		},
		{
			name:  "punctuation attaches to preceding word",
			input: "Hello, world!",
			want:  []string{"Hello,", "world!"},
		},
		{
			name:  "contraction stays whole",
			input: "don't stop",
			want:  []string{"don't", "stop"},
		},
		{
			name:  "curly apostrophe contraction",
			input: "it’s fine",
			want:  []string{"it’s", "fine"},
		},
		{
			name:  "dotted abbreviation stays whole",
			input: "e.g. this",
			want:  []string{"e.g.", "this"},
		},
		{
			name:  "hyphen splits into two tokens",
			input: "well-known fact",
			want:  []string{"well-", "known", "fact"},
		},
		{
			name:  "numbers are tokens",
			input: "version 2.0 shipped",
			want:  []string{"version", "2.0", "shipped"},
		},
		{
			name:  "leading punctuation is dropped",
			input: "... and then",
			want:  []string{"and", "then"},
		},
		{
			name:  "quote runs attach to the preceding token",
			input: `he said "stop" now`,
			want:  []string{"he", `said"`, `stop"`, "now"},
		},
		{
			name:  "collapses runs of whitespace",
			input: "a \t  b\nc",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "unicode words survive",
			input: "café naïve 日本語",
			want:  []string{"café", "naïve", "日本語"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Tokenize(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeURLs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "https URL is one token",
			input: "see https://example.com/a?b=1 for details",
			want:  []string{"see", "https://example.com/a?b=1", "for", "details"},
		},
		{
			name:  "http URL is one token",
			input: "http://example.com",
			want:  []string{"http://example.com"},
		},
		{
			name:  "www URL is one token",
			input: "visit www.example.com today",
			want:  []string{"visit", "www.example.com", "today"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Tokenize(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeParagraphs(t *testing.T) {
	tokens := Tokenize("First paragraph here.\n\nSecond one.\n\n\nThird.")

	var flagged []int
	for i, tok := range tokens {
		if tok.IsParagraphEnd {
			flagged = append(flagged, i)
		}
	}

	// "here." and "one." end their paragraphs; the final token of the
	// document carries no flag.
	want := []int{2, 4}
	if !reflect.DeepEqual(flagged, want) {
		t.Errorf("paragraph-end indexes = %v, want %v", flagged, want)
	}
	if tokens[len(tokens)-1].IsParagraphEnd {
		t.Error("final token must not be flagged as paragraph end")
	}
}

func TestTokenizeBlankParagraphsCollapse(t *testing.T) {
	tokens := Tokenize("one\n\n   \n\ntwo")
	if got := texts(tokens); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Fatalf("tokens = %v, want [one two]", got)
	}
	if !tokens[0].IsParagraphEnd {
		t.Error("token before blank paragraph should still end its paragraph")
	}
}

func TestTokenizeLineEndings(t *testing.T) {
	// \r\n and bare \r both normalize to \n, so doubled variants all
	// split paragraphs identically.
	for _, sep := range []string{"\n\n", "\r\n\r\n", "\r\r"} {
		tokens := Tokenize("alpha" + sep + "beta")
		if len(tokens) != 2 {
			t.Fatalf("sep %q: got %d tokens, want 2", sep, len(tokens))
		}
		if !tokens[0].IsParagraphEnd {
			t.Errorf("sep %q: first token should end its paragraph", sep)
		}
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n", "\t \r\n"} {
		tokens := Tokenize(input)
		if len(tokens) != 1 || tokens[0].Text != " " {
			t.Errorf("Tokenize(%q) = %v, want single whitespace token", input, tokens)
		}
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	input := "Some text, with punctuation! And https://example.com too.\n\nNew paragraph."
	first := Tokenize(input)
	for i := 0; i < 5; i++ {
		if got := Tokenize(input); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	// Joining token texts with spaces, with a blank line after every
	// paragraph-end token, must reconstruct the whitespace-normalized
	// input: no word lost, no word reordered, no boundary moved.
	input := "  The committee,\nhaving deliberated at length, reached no conclusion.\n\n" +
		"Its 42 members dispersed   quietly.\n\n\n" +
		"Minutes were filed the next morning.  "
	want := "The committee, having deliberated at length, reached no conclusion.\n\n" +
		"Its 42 members dispersed quietly.\n\n" +
		"Minutes were filed the next morning."

	tokens := Tokenize(input)
	var b strings.Builder
	for i, tok := range tokens {
		b.WriteString(tok.Text)
		if i == len(tokens)-1 {
			break
		}
		if tok.IsParagraphEnd {
			b.WriteString("\n\n")
		} else {
			b.WriteString(" ")
		}
	}
	if got := b.String(); got != want {
		t.Errorf("reconstructed text = %q, want %q", got, want)
	}
}
