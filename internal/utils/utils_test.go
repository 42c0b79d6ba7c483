package utils

import "testing"

func TestIsMarkdownFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"README.md", true},
		{"notes.markdown", true},
		{"UPPER.MD", true},
		{"doc.mkd", true},
		{"doc.mdown", true},
		{"essay.txt", false},
		{"archive.md.gz", false},
		{"md", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsMarkdownFile(tt.path); got != tt.want {
			t.Errorf("IsMarkdownFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRemoveFrontmatter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips yaml frontmatter",
			input: "---\ntitle: Hi\n---\nbody text\n",
			want:  "body text\n",
		},
		{
			name:  "no frontmatter is untouched",
			input: "plain document\n",
			want:  "plain document\n",
		},
		{
			name:  "unterminated frontmatter is untouched",
			input: "---\ntitle: broken\nbody\n",
			want:  "---\ntitle: broken\nbody\n",
		},
		{
			name:  "delimiter mid-document is untouched",
			input: "intro\n---\nrest\n",
			want:  "intro\n---\nrest\n",
		},
		{
			name:  "crlf frontmatter",
			input: "---\r\ntitle: Hi\r\n---\r\nbody\r\n",
			want:  "body\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(RemoveFrontmatter([]byte(tt.input))); got != tt.want {
				t.Errorf("RemoveFrontmatter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPathPassthrough(t *testing.T) {
	// Absolute and relative paths come back unchanged.
	for _, p := range []string{"/etc/hosts", "relative/file.md", "."} {
		if got := ExpandPath(p); got != p {
			t.Errorf("ExpandPath(%q) = %q, want unchanged", p, got)
		}
	}
}
