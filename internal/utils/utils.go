// Package utils provides small path and file-type helpers.
package utils

import (
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde to the user's home directory.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return s
}

// RemoveFrontmatter strips a leading YAML frontmatter block, if any.
func RemoveFrontmatter(content []byte) []byte {
	const delim = "---"
	lines := strings.SplitAfter(string(content), "\n")
	if len(lines) < 2 || strings.TrimRight(lines[0], "\r\n") != delim {
		return content
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == delim {
			return []byte(strings.Join(lines[i+1:], ""))
		}
	}
	return content
}

// IsMarkdownFile reports whether the path looks like a markdown file.
func IsMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdown", ".mkdn", ".mkd", ".markdown":
		return true
	}
	return false
}
