// Package token turns raw text into the ordered token stream consumed
// by the reader. Tokenization is pure and total: any input, including
// empty or unparseable text, yields a deterministic token sequence.
package token

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/rogerjs93/rsvp/reader"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Tokenize splits text into word-like tokens with trailing punctuation
// attached. Line endings are normalized, runs of two or more line
// breaks become paragraph boundaries, and the final token of every
// paragraph except the last carries the paragraph-end flag. Empty input
// yields a single whitespace token so callers never see a zero-length
// stream from a non-document.
func Tokenize(text string) []reader.Token {
	text = normalize(text)

	paragraphs := paragraphBreak.Split(text, -1)
	var tokens []reader.Token
	lastOfPrev := -1

	for _, para := range paragraphs {
		start := len(tokens)
		tokens = scanParagraph(tokens, para)
		if len(tokens) > start {
			// Only a paragraph that produced tokens moves the
			// boundary; blank paragraphs collapse away.
			if lastOfPrev >= 0 {
				tokens[lastOfPrev].IsParagraphEnd = true
			}
			lastOfPrev = len(tokens) - 1
		}
	}

	if len(tokens) == 0 {
		return []reader.Token{{Text: " "}}
	}
	return tokens
}

// normalize puts the input into NFC form and reduces all line-ending
// conventions to a single \n.
func normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// scanParagraph appends the paragraph's tokens. Matches are tried in
// priority order: URL, word run, punctuation run. Punctuation trails
// the word it follows; a leading punctuation run with no preceding
// token is dropped.
func scanParagraph(tokens []reader.Token, para string) []reader.Token {
	first := len(tokens)
	runes := []rune(para)
	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		if end, ok := matchURL(runes, i); ok {
			tokens = append(tokens, reader.Token{Text: string(runes[i:end])})
			i = end
			continue
		}

		if isWordRune(runes[i]) {
			end := matchWord(runes, i)
			tokens = append(tokens, reader.Token{Text: string(runes[i:end])})
			i = end
			continue
		}

		// Punctuation run: everything up to the next space or word rune.
		end := i
		for end < len(runes) && !unicode.IsSpace(runes[end]) && !isWordRune(runes[end]) {
			end++
		}
		if len(tokens) > first {
			tokens[len(tokens)-1].Text += string(runes[i:end])
		}
		i = end
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// matchURL recognizes http(s):// and www. prefixes and consumes the
// run up to the next whitespace.
func matchURL(runes []rune, i int) (int, bool) {
	rest := strings.ToLower(string(runes[i:min(i+8, len(runes))]))
	if !strings.HasPrefix(rest, "http://") &&
		!strings.HasPrefix(rest, "https://") &&
		!strings.HasPrefix(rest, "www.") {
		return 0, false
	}
	end := i
	for end < len(runes) && !unicode.IsSpace(runes[end]) {
		end++
	}
	return end, true
}

// matchWord consumes a run of letters and digits, allowing internal
// apostrophes and internal single dots so contractions ("don't") and
// dotted abbreviations ("e.g.") survive as one token. The joiner must
// sit between word runes: a trailing dot is left for the punctuation
// pass, which reattaches it to this token anyway.
func matchWord(runes []rune, i int) int {
	end := i
	for end < len(runes) {
		r := runes[end]
		if isWordRune(r) {
			end++
			continue
		}
		if (r == '\'' || r == '’' || r == '.') &&
			end > i && end+1 < len(runes) && isWordRune(runes[end+1]) {
			end++
			continue
		}
		break
	}
	return end
}
