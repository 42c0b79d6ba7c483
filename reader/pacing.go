package reader

import (
	"math"
	"time"
)

// longWordRunes is the letter/digit length above which the long-word
// multiplier applies.
const longWordRunes = 8

// BaseInterval converts a words-per-minute rate into the base display
// interval. The interval is floor(60000/wpm) milliseconds, never less
// than one millisecond. The second return is false when the rate is
// zero or negative, in which case no dwell is defined and nothing
// should be scheduled.
func BaseInterval(wpm int) (time.Duration, bool) {
	if wpm <= 0 {
		return 0, false
	}
	ms := 60000 / wpm
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond, true
}

// Dwell computes how long a token stays on screen. The multiplier
// starts at 1.0; the sentence and comma checks are mutually exclusive
// with sentence taking priority, and the long-word, number and
// paragraph boosts are each max-combined against the running value, so
// only the single largest applicable multiplier wins. The result is
// floor(base × multiplier), clamped up to the profile's sentence or
// comma floor when the token ends one. The second return is false when
// base is not positive, mirroring BaseInterval's undefined case.
func Dwell(tok Token, profile PauseProfile, base time.Duration) (time.Duration, bool) {
	if base <= 0 {
		return 0, false
	}

	mult := 1.0
	sentenceEnd := tok.IsSentenceEnd()
	clauseEnd := tok.IsClauseEnd()

	if sentenceEnd {
		mult = math.Max(mult, profile.Sentence)
	} else if clauseEnd {
		mult = math.Max(mult, profile.Comma)
	}
	if tok.WordLength() > longWordRunes {
		mult = math.Max(mult, profile.LongWord)
	}
	if tok.ContainsDigit() {
		mult = math.Max(mult, profile.Number)
	}
	if tok.IsParagraphEnd {
		mult = math.Max(mult, profile.Paragraph)
	}

	ms := math.Floor(float64(base.Milliseconds()) * mult)
	d := time.Duration(ms) * time.Millisecond

	if sentenceEnd && d < profile.MinSentence {
		d = profile.MinSentence
	} else if clauseEnd && d < profile.MinComma {
		d = profile.MinComma
	}
	return d, true
}
