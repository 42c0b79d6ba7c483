package reader

import (
	"fmt"
	"sort"
	"time"
)

// PauseProfile is a named set of timing multipliers applied per
// punctuation, length and paragraph context. Profiles are constant data
// and are selected by name.
type PauseProfile struct {
	Name string

	Sentence  float64
	Comma     float64
	Paragraph float64
	LongWord  float64
	Number    float64

	MinSentence time.Duration
	MinComma    time.Duration
}

var profiles = map[string]PauseProfile{
	"relaxed": {
		Name:        "relaxed",
		Sentence:    3.5,
		Comma:       2.2,
		Paragraph:   4.0,
		LongWord:    1.6,
		Number:      2.0,
		MinSentence: 450 * time.Millisecond,
		MinComma:    250 * time.Millisecond,
	},
	"normal": {
		Name:        "normal",
		Sentence:    3.0,
		Comma:       1.8,
		Paragraph:   3.5,
		LongWord:    1.4,
		Number:      1.8,
		MinSentence: 300 * time.Millisecond,
		MinComma:    180 * time.Millisecond,
	},
	"brisk": {
		Name:        "brisk",
		Sentence:    2.0,
		Comma:       1.4,
		Paragraph:   2.5,
		LongWord:    1.2,
		Number:      1.4,
		MinSentence: 200 * time.Millisecond,
		MinComma:    120 * time.Millisecond,
	},
}

// DefaultProfileName is used when no profile is configured.
const DefaultProfileName = "normal"

// ProfileByName looks up a pause profile. Unknown names return a
// ConfigurationError.
func ProfileByName(name string) (PauseProfile, error) {
	p, ok := profiles[name]
	if !ok {
		return PauseProfile{}, &ReaderError{
			Err:       fmt.Errorf("%w: unknown pause profile %q", ErrUnknownProfile, name),
			Component: "pacing",
			Action:    "select_profile",
			Severity:  SeverityError,
		}
	}
	return p, nil
}

// ProfileNames returns the available profile names, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
