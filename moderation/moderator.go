package moderation

import (
	"log/slog"
	"sync"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator censors message text against a fixed dictionary.
// A nil matcher means an empty dictionary.
type Moderator struct {
	mu           sync.Mutex
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

type TextMapping struct {
	Normalized []rune
	OrigIdx    []int
}

// NewModerator initializes the Aho-Corasick automaton with a normalized version of the provided censored words list.
// Words made only of noise normalize to nothing and are skipped.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	seen := make(map[string]struct{}, len(censoredWords))
	for _, word := range censoredWords {
		p := normalize(word).Normalized
		if len(p) == 0 {
			continue
		}
		if _, dup := seen[string(p)]; dup {
			continue
		}
		seen[string(p)] = struct{}{}
		patterns = append(patterns, p)
	}

	log.Debug("moderation.dictionary.build", "words", len(patterns))
	if len(patterns) == 0 {
		return &Moderator{censoredChar: censoredChar, log: log}, nil
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, censoredChar: censoredChar, log: log}, nil
}

// Censor replaces every forbidden pattern with the censored character while preserving spacing.
// It returns the censored text and the matched dictionary words, nil when nothing matched.
func (m *Moderator) Censor(original string) (string, []string) {
	if m == nil || m.matcher == nil {
		return original, nil
	}
	mapping := normalize(original)
	if len(mapping.Normalized) == 0 {
		return original, nil
	}

	m.mu.Lock()
	spans := m.matcher.MultiPatternSearch(mapping.Normalized, false)
	m.mu.Unlock()
	if len(spans) == 0 {
		return original, nil
	}

	origRunes := []rune(original)
	words := make([]string, 0, len(spans))
	for _, span := range spans {
		normStart := span.Pos
		normEnd := normStart + len(span.Word)
		if normStart < 0 || normEnd > len(mapping.OrigIdx) {
			continue
		}

		origStart := mapping.OrigIdx[normStart]
		origEnd := mapping.OrigIdx[normEnd-1] + 1
		for i := origStart; i < origEnd; i++ {
			origRunes[i] = m.censoredChar
		}
		words = append(words, string(span.Word))
	}
	if len(words) == 0 {
		return original, nil
	}
	m.log.Debug("moderation.censor", "matches", len(words))
	return string(origRunes), words
}

// normalize folds the input into its searchable form and records, for each kept rune,
// its index in the original text.
func normalize(input string) TextMapping {
	origRunes := []rune(input)
	mapping := TextMapping{
		Normalized: make([]rune, 0, len(origRunes)),
		OrigIdx:    make([]int, 0, len(origRunes)),
	}
	for i, r := range origRunes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		mapping.Normalized = append(mapping.Normalized, unicode.ToLower(clean))
		mapping.OrigIdx = append(mapping.OrigIdx, i)
	}
	return mapping
}

// simplifyRune maps common leet speak characters back to letters.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
