package profanity

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/anonrelay/backend/internal/models"
)

// ErrEmptyWord is returned when an add/remove call carries a blank word.
var ErrEmptyWord = errors.New("lexicon word must not be empty")

// Store persists per-language word lists. Words arrive lower-cased and
// trimmed; the store enforces (language, word) uniqueness.
type Store interface {
	Load() (map[string][]string, error)
	Add(language, word string) error
	Remove(language, word string) (bool, error)
}

// ScreenResult is the combined verdict consumed by the transport layer.
// Flagged folds in the severity soft-block: a text whose score exceeds the
// configured threshold is blocked even without an exact dictionary match.
type ScreenResult struct {
	Flagged  bool     `json:"flagged"`
	Severity int      `json:"severity"`
	Matched  []string `json:"matched,omitempty"`
}

// compiled is the read-only matching state. Writers build a fresh one and
// install it atomically, so a concurrent Classify never sees a half-updated
// pattern set.
type compiled struct {
	dictionary map[string]*regexp.Regexp
	stretch    []stretchPattern
}

type stretchPattern struct {
	root string
	re   *regexp.Regexp
}

// Matcher classifies text against the multi-language lexicon.
//
// Arabic-script Persian deliberately matches substrings rather than whole
// tokens: compound and declined profanity attaches to the root without
// whitespace, so the looser rule is accepted policy despite the false
// positives it can produce.
type Matcher struct {
	store     Store
	threshold int

	mu    sync.Mutex // serializes writers; readers go through view
	words map[string]map[string]struct{}

	view atomic.Pointer[compiled]
}

// NewMatcher loads the lexicon from the store, seeding defaults when the
// store is empty, and compiles the initial matching view.
func NewMatcher(store Store, severityThreshold int) (*Matcher, error) {
	m := &Matcher{
		store:     store,
		threshold: severityThreshold,
		words:     make(map[string]map[string]struct{}),
	}
	for lang := range boundaryLanguages {
		m.words[lang] = make(map[string]struct{})
	}

	loaded, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}

	empty := true
	for lang, list := range loaded {
		if !KnownLanguage(lang) {
			continue
		}
		for _, w := range list {
			w = normalizeWord(w)
			if w == "" {
				continue
			}
			m.words[lang][w] = struct{}{}
			empty = false
		}
	}

	if empty {
		for lang, list := range DefaultLexicon() {
			for _, w := range list {
				w = normalizeWord(w)
				if err := store.Add(lang, w); err != nil {
					return nil, fmt.Errorf("failed to seed lexicon: %w", err)
				}
				m.words[lang][w] = struct{}{}
			}
		}
	}

	m.view.Store(m.compile())
	return m, nil
}

// Classify reports whether text contains profanity and which dictionary
// terms matched. Empty text is never flagged.
func (m *Matcher) Classify(text string) (bool, []string) {
	if text == "" {
		return false, nil
	}

	v := m.view.Load()
	found := make(map[string]struct{})

	for _, re := range v.dictionary {
		for _, match := range re.FindAllString(text, -1) {
			match = strings.ToLower(strings.TrimSpace(match))
			if match != "" {
				found[match] = struct{}{}
			}
		}
	}

	slug := Slugify(text)
	for _, sp := range v.stretch {
		if sp.re.MatchString(slug) {
			found[sp.root] = struct{}{}
		}
	}

	if len(found) == 0 {
		return false, nil
	}

	terms := make([]string, 0, len(found))
	for t := range found {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return true, terms
}

// Severity scores text 0..10: two points per distinct matched term plus
// three per term containing a high-severity root, clipped at 10.
func (m *Matcher) Severity(text string) int {
	_, terms := m.Classify(text)
	return scoreTerms(terms)
}

// Screen is the combined surface: a hard dictionary flag or a severity score
// above the configured threshold blocks the text.
func (m *Matcher) Screen(text string) ScreenResult {
	flagged, terms := m.Classify(text)
	sev := scoreTerms(terms)
	return ScreenResult{
		Flagged:  flagged || sev > m.threshold,
		Severity: sev,
		Matched:  terms,
	}
}

// Censor replaces every dictionary-matched span with the mask rune repeated
// to the span's rune length. Stretched/obfuscated spans are not masked; they
// only influence Classify and Severity.
func (m *Matcher) Censor(text string, mask rune) string {
	if text == "" {
		return text
	}

	v := m.view.Load()
	out := text
	for _, re := range v.dictionary {
		out = re.ReplaceAllStringFunc(out, func(s string) string {
			return strings.Repeat(string(mask), utf8.RuneCountInString(s))
		})
	}
	return out
}

// AddWord persists a new word for the language and atomically installs a
// recompiled view. Unknown languages are a named failure, not a silent no-op.
func (m *Matcher) AddWord(word, language string) error {
	if !KnownLanguage(language) {
		return models.ErrUnknownLanguage
	}
	word = normalizeWord(word)
	if word == "" {
		return ErrEmptyWord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.words[language][word]; ok {
		return nil
	}
	// Persist first: on storage failure the compiled view stays consistent
	// with what is actually stored.
	if err := m.store.Add(language, word); err != nil {
		return fmt.Errorf("failed to persist lexicon word: %w", err)
	}
	m.words[language][word] = struct{}{}
	m.view.Store(m.compile())
	return nil
}

// RemoveWord deletes a word from the language list. It reports false when
// the word was absent.
func (m *Matcher) RemoveWord(word, language string) (bool, error) {
	if !KnownLanguage(language) {
		return false, models.ErrUnknownLanguage
	}
	word = normalizeWord(word)
	if word == "" {
		return false, ErrEmptyWord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.words[language][word]; !ok {
		return false, nil
	}
	removed, err := m.store.Remove(language, word)
	if err != nil {
		return false, fmt.Errorf("failed to remove lexicon word: %w", err)
	}
	delete(m.words[language], word)
	m.view.Store(m.compile())
	return removed, nil
}

// Words returns the current word list for a language, sorted.
func (m *Matcher) Words(language string) ([]string, error) {
	if !KnownLanguage(language) {
		return nil, models.ErrUnknownLanguage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]string, 0, len(m.words[language]))
	for w := range m.words[language] {
		list = append(list, w)
	}
	sort.Strings(list)
	return list, nil
}

// compile builds a fresh read-only view from the current word sets.
// Callers must hold mu (or be the constructor).
func (m *Matcher) compile() *compiled {
	v := &compiled{dictionary: make(map[string]*regexp.Regexp)}

	for lang, set := range m.words {
		if len(set) == 0 {
			continue
		}
		words := make([]string, 0, len(set))
		for w := range set {
			words = append(words, w)
		}
		// Longest first so alternation prefers the full compound over a
		// prefix of it, keeping censor spans complete.
		sort.Slice(words, func(i, j int) bool {
			if len(words[i]) != len(words[j]) {
				return len(words[i]) > len(words[j])
			}
			return words[i] < words[j]
		})
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}

		var pattern string
		if boundaryLanguages[lang] {
			pattern = `(?i)\b(?:` + strings.Join(words, "|") + `)\b`
		} else {
			pattern = `(?i)(?:` + strings.Join(words, "|") + `)`
		}
		v.dictionary[lang] = regexp.MustCompile(pattern)
	}

	v.stretch = make([]stretchPattern, 0, len(stretchRoots))
	for _, root := range stretchRoots {
		var b strings.Builder
		b.WriteString(`(?i)`)
		for _, r := range root {
			b.WriteString(regexp.QuoteMeta(string(r)))
			b.WriteByte('+')
		}
		v.stretch = append(v.stretch, stretchPattern{
			root: root,
			re:   regexp.MustCompile(b.String()),
		})
	}

	return v
}

func scoreTerms(terms []string) int {
	if len(terms) == 0 {
		return 0
	}
	score := 2 * len(terms)
	for _, term := range terms {
		for _, root := range highSeverityRoots {
			if strings.Contains(term, root) {
				score += 3
				break
			}
		}
	}
	if score > 10 {
		score = 10
	}
	return score
}

var nonSlugChars = regexp.MustCompile(`[^\pL\pN]+`)

// Slugify lower-cases text, strips combining marks and removes every
// non-letter, non-digit rune. Symbol-separated obfuscation collapses onto
// the stretched-repetition patterns this way.
func Slugify(text string) string {
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	bare := nonSlugChars.ReplaceAllString(text, "")
	folded, _, err := transform.String(normFunc, bare)
	if err != nil {
		folded = bare
	}
	return strings.ToLower(folded)
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
