package profanity

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonrelay/backend/internal/repository"
)

func testMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(repository.NewMemoryLexiconStore(), 3)
	require.NoError(t, err)
	return m
}

func TestClassifyEnglish(t *testing.T) {
	m := testMatcher(t)

	flagged, terms := m.Classify("This is fuck.")
	assert.True(t, flagged)
	assert.Contains(t, terms, "fuck")

	flagged, terms = m.Classify("have a nice day")
	assert.False(t, flagged)
	assert.Empty(t, terms)
}

func TestClassifyEmptyText(t *testing.T) {
	m := testMatcher(t)

	flagged, terms := m.Classify("")
	assert.False(t, flagged)
	assert.Nil(t, terms)
}

func TestClassifyWordBoundaries(t *testing.T) {
	m := testMatcher(t)

	// "crap" is in the list but "scrap" must not match it
	flagged, _ := m.Classify("scrap metal for sale")
	assert.False(t, flagged)

	flagged, terms := m.Classify("what a load of crap")
	assert.True(t, flagged)
	assert.Contains(t, terms, "crap")
}

func TestClassifyStretchedSpelling(t *testing.T) {
	m := testMatcher(t)

	flagged, terms := m.Classify("fuuuuck this")
	assert.True(t, flagged)
	assert.Contains(t, terms, "fuck")
}

func TestClassifyObfuscatedSpelling(t *testing.T) {
	m := testMatcher(t)

	flagged, terms := m.Classify("f*u*c*k you")
	assert.True(t, flagged)
	assert.Contains(t, terms, "fuck")
}

func TestClassifyPersianSubstring(t *testing.T) {
	m := testMatcher(t)

	// Arabic-script Persian matches inside compounds, no word boundary
	flagged, terms := m.Classify("این متن کیرخور است")
	assert.True(t, flagged)
	assert.Contains(t, terms, "کیر")
}

func TestClassifyPersianLatin(t *testing.T) {
	m := testMatcher(t)

	flagged, terms := m.Classify("to ye jende hasti")
	assert.True(t, flagged)
	assert.Contains(t, terms, "jende")
}

func TestSeverityScoring(t *testing.T) {
	m := testMatcher(t)

	// one term carrying a high-severity root: 2 + 3
	assert.Equal(t, 5, m.Severity("This is fuck."))

	// one plain term: 2
	assert.Equal(t, 2, m.Severity("you are so dumb"))

	assert.Equal(t, 0, m.Severity("perfectly clean text"))
}

func TestSeverityClipsAtTen(t *testing.T) {
	m := testMatcher(t)

	sev := m.Severity("fuck shit bitch damn crap stupid idiot")
	assert.Equal(t, 10, sev)
}

func TestScreenThreshold(t *testing.T) {
	m := testMatcher(t)

	verdict := m.Screen("you are so dumb")
	assert.True(t, verdict.Flagged)
	assert.Equal(t, 2, verdict.Severity)

	verdict = m.Screen("nothing wrong here")
	assert.False(t, verdict.Flagged)
	assert.Equal(t, 0, verdict.Severity)
}

func TestCensorPreservesLength(t *testing.T) {
	m := testMatcher(t)

	assert.Equal(t, "This is ****.", m.Censor("This is fuck.", '*'))

	// Clean text passes through untouched
	assert.Equal(t, "hello world", m.Censor("hello world", '*'))
	assert.Equal(t, "", m.Censor("", '*'))
}

func TestCensorPersianRuneLength(t *testing.T) {
	m := testMatcher(t)

	// The matched span inside the compound is masked per rune, not per byte
	in := "این کیرخور است"
	out := m.Censor(in, '*')
	assert.Equal(t, "این ***خور است", out)
	assert.Equal(t, utf8.RuneCountInString(in), utf8.RuneCountInString(out))
}

func TestAddRemoveWordRoundTrip(t *testing.T) {
	m := testMatcher(t)

	flagged, _ := m.Classify("this is grommish")
	require.False(t, flagged)

	require.NoError(t, m.AddWord("grommish", LangEnglish))
	flagged, terms := m.Classify("this is grommish")
	assert.True(t, flagged)
	assert.Contains(t, terms, "grommish")

	removed, err := m.RemoveWord("grommish", LangEnglish)
	require.NoError(t, err)
	assert.True(t, removed)

	flagged, _ = m.Classify("this is grommish")
	assert.False(t, flagged)
}

func TestAddWordNormalizes(t *testing.T) {
	m := testMatcher(t)

	require.NoError(t, m.AddWord("  GROMMISH  ", LangEnglish))
	flagged, terms := m.Classify("grommish indeed")
	assert.True(t, flagged)
	assert.Contains(t, terms, "grommish")
}

func TestUnknownLanguage(t *testing.T) {
	m := testMatcher(t)

	err := m.AddWord("mot", "french")
	assert.ErrorContains(t, err, "unknown")

	_, err = m.RemoveWord("mot", "french")
	assert.Error(t, err)

	_, err = m.Words("french")
	assert.Error(t, err)
}

func TestRemoveAbsentWord(t *testing.T) {
	m := testMatcher(t)

	removed, err := m.RemoveWord("neverthere", LangEnglish)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEmptyWordRejected(t *testing.T) {
	m := testMatcher(t)

	assert.ErrorIs(t, m.AddWord("   ", LangEnglish), ErrEmptyWord)
	_, err := m.RemoveWord("", LangEnglish)
	assert.ErrorIs(t, err, ErrEmptyWord)
}

func TestWordsSorted(t *testing.T) {
	m := testMatcher(t)

	words, err := m.Words(LangEnglish)
	require.NoError(t, err)
	require.NotEmpty(t, words)
	for i := 1; i < len(words); i++ {
		assert.LessOrEqual(t, words[i-1], words[i])
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "fuck", Slugify("F*U*C*K"))
	assert.Equal(t, "helloworld", Slugify("Hello, World!"))
	assert.Equal(t, "cafe", Slugify("café"))
}
