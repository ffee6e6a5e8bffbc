package normalize

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer turns free text into an ordered token sequence for one
// language: accent stripping, lemmatization through the injected backend,
// then token post-processing (symbol cleanup, digit/letter splitting,
// Roman-numeral and numeric drops, abbreviation expansion, stopword
// removal).
//
// Normalize is a pure function of (text, configuration), so results are
// memoized per instance keyed on the exact input string. The cache is
// append-only and guarded by a mutex; ClearCache empties it.
type Normalizer struct {
	lemmatizer Lemmatizer
	stopwords  map[string]struct{}
	expansions map[string]string

	mu    sync.Mutex
	cache map[string][]string
}

// New builds a Normalizer. The stopword and expansion tables are used
// exactly as given: callers overriding the language built-ins replace them
// entirely, they are never merged.
func New(lemmatizer Lemmatizer, stopwords []string, expansions map[string]string) *Normalizer {
	sw := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		sw[w] = struct{}{}
	}
	exp := make(map[string]string, len(expansions))
	for k, v := range expansions {
		exp[k] = v
	}
	return &Normalizer{
		lemmatizer: lemmatizer,
		stopwords:  sw,
		expansions: exp,
		cache:      make(map[string][]string),
	}
}

// Normalize returns the normalized token sequence for text.
func (n *Normalizer) Normalize(text string) []string {
	n.mu.Lock()
	if cached, ok := n.cache[text]; ok {
		n.mu.Unlock()
		return append([]string(nil), cached...)
	}
	n.mu.Unlock()

	tokens := n.normalize(text)

	n.mu.Lock()
	n.cache[text] = tokens
	n.mu.Unlock()

	return append([]string(nil), tokens...)
}

// Joined returns Normalize(text) rejoined with single spaces, the display
// form stored as normalized_text.
func (n *Normalizer) Joined(text string) string {
	return strings.Join(n.Normalize(text), " ")
}

// ClearCache drops all memoized results.
func (n *Normalizer) ClearCache() {
	n.mu.Lock()
	n.cache = make(map[string][]string)
	n.mu.Unlock()
}

// CacheSize reports the number of memoized inputs, for instrumentation.
func (n *Normalizer) CacheSize() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.cache)
}

func (n *Normalizer) normalize(text string) []string {
	cleaned := foldText(text)
	if cleaned == "" {
		return nil
	}
	lemmas := n.lemmatizer.Lemmatize(cleaned)
	return n.postProcess(lemmas)
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases, strips accents and replaces anything that is not a
// letter or digit with a space, collapsing runs of whitespace.
func foldText(text string) string {
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(accentStripper, text); err == nil {
		text = stripped
	}

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

var romanNumeralRe = regexp.MustCompile(`^[ivxlcdm]+$`)

// postProcess applies the per-token cleanup stages in order: residual
// symbol stripping, digit/letter splitting, Roman-numeral and pure-numeric
// drops, abbreviation expansion, stopword removal, empty-token removal.
func (n *Normalizer) postProcess(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = stripSymbols(token)
		for _, part := range splitDigitsLetters(token) {
			if part == "" || romanNumeralRe.MatchString(part) || isNumeric(part) {
				continue
			}
			if expanded, ok := n.expansions[part]; ok {
				part = expanded
			}
			if _, stop := n.stopwords[part]; stop || part == "" {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

// stripSymbols drops every rune that is not a letter or digit. Lemmatizer
// backends may reintroduce symbol characters (apostrophes in contractions,
// for example), so this runs again per token.
func stripSymbols(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitDigitsLetters splits a token mixing digits and letters into its
// homogeneous runs, so "750ml" becomes ["750", "ml"] and the unit can be
// expanded while the amount is dropped as numeric.
func splitDigitsLetters(token string) []string {
	if token == "" {
		return nil
	}
	runes := []rune(token)
	parts := make([]string, 0, 2)
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) || unicode.IsDigit(runes[i]) != unicode.IsDigit(runes[i-1]) {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return parts
}

func isNumeric(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(token) > 0
}
