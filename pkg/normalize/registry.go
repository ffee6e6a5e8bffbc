package normalize

import (
	"fmt"
	"sort"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
)

// Options configures a language normalizer. Zero-value fields fall back to
// the language built-ins; a non-nil Stopwords or Expansions table replaces
// the built-in one entirely.
type Options struct {
	Lemmatizer string
	Stopwords  []string
	Expansions map[string]string
}

// Registry holds the normalizer for every supported language. It is
// populated once at startup; asking for an unregistered language is a
// configuration error, never a silent fallback.
type Registry struct {
	normalizers map[string]*Normalizer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{normalizers: make(map[string]*Normalizer)}
}

// Register builds and registers the normalizer for a language.
func (r *Registry) Register(language string, opts Options) error {
	lemName := opts.Lemmatizer
	if lemName == "" {
		lemName = defaultLemmatizers[language]
		if lemName == "" {
			lemName = LemmatizerNone
		}
	}
	lemmatizer, err := NewLemmatizer(lemName, language)
	if err != nil {
		return fmt.Errorf("language %q: %w", language, err)
	}

	stopwords := opts.Stopwords
	if stopwords == nil {
		stopwords = builtinStopwords[language]
	}
	expansions := opts.Expansions
	if expansions == nil {
		expansions = builtinExpansions[language]
	}

	r.normalizers[language] = New(lemmatizer, stopwords, expansions)
	return nil
}

// Get returns the normalizer for a language.
func (r *Registry) Get(language string) (*Normalizer, error) {
	n, ok := r.normalizers[language]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedLanguage, language)
	}
	return n, nil
}

// Languages lists the registered language codes, sorted.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.normalizers))
	for lang := range r.normalizers {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// ClearCaches empties every normalizer's memoization cache.
func (r *Registry) ClearCaches() {
	for _, n := range r.normalizers {
		n.ClearCache()
	}
}
