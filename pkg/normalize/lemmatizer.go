package normalize

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/kljensen/snowball"
	"github.com/surgebase/porter2"
)

// Lemmatizer reduces the words of an already-cleaned text to their canonical
// form, one lemma per word. Punctuation and whitespace never reach it; the
// normalizer strips those beforehand.
type Lemmatizer interface {
	Lemmatize(text string) []string
}

// Lemmatizer backend names accepted in language configuration.
const (
	LemmatizerInflection = "inflection"
	LemmatizerPorter2    = "porter2"
	LemmatizerSnowball   = "snowball"
	LemmatizerNone       = "none"
)

// NewLemmatizer builds a lemmatizer backend by name. The snowball backend
// needs the language to pick its stemmer; the others ignore it.
func NewLemmatizer(name, language string) (Lemmatizer, error) {
	switch name {
	case LemmatizerInflection:
		return inflectionLemmatizer{}, nil
	case LemmatizerPorter2:
		return porterLemmatizer{}, nil
	case LemmatizerSnowball:
		lang, ok := snowballLanguages[language]
		if !ok {
			return nil, fmt.Errorf("snowball lemmatizer does not support language %q", language)
		}
		return snowballLemmatizer{language: lang}, nil
	case LemmatizerNone:
		return noopLemmatizer{}, nil
	default:
		return nil, fmt.Errorf("unknown lemmatizer backend %q", name)
	}
}

// snowballLanguages maps our language codes to snowball stemmer names.
var snowballLanguages = map[string]string{
	"en": "english",
	"es": "spanish",
}

// inflectionLemmatizer singularizes plural nouns. Gentle enough that lemmas
// stay readable in normalized_input shown to humans.
type inflectionLemmatizer struct{}

func (inflectionLemmatizer) Lemmatize(text string) []string {
	words := strings.Fields(text)
	lemmas := make([]string, 0, len(words))
	for _, w := range words {
		lemmas = append(lemmas, inflection.Singular(w))
	}
	return lemmas
}

// porterLemmatizer applies Porter2 stemming. More aggressive than
// singularization; the stems are consistent across query and alias so
// scoring is unaffected.
type porterLemmatizer struct{}

func (porterLemmatizer) Lemmatize(text string) []string {
	words := strings.Fields(text)
	lemmas := make([]string, 0, len(words))
	for _, w := range words {
		lemmas = append(lemmas, porter2.Stem(w))
	}
	return lemmas
}

type snowballLemmatizer struct {
	language string
}

func (l snowballLemmatizer) Lemmatize(text string) []string {
	words := strings.Fields(text)
	lemmas := make([]string, 0, len(words))
	for _, w := range words {
		stemmed, err := snowball.Stem(w, l.language, false)
		if err != nil {
			// Language is validated at construction; per-word failure
			// means the word passes through unstemmed.
			stemmed = w
		}
		lemmas = append(lemmas, stemmed)
	}
	return lemmas
}

type noopLemmatizer struct{}

func (noopLemmatizer) Lemmatize(text string) []string {
	return strings.Fields(text)
}
