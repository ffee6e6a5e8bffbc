package normalize

// Built-in stopword and abbreviation tables per language. Backend
// configuration may replace either table wholesale; these are only the
// defaults.

var builtinStopwords = map[string][]string{
	"en": {
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "with", "by", "from", "up", "about", "into",
		"through", "during", "before", "after", "above", "below",
		"between", "among", "throughout",
		"is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did",
		"will", "would", "should", "could", "can", "may", "might",
		"must", "shall",
		"this", "that", "these", "those",
	},
	"es": {
		"el", "la", "los", "las", "un", "una", "unos", "unas",
		"y", "o", "pero", "en", "con", "por", "para", "de", "del",
		"al", "desde", "hasta", "sobre", "bajo", "entre", "durante",
		"antes", "despues", "encima", "debajo",
		"es", "son", "era", "eran", "ser", "sido", "siendo",
		"tener", "tiene", "tenido", "hacer", "hace", "hecho",
		"este", "esta", "estos", "estas", "ese", "esa", "esos", "esas",
		"aquel", "aquella", "aquellos", "aquellas",
	},
}

var builtinExpansions = map[string]map[string]string{
	"en": {
		"oz":  "ounce",
		"lb":  "pound",
		"lbs": "pounds",
		"pkg": "package",
		"ct":  "count",
		"ea":  "each",
		"dz":  "dozen",
		"sm":  "small",
		"md":  "medium",
		"lg":  "large",
		"xl":  "extra large",
		"org": "organic",
		"nat": "natural",
		"ff":  "fat free",
		"lf":  "low fat",
		"nf":  "no fat",
		"sf":  "sugar free",
		"ns":  "no sugar",
		"gf":  "gluten free",
		"df":  "dairy free",
		"veg": "vegetarian",
		"vgn": "vegan",
	},
	"es": {
		"kg":    "kilogramo",
		"gr":    "gramo",
		"ml":    "mililitro",
		"lt":    "litro",
		"pza":   "pieza",
		"pzas":  "piezas",
		"paq":   "paquete",
		"bot":   "botella",
		"org":   "organico",
		"nat":   "natural",
		"desc":  "descremado",
		"light": "ligero",
		"diet":  "dietetico",
	},
}

// defaultLemmatizers picks the lemmatizer backend used when a language does
// not configure one explicitly.
var defaultLemmatizers = map[string]string{
	"en": LemmatizerInflection,
	"es": LemmatizerSnowball,
}
