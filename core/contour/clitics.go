package contour

import (
	"strings"

	"github.com/strophic/responsion/core/accent"
)

// Clitic lookups run on raw syllable text: fold strips everything that
// cannot carry an accent, lowercases, and levels final sigma, then the
// whole folded text must spell the clitic. Accents are kept, so the
// temporal adverb νῦν never matches the enclitic νυν and the article τοῦ
// never matches the indefinite του.
func fold(text string) string {
	folded := strings.ToLower(accent.Normalize(text))
	return strings.ReplaceAll(folded, "ς", "σ")
}

func table(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[fold(w)] = true
	}
	return set
}

// Enclitics lean on the preceding word for their accent. Only forms that
// fit inside one syllable are listed; a disyllabic enclitic never spells a
// whole syllable text, so it can never satisfy the lookup.
var enclitics = table(
	"μου", "μοι", "με", "σου", "σοι", "σε", "νιν", "σφε", "σφιν",
	"τις", "τι", "του", "τῳ",
	"που", "πῃ", "ποι", "πω", "πως",
	"γε", "τε", "τοι", "περ", "νυν",
)

// Proclitics attach to the following word: the unaccented article forms,
// the proclitic prepositions, and εἰ, ὡς, οὐ.
var proclitics = table(
	"ὁ", "ἡ", "οἱ", "αἱ",
	"ἐν", "εἰς", "ἐς", "ἐκ", "ἐξ",
	"εἰ", "ὡς", "οὐ", "οὐκ", "οὐχ",
)

// IsEnclitic reports whether the syllable text spells a whole enclitic.
func IsEnclitic(text string) bool {
	return enclitics[fold(text)]
}

// IsProclitic reports whether the syllable text spells a whole proclitic.
func IsProclitic(text string) bool {
	return proclitics[fold(text)]
}
